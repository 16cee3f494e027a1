package job

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store holds render job records for the lifetime of the process. It is an
// explicitly owned dependency: construct one at startup and inject it into
// whatever serves status polls. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
	now  func() time.Time
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{
		jobs: map[string]*Job{},
		now:  time.Now,
	}
}

// Create registers a new queued job. Re-creating an existing id resets the
// record, which is how a retry for the same project starts over.
func (s *Store) Create(id, projectID string) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := &Job{
		ID:        id,
		ProjectID: projectID,
		Status:    StatusQueued,
		Stage:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[id] = j
	return *j
}

// Get returns a snapshot of the job record.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns snapshots of all jobs ordered by creation time.
func (s *Store) List() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out
}

// SetStatus moves the job to a new lifecycle state. Transitions out of a
// terminal state are rejected; a job cannot leave done or error.
func (s *Store) SetStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %q not found", id)
	}
	if j.Status.Terminal() {
		return fmt.Errorf("job %q is already %s", id, j.Status)
	}
	j.Status = status
	j.UpdatedAt = s.now()
	return nil
}

// Progress records a callback update. Percent is clamped so the visible
// sequence is monotonically non-decreasing; updates after a terminal state
// are dropped.
func (s *Store) Progress(id string, percent int, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status.Terminal() {
		return
	}
	if percent > 100 {
		percent = 100
	}
	if percent > j.Progress {
		j.Progress = percent
	}
	if stage != "" {
		j.Stage = stage
	}
	j.UpdatedAt = s.now()
}

// Complete marks the job done with the final output location.
func (s *Store) Complete(id, outputPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %q not found", id)
	}
	if j.Status.Terminal() {
		return fmt.Errorf("job %q is already %s", id, j.Status)
	}
	j.Status = StatusDone
	j.Progress = 100
	j.Stage = "done"
	j.OutputPath = outputPath
	j.UpdatedAt = s.now()
	return nil
}

// Fail marks the job errored with a caller-readable message.
func (s *Store) Fail(id, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %q not found", id)
	}
	if j.Status.Terminal() {
		return fmt.Errorf("job %q is already %s", id, j.Status)
	}
	j.Status = StatusError
	j.Stage = "error"
	j.Error = message
	j.UpdatedAt = s.now()
	return nil
}
