package job

import "time"

// Status is the externally visible lifecycle state of one render job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusPreparing   Status = "preparing"
	StatusDownloading Status = "downloading"
	StatusRendering   Status = "rendering"
	StatusDone        Status = "done"
	StatusError       Status = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Job is the status record for one render invocation, polled by the
// surrounding product while the engine reports through its callback.
type Job struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Status     Status    `json:"status"`
	Progress   int       `json:"progress"`
	Stage      string    `json:"stage"`
	Error      string    `json:"error,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
