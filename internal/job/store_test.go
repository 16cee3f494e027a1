package job

import "testing"

func TestLifecycleTransitions(t *testing.T) {
	s := NewStore()
	s.Create("j1", "p1")

	for _, status := range []Status{StatusPreparing, StatusDownloading, StatusRendering} {
		if err := s.SetStatus("j1", status); err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
	}
	if err := s.Complete("j1", "/out/video.mp4"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	j, ok := s.Get("j1")
	if !ok || j.Status != StatusDone || j.Progress != 100 {
		t.Fatalf("unexpected terminal record: %+v", j)
	}
}

func TestTerminalStateIsFinal(t *testing.T) {
	s := NewStore()
	s.Create("j1", "p1")
	if err := s.Fail("j1", "encoder exited with code 1"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	if err := s.SetStatus("j1", StatusRendering); err == nil {
		t.Fatalf("expected transition out of error to be rejected")
	}
	if err := s.Complete("j1", "/out/video.mp4"); err == nil {
		t.Fatalf("expected completion after error to be rejected")
	}

	s.Progress("j1", 99, "rendering")
	j, _ := s.Get("j1")
	if j.Progress != 0 || j.Status != StatusError {
		t.Fatalf("progress after terminal state should be dropped: %+v", j)
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	s := NewStore()
	s.Create("j1", "p1")

	s.Progress("j1", 40, "downloading assets")
	s.Progress("j1", 30, "downloading assets")
	s.Progress("j1", 55, "encoding")

	j, _ := s.Get("j1")
	if j.Progress != 55 {
		t.Fatalf("progress = %d, want 55", j.Progress)
	}
	if j.Stage != "encoding" {
		t.Fatalf("stage = %q, want encoding", j.Stage)
	}

	s.Progress("j1", 150, "encoding")
	j, _ = s.Get("j1")
	if j.Progress != 100 {
		t.Fatalf("progress should clamp at 100, got %d", j.Progress)
	}
}

func TestRecreateResetsRecord(t *testing.T) {
	s := NewStore()
	s.Create("j1", "p1")
	_ = s.Fail("j1", "boom")

	s.Create("j1", "p1")
	j, _ := s.Get("j1")
	if j.Status != StatusQueued || j.Error != "" {
		t.Fatalf("recreate should reset the record: %+v", j)
	}
}

func TestListOrdersByCreation(t *testing.T) {
	s := NewStore()
	s.Create("a", "p1")
	s.Create("b", "p2")
	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
}
