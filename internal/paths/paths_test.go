package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePrecedence(t *testing.T) {
	ws, err := Resolve("/tmp/flagged", "/tmp/configured")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if ws.Root != "/tmp/flagged" {
		t.Fatalf("flag should win, got %q", ws.Root)
	}

	ws, err = Resolve("", "/tmp/configured")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if ws.Root != "/tmp/configured" {
		t.Fatalf("configured should win, got %q", ws.Root)
	}

	ws, err = Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !strings.Contains(ws.Root, "promoreel") {
		t.Fatalf("fallback root should live under temp, got %q", ws.Root)
	}
}

func TestJobPathsAreIsolatedPerJob(t *testing.T) {
	ws := Workspace{Root: t.TempDir()}

	a := ws.Job("job-a")
	b := ws.Job("job-b")
	if a.Dir == b.Dir {
		t.Fatalf("jobs must not share directories")
	}
	if filepath.Dir(a.Dir) != filepath.Join(ws.Root, "jobs") {
		t.Fatalf("job dir should sit under jobs/: %q", a.Dir)
	}
}

func TestCacheDirDoesNotCollideWithJobs(t *testing.T) {
	ws := Workspace{Root: t.TempDir()}
	if ws.CacheDir() == ws.Job("cache").Dir {
		t.Fatal("cache dir must be outside job space")
	}
}

func TestJobSanitizesID(t *testing.T) {
	ws := Workspace{Root: t.TempDir()}
	p := ws.Job("../evil/id")
	if !strings.HasPrefix(p.Dir, ws.Root) {
		t.Fatalf("job id escaped workspace: %q", p.Dir)
	}
}

func TestEnsureDirs(t *testing.T) {
	ws := Workspace{Root: t.TempDir()}
	p := ws.Job("proj-1")
	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs error: %v", err)
	}
	for _, dir := range []string{p.ImagesDir, p.AudioDir, p.TextDir, p.LogsDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestPartialOutputKeepsExtension(t *testing.T) {
	ws := Workspace{Root: t.TempDir()}
	p := ws.Job("proj-1")
	got := p.PartialOutput("/var/out/video.mp4")
	if filepath.Ext(got) != ".mp4" {
		t.Fatalf("partial output should keep container extension, got %q", got)
	}
	if filepath.Dir(got) != p.Dir {
		t.Fatalf("partial output should live in job dir, got %q", got)
	}
}
