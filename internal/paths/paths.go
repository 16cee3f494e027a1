package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace captures the root directory under which every render job gets an
// isolated working directory.
type Workspace struct {
	Root string
}

// JobPaths captures canonical locations inside one render job's working
// directory. Every path is owned exclusively by that job until deferred
// cleanup runs.
type JobPaths struct {
	JobID     string
	Dir       string
	ImagesDir string
	AudioDir  string
	TextDir   string
	LogsDir   string
}

// Resolve determines the workspace root from the optional --workdir flag, the
// configured directory, or a directory under the system temp dir when both
// are empty.
func Resolve(flagValue, configured string) (Workspace, error) {
	root := strings.TrimSpace(flagValue)
	if root == "" {
		root = strings.TrimSpace(configured)
	}
	if root == "" {
		root = filepath.Join(os.TempDir(), "promoreel")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Workspace{}, fmt.Errorf("resolve workspace root: %w", err)
	}
	return Workspace{Root: abs}, nil
}

// Job returns the path set for a single render job keyed by job id. Jobs
// live under jobs/ so they can never collide with workspace-level state
// like the asset cache.
func (w Workspace) Job(jobID string) JobPaths {
	dir := filepath.Join(w.Root, "jobs", sanitizeComponent(jobID))
	return JobPaths{
		JobID:     jobID,
		Dir:       dir,
		ImagesDir: filepath.Join(dir, "images"),
		AudioDir:  filepath.Join(dir, "audio"),
		TextDir:   filepath.Join(dir, "text"),
		LogsDir:   filepath.Join(dir, "logs"),
	}
}

// CacheDir returns the cross-job asset cache directory.
func (w Workspace) CacheDir() string {
	return filepath.Join(w.Root, "cache")
}

// EnsureDirs creates the job's directory tree.
func (p JobPaths) EnsureDirs() error {
	for _, dir := range []string{p.Dir, p.ImagesDir, p.AudioDir, p.TextDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure job directory %s: %w", dir, err)
		}
	}
	return nil
}

// PartialOutput returns the temporary encode target for the given final
// output path. The final location only ever sees a fully written file.
func (p JobPaths) PartialOutput(finalPath string) string {
	base := filepath.Base(finalPath)
	ext := filepath.Ext(base)
	// Keep the container extension so the encoder can infer the format.
	return filepath.Join(p.Dir, strings.TrimSuffix(base, ext)+".partial"+ext)
}

// FileExists reports whether the path exists as a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// sanitizeComponent strips path separators so a job id can never escape the
// workspace root.
func sanitizeComponent(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "job"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", ":", "_")
	return replacer.Replace(value)
}
