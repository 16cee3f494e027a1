package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Status reports the discovery outcome for one encoder binary.
type Status struct {
	Tool    string
	Path    string
	Version string
	Err     error
}

// Found reports whether the binary was located and answered a version probe.
func (s Status) Found() bool {
	return s.Err == nil && s.Path != ""
}

// FindFFmpeg locates the ffmpeg binary, preferring the configured override.
func FindFFmpeg(ctx context.Context, configured string) Status {
	return find(ctx, "ffmpeg", configured)
}

// FindFFprobe locates the ffprobe binary, preferring the configured override.
func FindFFprobe(ctx context.Context, configured string) Status {
	return find(ctx, "ffprobe", configured)
}

func find(ctx context.Context, name, configured string) Status {
	status := Status{Tool: name}

	path := strings.TrimSpace(configured)
	if path == "" {
		resolved, err := exec.LookPath(name)
		if err != nil {
			status.Err = fmt.Errorf("%s not found on PATH: %w", name, err)
			return status
		}
		path = resolved
	}
	status.Path = path

	version, err := probeVersion(ctx, path)
	if err != nil {
		status.Err = fmt.Errorf("probe %s version: %w", name, err)
		return status
	}
	status.Version = version
	return status
}

// probeVersion runs `<binary> -version` and extracts the version token from
// the first output line.
func probeVersion(ctx context.Context, path string) (string, error) {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", err
	}

	line := strings.SplitN(string(out), "\n", 2)[0]
	fields := strings.Fields(line)
	// Expected shape: "ffmpeg version N.n ...".
	if len(fields) >= 3 && fields[1] == "version" {
		return fields[2], nil
	}
	return strings.TrimSpace(line), nil
}

// ProbeDuration asks ffprobe for a media file's duration in seconds.
func ProbeDuration(ctx context.Context, ffprobePath, mediaPath string) (float64, error) {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("probe duration of %s: %w", mediaPath, err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse probed duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return value, nil
}
