package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"promoreel/internal/assets"
	"promoreel/internal/cache"
	"promoreel/internal/config"
	"promoreel/internal/job"
	"promoreel/internal/logx"
	"promoreel/internal/paths"
	"promoreel/internal/timeline"
	"promoreel/internal/tools"
)

// Engine supervises one render end to end: validation, asset resolution,
// graph construction, the encoder subprocess, and output finalization. Job
// state flows through the injected store so callers can observe progress
// concurrently.
type Engine struct {
	Config    config.Config
	Workspace paths.Workspace
	Jobs      *job.Store
	Runner    Runner
	Cleaner   *Cleaner

	// Cache serves repeat asset downloads across jobs. Optional.
	Cache *cache.Store

	// Sink, when set, receives every stage and percent update alongside
	// the job store. Interactive frontends hook in here.
	Sink ProgressSink

	// StallTimeout overrides the configured encoder watchdog, mainly for
	// tests. Zero means use the configuration.
	StallTimeout time.Duration

	ffmpegPath string
}

// ProgressSink receives live progress updates for the job being rendered.
type ProgressSink func(stage string, percent int)

func (e *Engine) progress(jobID, stage string, percent int) {
	e.Jobs.Progress(jobID, percent, stage)
	if e.Sink != nil {
		e.Sink(stage, percent)
	}
}

// Request describes one render invocation.
type Request struct {
	Project     timeline.Project
	ProfileName string
	// OutputPath is where the finished video lands. Empty means a file
	// named after the job inside the job directory.
	OutputPath string
	// JobID defaults to the project ID.
	JobID string
}

// Result reports a finished render.
type Result struct {
	JobID       string  `json:"job_id"`
	OutputPath  string  `json:"output_path"`
	DurationSec float64 `json:"duration_s"`
	WorkDir     string  `json:"work_dir"`
}

// NewEngine locates the encoder binary and wires the supervisor together.
func NewEngine(cfg config.Config, ws paths.Workspace, jobs *job.Store, runner Runner) (*Engine, error) {
	if runner == nil {
		runner = CmdRunner{}
	}
	if jobs == nil {
		jobs = job.NewStore()
	}

	status := tools.FindFFmpeg(context.Background(), cfg.Encoder.FFmpegPath)
	if !status.Found() {
		return nil, fmt.Errorf("locate ffmpeg: %w", status.Err)
	}

	// A broken cache degrades to direct downloads, never a startup failure.
	store, err := cache.NewStore(ws.CacheDir())
	if err != nil {
		store = nil
	}

	return &Engine{
		Config:     cfg,
		Workspace:  ws,
		Jobs:       jobs,
		Runner:     runner,
		Cleaner:    NewCleaner(time.Duration(cfg.Render.CleanupDelaySec)*time.Second, nil),
		Cache:      store,
		ffmpegPath: status.Path,
	}, nil
}

// Render runs one job to completion. Every failure path marks the job failed
// in the store and schedules workspace cleanup; the returned error carries
// the classified cause.
func (e *Engine) Render(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = req.Project.ID
	}
	if jobID == "" {
		return Result{}, errors.New("render request carries no job or project id")
	}

	profile, err := e.Config.ProfileNamed(req.ProfileName)
	if err != nil {
		return Result{}, err
	}

	jp := e.Workspace.Job(jobID)
	if err := jp.EnsureDirs(); err != nil {
		return Result{}, fmt.Errorf("prepare job workspace: %w", err)
	}

	// A retried job must not lose its fresh workspace to a stale timer.
	e.Cleaner.Cancel(jobID)
	e.Jobs.Create(jobID, req.Project.ID)

	logger, logCloser, err := logx.New(jp)
	if err != nil {
		logger = logx.Discard()
	} else {
		defer logCloser.Close()
	}

	result, err := e.render(ctx, req, jobID, jp, profile, logger)
	if err != nil {
		logger.Printf("render failed: %v", err)
		e.Jobs.Fail(jobID, err.Error())
		e.Cleaner.Schedule(jobID, jp.Dir)
		return Result{}, err
	}

	e.Jobs.Complete(jobID, result.OutputPath)
	e.Cleaner.Schedule(jobID, jp.Dir)
	logger.Printf("render complete: %s (%.2fs)", result.OutputPath, result.DurationSec)
	return result, nil
}

func (e *Engine) render(ctx context.Context, req Request, jobID string, jp paths.JobPaths, profile config.Profile, logger *log.Logger) (Result, error) {
	e.progress(jobID, "validating", 0)
	e.Jobs.SetStatus(jobID, job.StatusPreparing)

	validation := timeline.Validate(req.Project.Slides)
	if !validation.Valid() {
		return Result{}, &InvalidTimelineError{Findings: validation.Findings}
	}
	project := req.Project
	project.Slides = timeline.Normalize(project.Slides)

	// Asset resolution covers the first half of the progress window.
	e.Jobs.SetStatus(jobID, job.StatusDownloading)
	resolver := assets.NewResolver(jp, logger)
	resolver.Timeout = time.Duration(e.Config.Render.AssetTimeoutSec) * time.Second
	resolver.Concurrency = e.Config.Render.AssetConcurrency
	resolver.Cache = e.Cache
	resolver.OnProgress = func(done, total int) {
		if total > 0 {
			e.progress(jobID, "downloading", int(percentResolved*float64(done)/float64(total)))
		}
	}

	resolved, err := resolver.ResolveProject(ctx, project, profile.Width, profile.Height)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, &AssetUnavailableError{Cause: err}
	}
	e.progress(jobID, "building-graph", int(percentResolved))

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(jp.Dir, jobID+".mp4")
	}
	partialPath := jp.PartialOutput(outputPath)

	plan, err := BuildEncodePlan(project, resolved, e.Config, profile, jp.TextDir, partialPath, logger)
	if err != nil {
		return Result{}, err
	}
	e.progress(jobID, "encoding", int(percentGraph))
	e.Jobs.SetStatus(jobID, job.StatusRendering)

	if err := e.encode(ctx, jobID, jp, plan, logger); err != nil {
		return Result{}, err
	}

	e.progress(jobID, "finalizing", int(percentEncodeMax))
	if err := finalizeOutput(partialPath, outputPath); err != nil {
		return Result{}, fmt.Errorf("finalize output: %w", err)
	}

	// Sanity-check the container against the planned length. Never fatal;
	// ffprobe may simply be absent.
	if probe := tools.FindFFprobe(ctx, e.Config.Encoder.FFprobePath); probe.Found() {
		actual, probeErr := tools.ProbeDuration(ctx, probe.Path, outputPath)
		switch {
		case probeErr != nil:
			logger.Printf("output duration probe failed: %v", probeErr)
		case math.Abs(actual-plan.TotalDuration) > 0.5:
			logger.Printf("output duration %.2fs deviates from planned %.2fs", actual, plan.TotalDuration)
		}
	}
	e.progress(jobID, "done", 100)

	return Result{
		JobID:       jobID,
		OutputPath:  outputPath,
		DurationSec: plan.TotalDuration,
		WorkDir:     jp.Dir,
	}, nil
}

// encode runs the encoder under the stall watchdog and classifies failures.
func (e *Engine) encode(ctx context.Context, jobID string, jp paths.JobPaths, plan EncodePlan, logger *log.Logger) error {
	stall := e.StallTimeout
	if stall <= 0 {
		stall = time.Duration(e.Config.Render.StallTimeoutSec) * time.Second
	}

	encodeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stalled atomic.Bool
	watchdog := time.AfterFunc(stall, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	pw := newProgressWriter(
		func(encodedSec float64) {
			e.progress(jobID, "encoding", int(encodePercent(encodedSec, plan.TotalDuration)))
		},
		func() { watchdog.Reset(stall) },
	)

	stderr := io.Writer(pw)
	encoderLog, logErr := os.Create(filepath.Join(jp.LogsDir, "encoder.log"))
	if logErr == nil {
		defer encoderLog.Close()
		stderr = io.MultiWriter(pw, encoderLog)
	}

	logger.Printf("spawning encoder: %s", e.ffmpegPath)
	runErr := e.Runner.Run(encodeCtx, e.ffmpegPath, plan.Args, RunOptions{Stderr: stderr})
	if runErr == nil {
		return nil
	}

	if stalled.Load() {
		return &EncoderTimeoutError{Stall: stall}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		return &SpawnError{Cause: runErr}
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &EncoderFailureError{ExitCode: exitCode, Tail: pw.Tail()}
}

// finalizeOutput moves the finished partial file into place, falling back to
// a copy when rename crosses filesystems.
func finalizeOutput(partialPath, finalPath string) error {
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return err
	}
	if err := os.Rename(partialPath, finalPath); err == nil {
		return nil
	}

	src, err := os.Open(partialPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(finalPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(partialPath)
}
