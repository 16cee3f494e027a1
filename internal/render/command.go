package render

import (
	"fmt"
	"log"
	"strconv"

	"promoreel/internal/assets"
	"promoreel/internal/config"
	"promoreel/internal/timeline"
)

// EncodePlan holds everything needed to spawn one encode: the argument
// vector plus the durations the progress mapper and supervisor consume.
type EncodePlan struct {
	Args          []string
	TotalDuration float64
	OutputPath    string
}

// BuildEncodePlan assembles the complete encoder invocation: one looped
// image input per slide, the optional inputs in their planned slots, the
// combined filter graph, stream maps, and codec parameters. The encode
// writes to outputPath, which the supervisor points at the partial file.
func BuildEncodePlan(project timeline.Project, resolved assets.Resolved, cfg config.Config, profile config.Profile, textDir, outputPath string, logger *log.Logger) (EncodePlan, error) {
	plan := PlanInputs(len(project.Slides), resolved)

	spec := GraphSpec{
		Project:    project,
		Plan:       plan,
		Profile:    profile,
		FPS:        cfg.Render.FPS,
		Transition: cfg.Render.TransitionSec,
		TextDir:    textDir,
	}

	visual, err := BuildVisualGraph(spec, logger)
	if err != nil {
		return EncodePlan{}, err
	}
	audio := BuildAudioGraph(spec, cfg.Audio, visual.TotalDuration)

	durations := RenderDurations(project.Slides, cfg.Render.TransitionSec)

	args := []string{"-hide_banner", "-y"}

	for i := range project.Slides {
		args = append(args,
			"-loop", "1",
			"-t", formatSeconds(durations[i]),
			"-i", resolved.SlideImages[i],
		)
	}
	for _, path := range plan.OptionalPaths() {
		args = append(args, "-i", path)
	}

	args = append(args,
		"-filter_complex", FilterComplex(visual, audio),
		"-map", "["+visual.OutputLabel+"]",
		"-map", "["+audio.OutputLabel+"]",
		"-c:v", "libx264",
		"-preset", profile.Preset,
		"-crf", strconv.Itoa(profile.CRF),
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(cfg.Render.FPS),
		"-c:a", cfg.Audio.ACodec,
		"-b:a", fmt.Sprintf("%dk", cfg.Audio.BitrateKbps),
		"-ar", strconv.Itoa(cfg.Audio.SampleRate),
		"-movflags", "+faststart",
		"-t", formatSeconds(visual.TotalDuration),
		outputPath,
	)

	return EncodePlan{
		Args:          args,
		TotalDuration: visual.TotalDuration,
		OutputPath:    outputPath,
	}, nil
}
