package projectfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"promoreel/internal/timeline"
)

const (
	defaultMusicVolume     = 60
	defaultVoiceVolume     = 100
	defaultEndScreenLength = 5.0
)

// fileSlide is the on-disk slide shape. It extends the timeline slide with a
// duration shorthand: authors may give either explicit start/end times or
// just a duration, in which case slides pack sequentially.
type fileSlide struct {
	timeline.Slide `yaml:",inline"`
	DurationSec    float64 `yaml:"duration"`
}

// fileProject is the on-disk project shape.
type fileProject struct {
	ID           string             `yaml:"id"`
	BusinessName string             `yaml:"business_name"`
	Website      string             `yaml:"website"`
	Slides       []fileSlide        `yaml:"slides"`
	Banner       timeline.Banner    `yaml:"banner"`
	QR           timeline.QRCode    `yaml:"qr"`
	Music        timeline.Music     `yaml:"music"`
	Voice        timeline.Voice     `yaml:"voice"`
	EndScreen    timeline.EndScreen `yaml:"end_screen"`
}

// Load reads a YAML project file and returns the timeline project it
// describes, with defaults applied. Field-level problems come back as
// ValidationErrors alongside the partially loaded project.
func Load(path string) (timeline.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timeline.Project{}, fmt.Errorf("read project file: %w", err)
	}
	if len(data) == 0 {
		return timeline.Project{}, errors.New("project file is empty")
	}

	var raw fileProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return timeline.Project{}, fmt.Errorf("parse YAML: %w", err)
	}

	project := timeline.Project{
		ID:           raw.ID,
		BusinessName: raw.BusinessName,
		Website:      raw.Website,
		Banner:       raw.Banner,
		QR:           raw.QR,
		Music:        raw.Music,
		Voice:        raw.Voice,
		EndScreen:    raw.EndScreen,
	}
	if project.ID == "" {
		base := filepath.Base(path)
		project.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var errs ValidationErrors

	if len(raw.Slides) == 0 {
		errs = append(errs, ValidationError{Field: "slides", Message: "at least one slide is required"})
	}

	cursor := 0.0
	for i, fs := range raw.Slides {
		slide := fs.Slide
		if slide.ID == "" {
			slide.ID = fmt.Sprintf("slide-%d", i+1)
		}

		switch {
		case slide.EndTime > slide.StartTime:
			// Explicit interval wins; the duration shorthand is ignored.
		case fs.DurationSec > 0:
			slide.StartTime = cursor
			slide.EndTime = cursor + fs.DurationSec
		case slide.IsEndScreen:
			length := raw.EndScreen.DurationSeconds
			if length <= 0 {
				length = defaultEndScreenLength
			}
			slide.StartTime = cursor
			slide.EndTime = cursor + length
		default:
			errs = append(errs, ValidationError{
				Slide: i + 1, Field: "duration",
				Message: "needs an explicit start/end interval or a positive duration",
			})
		}
		cursor = slide.EndTime

		project.Slides = append(project.Slides, slide)
	}

	applyDefaults(&project)

	if len(errs) > 0 {
		return project, errs
	}
	return project, nil
}

func applyDefaults(project *timeline.Project) {
	if project.Music.Enabled && project.Music.VolumePercent == 0 {
		project.Music.VolumePercent = defaultMusicVolume
	}
	if project.Voice.Enabled && project.Voice.VolumePercent == 0 {
		project.Voice.VolumePercent = defaultVoiceVolume
	}
	if project.Banner.Enabled && project.Banner.Position == "" {
		project.Banner.Position = timeline.BannerBottom
	}
	if project.QR.Enabled && project.QR.Position == "" {
		project.QR.Position = timeline.CornerBottomRight
	}
	if project.EndScreen.Enabled && project.EndScreen.DurationSeconds <= 0 {
		project.EndScreen.DurationSeconds = defaultEndScreenLength
	}
}
