package projectfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promoreel/internal/timeline"
)

func writeProject(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write project file: %v", err)
	}
	return path
}

func TestLoadExplicitIntervals(t *testing.T) {
	path := writeProject(t, "promo.yaml", `
id: spring-sale
business_name: Acme Plumbing
slides:
  - id: hero
    image: hero.jpg
    start: 0
    end: 3
    transition: slide-left
  - id: crew
    image: crew.jpg
    start: 3
    end: 6.5
`)
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if project.ID != "spring-sale" {
		t.Errorf("id = %q", project.ID)
	}
	if len(project.Slides) != 2 {
		t.Fatalf("slides = %d", len(project.Slides))
	}
	if project.Slides[0].Transition != timeline.TransitionSlideLeft {
		t.Errorf("transition = %q", project.Slides[0].Transition)
	}
	if project.Slides[1].EndTime != 6.5 {
		t.Errorf("end = %v", project.Slides[1].EndTime)
	}
}

func TestLoadDurationShorthandPacksSequentially(t *testing.T) {
	path := writeProject(t, "promo.yaml", `
slides:
  - image: a.jpg
    duration: 3
  - image: b.jpg
    duration: 4
  - end_screen: true
end_screen:
  enabled: true
  duration: 6
`)
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantIntervals := [][2]float64{{0, 3}, {3, 7}, {7, 13}}
	for i, want := range wantIntervals {
		s := project.Slides[i]
		if s.StartTime != want[0] || s.EndTime != want[1] {
			t.Errorf("slide %d = [%v, %v], want %v", i, s.StartTime, s.EndTime, want)
		}
	}
	if !project.Slides[2].IsEndScreen {
		t.Error("last slide should be the end screen")
	}
	// ID falls back to the file name.
	if project.ID != "promo" {
		t.Errorf("id = %q", project.ID)
	}
	if timeline.Validate(project.Slides).Valid() != true {
		t.Errorf("packed slides should validate: %v", timeline.Validate(project.Slides).Findings)
	}
}

func TestLoadAppliesTrackDefaults(t *testing.T) {
	path := writeProject(t, "promo.yaml", `
slides:
  - image: a.jpg
    duration: 3
music:
  enabled: true
  file: track.mp3
voice:
  enabled: true
  audio: narration.mp3
banner:
  enabled: true
  text: Call now
qr:
  enabled: true
  url: https://example.com
`)
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if project.Music.VolumePercent != defaultMusicVolume {
		t.Errorf("music volume = %d", project.Music.VolumePercent)
	}
	if project.Voice.VolumePercent != defaultVoiceVolume {
		t.Errorf("voice volume = %d", project.Voice.VolumePercent)
	}
	if project.Banner.Position != timeline.BannerBottom {
		t.Errorf("banner position = %q", project.Banner.Position)
	}
	if project.QR.Position != timeline.CornerBottomRight {
		t.Errorf("qr position = %q", project.QR.Position)
	}
}

func TestLoadReportsSlideProblems(t *testing.T) {
	path := writeProject(t, "promo.yaml", `
slides:
  - image: a.jpg
  - image: b.jpg
    duration: 3
`)
	_, err := Load(path)
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	issues := errs.Issues()
	if len(issues) != 1 || issues[0].Slide != 1 {
		t.Errorf("issues = %v", issues)
	}
	if !strings.Contains(errs.Error(), "slide 1") {
		t.Errorf("message = %q", errs.Error())
	}
}

func TestLoadRejectsMissingAndEmptyFiles(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := writeProject(t, "empty.yaml", "")
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty file")
	}
}
