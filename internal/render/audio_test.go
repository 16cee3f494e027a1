package render

import (
	"strings"
	"testing"

	"promoreel/internal/assets"
	"promoreel/internal/config"
	"promoreel/internal/timeline"
)

func audioText(g AudioGraph) string {
	return strings.Join(g.Lines, ";")
}

func TestAudioGraphSilentFallback(t *testing.T) {
	project := timeline.Project{Slides: contiguousSlides([]float64{3, 3}, false)}
	spec := testSpec(t, project, assets.Resolved{})

	graph := BuildAudioGraph(spec, config.AudioConfig{SampleRate: 44100}, 20)
	text := audioText(graph)
	for _, want := range []string{"anullsrc", "channel_layout=stereo", "sample_rate=44100", "atrim=0:20"} {
		if !strings.Contains(text, want) {
			t.Errorf("silent bed missing %q: %s", want, text)
		}
	}
	if graph.OutputLabel != "aout" {
		t.Errorf("output label = %q", graph.OutputLabel)
	}
}

func TestAudioGraphMusicLoopsAndTrims(t *testing.T) {
	project := timeline.Project{
		Slides: contiguousSlides([]float64{3, 3}, false),
		Music: timeline.Music{
			Enabled:       true,
			VolumePercent: 60,
			Loop:          true,
			FadeIn:        1,
			FadeOut:       2,
		},
	}
	spec := testSpec(t, project, assets.Resolved{MusicPath: "/tmp/music.mp3"})

	graph := BuildAudioGraph(spec, config.AudioConfig{}, 20)
	text := audioText(graph)
	for _, want := range []string{
		"[2:a]",
		"aloop=loop=-1",
		"atrim=0:20",
		"volume=0.6",
		"afade=t=in:st=0:d=1",
		"afade=t=out:st=18:d=2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("music chain missing %q: %s", want, text)
		}
	}
}

func TestAudioGraphVoiceOnly(t *testing.T) {
	project := timeline.Project{
		Slides: contiguousSlides([]float64{3, 3}, false),
		Voice:  timeline.Voice{Enabled: true, VolumePercent: 100},
	}
	spec := testSpec(t, project, assets.Resolved{VoicePath: "/tmp/voice.mp3"})

	graph := BuildAudioGraph(spec, config.AudioConfig{}, 5.2)
	text := audioText(graph)
	for _, want := range []string{"[2:a]", "volume=1", "atrim=0:5.2"} {
		if !strings.Contains(text, want) {
			t.Errorf("voice chain missing %q: %s", want, text)
		}
	}
	if strings.Contains(text, "amix") {
		t.Errorf("voice-only graph should not mix: %s", text)
	}
}

func TestAudioGraphDucksMusicUnderVoice(t *testing.T) {
	project := timeline.Project{
		Slides: contiguousSlides([]float64{3, 3}, false),
		Music:  timeline.Music{Enabled: true, VolumePercent: 40, Loop: true},
		Voice:  timeline.Voice{Enabled: true, VolumePercent: 100},
	}
	resolved := assets.Resolved{MusicPath: "/tmp/m.mp3", VoicePath: "/tmp/v.mp3"}
	spec := testSpec(t, project, resolved)

	graph := BuildAudioGraph(spec, config.AudioConfig{}, 20)
	text := audioText(graph)
	for _, want := range []string{
		"asplit=2",
		"sidechaincompress",
		"amix=inputs=2:duration=first:dropout_transition=0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("ducking graph missing %q: %s", want, text)
		}
	}
	// Music occupies slot 2, voice slot 3.
	if !strings.Contains(text, "[2:a]") || !strings.Contains(text, "[3:a]") {
		t.Errorf("input indices wrong: %s", text)
	}
}

func TestAudioGraphIgnoresMissingTracks(t *testing.T) {
	// Music enabled but its asset failed to resolve: fall back to silence.
	project := timeline.Project{
		Slides: contiguousSlides([]float64{3, 3}, false),
		Music:  timeline.Music{Enabled: true, VolumePercent: 60},
	}
	spec := testSpec(t, project, assets.Resolved{})

	graph := BuildAudioGraph(spec, config.AudioConfig{}, 10)
	if !strings.Contains(audioText(graph), "anullsrc") {
		t.Errorf("expected silent fallback: %s", audioText(graph))
	}
}

func TestVolumeFilterClamps(t *testing.T) {
	cases := map[int]string{
		-10: "volume=0",
		0:   "volume=0",
		50:  "volume=0.5",
		100: "volume=1",
		250: "volume=2",
	}
	for in, want := range cases {
		if got := volumeFilter(in); got != want {
			t.Errorf("volumeFilter(%d) = %q, want %q", in, got, want)
		}
	}
}
