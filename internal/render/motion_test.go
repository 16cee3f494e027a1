package render

import (
	"strings"
	"testing"

	"promoreel/internal/timeline"
)

func TestMotionAmplitude(t *testing.T) {
	cases := map[int]float64{
		-3: 0.1,
		0:  0.1,
		1:  0.1,
		5:  0.5,
		10: 1.0,
		15: 1.0,
	}
	for in, want := range cases {
		if got := motionAmplitude(in); got != want {
			t.Errorf("motionAmplitude(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildMotionFilterNone(t *testing.T) {
	if got := buildMotionFilter(nil, 3, 25, 1280, 720); got != "" {
		t.Errorf("nil motion = %q, want empty", got)
	}
	m := &timeline.Motion{Kind: timeline.MotionNone, Intensity: 5}
	if got := buildMotionFilter(m, 3, 25, 1280, 720); got != "" {
		t.Errorf("none motion = %q, want empty", got)
	}
}

func TestBuildMotionFilterZoomIn(t *testing.T) {
	m := &timeline.Motion{Kind: timeline.MotionZoomIn, Intensity: 10}
	got := buildMotionFilter(m, 3, 25, 1280, 720)
	for _, want := range []string{
		"zoompan=",
		"min(1+0.05*on/75,1.05)",
		"iw/2-(iw/zoom/2)",
		"s=1280x720",
		"fps=25",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("zoom-in filter missing %q: %s", want, got)
		}
	}
}

func TestBuildMotionFilterZoomOutRampsDown(t *testing.T) {
	m := &timeline.Motion{Kind: timeline.MotionZoomOut, Intensity: 5}
	got := buildMotionFilter(m, 4, 25, 1280, 720)
	if !strings.Contains(got, "max(1.05-0.05*on/100,1.0)") {
		t.Errorf("zoom-out ramp wrong: %s", got)
	}
}

func TestBuildMotionFilterPans(t *testing.T) {
	cases := []struct {
		kind  timeline.MotionKind
		token string
	}{
		{timeline.MotionPanLeft, "(iw-iw/zoom)*0.5*(1-on/75)"},
		{timeline.MotionPanRight, "(iw-iw/zoom)*0.5*on/75"},
		{timeline.MotionPanUp, "(ih-ih/zoom)*0.5*(1-on/75)"},
		{timeline.MotionPanDown, "(ih-ih/zoom)*0.5*on/75"},
	}
	for _, tc := range cases {
		m := &timeline.Motion{Kind: tc.kind, Intensity: 5}
		got := buildMotionFilter(m, 3, 25, 1280, 720)
		if !strings.Contains(got, tc.token) {
			t.Errorf("%s filter missing %q: %s", tc.kind, tc.token, got)
		}
		if !strings.Contains(got, "z='1.1'") {
			t.Errorf("%s should hold fixed magnification: %s", tc.kind, got)
		}
	}
}
