package timeline

import (
	"math"
	"strings"
	"testing"
)

func contiguousSlides(durations ...float64) []Slide {
	slides := make([]Slide, len(durations))
	cursor := 0.0
	for i, d := range durations {
		slides[i] = Slide{
			ID:        string(rune('a' + i)),
			StartTime: cursor,
			EndTime:   cursor + d,
		}
		cursor += d
	}
	return slides
}

func TestValidateAcceptsContiguousTimeline(t *testing.T) {
	cases := [][]float64{
		{3},
		{3, 3},
		{1.5, 2.25, 4, 3.1},
	}
	for _, durations := range cases {
		result := Validate(contiguousSlides(durations...))
		if !result.Valid() {
			t.Fatalf("expected valid timeline for durations %v, got findings %v", durations, result.Findings)
		}
	}
}

func TestValidateReportsOffendingIndex(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func([]Slide) []Slide
		wantIndex int
		wantPart  string
	}{
		{
			name: "inverted interval",
			mutate: func(s []Slide) []Slide {
				s[1].EndTime = s[1].StartTime - 1
				return s
			},
			wantIndex: 1,
			wantPart:  "must be after",
		},
		{
			name: "nonzero first start",
			mutate: func(s []Slide) []Slide {
				s[0].StartTime = 0.5
				return s
			},
			wantIndex: 0,
			wantPart:  "must start at 0",
		},
		{
			name: "gap",
			mutate: func(s []Slide) []Slide {
				s[2].StartTime += 1
				s[2].EndTime += 1
				return s
			},
			wantIndex: 2,
			wantPart:  "gap",
		},
		{
			name: "overlap",
			mutate: func(s []Slide) []Slide {
				s[2].StartTime -= 0.4
				return s
			},
			wantIndex: 2,
			wantPart:  "overlaps",
		},
		{
			name: "end screen not last",
			mutate: func(s []Slide) []Slide {
				s[1].IsEndScreen = true
				return s
			},
			wantIndex: 1,
			wantPart:  "last slide",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slides := tc.mutate(contiguousSlides(3, 3, 3, 3))
			result := Validate(slides)
			if result.Valid() {
				t.Fatalf("expected findings, got none")
			}
			found := false
			for _, f := range result.Findings {
				if f.SlideIndex == tc.wantIndex && strings.Contains(f.Message, tc.wantPart) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected finding at index %d containing %q, got %v", tc.wantIndex, tc.wantPart, result.Findings)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	slides := contiguousSlides(3, 3, 3)
	slides[0].StartTime = 1 // nonzero start AND overlap with nothing, gap to slide 1
	slides[2].EndTime = slides[2].StartTime

	result := Validate(slides)
	if len(result.Findings) < 2 {
		t.Fatalf("expected multiple findings, got %v", result.Findings)
	}
}

func TestNormalizePreservesDurations(t *testing.T) {
	slides := []Slide{
		{ID: "a", StartTime: 2, EndTime: 5.5},
		{ID: "b", StartTime: 6, EndTime: 8},
		{ID: "c", StartTime: 7.5, EndTime: 11},
	}

	normalized := Normalize(slides)

	if !Validate(normalized).Valid() {
		t.Fatalf("normalized timeline is not valid: %v", Validate(normalized).Findings)
	}
	for i := range slides {
		if got, want := normalized[i].Duration(), slides[i].Duration(); math.Abs(got-want) > 1e-9 {
			t.Fatalf("slide %d duration changed: got %f want %f", i, got, want)
		}
		if normalized[i].ID != slides[i].ID {
			t.Fatalf("slide order changed at %d", i)
		}
	}
	if normalized[0].StartTime != 0 {
		t.Fatalf("first slide should start at 0, got %f", normalized[0].StartTime)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	slides := []Slide{
		{StartTime: 1, EndTime: 4},
		{StartTime: 4.2, EndTime: 6.2},
	}

	once := Normalize(slides)
	twice := Normalize(once)

	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("normalize not idempotent at slide %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestTotalDuration(t *testing.T) {
	if got := TotalDuration(nil); got != 0 {
		t.Fatalf("empty timeline duration = %f, want 0", got)
	}
	slides := contiguousSlides(3, 4.5)
	if got := TotalDuration(slides); got != 7.5 {
		t.Fatalf("duration = %f, want 7.5", got)
	}
}

func TestContentSlidesSplitsEndScreen(t *testing.T) {
	slides := contiguousSlides(3, 3, 3)
	slides[2].IsEndScreen = true

	content := ContentSlides(slides)
	if len(content) != 2 {
		t.Fatalf("expected 2 content slides, got %d", len(content))
	}
	end, ok := EndScreenSlide(slides)
	if !ok || !end.IsEndScreen {
		t.Fatalf("expected trailing end-screen slide")
	}

	noEnd := contiguousSlides(3, 3)
	if _, ok := EndScreenSlide(noEnd); ok {
		t.Fatalf("unexpected end-screen slide")
	}
	if len(ContentSlides(noEnd)) != 2 {
		t.Fatalf("content slides should be unchanged without end screen")
	}
}
