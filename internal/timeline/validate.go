package timeline

import (
	"fmt"
	"math"
)

// epsilon absorbs float drift introduced by upstream editors when comparing
// slide boundaries.
const epsilon = 1e-6

// Finding describes one validation violation, tied to the offending slide.
type Finding struct {
	SlideIndex int
	Message    string
}

func (f Finding) String() string {
	return fmt.Sprintf("slide %d: %s", f.SlideIndex, f.Message)
}

// ValidationResult collects every violation found in a slide list. Validation
// never stops at the first error.
type ValidationResult struct {
	Findings []Finding
}

// Valid reports whether the timeline passed every check.
func (r ValidationResult) Valid() bool {
	return len(r.Findings) == 0
}

// Validate checks that slides form a gapless, overlap-free sequence starting
// at zero, that every interval is positive, and that at most one slide is an
// end screen and it sits last.
func Validate(slides []Slide) ValidationResult {
	var result ValidationResult
	add := func(i int, format string, args ...any) {
		result.Findings = append(result.Findings, Finding{
			SlideIndex: i,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	endScreens := 0
	for i, s := range slides {
		if s.EndTime <= s.StartTime {
			add(i, "end time %.3f must be after start time %.3f", s.EndTime, s.StartTime)
		}
		if i == 0 && math.Abs(s.StartTime) > epsilon {
			add(i, "first slide must start at 0, got %.3f", s.StartTime)
		}
		if i > 0 {
			prev := slides[i-1]
			diff := s.StartTime - prev.EndTime
			switch {
			case diff > epsilon:
				add(i, "gap of %.3fs after previous slide ending at %.3f", diff, prev.EndTime)
			case diff < -epsilon:
				add(i, "overlaps previous slide by %.3fs", -diff)
			}
		}
		if s.IsEndScreen {
			endScreens++
			if i != len(slides)-1 {
				add(i, "end-screen slide must be the last slide")
			}
		}
		if s.Motion != nil && (s.Motion.Intensity < 1 || s.Motion.Intensity > 10) {
			add(i, "motion intensity %d outside 1..10", s.Motion.Intensity)
		}
		if c := s.Crop; c != nil {
			if c.X < 0 || c.Y < 0 || c.Width <= 0 || c.Height <= 0 ||
				c.X+c.Width > 1+epsilon || c.Y+c.Height > 1+epsilon {
				add(i, "crop rectangle {%.3f %.3f %.3f %.3f} outside the unit square", c.X, c.Y, c.Width, c.Height)
			}
		}
	}
	if endScreens > 1 {
		add(len(slides)-1, "at most one end-screen slide allowed, found %d", endScreens)
	}

	return result
}

// Normalize rewrites start/end times sequentially from zero so the sequence
// becomes gapless and overlap-free. Slide order and per-slide durations are
// preserved exactly; only absolute offsets change. Normalize is idempotent.
func Normalize(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	cursor := 0.0
	for i, s := range slides {
		d := s.Duration()
		s.StartTime = cursor
		s.EndTime = cursor + d
		cursor = s.EndTime
		out[i] = s
	}
	return out
}
