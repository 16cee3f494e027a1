package render

import (
	"fmt"

	"promoreel/internal/timeline"
)

const (
	zoomInCeiling  = 0.05 // zoom-in ramps 1.0 -> 1.0+ceiling*k
	zoomOutStart   = 0.10 // zoom-out ramps 1.0+start*k -> 1.0
	panMagnify     = 0.10 // pans hold a fixed 1.0+panMagnify window
)

// motionAmplitude maps intensity 1..10 onto 0.1..1.0.
func motionAmplitude(intensity int) float64 {
	if intensity < 1 {
		intensity = 1
	}
	if intensity > 10 {
		intensity = 10
	}
	return float64(intensity) / 10.0
}

// buildMotionFilter emits a zoompan filter implementing the slide's Ken Burns
// curve. The curve is a deterministic function of the output frame index
// `on` over frames = duration*fps; there is no randomness. Returns the empty
// string when the slide has no motion.
func buildMotionFilter(motion *timeline.Motion, durationSec float64, fps, width, height int) string {
	if motion == nil || motion.Kind == timeline.MotionNone || motion.Kind == "" {
		return ""
	}

	frames := int(durationSec * float64(fps))
	if frames < 1 {
		frames = 1
	}
	k := motionAmplitude(motion.Intensity)

	var zoomExpr, xExpr, yExpr string
	centerX := "iw/2-(iw/zoom/2)"
	centerY := "ih/2-(ih/zoom/2)"

	switch motion.Kind {
	case timeline.MotionZoomIn:
		delta := zoomInCeiling * k
		zoomExpr = fmt.Sprintf("min(1+%s*on/%d,%s)", formatFloat(delta), frames, formatFloat(1+delta))
		xExpr, yExpr = centerX, centerY

	case timeline.MotionZoomOut:
		delta := zoomOutStart * k
		zoomExpr = fmt.Sprintf("max(%s-%s*on/%d,1.0)", formatFloat(1+delta), formatFloat(delta), frames)
		xExpr, yExpr = centerX, centerY

	case timeline.MotionPanLeft:
		zoomExpr = formatFloat(1 + panMagnify)
		xExpr = fmt.Sprintf("(iw-iw/zoom)*%s*(1-on/%d)", formatFloat(k), frames)
		yExpr = centerY

	case timeline.MotionPanRight:
		zoomExpr = formatFloat(1 + panMagnify)
		xExpr = fmt.Sprintf("(iw-iw/zoom)*%s*on/%d", formatFloat(k), frames)
		yExpr = centerY

	case timeline.MotionPanUp:
		zoomExpr = formatFloat(1 + panMagnify)
		xExpr = centerX
		yExpr = fmt.Sprintf("(ih-ih/zoom)*%s*(1-on/%d)", formatFloat(k), frames)

	case timeline.MotionPanDown:
		zoomExpr = formatFloat(1 + panMagnify)
		xExpr = centerX
		yExpr = fmt.Sprintf("(ih-ih/zoom)*%s*on/%d", formatFloat(k), frames)

	default:
		return ""
	}

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=1:s=%dx%d:fps=%d",
		zoomExpr, xExpr, yExpr, width, height, fps)
}
