package render

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"promoreel/internal/config"
	"promoreel/internal/timeline"
)

// GraphSpec bundles everything the graph builders need for one render.
type GraphSpec struct {
	Project    timeline.Project
	Plan       InputPlan
	Profile    config.Profile
	FPS        int
	Transition float64
	// TextDir receives drawtext payload files. Overlay text goes through
	// files rather than inline filter arguments because ffmpeg's drawtext
	// escaping is fragile for arbitrary user text.
	TextDir string
}

// VisualGraph is the assembled video half of the filter graph.
type VisualGraph struct {
	Lines           []string
	OutputLabel     string
	ContentDuration float64
	TotalDuration   float64
}

// FilterComplex joins graph lines into the encoder's filter_complex argument.
func FilterComplex(visual VisualGraph, audio AudioGraph) string {
	all := append(append([]string{}, visual.Lines...), audio.Lines...)
	return strings.Join(all, ";")
}

// RenderDurations returns the per-slide input durations. Every content slide
// except the last is rendered for its base duration plus one transition
// window so adjacent slides overlap; the last content slide and the end
// screen are rendered at base duration.
func RenderDurations(slides []timeline.Slide, transition float64) []float64 {
	content := timeline.ContentSlides(slides)
	out := make([]float64, len(slides))
	for i, s := range slides {
		out[i] = s.Duration()
		if i < len(content)-1 {
			out[i] += transition
		}
	}
	return out
}

// ActualDuration returns the post-transition length of a slide list: the sum
// of base durations minus one transition window per chained pair.
func ActualDuration(slides []timeline.Slide, transition float64) float64 {
	if len(slides) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range slides {
		total += s.Duration()
	}
	return total - float64(len(slides)-1)*transition
}

// BuildVisualGraph synthesizes the complete video filter graph: per-slide
// motion/crop/scale chains, crossfade chaining with offset bookkeeping,
// end-screen splicing, and banner/QR compositing.
func BuildVisualGraph(spec GraphSpec, logger *log.Logger) (VisualGraph, error) {
	slides := spec.Project.Slides
	if len(slides) == 0 {
		return VisualGraph{}, errors.New("no slides to render")
	}
	if spec.Profile.Width <= 0 || spec.Profile.Height <= 0 {
		return VisualGraph{}, errors.New("invalid profile dimensions")
	}
	if spec.FPS <= 0 {
		return VisualGraph{}, errors.New("invalid fps")
	}

	content := timeline.ContentSlides(slides)
	endSlide, hasEnd := timeline.EndScreenSlide(slides)

	var graph VisualGraph
	durations := RenderDurations(slides, spec.Transition)

	// Per-slide processing chains.
	for i, slide := range slides {
		if logger != nil && !slide.IsEndScreen && slide.Duration() < 2*spec.Transition {
			logger.Printf("slide %d duration %.2fs is shorter than two transition windows (%.2fs); crossfades may overlap pathologically",
				i, slide.Duration(), 2*spec.Transition)
		}
		chain := buildSlideChain(slide, durations[i], spec)
		graph.Lines = append(graph.Lines, fmt.Sprintf("[%d:v]%s[v%d]", i, chain, i))
	}

	// Crossfade chaining across content slides.
	current := "v0"
	accumulated := 0.0
	if len(content) > 0 {
		accumulated = content[0].Duration()
	}
	for i := 1; i < len(content); i++ {
		offset := accumulated - spec.Transition
		if offset <= 0 || offset >= accumulated {
			return VisualGraph{}, fmt.Errorf("transition into slide %d has offset %.3f outside accumulated stream of %.3fs", i, offset, accumulated)
		}
		out := fmt.Sprintf("x%d", i)
		graph.Lines = append(graph.Lines, fmt.Sprintf(
			"[%s][v%d]xfade=transition=%s:duration=%s:offset=%s[%s]",
			current, i, transitionName(content[i].EffectiveTransition()),
			formatSeconds(spec.Transition), formatSeconds(offset), out))
		current = out
		accumulated = offset + content[i].Duration()
	}
	graph.ContentDuration = accumulated
	graph.TotalDuration = accumulated

	// End-screen splicing.
	if hasEnd {
		endLabel := fmt.Sprintf("v%d", len(slides)-1)
		switch {
		case len(content) == 0:
			// No content ahead of the end screen: style it directly.
			current = endLabel
			graph.ContentDuration = 0
			graph.TotalDuration = endSlide.Duration()
			if spec.Project.EndScreen.Enabled {
				lines, styled, err := endScreenLines(current, "vend", spec)
				if err != nil {
					return VisualGraph{}, err
				}
				graph.Lines = append(graph.Lines, lines...)
				current = styled
			}
		default:
			graph.Lines = append(graph.Lines, fmt.Sprintf(
				"[%s][%s]concat=n=2:v=1:a=0[vfull]", current, endLabel))
			current = "vfull"
			graph.TotalDuration = graph.ContentDuration + endSlide.Duration()

			if spec.Project.EndScreen.Enabled {
				lines, styled, err := spliceEndScreen(current, graph.ContentDuration, spec)
				if err != nil {
					return VisualGraph{}, err
				}
				graph.Lines = append(graph.Lines, lines...)
				current = styled
			}
		}
	}

	// Banner overlay.
	if spec.Project.Banner.Enabled {
		lines, out, err := bannerLines(current, spec)
		if err != nil {
			return VisualGraph{}, err
		}
		graph.Lines = append(graph.Lines, lines...)
		current = out
	}

	// QR overlay goes last so it always sits on top.
	if spec.Project.QR.Enabled && spec.Plan.Has(InputQRImage) {
		lines, out := qrLines(current, spec)
		graph.Lines = append(graph.Lines, lines...)
		current = out
	}

	graph.OutputLabel = current
	return graph, nil
}

// buildSlideChain emits the per-slide processing chain in fixed order:
// motion, crop, scale-to-fit with letterbox, format normalization.
func buildSlideChain(slide timeline.Slide, durationSec float64, spec GraphSpec) string {
	width := spec.Profile.Width
	height := spec.Profile.Height

	var filters []string

	if motion := buildMotionFilter(slide.Motion, durationSec, spec.FPS, width, height); motion != "" {
		filters = append(filters, motion)
	}

	if c := slide.Crop; c != nil {
		filters = append(filters, fmt.Sprintf("crop=iw*%s:ih*%s:iw*%s:ih*%s",
			formatFloat(c.Width), formatFloat(c.Height), formatFloat(c.X), formatFloat(c.Y)))
	}

	filters = append(filters,
		fmt.Sprintf("scale=w=%d:h=%d:force_original_aspect_ratio=1:flags=lanczos", width, height),
		fmt.Sprintf("pad=w=%d:h=%d:x=(ow-iw)/2:y=(oh-ih)/2:color=black", width, height),
		"setsar=1",
		fmt.Sprintf("fps=%d", spec.FPS),
		"format=yuv420p",
	)

	return strings.Join(filters, ",")
}

// spliceEndScreen implements the split/trim/style/concat path: the full
// stream is cut at contentDuration, the tail gets the styled closing card,
// and the halves are joined back together.
func spliceEndScreen(inLabel string, contentDuration float64, spec GraphSpec) ([]string, string, error) {
	lines := []string{
		fmt.Sprintf("[%s]split=2[edh][edt]", inLabel),
		fmt.Sprintf("[edh]trim=end=%s,setpts=PTS-STARTPTS[edhead]", formatSeconds(contentDuration)),
		fmt.Sprintf("[edt]trim=start=%s,setpts=PTS-STARTPTS[edtail]", formatSeconds(contentDuration)),
	}

	styled, styledLabel, err := endScreenLines("edtail", "edstyled", spec)
	if err != nil {
		return nil, "", err
	}
	lines = append(lines, styled...)
	lines = append(lines, fmt.Sprintf("[edhead][%s]concat=n=2:v=1:a=0[vend]", styledLabel))
	return lines, "vend", nil
}

// endScreenLines styles a stream as the closing card: background fill,
// optional logo, and up to three text fields with the phone number rendered
// largest as the primary call to action.
func endScreenLines(inLabel, outLabel string, spec GraphSpec) ([]string, string, error) {
	es := spec.Project.EndScreen
	height := spec.Profile.Height

	var lines []string
	current := inLabel

	background := fallback(es.BackgroundColor, "black")
	lines = append(lines, fmt.Sprintf("[%s]drawbox=x=0:y=0:w=iw:h=ih:color=%s:t=fill[edbg]", current, background))
	current = "edbg"

	if idx, ok := spec.Plan.Index(InputEndLogo); ok {
		logoHeight := height / 4
		lines = append(lines,
			fmt.Sprintf("[%d:v]scale=-1:%d[edlogo]", idx, logoHeight),
			fmt.Sprintf("[%s][edlogo]overlay=x=(W-w)/2:y=%d[edwl]", current, height/10),
		)
		current = "edwl"
	}

	textColor := fallback(es.TextColor, "white")
	type field struct {
		name     string
		text     string
		fontSize int
		yFrac    float64
		color    string
	}
	fields := []field{
		{"end_company", es.CompanyName, height / 14, 0.42, textColor},
		{"end_phone", es.PhoneNumber, height / 9, 0.54, fallback(es.PhoneNumberColor, textColor)},
		{"end_website", es.WebsiteLink, height / 18, 0.72, textColor},
	}

	var draws []string
	for _, f := range fields {
		if strings.TrimSpace(f.text) == "" {
			continue
		}
		textFile, err := writeTextFile(spec.TextDir, f.name, f.text)
		if err != nil {
			return nil, "", err
		}
		draws = append(draws, fmt.Sprintf(
			"drawtext=textfile='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=%d",
			escapeFFmpegPath(textFile), f.fontSize, f.color, int(float64(height)*f.yFrac)))
	}

	if len(draws) > 0 {
		lines = append(lines, fmt.Sprintf("[%s]%s[%s]", current, strings.Join(draws, ","), outLabel))
	} else {
		lines = append(lines, fmt.Sprintf("[%s]null[%s]", current, outLabel))
	}
	return lines, outLabel, nil
}

// bannerLines draws the semi-opaque banner bar, the optional scaled logo,
// and the banner text. Text centers in the bar unless a logo occupies the
// left edge, in which case it shifts right.
func bannerLines(inLabel string, spec GraphSpec) ([]string, string, error) {
	banner := spec.Project.Banner
	height := spec.Profile.Height

	barHeight := height / 9
	fontSize := banner.FontSize
	if fontSize <= 0 {
		fontSize = barHeight / 2
	}
	if fontSize*2 > barHeight {
		barHeight = fontSize * 2
	}

	barY := height - barHeight
	if banner.Position == timeline.BannerTop {
		barY = 0
	}

	const pad = 12
	background := fallback(banner.BackgroundColor, "black")

	var lines []string
	lines = append(lines, fmt.Sprintf("[%s]drawbox=x=0:y=%d:w=iw:h=%d:color=%s@0.85:t=fill[bnbar]",
		inLabel, barY, barHeight, background))
	current := "bnbar"

	hasLogo := false
	logoBox := 0
	if idx, ok := spec.Plan.Index(InputBannerLogo); ok {
		hasLogo = true
		logoHeight := barHeight - 2*pad
		// Wide logos are constrained into a fixed box so the text offset
		// below stays clear of them.
		logoBox = 3 * logoHeight
		lines = append(lines,
			fmt.Sprintf("[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease[bnlogo]", idx, logoBox, logoHeight),
			fmt.Sprintf("[%s][bnlogo]overlay=x=%d:y=%d[bnwl]", current, pad, barY+pad),
		)
		current = "bnwl"
	}

	if strings.TrimSpace(banner.Text) != "" {
		textFile, err := writeTextFile(spec.TextDir, "banner", banner.Text)
		if err != nil {
			return nil, "", err
		}
		xExpr := "(w-text_w)/2"
		if hasLogo {
			// Leave room for the logo box at the left edge.
			xExpr = strconv.Itoa(pad + logoBox + pad)
		}
		lines = append(lines, fmt.Sprintf(
			"[%s]drawtext=textfile='%s':fontsize=%d:fontcolor=%s:x=%s:y=%d[bntxt]",
			current, escapeFFmpegPath(textFile), fontSize, fallback(banner.TextColor, "white"),
			xExpr, barY+(barHeight-fontSize)/2))
		current = "bntxt"
	}

	return lines, current, nil
}

// qrLines scales the generated QR image and composites it at the configured
// corner with fixed padding.
func qrLines(inLabel string, spec GraphSpec) ([]string, string) {
	qr := spec.Project.QR
	idx, _ := spec.Plan.Index(InputQRImage)

	size := qr.SizePixels
	if size <= 0 {
		size = 200
	}

	const pad = 20
	var x, y string
	switch qr.Position {
	case timeline.CornerTopLeft:
		x, y = strconv.Itoa(pad), strconv.Itoa(pad)
	case timeline.CornerTopRight:
		x, y = fmt.Sprintf("W-w-%d", pad), strconv.Itoa(pad)
	case timeline.CornerBottomLeft:
		x, y = strconv.Itoa(pad), fmt.Sprintf("H-h-%d", pad)
	default:
		x, y = fmt.Sprintf("W-w-%d", pad), fmt.Sprintf("H-h-%d", pad)
	}

	lines := []string{
		fmt.Sprintf("[%d:v]scale=%d:%d[qrimg]", idx, size, size),
		fmt.Sprintf("[%s][qrimg]overlay=x=%s:y=%s[vqr]", inLabel, x, y),
	}
	return lines, "vqr"
}

// transitionName maps the timeline transition enum onto encoder xfade names.
func transitionName(t timeline.Transition) string {
	switch t {
	case timeline.TransitionSlideUp:
		return "slideup"
	case timeline.TransitionSlideDown:
		return "slidedown"
	case timeline.TransitionSlideLeft:
		return "slideleft"
	case timeline.TransitionSlideRight:
		return "slideright"
	case timeline.TransitionWipeLeft:
		return "wipeleft"
	case timeline.TransitionWipeRight:
		return "wiperight"
	case timeline.TransitionCircle:
		return "circlecrop"
	default:
		return "fade"
	}
}

// writeTextFile stores overlay text in the job's text directory and returns
// the file path.
func writeTextFile(dir, name, text string) (string, error) {
	if dir == "" {
		return "", errors.New("text directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure text directory: %w", err)
	}
	path := filepath.Join(dir, name+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write overlay text: %w", err)
	}
	return path, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// formatSeconds renders a time quantity for filter and argument strings.
// Accumulated offset arithmetic picks up float drift, so values are rounded
// to the microsecond before formatting.
func formatSeconds(value float64) string {
	return formatFloat(math.Round(value*1e6) / 1e6)
}

func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(maxVal, value))
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// escapeFFmpegPath prepares a path for the single-quoted filter arguments
// the builders emit. Inside ffmpeg single quotes everything is literal, so
// only the quote itself needs handling: close, escape, reopen.
func escapeFFmpegPath(value string) string {
	value = filepath.Clean(value)
	return strings.ReplaceAll(value, "'", `'\''`)
}
