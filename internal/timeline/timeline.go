package timeline

import "strings"

// Transition identifies the crossfade style applied between two adjacent
// slides. The zero value falls back to TransitionFade.
type Transition string

const (
	TransitionFade       Transition = "fade"
	TransitionSlideUp    Transition = "slide-up"
	TransitionSlideDown  Transition = "slide-down"
	TransitionSlideLeft  Transition = "slide-left"
	TransitionSlideRight Transition = "slide-right"
	TransitionWipeLeft   Transition = "wipe-left"
	TransitionWipeRight  Transition = "wipe-right"
	TransitionCircle     Transition = "circle-crop"
)

// MotionKind identifies a Ken Burns motion curve applied to a still slide.
type MotionKind string

const (
	MotionNone     MotionKind = "none"
	MotionZoomIn   MotionKind = "zoom-in"
	MotionZoomOut  MotionKind = "zoom-out"
	MotionPanLeft  MotionKind = "pan-left"
	MotionPanRight MotionKind = "pan-right"
	MotionPanUp    MotionKind = "pan-up"
	MotionPanDown  MotionKind = "pan-down"
)

// Motion describes an optional Ken Burns effect for one slide. Intensity runs
// 1..10 and scales the zoom/pan amplitude.
type Motion struct {
	Kind      MotionKind `yaml:"kind"`
	Intensity int        `yaml:"intensity"`
}

// Crop is a normalized source rectangle applied before scaling. All fields
// are fractions of the source dimensions in [0,1].
type Crop struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Slide is one timed image unit on the visual timeline. ImageSource holds a
// resolved local path, a remote URL, or the empty string meaning the image is
// generated (blank backgrounds, the end screen).
type Slide struct {
	ID          string     `yaml:"id"`
	ImageSource string     `yaml:"image"`
	StartTime   float64    `yaml:"start"`
	EndTime     float64    `yaml:"end"`
	Transition  Transition `yaml:"transition"`
	Motion      *Motion    `yaml:"motion,omitempty"`
	Crop        *Crop      `yaml:"crop,omitempty"`
	IsEndScreen bool       `yaml:"end_screen"`
}

// Duration returns the slide's base duration in seconds.
func (s Slide) Duration() float64 {
	return s.EndTime - s.StartTime
}

// EffectiveTransition returns the slide transition, defaulting to fade.
func (s Slide) EffectiveTransition() Transition {
	if strings.TrimSpace(string(s.Transition)) == "" {
		return TransitionFade
	}
	return s.Transition
}

// BannerPosition selects which horizontal edge the banner occupies.
type BannerPosition string

const (
	BannerTop    BannerPosition = "top"
	BannerBottom BannerPosition = "bottom"
)

// Banner configures the semi-opaque text bar composited onto every frame.
type Banner struct {
	Enabled         bool           `yaml:"enabled"`
	Text            string         `yaml:"text"`
	LogoPath        string         `yaml:"logo,omitempty"`
	BackgroundColor string         `yaml:"background_color"`
	TextColor       string         `yaml:"text_color"`
	FontSize        int            `yaml:"font_size"`
	Position        BannerPosition `yaml:"position"`
}

// Corner identifies one of the four frame corners.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// QRCode configures the QR overlay composited on top of everything else.
type QRCode struct {
	Enabled    bool   `yaml:"enabled"`
	TargetURL  string `yaml:"url"`
	Position   Corner `yaml:"position"`
	SizePixels int    `yaml:"size"`
}

// Music configures the background music track.
type Music struct {
	Enabled       bool    `yaml:"enabled"`
	FilePath      string  `yaml:"file,omitempty"`
	VolumePercent int     `yaml:"volume"`
	Loop          bool    `yaml:"loop"`
	FadeIn        float64 `yaml:"fade_in"`
	FadeOut       float64 `yaml:"fade_out"`
}

// Voice configures the narration track. AudioPath, when set, points at
// pre-synthesized speech; the engine never performs text-to-speech itself.
type Voice struct {
	Enabled       bool   `yaml:"enabled"`
	Script        string `yaml:"script,omitempty"`
	AudioPath     string `yaml:"audio,omitempty"`
	VolumePercent int    `yaml:"volume"`
}

// EndScreen configures the styled closing card spliced onto the tail of the
// video when the last slide carries IsEndScreen.
type EndScreen struct {
	Enabled          bool    `yaml:"enabled"`
	DurationSeconds  float64 `yaml:"duration"`
	BackgroundColor  string  `yaml:"background_color"`
	TextColor        string  `yaml:"text_color"`
	CompanyName      string  `yaml:"company_name,omitempty"`
	PhoneNumber      string  `yaml:"phone_number,omitempty"`
	PhoneNumberColor string  `yaml:"phone_number_color,omitempty"`
	WebsiteLink      string  `yaml:"website,omitempty"`
	LogoPath         string  `yaml:"logo,omitempty"`
}

// Project is the immutable snapshot handed to the composition engine for one
// render invocation. The engine never mutates it and persists nothing of its
// own beyond the output file.
type Project struct {
	ID           string    `yaml:"id"`
	BusinessName string    `yaml:"business_name,omitempty"`
	Website      string    `yaml:"website,omitempty"`
	Slides       []Slide   `yaml:"slides"`
	Banner       Banner    `yaml:"banner"`
	QR           QRCode    `yaml:"qr"`
	Music        Music     `yaml:"music"`
	Voice        Voice     `yaml:"voice"`
	EndScreen    EndScreen `yaml:"end_screen"`
}

// TotalDuration returns the declared timeline length, i.e. the last slide's
// end time. Zero for an empty slide list.
func TotalDuration(slides []Slide) float64 {
	if len(slides) == 0 {
		return 0
	}
	return slides[len(slides)-1].EndTime
}

// EndScreenSlide returns the trailing end-screen slide if one exists.
func EndScreenSlide(slides []Slide) (Slide, bool) {
	if len(slides) == 0 {
		return Slide{}, false
	}
	last := slides[len(slides)-1]
	if !last.IsEndScreen {
		return Slide{}, false
	}
	return last, true
}

// ContentSlides returns the slides excluding a trailing end-screen slide.
func ContentSlides(slides []Slide) []Slide {
	if _, ok := EndScreenSlide(slides); ok {
		return slides[:len(slides)-1]
	}
	return slides
}
