package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// WritePlaceholder renders a solid background PNG, optionally labelled, and
// writes it to path. Used for blank/generated slides and as the substitute
// for slide imagery that could not be resolved.
func WritePlaceholder(path string, width, height int, background string, label string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("placeholder dimensions %dx%d invalid", width, height)
	}

	bg := ParseColor(background, color.RGBA{R: 0x22, G: 0x26, B: 0x2b, A: 0xff})

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if label = strings.TrimSpace(label); label != "" {
		face := basicfont.Face7x13
		textWidth := font.MeasureString(face, label).Ceil()
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(contrastColor(bg)),
			Face: face,
			Dot: fixed.P(
				(width-textWidth)/2,
				height/2,
			),
		}
		drawer.DrawString(label)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create placeholder: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode placeholder: %w", err)
	}
	return nil
}

// ParseColor understands #rgb/#rrggbb hex values and the small set of named
// colors the project descriptions use. Unknown values fall back to def.
func ParseColor(value string, def color.RGBA) color.RGBA {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return def
	}

	if named, ok := namedColors[value]; ok {
		return named
	}

	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	case 6:
	default:
		return def
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return def
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}

var namedColors = map[string]color.RGBA{
	"black":  {0x00, 0x00, 0x00, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"red":    {0xff, 0x00, 0x00, 0xff},
	"green":  {0x00, 0x80, 0x00, 0xff},
	"blue":   {0x00, 0x00, 0xff, 0xff},
	"gray":   {0x80, 0x80, 0x80, 0xff},
	"navy":   {0x00, 0x00, 0x80, 0xff},
	"orange": {0xff, 0xa5, 0x00, 0xff},
}

// contrastColor picks black or white text depending on background luminance.
func contrastColor(bg color.RGBA) color.RGBA {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 140 {
		return namedColors["black"]
	}
	return namedColors["white"]
}
