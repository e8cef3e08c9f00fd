package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// FromUnit converts an RGBA colour in the 0-1 range, clamping each channel.
func FromUnit(c [4]float64) Color {
	ch := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return Color{ch(c[0]), ch(c[1]), ch(c[2]), ch(c[3])}
}

// ParseColor reads "#rgb", "#rrggbb" or one of black, white, gray and
// none. None is fully transparent.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "black":
		return ColorBlack, nil
	case "white":
		return ColorWhite, nil
	case "gray", "grey":
		return ColorGray, nil
	case "none", "":
		return Color{}, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	var r, g, b uint8
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid colour %q", s)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(hex, "%2x%2x%2x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid colour %q", s)
		}
	default:
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	return RGB(r, g, b), nil
}
