package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor decodes a CSS hex color (#rgb, #rrggbb, or #rrggbbaa) into an
// NRGBA value. A handful of named colors used by the default styles are
// accepted too.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	switch s {
	case "black":
		return color.NRGBA{A: 0xff}, nil
	case "white":
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	case "yellow":
		return color.NRGBA{R: 0xff, G: 0xff, A: 0xff}, nil
	case "red":
		return color.NRGBA{R: 0xff, A: 0xff}, nil
	}

	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("unsupported color %q", s)
	}
	hex := s[1:]

	switch len(hex) {
	case 3:
		var c [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
			}
			c[i] = uint8(v*16 + v)
		}
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 0xff}, nil
	case 6, 8:
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return color.NRGBA{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: uint8(v),
		}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
}

// ParseColorDefault is ParseColor with a fallback for malformed values, so a
// bad color in a live style degrades instead of aborting a paint.
func ParseColorDefault(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// WithAlpha scales the alpha channel of c by opacity in [0,1].
func WithAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}
