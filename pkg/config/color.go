package config

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/mhuels/posterforge/pkg/errors"
)

// namedColors covers the small palette accepted besides hex notation.
var namedColors = map[string]color.RGBA{
	"white":  {255, 255, 255, 255},
	"black":  {0, 0, 0, 255},
	"gold":   {255, 215, 0, 255},
	"yellow": {255, 255, 0, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 255, 0, 255},
	"blue":   {0, 0, 255, 255},
}

// ParseColor accepts "#rrggbb", "#rgb" (with or without the hash), or a
// named color. Unknown values are a configuration error, not a silent
// fallback.
func ParseColor(s string) (color.RGBA, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if trimmed == "" {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "empty color value")
	}

	if c, ok := namedColors[strings.ToLower(trimmed)]; ok {
		return c, nil
	}

	switch len(trimmed) {
	case 6:
		v, err := strconv.ParseUint(trimmed, 16, 32)
		if err != nil {
			return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color %q", s)
		}
		return color.RGBA{uint8(v >> 16), uint8(v >> 8 & 0xff), uint8(v & 0xff), 255}, nil
	case 3:
		v, err := strconv.ParseUint(trimmed, 16, 16)
		if err != nil {
			return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color %q", s)
		}
		r := uint8(v >> 8)
		g := uint8(v >> 4 & 0xf)
		b := uint8(v & 0xf)
		return color.RGBA{r*16 + r, g*16 + g, b*16 + b, 255}, nil
	default:
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "unknown color %q", s)
	}
}
