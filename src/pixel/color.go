// Package pixel implements the normalized-buffer pixel operations
// spec.md §4.6 calls for: scanline copy, fill, and source-over
// compositing for 8- and 16-bit channels, plus background color
// resolution.
package pixel

import (
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// Color is a resolved background color, 8 bits per channel. Higher
// bit depths are produced on demand by Expand.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the default background when none is requested,
// per spec.md §3's BackgroundColor: "when absent, resolves to fully
// transparent."
var Transparent = Color{0, 0, 0, 0}

var ErrInvalidColor = errors.New("pixel: invalid color specification")

// namedColors covers spec.md §6's literal name set. red/gray/grey are
// the plain primaries the spec lists, not colornames' CSS near-miss
// shades (colornames' "gray" is also (128,128,128), but it has no
// "grey" alias), so they're defined locally; green/yellow/cyan/magenta
// fall through to colornames below since they agree with the web
// palette exactly.
var namedColors = map[string]Color{
	"black": {0, 0, 0, 255},
	"white": {255, 255, 255, 255},
	"red":   {255, 0, 0, 255},
	"gray":  {128, 128, 128, 255},
	"grey":  {128, 128, 128, 255},
}

// ParseColor resolves a named color or a CSS-style hex string
// (#RGB, #RGBA, #RRGGBB, #RRGGBBAA) per spec.md §6's backgroundColor
// shape, grounded on golang.org/x/image/colornames for the named half
// instead of a hand-rolled table.
func ParseColor(spec string) (Color, error) {
	if spec == "" {
		return Transparent, nil
	}
	if spec[0] == '#' {
		return parseHexColor(spec)
	}
	if c, ok := namedColors[spec]; ok {
		return c, nil
	}
	if rgba, ok := colornames.Map[spec]; ok {
		return Color{rgba.R, rgba.G, rgba.B, rgba.A}, nil
	}
	return Color{}, errors.Wrapf(ErrInvalidColor, "unknown color name %q", spec)
}

func parseHexComponent(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseHexColor(s string) (Color, error) {
	h := s[1:]
	switch len(h) {
	case 3, 4:
		r, err1 := parseHexComponent(string([]byte{h[0], h[0]}))
		g, err2 := parseHexComponent(string([]byte{h[1], h[1]}))
		b, err3 := parseHexComponent(string([]byte{h[2], h[2]}))
		if err1 != nil || err2 != nil || err3 != nil {
			return Color{}, errors.Wrapf(ErrInvalidColor, "bad hex color %q", s)
		}
		a := byte(255)
		if len(h) == 4 {
			av, err := parseHexComponent(string([]byte{h[3], h[3]}))
			if err != nil {
				return Color{}, errors.Wrapf(ErrInvalidColor, "bad hex color %q", s)
			}
			a = av
		}
		return Color{r, g, b, a}, nil
	case 6, 8:
		r, err1 := parseHexComponent(h[0:2])
		g, err2 := parseHexComponent(h[2:4])
		b, err3 := parseHexComponent(h[4:6])
		if err1 != nil || err2 != nil || err3 != nil {
			return Color{}, errors.Wrapf(ErrInvalidColor, "bad hex color %q", s)
		}
		a := byte(255)
		if len(h) == 8 {
			av, err := parseHexComponent(h[6:8])
			if err != nil {
				return Color{}, errors.Wrapf(ErrInvalidColor, "bad hex color %q", s)
			}
			a = av
		}
		return Color{r, g, b, a}, nil
	default:
		return Color{}, errors.Wrapf(ErrInvalidColor, "bad hex length %q", s)
	}
}

// FromChannels validates and builds a Color from [r,g,b,a] or [r,g,b]
// (opaque) channel values, per spec.md §6's array form.
func FromChannels(channels []int) (Color, error) {
	if len(channels) != 3 && len(channels) != 4 {
		return Color{}, errors.Wrapf(ErrInvalidColor, "expected 3 or 4 channels, got %d", len(channels))
	}
	for _, v := range channels {
		if v < 0 || v > 255 {
			return Color{}, errors.Wrapf(ErrInvalidColor, "channel %d out of [0,255]", v)
		}
	}
	a := 255
	if len(channels) == 4 {
		a = channels[3]
	}
	return Color{uint8(channels[0]), uint8(channels[1]), uint8(channels[2]), uint8(a)}, nil
}

// Expand widens an 8-bit channel value to the sample width used by
// bytesPerChannel (1 for 8-bit output, 2 for 16-bit), replicating the
// byte so full-scale still maps to full-scale (v*257 for 16-bit).
func expandChannel(v uint8, bytesPerChannel int) uint32 {
	if bytesPerChannel == 1 {
		return uint32(v)
	}
	return uint32(v) * 257
}

// Expand returns the color's channels scaled to bytesPerChannel.
func (c Color) Expand(bytesPerChannel int) (r, g, b, a uint32) {
	return expandChannel(c.R, bytesPerChannel),
		expandChannel(c.G, bytesPerChannel),
		expandChannel(c.B, bytesPerChannel),
		expandChannel(c.A, bytesPerChannel)
}
