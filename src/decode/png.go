package decode

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/mac/go-concat/src/png"
)

// pngDecoder adapts the bundled png.Decoder (chunk parsing, inflate,
// filter reconstruction, Adam7) to the plug-in interface by
// normalizing each native row to 8-bit RGBA, per spec.md §4.5.
type pngDecoder struct {
	d      *png.Decoder
	header ImageHeader
}

func newPNGDecoder(data []byte) (Decoder, error) {
	d, err := png.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	h := d.Header()
	return &pngDecoder{d: d, header: ImageHeader{Width: h.Width, Height: h.Height}}, nil
}

func (p *pngDecoder) Header() ImageHeader { return p.header }

func (p *pngDecoder) Next() ([]byte, error) {
	row, err := p.d.Next()
	if err != nil {
		return nil, err
	}
	h := p.d.Header()
	return normalizeRow(row, h.Width, h.ColorType, h.BitDepth, p.d.Palette, p.d.TRNS), nil
}

func (p *pngDecoder) Close() error { return p.d.Close() }

// scaleSample maps a bitDepth-wide channel sample to an 8-bit one.
// 16-bit samples are truncated to the high byte, as spec.md §4.5
// specifies; sub-byte depths are linearly rescaled so the full-scale
// value still maps to 255.
func scaleSample(v uint16, bitDepth uint8) uint8 {
	switch bitDepth {
	case 8:
		return uint8(v)
	case 16:
		return uint8(v >> 8)
	default:
		maxVal := uint32((1 << bitDepth) - 1)
		return uint8((uint32(v)*255 + maxVal/2) / maxVal)
	}
}

// normalizeRow converts one native scanline (already unfiltered, still
// packed at bitDepth/colorType) into width*4 bytes of RGBA8.
func normalizeRow(row []byte, width int, colorType png.ColorType, bitDepth uint8, pal png.Palette, trns []uint8) []byte {
	if colorType == png.ColorRGBA && bitDepth == 8 {
		// Already RGBA8: a zero-copy view, per spec.md §4.5.
		return row[:width*4]
	}

	out := make([]byte, width*4)
	switch colorType {
	case png.ColorGrayscale:
		for x := 0; x < width; x++ {
			g := scaleSample(png.GetSample(row, x, bitDepth), bitDepth)
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = g, g, g, 255
		}
	case png.ColorGrayscaleAlpha:
		for x := 0; x < width; x++ {
			g := scaleSample(png.GetSample(row, x*2, bitDepth), bitDepth)
			a := scaleSample(png.GetSample(row, x*2+1, bitDepth), bitDepth)
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = g, g, g, a
		}
	case png.ColorRGB:
		for x := 0; x < width; x++ {
			r := scaleSample(png.GetSample(row, x*3, bitDepth), bitDepth)
			g := scaleSample(png.GetSample(row, x*3+1, bitDepth), bitDepth)
			b := scaleSample(png.GetSample(row, x*3+2, bitDepth), bitDepth)
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = r, g, b, 255
		}
	case png.ColorRGBA:
		for x := 0; x < width; x++ {
			r := scaleSample(png.GetSample(row, x*4, bitDepth), bitDepth)
			g := scaleSample(png.GetSample(row, x*4+1, bitDepth), bitDepth)
			b := scaleSample(png.GetSample(row, x*4+2, bitDepth), bitDepth)
			a := scaleSample(png.GetSample(row, x*4+3, bitDepth), bitDepth)
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = r, g, b, a
		}
	case png.ColorIndexed:
		for x := 0; x < width; x++ {
			idx := int(png.GetSample(row, x, bitDepth))
			c, err := pal.Lookup(idx)
			if err != nil {
				c = png.Color{}
			}
			a := uint8(255)
			if idx < len(trns) {
				a = trns[idx]
			}
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = c.R, c.G, c.B, a
		}
	}
	return out
}
