//go:build js && wasm

package wasm

import (
	"fmt"
	"syscall/js"

	"github.com/mac/go-concat/src/concat"
	"github.com/mac/go-concat/src/pixel"
	"github.com/mac/go-concat/src/png"
)

/**
 * HandleEncodePng converts JS arguments to Go and calls EncodePng.
 * Expected arguments: (pixels: Uint8Array, width: number, height: number, colorType: number, preset: number, lossy: boolean)
 * preset and lossy are accepted for wire compatibility with existing
 * callers but are no-ops: the teacher's quantization/dithering preset
 * path they once selected was dropped (see DESIGN.md), and this encoder
 * always writes full RGBA8/RGB8/grayscale, never a reduced palette.
 */
func HandleEncodePng(this js.Value, args []js.Value) any {
	if len(args) < 6 {
		return js.ValueOf("invalid arguments")
	}

	pixelsJS := args[0]
	width := args[1].Int()
	height := args[2].Int()
	colorType := args[3].Int()

	// Copy JS buffer to Go slice
	pixels := make([]byte, pixelsJS.Get("length").Int())
	js.CopyBytesToGo(pixels, pixelsJS)

	output, err := EncodePng(pixels, width, height, colorType)
	if err != nil {
		return js.ValueOf(fmt.Sprintf("error: %v", err))
	}

	// Copy Go slice back to JS
	dst := js.Global().Get("Uint8Array").New(len(output))
	js.CopyBytesToJS(dst, output)

	return dst
}

/**
 * HandleBytesPerPixel returns the bytes per pixel for a given color type.
 * Expected arguments: (colorType: number)
 */
func HandleBytesPerPixel(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	colorType := args[0].Int()
	return js.ValueOf(BytesPerPixel(colorType))
}

/**
 * EncodePng encodes pixels as a PNG image using the go-pixo PNG encoder.
 * Returns PNG file bytes ready to be written to a file or used in a browser.
 */
func EncodePng(pixels []byte, width, height int, colorType int) ([]byte, error) {
	var pngColorType png.ColorType
	switch colorType {
	case 0:
		pngColorType = png.ColorGrayscale
	case 2:
		pngColorType = png.ColorRGB
	case 6:
		pngColorType = png.ColorRGBA
	default:
		return nil, fmt.Errorf("unsupported color type: %d", colorType)
	}

	encoder, err := png.NewEncoder(width, height, pngColorType)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	pngBytes, err := encoder.Encode(pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return pngBytes, nil
}

/**
 * BytesPerPixel returns bytes per pixel based on color type.
 * 2 = RGB, 6 = RGBA
 */
func BytesPerPixel(colorType int) int {
	switch colorType {
	case 2: // RGB
		return 3
	case 6: // RGBA
		return 4
	default:
		return 4
	}
}

/**
 * HandleConcat concatenates N encoded images (PNG/JPEG bytes, each
 * still in its own on-wire format) into one PNG, per spec.md's
 * ConcatRequest. Expected arguments:
 *   images: Uint8Array[] (each element an encoded source image)
 *   columns: number (0 = unset)
 *   rows: number (0 = unset)
 *   maxWidth: number (0 = unset)
 *   maxHeight: number (0 = unset)
 *   background: string (color spec, "" = transparent)
 */
func HandleConcat(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return js.ValueOf("invalid arguments")
	}

	imagesJS := args[0]
	n := imagesJS.Get("length").Int()
	inputs := make([]concat.Input, n)
	for i := 0; i < n; i++ {
		buf := imagesJS.Index(i)
		data := make([]byte, buf.Get("length").Int())
		js.CopyBytesToGo(data, buf)
		inputs[i] = concat.FromBytes(data)
	}

	columns := args[1].Int()
	rows := args[2].Int()
	maxWidth := args[3].Int()
	maxHeight := args[4].Int()

	b := concat.NewRequestBuilder(inputs)
	if columns > 0 {
		b = b.Columns(columns)
	}
	if rows > 0 {
		b = b.Rows(rows)
	}
	if maxWidth > 0 || maxHeight > 0 {
		b = b.MaxDimensions(maxWidth, maxHeight)
	}
	if len(args) > 5 && args[5].Type() == js.TypeString {
		spec := args[5].String()
		if spec != "" {
			c, err := pixel.ParseColor(spec)
			if err != nil {
				return js.ValueOf(fmt.Sprintf("error: %v", err))
			}
			b = b.Background(c)
		}
	}

	out, err := concat.Concat(b.Build())
	if err != nil {
		return js.ValueOf(fmt.Sprintf("error: %v", err))
	}

	dst := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(dst, out)
	return dst
}
