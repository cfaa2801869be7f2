package concat

import "github.com/mac/go-concat/src/decode"

// inputKind tags Input's variant, per spec.md §9's "replace dynamic
// dispatch on input types with a tagged variant."
type inputKind int

const (
	inputBytes inputKind = iota
	inputPath
	inputDecoder
	inputLazy
)

// Input is one source image, in whichever shape the caller has it in:
// raw bytes, a file path, a pre-built decode.Decoder, or a lazy
// source. Grid-mode inputs are placed by the layout planner; calling
// At/AtZ switches an input to positioned mode (spec.md §6).
type Input struct {
	kind    inputKind
	bytes   []byte
	path    string
	decoder decode.Decoder
	lazy    *decode.LazySource

	positioned bool
	x, y, z    int
}

// FromBytes wraps raw encoded image bytes (PNG/JPEG/HEIC), format
// probed at resolution time.
func FromBytes(b []byte) Input { return Input{kind: inputBytes, bytes: b} }

// FromPath wraps a host file path, read lazily when the façade
// resolves inputs.
func FromPath(path string) Input { return Input{kind: inputPath, path: path} }

// FromDecoder wraps an already-constructed decoder handle.
func FromDecoder(d decode.Decoder) Input { return Input{kind: inputDecoder, decoder: d} }

// FromLazy wraps a lazy source: advertised dimensions plus a factory
// invoked only once the concatenator's row loop actually needs bytes
// from it.
func FromLazy(l *decode.LazySource) Input { return Input{kind: inputLazy, lazy: l} }

// At marks the input as positioned at (x, y), z-order 0. Positioned
// and grid-mode inputs cannot be mixed in one Request (spec.md §9).
func (in Input) At(x, y int) Input {
	in.positioned = true
	in.x, in.y = x, y
	return in
}

// AtZ marks the input as positioned at (x, y) with an explicit
// stacking order; higher z draws later (on top).
func (in Input) AtZ(x, y, z int) Input {
	in.positioned = true
	in.x, in.y, in.z = x, y, z
	return in
}
