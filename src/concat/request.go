package concat

import (
	"github.com/mac/go-concat/src/decode"
	"github.com/mac/go-concat/src/layout"
	"github.com/mac/go-concat/src/pixel"
)

// Optimize selects the compression backend, per spec.md §6. Speed
// forces the teacher's whole-buffer compressor (png.NewWholeBufferDeflate);
// Memory forces the klauspost-backed true-streaming backend
// (png.NewStreamingDeflate); Auto picks one from the heuristic in
// resolveOptimize.
type Optimize int

const (
	OptimizeAuto Optimize = iota
	OptimizeMemory
	OptimizeSpeed
)

// OutputFormat selects the emitted container.
type OutputFormat int

const (
	OutputPNG OutputFormat = iota
	OutputJPEG
)

// Request is the façade's input, generalizing png.Options/OptionsBuilder
// (the teacher's whole-image encoder configuration) to a multi-input,
// multi-format concatenation job.
type Request struct {
	Inputs []Input
	Layout layout.Request

	BackgroundColor pixel.Color
	// EnableAlphaBlending overrides the mode default (on for
	// positioned, off for grid) when non-nil.
	EnableAlphaBlending *bool

	OutputFormat OutputFormat
	JPEGQuality  int

	Optimize    Optimize
	MaxMemoryMB int

	// Registry resolves probed formats to decoders. Nil uses
	// decode.Default().
	Registry *decode.Registry

	// OnProgress is called after each input image's last row is
	// consumed, per spec.md §4.8: onProgress(i+1, N).
	OnProgress func(done, total int)

	// OnWarning reports non-fatal conditions spec.md §9 leaves open
	// (e.g. the pixel-budget layout silently dropping inputs). Nil
	// means warnings are discarded, matching "current source silently
	// truncates" — see DESIGN.md's Open Question disposition.
	OnWarning func(msg string)
}

// RequestBuilder is a fluent builder over Request, following the
// teacher's OptionsBuilder shape (Fast/Balanced/Max generalize to
// Speed/Auto/Memory for the optimize axis).
type RequestBuilder struct {
	req Request
}

// NewRequestBuilder seeds a builder with the given inputs and the
// spec's stated defaults: optimize=auto, maxMemoryMB=100, png output.
func NewRequestBuilder(inputs []Input) *RequestBuilder {
	return &RequestBuilder{req: Request{
		Inputs:       inputs,
		Optimize:     OptimizeAuto,
		MaxMemoryMB:  100,
		OutputFormat: OutputPNG,
		JPEGQuality:  90,
	}}
}

func (b *RequestBuilder) WithLayout(l layout.Request) *RequestBuilder {
	b.req.Layout = l
	return b
}

func (b *RequestBuilder) Columns(n int) *RequestBuilder {
	b.req.Layout.Columns = &n
	return b
}

func (b *RequestBuilder) Rows(n int) *RequestBuilder {
	b.req.Layout.Rows = &n
	return b
}

func (b *RequestBuilder) MaxDimensions(width, height int) *RequestBuilder {
	b.req.Layout.Width = width
	b.req.Layout.Height = height
	return b
}

func (b *RequestBuilder) Background(c pixel.Color) *RequestBuilder {
	b.req.BackgroundColor = c
	return b
}

func (b *RequestBuilder) BackgroundSpec(spec string) (*RequestBuilder, error) {
	c, err := pixel.ParseColor(spec)
	if err != nil {
		return b, classify(err).(*Error)
	}
	b.req.BackgroundColor = c
	return b, nil
}

func (b *RequestBuilder) AlphaBlending(enabled bool) *RequestBuilder {
	b.req.EnableAlphaBlending = &enabled
	return b
}

func (b *RequestBuilder) JPEG(quality int) *RequestBuilder {
	b.req.OutputFormat = OutputJPEG
	b.req.JPEGQuality = quality
	return b
}

// Speed forces the in-memory whole-buffer compressor.
func (b *RequestBuilder) Speed() *RequestBuilder {
	b.req.Optimize = OptimizeSpeed
	return b
}

// Memory forces the true-streaming compressor.
func (b *RequestBuilder) Memory() *RequestBuilder {
	b.req.Optimize = OptimizeMemory
	return b
}

// Auto restores the default heuristic (spec.md §6).
func (b *RequestBuilder) Auto() *RequestBuilder {
	b.req.Optimize = OptimizeAuto
	return b
}

func (b *RequestBuilder) MaxMemoryMB(mb int) *RequestBuilder {
	b.req.MaxMemoryMB = mb
	return b
}

func (b *RequestBuilder) WithRegistry(r *decode.Registry) *RequestBuilder {
	b.req.Registry = r
	return b
}

func (b *RequestBuilder) OnProgress(fn func(done, total int)) *RequestBuilder {
	b.req.OnProgress = fn
	return b
}

func (b *RequestBuilder) OnWarning(fn func(msg string)) *RequestBuilder {
	b.req.OnWarning = fn
	return b
}

func (b *RequestBuilder) Build() Request { return b.req }
