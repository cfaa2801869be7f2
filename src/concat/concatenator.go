package concat

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/mac/go-concat/src/decode"
	"github.com/mac/go-concat/src/layout"
	"github.com/mac/go-concat/src/pixel"
	"github.com/mac/go-concat/src/png"
)

const idatChunkCap = 64 * 1024

// placement is one resolved input: its decoder, its final position and
// size, and its stacking order.
type placement struct {
	dec    decode.Decoder
	x, y   int
	w, h   int
	z      int
	closed bool

	// started tracks whether the decoder's hidden leading rows (a cell
	// clipped off the top edge, negative y) have already been discarded,
	// per spec.md §8's "positioned images with negative coordinates"
	// boundary.
	started bool
}

// Concatenator is the row-driven streaming core, spec.md §4.8: it owns
// the output row buffer, the previous-row buffer, and the compressor,
// and nothing else — decoders are exclusive to their own cell for the
// duration of their active row span.
type Concatenator struct {
	background   pixel.Color
	blend        bool
	width        int
	height       int
	placements   []*placement
	outputFormat OutputFormat
	jpegQuality  int
	optimize     Optimize
	deflateLevel int
	batchSize    int
	onProgress   func(done, total int)
	onWarning    func(msg string)

	done, total int
}

func resolveInput(in Input, registry *decode.Registry) (decode.Decoder, error) {
	switch in.kind {
	case inputBytes:
		dec, err := registry.Open(in.bytes)
		if err != nil {
			return nil, classify(err)
		}
		return dec, nil
	case inputPath:
		data, err := os.ReadFile(in.path)
		if err != nil {
			return nil, wrapError(KindIOError, err, "reading input file "+in.path)
		}
		dec, err := registry.Open(data)
		if err != nil {
			return nil, classify(err)
		}
		return dec, nil
	case inputDecoder:
		return in.decoder, nil
	case inputLazy:
		return in.lazy, nil
	default:
		return nil, newError(KindUnsupportedFormat, "unknown input kind")
	}
}

// resolveOptimize implements spec.md §6's optimize=auto heuristic:
// true streaming when the estimated working set exceeds maxMemoryMB,
// or when any single input exceeds ~4 megapixels and every input is a
// file path (so the in-memory fast path can't assume all bytes are
// already resident); otherwise the in-memory fast path.
func resolveOptimize(req Request, decoders []decode.Decoder, allFilePaths bool) Optimize {
	switch req.Optimize {
	case OptimizeSpeed, OptimizeMemory:
		return req.Optimize
	}

	maxMemoryMB := req.MaxMemoryMB
	if maxMemoryMB <= 0 {
		maxMemoryMB = 100
	}
	maxBytes := int64(maxMemoryMB) * 1024 * 1024

	var inputBytes, outputPixels int64
	anyOver4MP := false
	for _, in := range req.Inputs {
		if in.kind == inputBytes {
			inputBytes += int64(len(in.bytes))
		}
	}
	for _, dec := range decoders {
		h := dec.Header()
		mp := int64(h.Width) * int64(h.Height)
		outputPixels += mp
		if mp > 4_000_000 {
			anyOver4MP = true
		}
	}
	outputBytes := outputPixels * 4

	if inputBytes+outputBytes > maxBytes {
		return OptimizeMemory
	}
	if anyOver4MP && allFilePaths {
		return OptimizeMemory
	}
	return OptimizeSpeed
}

// New resolves req's inputs into decoders, plans their layout, and
// builds a ready-to-run Concatenator.
func New(req Request) (*Concatenator, error) {
	if len(req.Inputs) == 0 {
		return nil, ErrEmptyInputs
	}

	registry := req.Registry
	if registry == nil {
		registry = decode.Default()
	}

	decoders := make([]decode.Decoder, len(req.Inputs))
	items := make([]layout.Item, len(req.Inputs))
	allFilePaths := true
	for i, in := range req.Inputs {
		dec, err := resolveInput(in, registry)
		if err != nil {
			return nil, err
		}
		if in.kind != inputPath {
			allFilePaths = false
		}
		decoders[i] = dec

		h := dec.Header()
		item := layout.Item{Size: layout.Size{Width: h.Width, Height: h.Height}}
		if in.positioned {
			item.Pos = &layout.Position{X: in.x, Y: in.y, Z: in.z}
		}
		items[i] = item
	}

	plan, err := layout.Plan(items, req.Layout)
	if err != nil {
		return nil, classify(err)
	}

	var placements []*placement
	var width, height int
	blend := false

	if plan.Grid != nil {
		g := plan.Grid
		width, height = g.TotalWidth, g.TotalHeight
		for r := range g.Grid {
			for c := range g.Grid[r] {
				idx := g.Grid[r][c]
				if idx < 0 {
					continue
				}
				x, y := g.CellOrigin(r, c)
				h := decoders[idx].Header()
				placements = append(placements, &placement{dec: decoders[idx], x: x, y: y, w: h.Width, h: h.Height})
			}
		}
		if g.Dropped > 0 && req.OnWarning != nil {
			req.OnWarning(errors.Errorf("pixel-budget layout dropped %d input(s) that did not fit within the requested height", g.Dropped).Error())
		}
	} else {
		p := plan.Positioned
		width, height = p.CanvasWidth, p.CanvasHeight
		for _, rect := range p.Items {
			placements = append(placements, &placement{
				dec: decoders[rect.InputIndex],
				x:   rect.X, y: rect.Y, z: rect.Z,
				w: rect.Width, h: rect.Height,
			})
		}
		blend = true
	}

	if req.EnableAlphaBlending != nil {
		blend = *req.EnableAlphaBlending
	}

	if width <= 0 || height <= 0 {
		return nil, ErrInvalidLayout
	}

	sort.SliceStable(placements, func(i, j int) bool { return placements[i].z < placements[j].z })

	optimize := resolveOptimize(req, decoders, allFilePaths)

	jpegQuality := req.JPEGQuality
	if jpegQuality <= 0 {
		jpegQuality = 90
	}

	return &Concatenator{
		background:   req.BackgroundColor,
		blend:        blend,
		width:        width,
		height:       height,
		placements:   placements,
		outputFormat: req.OutputFormat,
		jpegQuality:  jpegQuality,
		optimize:     optimize,
		deflateLevel: 6,
		batchSize:    10 << 20,
		onProgress:   req.OnProgress,
		onWarning:    req.OnWarning,
		total:        len(placements),
	}, nil
}

// blitRow composites (or copies) one source scanline into dst at
// pixel offset dstX, clipping any part that falls outside
// [0, dstWidth).
func blitRow(dst []byte, dstWidth, dstX int, src []byte, srcWidth int, blend bool) {
	sx0, dx0 := 0, dstX
	if dx0 < 0 {
		sx0 = -dx0
		dx0 = 0
	}
	sx1 := srcWidth
	if dstX+sx1 > dstWidth {
		sx1 = dstWidth - dstX
	}
	if sx0 >= sx1 {
		return
	}
	n := sx1 - sx0
	pixel.CompositeRow(dst[dx0*4:], 0, src[sx0*4:sx0*4+n*4], 1, blend)
}

// buildRow composes one full output scanline into outRow (which must
// already be sized width*4), activating/deactivating cells per
// spec.md §4.8 steps 2-4. A cell's vertical span is clipped to the
// canvas on both edges: a negative p.y hides that many leading source
// rows (discarded from the decoder before the first visible row), and
// a span extending past c.height simply stops being visited, closing
// the decoder at the last visible row rather than at p.y+p.h-1.
func (c *Concatenator) buildRow(outRow []byte, y int) error {
	pixel.FillRow(outRow, 0, c.width, 1, c.background)

	for _, p := range c.placements {
		if p.h == 0 {
			continue
		}
		visibleStart := p.y
		if visibleStart < 0 {
			visibleStart = 0
		}
		visibleEnd := p.y + p.h
		if visibleEnd > c.height {
			visibleEnd = c.height
		}
		if y < visibleStart || y >= visibleEnd {
			continue
		}

		if !p.started {
			p.started = true
			for skip := visibleStart - p.y; skip > 0; skip-- {
				if _, err := p.dec.Next(); err != nil {
					return classify(err)
				}
			}
		}

		row, err := p.dec.Next()
		if err != nil {
			return classify(err)
		}
		blitRow(outRow, c.width, p.x, row, p.w, c.blend)
		if y == visibleEnd-1 {
			p.closed = true
			if err := p.dec.Close(); err != nil {
				return classify(err)
			}
			c.done++
			if c.onProgress != nil {
				c.onProgress(c.done, c.total)
			}
		}
	}
	return nil
}

func flushIDAT(emit func([]byte) error, buf *bytes.Buffer, final bool) error {
	for {
		if buf.Len() == 0 {
			return nil
		}
		if !final && buf.Len() < idatChunkCap {
			return nil
		}
		n := idatChunkCap
		if buf.Len() < n {
			n = buf.Len()
		}
		data := make([]byte, n)
		copy(data, buf.Next(n))
		var cb bytes.Buffer
		if err := png.WriteChunk(&cb, png.ChunkIDAT, data); err != nil {
			return classify(err)
		}
		if err := emit(cb.Bytes()); err != nil {
			return err
		}
	}
}

// Run drives the row loop and emits raw byte chunks to emit, in the
// container format chosen by outputFormat. Whatever happens — success,
// a fatal error, or the emit callback signaling cancellation — every
// decoder still open when Run returns is closed, per spec.md §5's
// cancellation contract ("no partial-output semantics" beyond that:
// resources are always released).
func (c *Concatenator) Run(emit func([]byte) error) error {
	defer c.closeRemaining()
	if c.outputFormat == OutputJPEG {
		return c.runJPEG(emit)
	}
	return c.runPNG(emit)
}

func (c *Concatenator) closeRemaining() {
	for _, p := range c.placements {
		if !p.closed {
			p.closed = true
			p.dec.Close()
		}
	}
}

func (c *Concatenator) runPNG(emit func([]byte) error) error {
	if err := emit(png.Signature()); err != nil {
		return err
	}
	ihdr, err := png.NewIHDRData(c.width, c.height, 8, uint8(png.ColorRGBA))
	if err != nil {
		return classify(err)
	}
	var ihdrBuf bytes.Buffer
	if err := png.WriteIHDR(&ihdrBuf, ihdr); err != nil {
		return classify(err)
	}
	if err := emit(ihdrBuf.Bytes()); err != nil {
		return err
	}

	var idatBuf bytes.Buffer
	onChunk := func(b []byte) error {
		idatBuf.Write(b)
		return flushIDAT(emit, &idatBuf, false)
	}

	opts := png.DeflateOptions{Level: c.deflateLevel, BatchSize: c.batchSize}
	var ds png.DeflateState
	if c.optimize == OptimizeSpeed {
		ds = png.NewWholeBufferDeflate(opts, onChunk)
	} else {
		ds, err = png.NewStreamingDeflate(opts, onChunk)
		if err != nil {
			return classify(err)
		}
	}

	stride := c.width * 4
	outRow := make([]byte, stride)
	var prevRow []byte

	for y := 0; y < c.height; y++ {
		if err := c.buildRow(outRow, y); err != nil {
			return err
		}

		filterType, filtered := png.SelectFilter(outRow, prevRow, 4)
		payload := make([]byte, 1+len(filtered))
		payload[0] = byte(filterType)
		copy(payload[1:], filtered)
		if err := ds.Push(payload); err != nil {
			return classify(err)
		}

		prevRow = append(prevRow[:0], outRow...)
	}

	if err := ds.Finish(); err != nil {
		return classify(err)
	}
	if err := flushIDAT(emit, &idatBuf, true); err != nil {
		return err
	}

	var iendBuf bytes.Buffer
	if err := png.WriteIEND(&iendBuf); err != nil {
		return classify(err)
	}
	return emit(iendBuf.Bytes())
}

// runJPEG composites every row the same way the PNG path does, but
// writes directly into an in-memory image and defers to image/jpeg at
// the end: spec.md §6 describes an 8-row-strip feed to a JPEG encoder
// collaborator, but the standard library's jpeg.Encode has no
// incremental-strip entry point, so the accumulation happens in a
// plain image.NRGBA instead (see DESIGN.md for why no third-party
// streaming JPEG encoder in the pack could serve this role either).
// Background is composited into every pixel, not just padding, since
// JPEG carries no alpha channel (spec.md §9's open question,
// resolved in favor of consistent rendering).
func (c *Concatenator) runJPEG(emit func([]byte) error) error {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	stride := c.width * 4
	outRow := make([]byte, stride)

	for y := 0; y < c.height; y++ {
		if err := c.buildRow(outRow, y); err != nil {
			return err
		}
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], outRow)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.jpegQuality}); err != nil {
		return wrapError(KindCompressionError, err, "jpeg encode")
	}
	return emit(buf.Bytes())
}
