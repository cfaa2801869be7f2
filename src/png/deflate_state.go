package png

import (
	"bytes"
	"hash"

	kflate "github.com/klauspost/compress/flate"

	"github.com/mac/go-concat/src/compress"
)

// DeflateState is the push-based compressor side of the Deflate
// Pipeline: push/flush/finish, with compressed bytes dispatched to a
// sink callback as they become available. After Finish, further
// pushes fail with ErrUsedAfterFinish.
type DeflateState interface {
	Push(p []byte) error
	Flush() error
	Finish() error
}

// DeflateOptions configures a DeflateState backend.
type DeflateOptions struct {
	Level     int
	BatchSize int
}

func (o DeflateOptions) withDefaults() DeflateOptions {
	if o.Level <= 0 {
		o.Level = 6
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 10 << 20
	}
	return o
}

// NewWholeBufferDeflate backs the "small input, no benefit from
// incremental flush" path: it buffers every pushed byte and, on
// Finish, runs the teacher's from-scratch compressor
// (compress.DeflateEncoder.EncodeAuto) once over the whole buffer,
// emitting a single zlib-wrapped chunk. This is naufaldi-go-pixo's own
// encoding strategy (see idat_writer.go's buildZlibData), reused
// as-is rather than reimplemented.
func NewWholeBufferDeflate(opts DeflateOptions, onChunk func([]byte) error) DeflateState {
	opts = opts.withDefaults()
	return &wholeBufferDeflate{opts: opts, onChunk: onChunk}
}

type wholeBufferDeflate struct {
	opts     DeflateOptions
	onChunk  func([]byte) error
	buf      bytes.Buffer
	finished bool
}

func (s *wholeBufferDeflate) Push(p []byte) error {
	if s.finished {
		return ErrUsedAfterFinish
	}
	s.buf.Write(p)
	return nil
}

func (s *wholeBufferDeflate) Flush() error {
	if s.finished {
		return ErrUsedAfterFinish
	}
	return nil
}

func (s *wholeBufferDeflate) Finish() error {
	if s.finished {
		return ErrUsedAfterFinish
	}
	s.finished = true

	raw := s.buf.Bytes()
	cmf, err := compress.ZlibHeaderBytes(32768, 2)
	if err != nil {
		return err
	}

	enc := compress.NewDeflateEncoder()
	enc.SetCompressionLevel(s.opts.Level)
	deflated, err := enc.EncodeAuto(raw)
	if err != nil {
		return ErrCompressionFailed
	}

	footer := compress.ZlibFooterBytes(compress.Adler32(raw))

	out := make([]byte, 0, len(cmf)+len(deflated)+len(footer))
	out = append(out, cmf...)
	out = append(out, deflated...)
	out = append(out, footer[:]...)
	return s.onChunk(out)
}

// NewStreamingDeflate backs the true-streaming path: pushed bytes are
// written straight into klauspost/compress/flate's writer, which is
// sync-flushed every time the batch size is crossed (spec.md §4.3's
// "library deflate with an onData callback" backend), so the
// concatenator never has to hold the whole scanline stream in memory.
// The zlib header/footer (klauspost's flate.Writer emits raw deflate
// only) are produced the same way the whole-buffer backend does.
func NewStreamingDeflate(opts DeflateOptions, onChunk func([]byte) error) (DeflateState, error) {
	opts = opts.withDefaults()
	buf := &bytes.Buffer{}
	fw, err := kflate.NewWriter(buf, opts.Level)
	if err != nil {
		return nil, ErrCompressionFailed
	}
	return &streamingDeflate{
		opts:    opts,
		onChunk: onChunk,
		buf:     buf,
		fw:      fw,
		adler:   compress.NewAdler32(),
	}, nil
}

type streamingDeflate struct {
	opts        DeflateOptions
	onChunk     func([]byte) error
	buf         *bytes.Buffer
	fw          *kflate.Writer
	adler       hash.Hash32
	pushedBytes int
	headerSent  bool
	finished    bool
}

func (s *streamingDeflate) emitHeader() error {
	if s.headerSent {
		return nil
	}
	s.headerSent = true
	cmf, err := compress.ZlibHeaderBytes(32768, 2)
	if err != nil {
		return err
	}
	return s.onChunk(cmf)
}

func (s *streamingDeflate) drain() error {
	if s.buf.Len() == 0 {
		return nil
	}
	chunk := make([]byte, s.buf.Len())
	copy(chunk, s.buf.Bytes())
	s.buf.Reset()
	return s.onChunk(chunk)
}

func (s *streamingDeflate) Push(p []byte) error {
	if s.finished {
		return ErrUsedAfterFinish
	}
	if err := s.emitHeader(); err != nil {
		return err
	}
	s.adler.Write(p)
	if _, err := s.fw.Write(p); err != nil {
		return ErrCompressionFailed
	}
	s.pushedBytes += len(p)
	if s.pushedBytes >= s.opts.BatchSize {
		return s.Flush()
	}
	return nil
}

func (s *streamingDeflate) Flush() error {
	if s.finished {
		return ErrUsedAfterFinish
	}
	if err := s.emitHeader(); err != nil {
		return err
	}
	if err := s.fw.Flush(); err != nil {
		return ErrCompressionFailed
	}
	s.pushedBytes = 0
	return s.drain()
}

func (s *streamingDeflate) Finish() error {
	if s.finished {
		return ErrUsedAfterFinish
	}
	if err := s.emitHeader(); err != nil {
		return err
	}
	s.finished = true
	if err := s.fw.Close(); err != nil {
		return ErrCompressionFailed
	}
	if err := s.drain(); err != nil {
		return err
	}
	footer := compress.ZlibFooterBytes(s.adler.Sum32())
	return s.onChunk(footer[:])
}
