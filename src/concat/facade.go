package concat

import (
	"bytes"
	"io"
)

// Concat runs req to completion and returns the full output buffer,
// spec.md §6's "single buffer" output shape.
func Concat(req Request) ([]byte, error) {
	c, err := New(req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.Run(func(b []byte) error {
		_, err := buf.Write(b)
		return err
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConcatToStream runs req, writing each emitted chunk straight to w as
// soon as it's available: spec.md §6's "push stream" output shape.
func ConcatToStream(req Request, w io.Writer) error {
	c, err := New(req)
	if err != nil {
		return err
	}
	return c.Run(func(b []byte) error {
		_, err := w.Write(b)
		return err
	})
}

// ChunkIterator is spec.md §9's reified pull-iterator
// (`next() → ByteChunk | End | Err`) over a concatenation run's output.
type ChunkIterator struct {
	chunks chan []byte
	errc   chan error
	cancel chan struct{}
	done   bool
	err    error
}

// ConcatStreaming runs req on a background goroutine and returns a
// pull iterator over its output chunks, spec.md §6's "pull iterator of
// byte chunks" output shape.
func ConcatStreaming(req Request) (*ChunkIterator, error) {
	c, err := New(req)
	if err != nil {
		return nil, err
	}

	it := &ChunkIterator{
		chunks: make(chan []byte, 4),
		errc:   make(chan error, 1),
		cancel: make(chan struct{}),
	}

	go func() {
		defer close(it.chunks)
		runErr := c.Run(func(b []byte) error {
			cp := make([]byte, len(b))
			copy(cp, b)
			select {
			case it.chunks <- cp:
				return nil
			case <-it.cancel:
				return ErrCancelled
			}
		})
		it.errc <- runErr
	}()

	return it, nil
}

// Next returns the next chunk, or (nil, io.EOF) once the run
// completes, or the run's error if it failed.
func (it *ChunkIterator) Next() ([]byte, error) {
	if it.done {
		return nil, it.err
	}
	chunk, ok := <-it.chunks
	if ok {
		return chunk, nil
	}
	it.done = true
	if runErr := <-it.errc; runErr != nil && runErr != error(ErrCancelled) {
		it.err = runErr
		return nil, runErr
	}
	it.err = io.EOF
	return nil, io.EOF
}

// Cancel stops the run on its next step: every open decoder and the
// compressor are released and no further chunks are delivered, per
// spec.md §5.
func (it *ChunkIterator) Cancel() {
	select {
	case <-it.cancel:
	default:
		close(it.cancel)
	}
}
