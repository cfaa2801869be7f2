package decode

import "github.com/pkg/errors"

// LazySource is spec.md §3/§4.5's "lazy source": advertised dimensions
// plus a zero-argument factory returning encoded bytes. Header answers
// from the advertised dimensions without invoking the factory; Next
// invokes it once, probes the format, and delegates to the matching
// plug-in.
type LazySource struct {
	width, height int
	factory       func() ([]byte, error)
	registry      *Registry
	inner         Decoder
}

func NewLazySource(width, height int, factory func() ([]byte, error)) *LazySource {
	return &LazySource{width: width, height: height, factory: factory, registry: Default()}
}

// WithRegistry swaps the registry used to resolve the factory's bytes,
// for callers that registered a custom plug-in (e.g. HEIC) on their
// own Registry instead of the process-wide default.
func (s *LazySource) WithRegistry(r *Registry) *LazySource {
	s.registry = r
	return s
}

func (s *LazySource) Header() ImageHeader {
	return ImageHeader{Width: s.width, Height: s.height}
}

func (s *LazySource) open() error {
	if s.inner != nil {
		return nil
	}
	data, err := s.factory()
	if err != nil {
		return errors.WithStack(err)
	}
	dec, err := s.registry.Open(data)
	if err != nil {
		return err
	}
	s.inner = dec
	return nil
}

func (s *LazySource) Next() ([]byte, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return s.inner.Next()
}

func (s *LazySource) Close() error {
	if s.inner == nil {
		return nil
	}
	return s.inner.Close()
}
