// Package decode implements the decoder plug-in interface: a
// polymorphic "image source" abstraction exposing a header, a
// per-scanline iterator yielding normalized 8-bit RGBA rows, and a
// release method, plus the process-wide registry that maps a probed
// format to a constructor. The PNG decoder is bundled; JPEG decodes
// whole-image up front and yields rows from the cached buffer; HEIC is
// registry-shaped but unavailable unless a host application registers
// one.
package decode

import (
	"github.com/pkg/errors"
)

// ImageHeader is the minimal shape the layout planner and concatenator
// need from any source: its pixel dimensions.
type ImageHeader struct {
	Width  int
	Height int
}

// Decoder is the plug-in contract every image source implements.
// Header may be called before iteration. Next yields exactly
// Header().Height rows of 4-byte-per-pixel RGBA8, then io.EOF. Rows
// are forward-only: the concatenator never rewinds.
type Decoder interface {
	Header() ImageHeader
	Next() ([]byte, error)
	Close() error
}

// Format is a probed or requested source encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatHEIC
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatHEIC:
		return "heic"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupportedFormat is returned when no constructor is
	// registered for a probed format.
	ErrUnsupportedFormat = errors.New("decode: unsupported format")
	// ErrDecoderUnavailable is returned by a registry-shaped but
	// unimplemented plug-in slot (HEIC, by default).
	ErrDecoderUnavailable = errors.New("decode: decoder unavailable for this format")
	// ErrUnrecognizedMagic is returned when a byte slice matches none
	// of the registry's magic-byte probes.
	ErrUnrecognizedMagic = errors.New("decode: could not determine image format")
)

// ProbeFormat inspects magic bytes, per spec.md §6: PNG's 8-byte
// signature, JPEG's FF D8 FF SOI marker, and HEIC's ISO-BMFF "ftyp" box
// with a HEIC-family brand.
func ProbeFormat(data []byte) (Format, error) {
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A {
		return FormatPNG, nil
	}
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return FormatJPEG, nil
	}
	if isHEIC(data) {
		return FormatHEIC, nil
	}
	return FormatUnknown, errors.WithStack(ErrUnrecognizedMagic)
}

var heicBrands = map[string]bool{
	"heic": true, "heix": true, "hevc": true, "hevx": true,
	"heim": true, "heis": true, "hevm": true, "hevs": true,
	"mif1": true, "msf1": true,
}

func isHEIC(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	return heicBrands[string(data[8:12])]
}

// Constructor builds a Decoder from raw encoded bytes.
type Constructor func(data []byte) (Decoder, error)

// Registry maps a format to a Decoder constructor. It is built once at
// application start (NewRegistry pre-populates PNG and JPEG) and
// passed by reference, per spec.md §9's note against process-wide
// plug-in singletons; Default() is a convenience wrapper over one such
// registry for callers that don't need their own.
type Registry struct {
	constructors map[Format]Constructor
}

func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[Format]Constructor)}
	r.Register(FormatPNG, newPNGDecoder)
	r.Register(FormatJPEG, newJPEGDecoder)
	r.Register(FormatHEIC, newHEICDecoder)
	return r
}

func (r *Registry) Register(f Format, ctor Constructor) {
	r.constructors[f] = ctor
}

// Open probes data's format and constructs the matching decoder.
func (r *Registry) Open(data []byte) (Decoder, error) {
	format, err := ProbeFormat(data)
	if err != nil {
		return nil, err
	}
	ctor, ok := r.constructors[format]
	if !ok {
		return nil, errors.WithStack(ErrUnsupportedFormat)
	}
	dec, err := ctor(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode: opening %s image", format)
	}
	return dec, nil
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry, initialized with the
// bundled PNG and JPEG plug-ins. Application code may Register
// additional formats (e.g. a real HEIC decoder) on it at startup.
func Default() *Registry { return defaultRegistry }
