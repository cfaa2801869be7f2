// Package concat is the façade: it resolves a Request's inputs into
// decoders, plans their layout, and drives the row-by-row streaming
// concatenator described by the png, pixel, layout, and decode
// packages, emitting a single PNG (or JPEG) byte stream.
package concat

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mac/go-concat/src/decode"
	"github.com/mac/go-concat/src/layout"
	"github.com/mac/go-concat/src/pixel"
	"github.com/mac/go-concat/src/png"
)

// Kind is one of spec.md §7's error kinds.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInputs
	KindInvalidLayout
	KindMixedLayoutModes
	KindIncompatibleImageFormats
	KindUnsupportedFormat
	KindCorruptSignature
	KindTruncatedChunk
	KindChunkCrcMismatch
	KindMissingIHDR
	KindMissingIDAT
	KindAdam7Truncated
	KindInvalidFilterType
	KindInvalidHex
	KindInvalidColor
	KindCompressionError
	KindDecompressionError
	KindTruncatedStream
	KindExtraBytes
	KindDecoderUnavailable
	KindIOError
	KindUsedAfterFinish
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInputs:
		return "EmptyInputs"
	case KindInvalidLayout:
		return "InvalidLayout"
	case KindMixedLayoutModes:
		return "MixedLayoutModes"
	case KindIncompatibleImageFormats:
		return "IncompatibleImageFormats"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindCorruptSignature:
		return "CorruptSignature"
	case KindTruncatedChunk:
		return "TruncatedChunk"
	case KindChunkCrcMismatch:
		return "ChunkCrcMismatch"
	case KindMissingIHDR:
		return "MissingIHDR"
	case KindMissingIDAT:
		return "MissingIDAT"
	case KindAdam7Truncated:
		return "Adam7Truncated"
	case KindInvalidFilterType:
		return "InvalidFilterType"
	case KindInvalidHex:
		return "InvalidHex"
	case KindInvalidColor:
		return "InvalidColor"
	case KindCompressionError:
		return "CompressionError"
	case KindDecompressionError:
		return "DecompressionError"
	case KindTruncatedStream:
		return "TruncatedStream"
	case KindExtraBytes:
		return "ExtraBytes"
	case KindDecoderUnavailable:
		return "DecoderUnavailable"
	case KindIOError:
		return "IOError"
	case KindUsedAfterFinish:
		return "UsedAfterFinish"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the façade's error type: a Kind from spec.md §7's taxonomy
// plus a pkg/errors-wrapped cause carrying a stack trace, per
// SPEC_FULL.md's ambient-stack section.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, err: errors.New(msg)}
}

func wrapError(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

var (
	ErrEmptyInputs     = newError(KindEmptyInputs, "no inputs provided")
	ErrUsedAfterFinish = newError(KindUsedAfterFinish, "deflate state used after finish")
	ErrCancelled       = newError(KindCancelled, "concatenation cancelled")
	ErrInvalidLayout   = newError(KindInvalidLayout, "resolved output has zero dimension")
)

// classify maps an error surfaced by layout/decode/png back to a
// *Error with the right Kind, so every error the façade returns is
// typed regardless of which internal package raised it first.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}

	// Errors crossing a package boundary (decode.Registry.Open,
	// newPNGDecoder, ProbeFormat, ...) arrive wrapped in a pkg/errors
	// stack (Wrap/Wrapf/WithStack), so a bare `==` switch against the
	// wrapped value would never match the original sentinel.
	// errors.Cause unwraps to the innermost cause before the switch.
	switch errors.Cause(err) {
	case io.ErrUnexpectedEOF:
		return wrapError(KindTruncatedChunk, err, "png chunk framing")
	case layout.ErrEmptyInputs:
		return wrapError(KindEmptyInputs, err, "layout")
	case layout.ErrInvalidLayout:
		return wrapError(KindInvalidLayout, err, "layout")
	case layout.ErrMixedLayoutModes:
		return wrapError(KindMixedLayoutModes, err, "layout")
	case decode.ErrUnsupportedFormat:
		return wrapError(KindUnsupportedFormat, err, "decode")
	case decode.ErrDecoderUnavailable:
		return wrapError(KindDecoderUnavailable, err, "decode")
	case decode.ErrUnrecognizedMagic:
		return wrapError(KindUnsupportedFormat, err, "decode")
	case png.ErrInvalidSignature:
		return wrapError(KindCorruptSignature, err, "png")
	case png.ErrCRCMismatch:
		return wrapError(KindChunkCrcMismatch, err, "png")
	case png.ErrTruncatedStream:
		return wrapError(KindTruncatedStream, err, "png")
	case png.ErrMissingIHDR:
		return wrapError(KindMissingIHDR, err, "png")
	case png.ErrMissingIDAT:
		return wrapError(KindMissingIDAT, err, "png")
	case png.ErrAdam7Truncated:
		return wrapError(KindAdam7Truncated, err, "png")
	case png.ErrInvalidFilterType:
		return wrapError(KindInvalidFilterType, err, "png")
	case png.ErrExtraBytes:
		return wrapError(KindExtraBytes, err, "png")
	case png.ErrCompressionFailed:
		return wrapError(KindCompressionError, err, "png")
	case png.ErrUsedAfterFinish:
		return wrapError(KindUsedAfterFinish, err, "png")
	case pixel.ErrInvalidColor:
		return wrapError(KindInvalidColor, err, "pixel")
	default:
		return wrapError(KindIOError, err, "concat")
	}
}
