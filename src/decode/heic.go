package decode

import "github.com/pkg/errors"

// newHEICDecoder is the registry's default HEIC slot: spec.md §4.5
// treats HEIC as an optional plug-in, and §3's DESIGN.md ledger
// explains why a pure-Go HEIC/HEVC decode is out of reach of this
// pack. A host application registers a real one with
// Registry.Register(FormatHEIC, ...) at startup.
func newHEICDecoder(data []byte) (Decoder, error) {
	return nil, errors.WithStack(ErrDecoderUnavailable)
}
