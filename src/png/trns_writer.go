package png

import (
	"encoding/binary"
	"io"

	"github.com/mac/go-concat/src/compress"
)

// WriteTRNS writes alpha values for palette entries.
// Only needed if palette has transparency.
// The alpha values correspond to each palette entry in order.
func WriteTRNS(w io.Writer, alphaValues []uint8) error {
	if len(alphaValues) == 0 {
		return nil
	}
	if len(alphaValues) > 256 {
		return ErrInvalidChunkData
	}

	data := make([]byte, len(alphaValues))
	for i, a := range alphaValues {
		data[i] = a
	}

	length := uint32(len(data))
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return err
	}

	if err := binary.Write(w, nil, []byte("tRNS")); err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}

	crc := compress.CRC32(append([]byte("tRNS"), data...))
	if err := binary.Write(w, binary.BigEndian, crc); err != nil {
		return err
	}

	return nil
}

// TRNSChunkData returns the raw tRNS chunk data without chunk wrapper.
func TRNSChunkData(alphaValues []uint8) []byte {
	if len(alphaValues) == 0 || len(alphaValues) > 256 {
		return nil
	}

	data := make([]byte, len(alphaValues))
	for i, a := range alphaValues {
		data[i] = a
	}

	return data
}

// ValidateTRNS checks if tRNS data is valid for a given palette.
func ValidateTRNS(alphaValues []uint8, paletteSize int) error {
	if len(alphaValues) > paletteSize {
		return ErrInvalidChunkData
	}
	return nil
}

// ReadTRNS parses a tRNS chunk's data for a PNG_COLOR_TYPE_PALETTE
// image into a per-index alpha lookup. Entries beyond the tRNS data are
// implicitly fully opaque per the PNG spec, so the returned slice is
// padded to paletteSize with 255.
func ReadTRNS(data []byte, paletteSize int) ([]uint8, error) {
	if len(data) > paletteSize {
		return nil, ErrInvalidChunkData
	}

	alpha := make([]uint8, paletteSize)
	for i := range alpha {
		alpha[i] = 255
	}
	copy(alpha, data)

	return alpha, nil
}
