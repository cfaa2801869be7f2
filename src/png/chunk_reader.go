package png

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"
)

// ChunkReader scans a PNG byte stream chunk by chunk, verifying the
// signature and each chunk's CRC as it goes. It is the read-side
// counterpart to Chunk.WriteTo, grounded on fumin-png's decoder loop:
// the same length|type|data|crc framing, read with a running CRC
// rather than recomputed from a fully buffered payload.
type ChunkReader struct {
	r   io.Reader
	crc hash.Hash32
}

func newHash() hash.Hash32 { return crc32.NewIEEE() }

// rawChunk is a chunk as read off the wire, before any type-specific parsing.
type rawChunk struct {
	Type string
	Data []byte
}

func NewChunkReader(r io.Reader) (*ChunkReader, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrInvalidSignature
		}
		return nil, err
	}
	if !IsValidSignature(sig[:]) {
		return nil, ErrInvalidSignature
	}
	return &ChunkReader{r: r, crc: newHash()}, nil
}

// Next reads one chunk from the stream and verifies its CRC.
func (cr *ChunkReader) Next() (rawChunk, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(cr.r, hdr[:]); err != nil {
		if err == io.EOF {
			return rawChunk{}, io.ErrUnexpectedEOF
		}
		return rawChunk{}, err
	}
	length := binary.BigEndian.Uint32(hdr[:4])
	if length > 0x7FFFFFFF {
		return rawChunk{}, ErrInvalidChunkData
	}
	typ := string(hdr[4:8])

	cr.crc.Reset()
	cr.crc.Write(hdr[4:8])

	data := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(cr.r, data); err != nil {
			return rawChunk{}, io.ErrUnexpectedEOF
		}
		cr.crc.Write(data)
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(cr.r, crcBuf[:]); err != nil {
		return rawChunk{}, io.ErrUnexpectedEOF
	}
	if binary.BigEndian.Uint32(crcBuf[:]) != cr.crc.Sum32() {
		return rawChunk{}, ErrCRCMismatch
	}

	return rawChunk{Type: typ, Data: data}, nil
}
