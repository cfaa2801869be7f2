package png

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func buildChunkBytes(t *testing.T, typ string, data []byte) []byte {
	t.Helper()
	c := Chunk{chunkType: ChunkType(typ), Data: data}
	return c.Bytes()
}

func TestChunkReader_ReadsValidStream(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature())
	buf.Write(buildChunkBytes(t, "IHDR", []byte("fake-ihdr-data")))
	buf.Write(buildChunkBytes(t, "IDAT", []byte("fake-idat-data")))
	buf.Write(buildChunkBytes(t, "IEND", nil))

	cr, err := NewChunkReader(&buf)
	if err != nil {
		t.Fatalf("NewChunkReader: %v", err)
	}

	wantTypes := []string{"IHDR", "IDAT", "IEND"}
	for _, want := range wantTypes {
		ch, err := cr.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if ch.Type != want {
			t.Errorf("got type %q, want %q", ch.Type, want)
		}
	}

	if _, err := cr.Next(); err != io.ErrUnexpectedEOF {
		t.Errorf("reading past IEND: got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestChunkReader_RejectsBadSignature(t *testing.T) {
	buf := bytes.NewReader([]byte("not a png file........"))
	if _, err := NewChunkReader(buf); err != ErrInvalidSignature {
		t.Errorf("got %v, want ErrInvalidSignature", err)
	}
}

func TestChunkReader_RejectsCRCMismatch(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature())
	chunkBytes := buildChunkBytes(t, "IDAT", []byte("payload"))
	// Corrupt the trailing CRC.
	chunkBytes[len(chunkBytes)-1] ^= 0xFF
	buf.Write(chunkBytes)

	cr, err := NewChunkReader(&buf)
	if err != nil {
		t.Fatalf("NewChunkReader: %v", err)
	}
	if _, err := cr.Next(); err != ErrCRCMismatch {
		t.Errorf("got %v, want ErrCRCMismatch", err)
	}
}

func TestChunkReader_RejectsTruncatedChunk(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature())
	full := buildChunkBytes(t, "IDAT", []byte("payload"))
	buf.Write(full[:len(full)-3]) // cut off mid-CRC

	cr, err := NewChunkReader(&buf)
	if err != nil {
		t.Fatalf("NewChunkReader: %v", err)
	}
	if _, err := cr.Next(); err != io.ErrUnexpectedEOF {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestChunkReader_RejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature())
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], 0xFFFFFFFF)
	copy(hdr[4:8], "IDAT")
	buf.Write(hdr[:])

	cr, err := NewChunkReader(&buf)
	if err != nil {
		t.Fatalf("NewChunkReader: %v", err)
	}
	if _, err := cr.Next(); err != ErrInvalidChunkData {
		t.Errorf("got %v, want ErrInvalidChunkData", err)
	}
}
