package png

import (
	"io"

	kzlib "github.com/klauspost/compress/zlib"
)

// Header describes a decoded PNG's IHDR fields, generalized from
// ihdr.go's write-side IHDRData to the shape the rest of the read path
// (and the decode plug-in wrapper) consumes.
type Header struct {
	Width, Height int
	BitDepth      uint8
	ColorType     ColorType
	Interlace     uint8
}

// Decoder pulls IDAT bytes from a PNG byte stream, inflates them, and
// yields one reconstructed (unfiltered) scanline at a time in its
// native bit depth and color type. It does not normalize to 8-bit
// RGBA; that belongs to the decode package's plug-in wrapper, which
// also owns PLTE/tRNS color resolution. Grounded on fumin-png's
// row-by-row Decoder, generalized past its single cbTCA8 (8-bit RGBA)
// case to every PNG-legal (bitDepth, colorType) pair and to Adam7.
type Decoder struct {
	header  Header
	Palette Palette
	TRNS    []uint8

	zr io.ReadCloser

	bpp    int
	stride int
	prev   []byte
	cur    []byte
	y      int

	// Interlaced images are decoded whole up front: the final pixel at
	// row 0 can depend on pass 7, the last pass in the bitstream, so
	// there is no way to serve row 0 before the stream is exhausted.
	interlaced bool
	assembled  []byte
}

func NewDecoder(r io.Reader) (*Decoder, error) {
	cr, err := NewChunkReader(r)
	if err != nil {
		return nil, err
	}

	d := &Decoder{}
	seenIHDR := false
	var idat *idatReader

	for idat == nil {
		ch, err := cr.Next()
		if err != nil {
			return nil, err
		}
		switch ch.Type {
		case string(ChunkIHDR):
			ihdr, err := ParseIHDRData(ch.Data)
			if err != nil {
				return nil, err
			}
			seenIHDR = true
			d.header = Header{
				Width:     int(ihdr.Width),
				Height:    int(ihdr.Height),
				BitDepth:  ihdr.BitDepth,
				ColorType: ihdr.ColorType,
				Interlace: ihdr.Interlace,
			}
		case string(ChunkPLTE):
			if !seenIHDR {
				return nil, ErrChunkOutOfOrder
			}
			pal, err := ReadPLTE(ch.Data)
			if err != nil {
				return nil, err
			}
			d.Palette = pal
		case string(ChunkTRNS):
			if !seenIHDR {
				return nil, ErrChunkOutOfOrder
			}
			if d.header.ColorType == ColorIndexed {
				alpha, err := ReadTRNS(ch.Data, d.Palette.NumColors)
				if err != nil {
					return nil, err
				}
				d.TRNS = alpha
			}
		case string(ChunkIDAT):
			if !seenIHDR {
				return nil, ErrMissingIHDR
			}
			idat = newIDATReader(cr, ch.Data)
		case string(ChunkIEND):
			return nil, ErrMissingIDAT
		default:
			// Ancillary chunk; nothing in the core reads it.
		}
	}

	if d.header.ColorType == ColorIndexed && d.Palette.NumColors == 0 {
		return nil, ErrMissingPLTE
	}

	zr, err := kzlib.NewReader(idat)
	if err != nil {
		return nil, err
	}
	d.zr = zr
	d.interlaced = d.header.Interlace == InterlaceAdam7
	d.bpp = FilterBytesPerPixel(d.header.ColorType, d.header.BitDepth)
	d.stride = RowStride(d.header.Width, d.header.ColorType, d.header.BitDepth)
	d.prev = make([]byte, d.stride)
	d.cur = make([]byte, d.stride)

	if d.interlaced {
		if err := d.assembleInterlaced(); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *Decoder) Header() Header { return d.header }

// Next returns the y-th unfiltered scanline, in row order, or io.EOF
// once Height rows have been produced.
func (d *Decoder) Next() ([]byte, error) {
	if d.y >= d.header.Height {
		return nil, io.EOF
	}
	if d.interlaced {
		row := d.assembled[d.y*d.stride : (d.y+1)*d.stride]
		d.y++
		return row, nil
	}

	row, err := d.readFilteredRow(d.zr, d.stride)
	if err != nil {
		return nil, err
	}
	unfiltered, err := reconstructRow(row, d.prev, d.bpp)
	if err != nil {
		return nil, err
	}
	d.prev, d.cur = unfiltered, d.prev
	d.y++
	return unfiltered, nil
}

// Close releases the inflate window. It does not verify trailing
// chunks (IEND) the way fumin-png's does, since the concatenator
// treats any input error as fatal regardless and never reuses a
// partially-drained decoder.
func (d *Decoder) Close() error {
	if d.zr == nil {
		return nil
	}
	return d.zr.Close()
}

func (d *Decoder) readFilteredRow(r io.Reader, stride int) ([]byte, error) {
	row := make([]byte, 1+stride)
	if _, err := io.ReadFull(r, row); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncatedStream
		}
		return nil, err
	}
	if row[0] > byte(FilterPaeth) {
		return nil, ErrInvalidFilterType
	}
	return row, nil
}

// reconstructRow unfilters a single filtered row ([1]filterType +
// data) using the Reconstruct* functions from filter_reconstruct.go.
func reconstructRow(filtered []byte, prev []byte, bpp int) ([]byte, error) {
	ft := FilterType(filtered[0])
	data := filtered[1:]
	switch ft {
	case FilterNone:
		return ReconstructNone(data), nil
	case FilterSub:
		return ReconstructSub(data, bpp), nil
	case FilterUp:
		return ReconstructUp(data, prev), nil
	case FilterAverage:
		return ReconstructAverage(data, prev, bpp), nil
	case FilterPaeth:
		return ReconstructPaeth(data, prev, bpp), nil
	default:
		return nil, ErrInvalidFilterType
	}
}

// assembleInterlaced decodes all seven Adam7 passes and scatters them
// into d.assembled, a full top-to-bottom raster at the native bit
// depth/color type.
func (d *Decoder) assembleInterlaced() error {
	var passRows [7][][]byte
	bpp := FilterBytesPerPixel(d.header.ColorType, d.header.BitDepth)

	for p := 0; p < 7; p++ {
		pw, ph := Adam7PassDims(d.header.Width, d.header.Height, p)
		if pw == 0 || ph == 0 {
			continue
		}
		passStride := RowStride(pw, d.header.ColorType, d.header.BitDepth)
		prev := make([]byte, passStride)
		rows := make([][]byte, ph)
		for y := 0; y < ph; y++ {
			filtered, err := d.readFilteredRow(d.zr, passStride)
			if err != nil {
				if err == ErrTruncatedStream {
					return ErrAdam7Truncated
				}
				return err
			}
			row, err := reconstructRow(filtered, prev, bpp)
			if err != nil {
				return err
			}
			rows[y] = row
			prev = row
		}
		passRows[p] = rows
	}

	d.assembled = Adam7Deinterlace(passRows, d.header.Width, d.header.Height, d.header.ColorType, d.header.BitDepth)
	return nil
}

// idatReader presents one or more IDAT chunks as a single contiguous
// byte stream, pulling the next IDAT chunk from the chunk reader as
// each one is exhausted. Grounded on fumin-png's decoder.Read, but
// built atop ChunkReader.Next (whole-chunk, CRC-verified) rather than
// raw byte-level reads, since Chunk already owns CRC framing here.
type idatReader struct {
	cr   *ChunkReader
	buf  []byte
	done bool
}

func newIDATReader(cr *ChunkReader, first []byte) *idatReader {
	return &idatReader{cr: cr, buf: first}
}

func (r *idatReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.done {
			return 0, io.EOF
		}
		ch, err := r.cr.Next()
		if err != nil {
			return 0, err
		}
		switch ch.Type {
		case string(ChunkIDAT):
			r.buf = ch.Data
		case string(ChunkIEND):
			r.done = true
			return 0, io.EOF
		default:
			// Ancillary chunk between IDAT runs; skip it.
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
