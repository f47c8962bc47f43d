package idx

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"math/bits"
)

// Header is the fixed-width prefix of an IDX file. Rows and Cols are only
// encoded for image files and are zero for labels.
type Header struct {
	Magic uint32
	Count uint32
	Rows  uint32
	Cols  uint32
}

func (h Header) Kind() Kind {
	return KindOf(h.Magic)
}

// PayloadSize returns the number of payload bytes the header declares.
func (h Header) PayloadSize() (int, error) {
	var n uint64
	switch h.Kind() {
	case KindLabels:
		n = uint64(h.Count)
	case KindImages:
		hi, lo := bits.Mul64(uint64(h.Count), uint64(h.Rows)*uint64(h.Cols))
		if hi != 0 {
			return 0, ErrDimensions
		}
		n = lo
	default:
		return 0, &FormatError{Observed: h.Magic}
	}
	if n > math.MaxInt {
		return 0, ErrDimensions
	}
	return int(n), nil
}

func decodeHeader(b []byte) Header {
	h := Header{
		Magic: binary.BigEndian.Uint32(b[0:4]),
		Count: binary.BigEndian.Uint32(b[4:8]),
	}
	if len(b) >= imageHeaderSize {
		h.Rows = binary.BigEndian.Uint32(b[8:12])
		h.Cols = binary.BigEndian.Uint32(b[12:16])
	}
	return h
}

func encodeHeader(dst []byte, h Header) []byte {
	dst = binary.BigEndian.AppendUint32(dst, h.Magic)
	dst = binary.BigEndian.AppendUint32(dst, h.Count)
	if h.Kind() == KindImages {
		dst = binary.BigEndian.AppendUint32(dst, h.Rows)
		dst = binary.BigEndian.AppendUint32(dst, h.Cols)
	}
	return dst
}

// readHeader reads the full header for the expected kind and only then checks
// the magic number.
func readHeader(r io.Reader, want Kind) (Header, error) {
	buf := make([]byte, want.HeaderSize())
	if err := readFull(r, buf, "header"); err != nil {
		return Header{}, err
	}
	h := decodeHeader(buf)
	if h.Magic != want.Magic() {
		return Header{}, &FormatError{Kind: want, Expected: want.Magic(), Observed: h.Magic}
	}
	return h, nil
}

// ReadHeader reads a header of either kind without touching the payload.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [imageHeaderSize]byte
	if err := readFull(r, buf[:labelHeaderSize], "header"); err != nil {
		return Header{}, err
	}
	magic := binary.BigEndian.Uint32(buf[0:4])
	switch KindOf(magic) {
	case KindLabels:
		return decodeHeader(buf[:labelHeaderSize]), nil
	case KindImages:
		if err := readFull(r, buf[labelHeaderSize:], "header"); err != nil {
			var te *TruncatedDataError
			if errors.As(err, &te) {
				te.Expected += labelHeaderSize
				te.Actual += labelHeaderSize
			}
			return Header{}, err
		}
		return decodeHeader(buf[:]), nil
	default:
		return Header{}, &FormatError{Observed: magic}
	}
}
