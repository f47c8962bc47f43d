package idx

import (
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
)

// WriteHeader encodes h. The layout is chosen from the magic number.
func WriteHeader(w io.Writer, h Header) error {
	if h.Kind() == KindUnknown {
		return &FormatError{Observed: h.Magic}
	}
	_, err := w.Write(encodeHeader(make([]byte, 0, imageHeaderSize), h))
	return err
}

// EncodeLabels writes a complete label file.
func EncodeLabels(w io.Writer, labels []uint8) error {
	if uint64(len(labels)) > math.MaxUint32 {
		return ErrDimensions
	}
	if err := WriteHeader(w, Header{Magic: MagicLabels, Count: uint32(len(labels))}); err != nil {
		return err
	}
	_, err := w.Write(labels)
	return err
}

// EncodeImages writes a complete image file, quantizing each value back to a
// byte with round(v*255) clamped to [0, 255].
func EncodeImages(w io.Writer, m *Images) error {
	if m.Count < 0 || m.Rows < 0 || m.Cols < 0 ||
		uint64(m.Count) > math.MaxUint32 || uint64(m.Rows) > math.MaxUint32 || uint64(m.Cols) > math.MaxUint32 {
		return ErrDimensions
	}
	if len(m.Data) != m.Count*m.Features() {
		return fmt.Errorf("idx: image data has %d values, shape %dx%dx%d needs %d",
			len(m.Data), m.Count, m.Rows, m.Cols, m.Count*m.Features())
	}
	h := Header{
		Magic: MagicImages,
		Count: uint32(m.Count),
		Rows:  uint32(m.Rows),
		Cols:  uint32(m.Cols),
	}
	if err := WriteHeader(w, h); err != nil {
		return err
	}

	buf := make([]byte, min(len(m.Data), readChunk))
	for off := 0; off < len(m.Data); off += len(buf) {
		chunk := m.Data[off:min(off+len(buf), len(m.Data))]
		for i, v := range chunk {
			buf[i] = quantize(v)
		}
		if _, err := w.Write(buf[:len(chunk)]); err != nil {
			return err
		}
	}
	return nil
}

func quantize(v float32) byte {
	q := math32.Round(v * 255)
	switch {
	case q <= 0 || math32.IsNaN(q):
		return 0
	case q >= 255:
		return 255
	default:
		return byte(q)
	}
}
