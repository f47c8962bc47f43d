package idx

import (
	"io"

	"gonum.org/v1/gonum/blas/blas32"
)

// normTable maps a stored pixel byte to its value in [0, 1].
var normTable = func() (t [256]float32) {
	for i := range t {
		t[i] = float32(i) / 255
	}
	return t
}()

// Images is a Count x (Rows*Cols) sample matrix stored row-major in Data.
type Images struct {
	Count int
	Rows  int
	Cols  int
	Data  []float32
}

// Features is the length of one flattened image.
func (m *Images) Features() int {
	return m.Rows * m.Cols
}

// Row returns image i without copying.
func (m *Images) Row(i int) []float32 {
	n := m.Features()
	return m.Data[i*n : (i+1)*n : (i+1)*n]
}

func (m *Images) At(i, j int) float32 {
	return m.Data[i*m.Features()+j]
}

// General returns a BLAS view sharing Data.
func (m *Images) General() blas32.General {
	n := m.Features()
	return blas32.General{
		Rows:   m.Count,
		Cols:   n,
		Stride: max(n, 1),
		Data:   m.Data,
	}
}

// DecodeImages reads an image file and returns its pixels scaled to [0, 1].
func DecodeImages(r io.Reader) (*Images, error) {
	h, err := readHeader(r, KindImages)
	if err != nil {
		return nil, err
	}
	n, err := h.PayloadSize()
	if err != nil {
		return nil, err
	}
	raw, err := readPayload(r, "image payload", n)
	if err != nil {
		return nil, err
	}

	data := make([]float32, n)
	for i, b := range raw {
		data[i] = normTable[b]
	}
	return &Images{
		Count: int(h.Count),
		Rows:  int(h.Rows),
		Cols:  int(h.Cols),
		Data:  data,
	}, nil
}
