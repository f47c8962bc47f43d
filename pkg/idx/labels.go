package idx

import "io"

// DecodeLabels reads a label file. Values are returned as stored; the MNIST
// class range is not enforced.
func DecodeLabels(r io.Reader) ([]uint8, error) {
	h, err := readHeader(r, KindLabels)
	if err != nil {
		return nil, err
	}
	n, err := h.PayloadSize()
	if err != nil {
		return nil, err
	}
	return readPayload(r, "label payload", n)
}
