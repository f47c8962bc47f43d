package idx

import (
	"errors"
	"io"
	"slices"
)

// readChunk bounds how far the payload buffer grows ahead of the bytes that
// have actually arrived.
const readChunk = 1 << 20

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func readFull(r io.Reader, buf []byte, section string) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if isEOF(err) {
		return &TruncatedDataError{Section: section, Expected: int64(len(buf)), Actual: int64(n)}
	}
	return err
}

func readPayload(r io.Reader, section string, n int) ([]byte, error) {
	buf := make([]byte, 0, min(n, readChunk))
	for len(buf) < n {
		want := min(n-len(buf), readChunk)
		buf = slices.Grow(buf, want)
		got, err := io.ReadFull(r, buf[len(buf):len(buf)+want])
		buf = buf[:len(buf)+got]
		if err != nil {
			if isEOF(err) {
				return nil, &TruncatedDataError{Section: section, Expected: int64(n), Actual: int64(len(buf))}
			}
			return nil, err
		}
	}
	return buf, nil
}
