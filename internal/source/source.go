// Package source opens dataset files as decompressed byte streams.
//
// The compression is detected from the leading bytes rather than the file
// extension: gzip and zstd streams are decoded transparently, anything else is
// handed to the caller as is.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/samcharles93/mnist/pkg/idx"
)

type Compression uint8

const (
	None Compression = iota
	Gzip
	Zstd
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

const bufferSize = 64 << 10

// Detect classifies a stream from its first bytes.
func Detect(prefix []byte) Compression {
	switch {
	case bytes.HasPrefix(prefix, gzipMagic):
		return Gzip
	case bytes.HasPrefix(prefix, zstdMagic):
		return Zstd
	default:
		return None
	}
}

// Open returns the decompressed contents of path. Failures to open the file or
// to start decompressing it are reported as *idx.SourceUnavailableError, as are
// decompression failures during later reads. The returned stream must be
// closed.
func Open(path string) (io.ReadCloser, error) {
	rc, _, err := OpenDetect(path)
	return rc, err
}

// OpenDetect is Open that also reports the detected compression.
func OpenDetect(path string) (io.ReadCloser, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, None, unavailable(path, err)
	}

	var prefix [4]byte
	n, err := f.ReadAt(prefix[:], 0)
	if err != nil && err != io.EOF {
		_ = f.Close()
		return nil, None, unavailable(path, err)
	}
	c := Detect(prefix[:n])

	switch c {
	case Gzip:
		gz, err := gzip.NewReader(bufio.NewReaderSize(f, bufferSize))
		if err != nil {
			_ = f.Close()
			return nil, c, unavailable(path, fmt.Errorf("gzip: %w", err))
		}
		return &stream{path: path, r: gz, closers: []func() error{gz.Close, f.Close}}, c, nil
	case Zstd:
		dec, err := zstd.NewReader(bufio.NewReaderSize(f, bufferSize), zstd.WithDecoderConcurrency(1))
		if err != nil {
			_ = f.Close()
			return nil, c, unavailable(path, fmt.Errorf("zstd: %w", err))
		}
		closeDec := func() error {
			dec.Close()
			return nil
		}
		return &stream{path: path, r: dec, closers: []func() error{closeDec, f.Close}}, c, nil
	default:
		rc, err := openRaw(path, f)
		if err != nil {
			return nil, c, err
		}
		return rc, c, nil
	}
}

func unavailable(path string, err error) error {
	return &idx.SourceUnavailableError{Path: path, Err: err}
}

// stream reports read failures other than end of stream as source failures so
// decoders can tell a short file from a broken one.
type stream struct {
	path    string
	r       io.Reader
	closers []func() error
	closed  bool
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && !errors.Is(err, io.ErrUnexpectedEOF) {
		var se *idx.SourceUnavailableError
		if !errors.As(err, &se) {
			err = unavailable(s.path, err)
		}
	}
	return n, err
}

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
