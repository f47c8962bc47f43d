//go:build !unix

package source

import (
	"bufio"
	"io"
	"os"
)

func openRaw(path string, f *os.File) (io.ReadCloser, error) {
	return &stream{path: path, r: bufio.NewReaderSize(f, bufferSize), closers: []func() error{f.Close}}, nil
}
