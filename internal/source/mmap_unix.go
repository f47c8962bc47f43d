//go:build unix

package source

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// openRaw maps an uncompressed file read-only. If mmap is unavailable it falls
// back to buffered reads from the open file.
func openRaw(path string, f *os.File) (io.ReadCloser, error) {
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, unavailable(path, err)
	}
	size64 := stat.Size()
	if size64 <= 0 || size64 > int64(int(^uint(0)>>1)) {
		return readFile(path, f), nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size64), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return readFile(path, f), nil
	}
	// The mapping outlives the descriptor.
	_ = f.Close()
	return &stream{
		path:    path,
		r:       bytes.NewReader(data),
		closers: []func() error{func() error { return unix.Munmap(data) }},
	}, nil
}

func readFile(path string, f *os.File) io.ReadCloser {
	return &stream{path: path, r: bufio.NewReaderSize(f, bufferSize), closers: []func() error{f.Close}}
}
