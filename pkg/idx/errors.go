package idx

import (
	"errors"
	"fmt"
)

var (
	ErrFormat            = errors.New("idx: bad magic number")
	ErrTruncated         = errors.New("idx: truncated data")
	ErrSourceUnavailable = errors.New("idx: source unavailable")
	ErrDimensions        = errors.New("idx: declared dimensions overflow")
	ErrTrailingData      = errors.New("idx: data after payload")
)

// FormatError reports a magic number that does not match the expected file kind.
type FormatError struct {
	Kind     Kind
	Expected uint32
	Observed uint32
}

func (e *FormatError) Error() string {
	if e.Kind == KindUnknown {
		return fmt.Sprintf("idx: unrecognised magic number 0x%08x", e.Observed)
	}
	return fmt.Sprintf("idx: %s magic number is not 0x%08x, but 0x%08x", e.Kind, e.Expected, e.Observed)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// TruncatedDataError reports a stream that ended before the declared length.
type TruncatedDataError struct {
	Section  string
	Expected int64
	Actual   int64
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("idx: truncated %s: expected %d bytes, got %d", e.Section, e.Expected, e.Actual)
}

func (e *TruncatedDataError) Unwrap() error {
	return ErrTruncated
}

// TrailingDataError reports bytes left in the stream after the declared
// payload. Expected is the file length the header implies.
type TrailingDataError struct {
	Kind     Kind
	Expected int64
	Extra    int64
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("idx: %s file has %d bytes after the declared %d", e.Kind, e.Extra, e.Expected)
}

func (e *TrailingDataError) Unwrap() error {
	return ErrTrailingData
}

// SourceUnavailableError wraps a failure to open or decompress the byte source.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("idx: source unavailable: %v", e.Err)
	}
	return fmt.Sprintf("idx: source %s unavailable: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}
