// Package mnist loads the MNIST handwritten-digit dataset from its IDX files.
//
// Load is the entry point: it decodes an image file into a normalized sample
// matrix and a label file into a label vector. Files may be gzip or zstd
// compressed or stored raw.
package mnist

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samcharles93/mnist/internal/logger"
	"github.com/samcharles93/mnist/internal/source"
	"github.com/samcharles93/mnist/pkg/idx"
)

// Dataset pairs a sample matrix with its labels. Images.Count and len(Labels)
// are not required to agree; see Validate.
type Dataset struct {
	Images *idx.Images
	Labels []uint8
}

// Len returns the number of complete (image, label) pairs.
func (d *Dataset) Len() int {
	return min(d.Images.Count, len(d.Labels))
}

// Load decodes the image and label files and returns (X, y). Any decoder
// error aborts the load and is returned unchanged.
func Load(imagePath, labelPath string) (*idx.Images, []uint8, error) {
	var l Loader
	ds, err := l.Load(context.Background(), imagePath, labelPath)
	if err != nil {
		return nil, nil, err
	}
	return ds.Images, ds.Labels, nil
}

// Loader decodes dataset files. The zero value opens files with
// source.Open.
type Loader struct {
	// Open overrides how a path becomes a decompressed stream.
	Open func(path string) (io.ReadCloser, error)
}

func (l *Loader) open(path string) (io.ReadCloser, error) {
	if l.Open != nil {
		return l.Open(path)
	}
	return source.Open(path)
}

// Load decodes both files in order. Cancellation is observed between the two
// decodes, not inside them.
func (l *Loader) Load(ctx context.Context, imagePath, labelPath string) (*Dataset, error) {
	images, err := l.LoadImages(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels, err := l.LoadLabels(ctx, labelPath)
	if err != nil {
		return nil, err
	}
	return &Dataset{Images: images, Labels: labels}, nil
}

func (l *Loader) LoadImages(ctx context.Context, path string) (*idx.Images, error) {
	var images *idx.Images
	err := l.decode(ctx, path, idx.KindImages, func(r io.Reader) (int64, error) {
		var err error
		if images, err = idx.DecodeImages(r); err != nil {
			return 0, err
		}
		return int64(len(images.Data)), nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("decoded images",
		"path", path, "count", images.Count, "rows", images.Rows, "cols", images.Cols)
	return images, nil
}

func (l *Loader) LoadLabels(ctx context.Context, path string) ([]uint8, error) {
	var labels []uint8
	err := l.decode(ctx, path, idx.KindLabels, func(r io.Reader) (int64, error) {
		var err error
		if labels, err = idx.DecodeLabels(r); err != nil {
			return 0, err
		}
		return int64(len(labels)), nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("decoded labels", "path", path, "count", len(labels))
	return labels, nil
}

// decode runs fn over the opened source; fn reports the payload length it
// consumed. The rest of the stream is then drained so compressed trailers
// (checksums) are verified, and any bytes past the payload fail the load.
// The source is closed on every path.
func (l *Loader) decode(ctx context.Context, path string, kind idx.Kind, fn func(io.Reader) (int64, error)) (err error) {
	rc, err := l.open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = &idx.SourceUnavailableError{Path: path, Err: cerr}
		}
	}()

	payload, err := fn(rc)
	if err != nil {
		logger.FromContext(ctx).Debug("decode failed", "path", path, "error", err)
		return err
	}
	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return &idx.SourceUnavailableError{Path: path, Err: fmt.Errorf("compressed stream ends early: %w", err)}
		}
		return err
	}
	if n > 0 {
		return &idx.TrailingDataError{Kind: kind, Expected: int64(kind.HeaderSize()) + payload, Extra: n}
	}
	return nil
}
