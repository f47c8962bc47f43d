package mnist

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/samcharles93/mnist/internal/source"
	"github.com/samcharles93/mnist/pkg/idx"
)

func rawImages(t *testing.T, count, rows, cols uint32, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := idx.WriteHeader(&buf, idx.Header{Magic: idx.MagicImages, Count: count, Rows: rows, Cols: cols}); err != nil {
		t.Fatalf("write image header: %v", err)
	}
	buf.Write(payload)
	return buf.Bytes()
}

func rawLabels(t *testing.T, labels []uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := idx.EncodeLabels(&buf, labels); err != nil {
		t.Fatalf("encode labels: %v", err)
	}
	return buf.Bytes()
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func syntheticPair(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	imgPath := writeFile(t, dir, "images.gz", gzipped(t, rawImages(t, 2, 2, 2, []byte{0, 85, 170, 255, 255, 170, 85, 0})))
	lblPath := writeFile(t, dir, "labels.gz", gzipped(t, rawLabels(t, []uint8{0, 5})))
	return imgPath, lblPath
}

func TestLoadSynthetic(t *testing.T) {
	t.Parallel()

	imgPath, lblPath := syntheticPair(t)
	X, y, err := Load(imgPath, lblPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if X.Count != 2 || X.Features() != 4 {
		t.Fatalf("shape mismatch: got (%d, %d) want (2, 4)", X.Count, X.Features())
	}
	want := []float32{0, 0.333, 0.667, 1, 1, 0.667, 0.333, 0}
	for i, v := range want {
		if math.Abs(float64(X.Data[i]-v)) > 1e-3 {
			t.Fatalf("value %d: got %v want %v", i, X.Data[i], v)
		}
	}
	if !bytes.Equal(y, []uint8{0, 5}) {
		t.Fatalf("labels mismatch: got %v", y)
	}
}

func TestLoadLabelsSynthetic(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "labels.gz", gzipped(t, rawLabels(t, []uint8{0, 5, 9})))
	var l Loader
	y, err := l.LoadLabels(context.Background(), path)
	if err != nil {
		t.Fatalf("load labels: %v", err)
	}
	if !bytes.Equal(y, []uint8{0, 5, 9}) {
		t.Fatalf("labels mismatch: got %v want [0 5 9]", y)
	}
}

func TestLoadDoesNotCrossCheckCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imgPath := writeFile(t, dir, "images.gz", gzipped(t, rawImages(t, 1, 1, 1, []byte{255})))
	lblPath := writeFile(t, dir, "labels.gz", gzipped(t, rawLabels(t, []uint8{1, 2, 3})))

	var l Loader
	ds, err := l.Load(context.Background(), imgPath, lblPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Images.Count != 1 || len(ds.Labels) != 3 || ds.Len() != 1 {
		t.Fatalf("unexpected dataset: images=%d labels=%d len=%d", ds.Images.Count, len(ds.Labels), ds.Len())
	}
	if err := ds.Validate(Classes); !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("expected ErrCountMismatch, got %v", err)
	}
}

func TestLoadPropagatesErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imgPath, lblPath := syntheticPair(t)
	truncated := writeFile(t, dir, "short.gz", gzipped(t, rawLabels(t, []uint8{1, 2, 3, 4})[:10]))

	t.Run("label file given as images", func(t *testing.T) {
		bigLabels := writeFile(t, t.TempDir(), "labels.gz", gzipped(t, rawLabels(t, make([]uint8, 16))))
		X, y, err := Load(bigLabels, lblPath)
		if X != nil || y != nil {
			t.Fatalf("expected no partial result")
		}
		var fe *idx.FormatError
		if !errors.As(err, &fe) || fe.Observed != idx.MagicLabels {
			t.Fatalf("expected FormatError with observed label magic, got %v", err)
		}
	})

	t.Run("truncated labels", func(t *testing.T) {
		X, y, err := Load(imgPath, truncated)
		if X != nil || y != nil {
			t.Fatalf("expected no partial result")
		}
		var te *idx.TruncatedDataError
		if !errors.As(err, &te) || te.Expected != 4 || te.Actual != 2 {
			t.Fatalf("expected 4/2 truncation, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(dir, "nope.gz"), lblPath)
		if !errors.Is(err, idx.ErrSourceUnavailable) {
			t.Fatalf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("bad gzip checksum", func(t *testing.T) {
		data := gzipped(t, rawLabels(t, []uint8{1, 2, 3}))
		data[len(data)-8] ^= 0xff
		path := writeFile(t, t.TempDir(), "crc.gz", data)
		_, _, err := Load(imgPath, path)
		if !errors.Is(err, idx.ErrSourceUnavailable) {
			t.Fatalf("expected ErrSourceUnavailable, got %v", err)
		}
	})
}

func TestLoadRejectsTrailingBytes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imgPath, lblPath := syntheticPair(t)
	longImages := writeFile(t, dir, "images.gz", gzipped(t, rawImages(t, 1, 1, 2, []byte{0, 255, 1, 2, 3})))
	longLabels := writeFile(t, dir, "labels.gz", gzipped(t, append(rawLabels(t, []uint8{3}), 4, 5)))
	rawLong := writeFile(t, dir, "labels.idx", append(rawLabels(t, []uint8{3}), 9))

	cases := []struct {
		name     string
		images   string
		labels   string
		kind     idx.Kind
		expected int64
		extra    int64
	}{
		{"gzip images", longImages, lblPath, idx.KindImages, 18, 3},
		{"gzip labels", imgPath, longLabels, idx.KindLabels, 9, 2},
		{"raw labels", imgPath, rawLong, idx.KindLabels, 9, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			X, y, err := Load(tc.images, tc.labels)
			if X != nil || y != nil {
				t.Fatalf("expected no partial result, got %v %v", X, y)
			}
			if !errors.Is(err, idx.ErrTrailingData) {
				t.Fatalf("expected ErrTrailingData, got %v", err)
			}
			var te *idx.TrailingDataError
			if !errors.As(err, &te) {
				t.Fatalf("expected *idx.TrailingDataError, got %T", err)
			}
			if te.Kind != tc.kind || te.Expected != tc.expected || te.Extra != tc.extra {
				t.Fatalf("unexpected trailing error: got %+v want kind=%s expected=%d extra=%d",
					te, tc.kind, tc.expected, tc.extra)
			}
		})
	}
}

func TestLoadRawFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imgPath := writeFile(t, dir, "images.idx", rawImages(t, 1, 2, 2, []byte{0, 51, 102, 255}))
	lblPath := writeFile(t, dir, "labels.idx", rawLabels(t, []uint8{7}))

	X, y, err := Load(imgPath, lblPath)
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if X.At(0, 1) != 0.2 || X.At(0, 3) != 1 || y[0] != 7 {
		t.Fatalf("unexpected values: %v %v", X.Data, y)
	}
	// The mapping is released when Load returns; results must be copies.
	if len(X.Data) != 4 || len(y) != 1 {
		t.Fatalf("unexpected lengths: %d %d", len(X.Data), len(y))
	}
}

type trackingCloser struct {
	io.Reader
	closed *int
}

func (c trackingCloser) Close() error {
	*c.closed++
	return nil
}

func TestLoaderClosesSources(t *testing.T) {
	t.Parallel()

	good := rawImages(t, 1, 1, 2, []byte{1, 2})
	cases := map[string][]byte{
		"ok":               good,
		"wrong magic":      rawLabels(t, make([]uint8, 8)),
		"truncated":        good[:len(good)-1],
		"truncated header": good[:3],
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			closed := 0
			l := Loader{Open: func(string) (io.ReadCloser, error) {
				return trackingCloser{Reader: bytes.NewReader(data), closed: &closed}, nil
			}}
			_, _ = l.LoadImages(context.Background(), name)
			if closed != 1 {
				t.Fatalf("source closed %d times, want 1", closed)
			}
		})
	}
}

func TestLoadCancelledBetweenDecodes(t *testing.T) {
	t.Parallel()

	imgPath, lblPath := syntheticPair(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var l Loader
	_, err := l.Load(ctx, imgPath, lblPath)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadDeterministic(t *testing.T) {
	t.Parallel()

	imgPath, lblPath := syntheticPair(t)
	X1, y1, err := Load(imgPath, lblPath)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	X2, y2, err := Load(imgPath, lblPath)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	for i := range X1.Data {
		if X1.Data[i] != X2.Data[i] {
			t.Fatalf("image value %d differs", i)
		}
	}
	if !bytes.Equal(y1, y2) {
		t.Fatalf("labels differ: %v vs %v", y1, y2)
	}
}

func TestCustomOpener(t *testing.T) {
	t.Parallel()

	imgPath, _ := syntheticPair(t)
	var opened []string
	l := Loader{Open: func(path string) (io.ReadCloser, error) {
		opened = append(opened, path)
		return source.Open(path)
	}}
	if _, err := l.LoadImages(context.Background(), imgPath); err != nil {
		t.Fatalf("load images: %v", err)
	}
	if len(opened) != 1 || opened[0] != imgPath {
		t.Fatalf("opener not used: %v", opened)
	}
}

func TestValidateAndSample(t *testing.T) {
	t.Parallel()

	ds := &Dataset{
		Images: &idx.Images{Count: 2, Rows: 1, Cols: 2, Data: []float32{0, 1, 0.5, 0.25}},
		Labels: []uint8{3, 12},
	}
	if err := ds.Validate(Classes); !errors.Is(err, ErrLabelRange) {
		t.Fatalf("expected ErrLabelRange, got %v", err)
	}
	if err := ds.Validate(16); err != nil {
		t.Fatalf("validate with 16 classes: %v", err)
	}

	img, label, err := ds.Sample(1)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if label != 12 || img[0] != 0.5 || img[1] != 0.25 {
		t.Fatalf("unexpected sample: %v %d", img, label)
	}
	if _, _, err := ds.Sample(2); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestSplitsAndPaths(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Split{"train": Train, "TEST": Test, "t10k": Test} {
		got, err := ParseSplit(in)
		if err != nil || got != want {
			t.Fatalf("ParseSplit(%q): got %q, %v want %q", in, got, err, want)
		}
	}
	if _, err := ParseSplit("validation"); err == nil {
		t.Fatalf("expected error for unknown split")
	}

	img, lbl, err := Paths("/data", Test)
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	if img != filepath.Join("/data", "t10k-images-idx3-ubyte.gz") || lbl != filepath.Join("/data", "t10k-labels-idx1-ubyte.gz") {
		t.Fatalf("unexpected paths: %s %s", img, lbl)
	}
}

func TestLoadSplit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := Files(Train)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	writeFile(t, dir, f.Images.Name, gzipped(t, rawImages(t, 1, 1, 1, []byte{255})))
	writeFile(t, dir, f.Labels.Name, gzipped(t, rawLabels(t, []uint8{4})))

	var l Loader
	ds, err := l.LoadSplit(context.Background(), dir, Train)
	if err != nil {
		t.Fatalf("load split: %v", err)
	}
	if ds.Len() != 1 || ds.Labels[0] != 4 || ds.Images.Data[0] != 1 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	data := []byte("not really mnist")
	path := writeFile(t, t.TempDir(), "file.gz", data)
	sum := sha256.Sum256(data)
	if err := Verify(path, hex.EncodeToString(sum[:])); err != nil {
		t.Fatalf("verify: %v", err)
	}
	f, _ := Files(Train)
	if err := Verify(path, f.Images.SHA256); err == nil {
		t.Fatalf("expected digest mismatch")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	ds := &Dataset{
		Images: &idx.Images{Count: 2, Rows: 1, Cols: 2, Data: []float32{0, 1, 1, 1}},
		Labels: []uint8{3, 3},
	}
	s := Summarize(ds)
	if s.Images != 2 || s.Labels != 2 || s.Rows != 1 || s.Cols != 2 {
		t.Fatalf("unexpected shape: %+v", s)
	}
	if s.ClassCounts[3] != 2 || len(s.ClassCounts) != 1 {
		t.Fatalf("unexpected class counts: %v", s.ClassCounts)
	}
	if len(s.MeanImage) != 2 || s.MeanImage[0] != 0.5 || s.MeanImage[1] != 1 {
		t.Fatalf("unexpected mean image: %v", s.MeanImage)
	}
	if s.PixelMean != 0.75 {
		t.Fatalf("pixel mean: got %v want 0.75", s.PixelMean)
	}
	// values {0,1,1,1}: variance 0.1875
	if math.Abs(float64(s.PixelStd)-math.Sqrt(0.1875)) > 1e-6 {
		t.Fatalf("pixel std: got %v", s.PixelStd)
	}

	empty := Summarize(&Dataset{Images: &idx.Images{Rows: 28, Cols: 28}})
	if empty.Images != 0 || empty.MeanImage != nil || empty.PixelMean != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}
