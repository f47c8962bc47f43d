package mnist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Split string

const (
	Train Split = "train"
	Test  Split = "test"
)

// ParseSplit accepts "train" and "test" ("t10k" is an alias for test).
func ParseSplit(s string) (Split, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "train":
		return Train, nil
	case "test", "t10k":
		return Test, nil
	default:
		return "", fmt.Errorf("mnist: unknown split %q (want train or test)", s)
	}
}

// File describes one of the published archives.
type File struct {
	Name   string
	SHA256 string
}

// SplitFiles names the image and label archive of a split.
type SplitFiles struct {
	Images File
	Labels File
}

var files = map[Split]SplitFiles{
	Train: {
		Images: File{"train-images-idx3-ubyte.gz", "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609"},
		Labels: File{"train-labels-idx1-ubyte.gz", "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c"},
	},
	Test: {
		Images: File{"t10k-images-idx3-ubyte.gz", "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6"},
		Labels: File{"t10k-labels-idx1-ubyte.gz", "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6"},
	},
}

// Files returns the canonical archives of s.
func Files(s Split) (SplitFiles, error) {
	f, ok := files[s]
	if !ok {
		return SplitFiles{}, fmt.Errorf("mnist: unknown split %q", s)
	}
	return f, nil
}

// Paths joins the canonical archive names of s onto dir.
func Paths(dir string, s Split) (imagePath, labelPath string, err error) {
	f, err := Files(s)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, f.Images.Name), filepath.Join(dir, f.Labels.Name), nil
}

// LoadSplit loads the canonical archives of s from dir.
func (l *Loader) LoadSplit(ctx context.Context, dir string, s Split) (*Dataset, error) {
	imagePath, labelPath, err := Paths(dir, s)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, imagePath, labelPath)
}

// Verify hashes the file at path and compares it against want.
func Verify(path string, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != want {
		return fmt.Errorf("mnist: %s: sha256 %s, want %s", filepath.Base(path), got, want)
	}
	return nil
}
