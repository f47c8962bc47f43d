package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnist/internal/logger"
	"github.com/samcharles93/mnist/pkg/idx"
	"github.com/samcharles93/mnist/pkg/mnist"
)

func subsetCmd() *cli.Command {
	var (
		n        int
		outDir   string
		outSplit string
	)

	return &cli.Command{
		Name:  "subset",
		Usage: "Write the first N examples as new gzip IDX files",
		Flags: append(datasetFlags(),
			&cli.IntFlag{
				Name:        "n",
				Usage:       "number of examples to keep",
				Value:       1000,
				Destination: &n,
			},
			&cli.StringFlag{
				Name:        "out-dir",
				Aliases:     []string{"o"},
				Usage:       "output directory",
				Required:    true,
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "out-split",
				Usage:       "split whose canonical file names are used for the output (train, test)",
				Value:       "train",
				Destination: &outSplit,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDatasetConfig(cmd, appConfig)
			if n <= 0 {
				return fmt.Errorf("--n must be positive")
			}
			s, err := mnist.ParseSplit(outSplit)
			if err != nil {
				return err
			}

			ds, err := loadDataset(ctx)
			if err != nil {
				return err
			}
			sub := subset(ds, n)

			imagePath, labelPath, err := mnist.Paths(outDir, s)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if err := writeGzip(imagePath, func(w io.Writer) error { return idx.EncodeImages(w, sub.Images) }); err != nil {
				return err
			}
			if err := writeGzip(labelPath, func(w io.Writer) error { return idx.EncodeLabels(w, sub.Labels) }); err != nil {
				return err
			}
			logger.FromContext(ctx).Info("wrote subset",
				"examples", sub.Len(), "images", imagePath, "labels", labelPath)
			return nil
		},
	}
}

// subset returns the first n complete pairs of ds. The result shares its
// backing arrays with ds.
func subset(ds *mnist.Dataset, n int) *mnist.Dataset {
	n = min(n, ds.Len())
	img := ds.Images
	return &mnist.Dataset{
		Images: &idx.Images{
			Count: n,
			Rows:  img.Rows,
			Cols:  img.Cols,
			Data:  img.Data[:n*img.Features()],
		},
		Labels: ds.Labels[:n],
	}
}

// writeGzip creates path and runs encode against a gzip stream over it. The
// file is removed again if anything fails.
func writeGzip(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	zw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		_ = f.Close()
		return err
	}
	zw.Name = filepath.Base(path)

	if err := encode(zw); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
