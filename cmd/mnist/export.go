package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnist/internal/logger"
	"github.com/samcharles93/mnist/pkg/mnist"
)

// exportRecord is one line of the export stream.
type exportRecord struct {
	Index  int       `json:"index"`
	Label  uint8     `json:"label"`
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Pixels []float32 `json:"pixels"`
}

func exportCmd() *cli.Command {
	var (
		out   string
		limit int
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Write decoded samples as JSON lines",
		Flags: append(datasetFlags(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file (- for stdout)",
				Value:       "-",
				Destination: &out,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "export at most this many samples (0 for all)",
				Destination: &limit,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDatasetConfig(cmd, appConfig)
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			ds, err := loadDataset(ctx)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err := exportSamples(cmd.Root().Writer, ds, limit)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			n, err := exportSamples(f, ds, limit)
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("exported samples", "count", n, "path", out)
			return nil
		},
	}
}

// exportSamples streams up to limit (image, label) pairs to w and returns how
// many were written.
func exportSamples(w io.Writer, ds *mnist.Dataset, limit int) (int, error) {
	n := ds.Len()
	if limit > 0 {
		n = min(n, limit)
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range n {
		pixels, label, err := ds.Sample(i)
		if err != nil {
			return i, err
		}
		rec := exportRecord{
			Index:  i,
			Label:  label,
			Rows:   ds.Images.Rows,
			Cols:   ds.Images.Cols,
			Pixels: pixels,
		}
		if err := enc.Encode(rec); err != nil {
			return i, err
		}
	}
	return n, bw.Flush()
}
