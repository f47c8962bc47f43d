package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnist/pkg/mnist"
)

func loadCmd() *cli.Command {
	var (
		validate bool
		asJSON   bool
	)

	return &cli.Command{
		Name:  "load",
		Usage: "Decode a dataset and print summary statistics",
		Flags: append(datasetFlags(),
			&cli.BoolFlag{
				Name:        "validate",
				Usage:       "fail unless image and label counts match and every label is a digit",
				Destination: &validate,
			},
			jsonFlag(&asJSON),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDatasetConfig(cmd, appConfig)

			ds, err := loadDataset(ctx)
			if err != nil {
				return err
			}
			if validate {
				if err := ds.Validate(mnist.Classes); err != nil {
					return err
				}
			}

			summary := mnist.Summarize(ds)
			w := cmd.Root().Writer
			if asJSON {
				data, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}
			printSummary(w, summary)
			return nil
		},
	}
}

func printSummary(w io.Writer, s mnist.Summary) {
	_, _ = fmt.Fprintf(w, "images:     %d (%dx%d)\n", s.Images, s.Rows, s.Cols)
	_, _ = fmt.Fprintf(w, "labels:     %d\n", s.Labels)
	_, _ = fmt.Fprintf(w, "pixel mean: %.4f\n", s.PixelMean)
	_, _ = fmt.Fprintf(w, "pixel std:  %.4f\n", s.PixelStd)

	classes := make([]uint8, 0, len(s.ClassCounts))
	for c := range s.ClassCounts {
		classes = append(classes, c)
	}
	slices.Sort(classes)
	_, _ = fmt.Fprintln(w, "classes:")
	for _, c := range classes {
		_, _ = fmt.Fprintf(w, "  %3d  %d\n", c, s.ClassCounts[c])
	}
}
