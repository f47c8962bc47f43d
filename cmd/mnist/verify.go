package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnist/pkg/mnist"
)

type verifyResult struct {
	File   mnist.File
	Status string
	Err    error
}

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check the canonical MNIST archives in a directory against their published SHA-256 digests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "directory holding the canonical MNIST archives",
				Destination: &dataDir,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDatasetConfig(cmd, appConfig)
			if dataDir == "" {
				return errNoDataset
			}

			w := cmd.Root().Writer
			failed := 0
			for _, r := range verifyDir(dataDir) {
				_, _ = fmt.Fprintf(w, "%-8s %s\n", r.Status, r.File.Name)
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of 4 archives failed verification", failed), 1)
			}
			return nil
		},
	}
}

// verifyDir checks the train and test archives of dir in canonical order.
func verifyDir(dir string) []verifyResult {
	var results []verifyResult
	for _, s := range []mnist.Split{mnist.Train, mnist.Test} {
		files, err := mnist.Files(s)
		if err != nil {
			continue
		}
		for _, f := range []mnist.File{files.Images, files.Labels} {
			err := mnist.Verify(filepath.Join(dir, f.Name), f.SHA256)
			status := "ok"
			switch {
			case errors.Is(err, fs.ErrNotExist):
				status = "missing"
			case err != nil:
				status = "mismatch"
			}
			results = append(results, verifyResult{File: f, Status: status, Err: err})
		}
	}
	return results
}
