package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/samcharles93/mnist/internal/logger"
	"github.com/samcharles93/mnist/pkg/mnist"
)

var errNoDataset = errors.New("no dataset: pass --images and --labels, or --dir (or set " + envMNISTDataDir + ")")

// resolveDataset picks the image and label paths. Explicit files win over a
// directory of canonical archives.
func resolveDataset(imagesFlag, labelsFlag, dir, split string) (imagePath, labelPath string, err error) {
	imagesFlag = strings.TrimSpace(imagesFlag)
	labelsFlag = strings.TrimSpace(labelsFlag)
	if imagesFlag != "" || labelsFlag != "" {
		if imagesFlag == "" || labelsFlag == "" {
			return "", "", errors.New("--images and --labels must be given together")
		}
		return filepath.Clean(imagesFlag), filepath.Clean(labelsFlag), nil
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", "", errNoDataset
	}
	s, err := mnist.ParseSplit(split)
	if err != nil {
		return "", "", err
	}
	return mnist.Paths(filepath.Clean(dir), s)
}

// loadDataset resolves the dataset flags and decodes both files.
func loadDataset(ctx context.Context) (*mnist.Dataset, error) {
	imagePath, labelPath, err := resolveDataset(imagesPath, labelsPath, dataDir, splitName)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	log.Info("loading dataset", "images", imagePath, "labels", labelPath)

	var loader mnist.Loader
	ds, err := loader.Load(ctx, imagePath, labelPath)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", "samples", ds.Images.Count, "labels", len(ds.Labels))
	return ds, nil
}
