package main

import "github.com/urfave/cli/v3"

var (
	imagesPath string
	labelsPath string
	dataDir    string
	splitName  string
	logLevel   string
	logFormat  string
	debug      bool
)

func datasetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "images",
			Aliases:     []string{"x"},
			Usage:       "path to an image IDX file (gzip, zstd or raw)",
			Destination: &imagesPath,
		},
		&cli.StringFlag{
			Name:        "labels",
			Aliases:     []string{"y"},
			Usage:       "path to a label IDX file (gzip, zstd or raw)",
			Destination: &labelsPath,
		},
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "directory holding the canonical MNIST archives",
			Destination: &dataDir,
		},
		&cli.StringFlag{
			Name:        "split",
			Aliases:     []string{"s"},
			Usage:       "dataset split to read from --dir (train, test)",
			Value:       "train",
			Destination: &splitName,
		},
	}
}

func jsonFlag(dst *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "print JSON instead of text",
		Destination: dst,
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
