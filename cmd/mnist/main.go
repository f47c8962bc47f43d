package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnist/internal/logger"
)

// appConfig is loaded once by the root Before hook.
var appConfig Config

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "mnist",
		Usage: "Decode, inspect and serve MNIST IDX datasets",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			appConfig = LoadConfig()
			applyLoggingConfig(cmd, appConfig)

			level := logLevel
			if debug {
				level = "debug"
			}
			log, err := logger.ForFormat(cmd.Root().ErrWriter, logFormat, level)
			if err != nil {
				return ctx, err
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			loadCmd(),
			exportCmd(),
			subsetCmd(),
			verifyCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
