package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnist/internal/source"
	"github.com/samcharles93/mnist/pkg/idx"
)

type fileInfo struct {
	Path         string `json:"path"`
	Compression  string `json:"compression"`
	Kind         string `json:"kind"`
	Magic        string `json:"magic"`
	Count        uint32 `json:"count"`
	Rows         uint32 `json:"rows,omitempty"`
	Cols         uint32 `json:"cols,omitempty"`
	PayloadBytes int    `json:"payload_bytes"`
}

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header of one or more IDX files",
		ArgsUsage: "<file>...",
		Flags:     []cli.Flag{jsonFlag(&asJSON)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("inspect: at least one file is required")
			}
			w := cmd.Root().Writer

			infos := make([]fileInfo, 0, cmd.NArg())
			for _, path := range cmd.Args().Slice() {
				info, err := inspectFile(path)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}

			if asJSON {
				data, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}
			for _, info := range infos {
				printFileInfo(w, info)
			}
			return nil
		},
	}
}

// inspectFile reads only the header of path; the payload is not decoded.
func inspectFile(path string) (fileInfo, error) {
	rc, comp, err := source.OpenDetect(path)
	if err != nil {
		return fileInfo{}, err
	}
	defer func() { _ = rc.Close() }()

	h, err := idx.ReadHeader(rc)
	if err != nil {
		return fileInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	size, err := h.PayloadSize()
	if err != nil {
		return fileInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return fileInfo{
		Path:         path,
		Compression:  comp.String(),
		Kind:         h.Kind().String(),
		Magic:        fmt.Sprintf("0x%08x", h.Magic),
		Count:        h.Count,
		Rows:         h.Rows,
		Cols:         h.Cols,
		PayloadBytes: size,
	}, nil
}

func printFileInfo(w io.Writer, info fileInfo) {
	_, _ = fmt.Fprintf(w, "%s\n", info.Path)
	_, _ = fmt.Fprintf(w, "  compression: %s\n", info.Compression)
	_, _ = fmt.Fprintf(w, "  kind:        %s (%s)\n", info.Kind, info.Magic)
	_, _ = fmt.Fprintf(w, "  count:       %d\n", info.Count)
	if info.Rows != 0 || info.Cols != 0 {
		_, _ = fmt.Fprintf(w, "  shape:       %dx%d\n", info.Rows, info.Cols)
	}
	_, _ = fmt.Fprintf(w, "  payload:     %d bytes\n", info.PayloadBytes)
}
