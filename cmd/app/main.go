// Package main is the FiLeaked command line: fingerprint documents, identify
// leaked copies and serve the HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:     "fileaked",
		Usage:    "Trace leaked documents back to the copy they came from",
		Version:  version,
		Commands: append(getSystemCommands(version), getFingerprintCommands()...),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("fileaked failed", slog.Any("error", err))
		os.Exit(1)
	}
}
