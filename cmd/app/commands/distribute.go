package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintUseCase "github.com/PrLayt0n/FiLeaked/internal/fingerprint/usecase"
)

// DistributeOptions are the inputs of the distribute command.
type DistributeOptions struct {
	InputPath      string
	OutputDir      string
	DistributionID uint64
	CopyRefs       []uint64
	FileType       string
}

// RunDistribute writes one fingerprinted copy per copy reference into
// OutputDir, creating it if needed. Copies are staged in a temporary directory
// inside OutputDir and moved into place only once all of them are written.
func RunDistribute(
	ctx context.Context,
	useCase fingerprintUseCase.FingerprintUseCase,
	logger *slog.Logger,
	opts DistributeOptions,
	io IOTuple,
) error {
	if opts.OutputDir == "" {
		return fmt.Errorf("--output-dir is required")
	}

	fileType, err := resolveFileType(opts.FileType, opts.InputPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	copies, err := useCase.Distribute(ctx, data, fileType, opts.DistributionID, opts.CopyRefs)
	if err != nil {
		return fmt.Errorf("failed to distribute: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	paths, err := writeCopies(opts.OutputDir, opts.InputPath, fileType, copies)
	if err != nil {
		return err
	}
	for i, c := range copies {
		_, _ = fmt.Fprintf(io.Writer, "%s\t%s\n", c.Identifier, paths[i])
	}

	logger.Info("distribution written",
		slog.Uint64("distribution_id", opts.DistributionID),
		slog.Int("copies", len(copies)),
		slog.String("output_dir", opts.OutputDir),
	)
	return nil
}

// writeCopies stages every copy under dir and renames them into place. On
// failure the copies already moved are removed again.
func writeCopies(
	dir, inputPath string,
	fileType fingerprintDomain.FileType,
	copies []fingerprintDomain.Copy,
) ([]string, error) {
	staging, err := os.MkdirTemp(dir, ".distribute-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	names := make([]string, len(copies))
	for i, c := range copies {
		names[i] = fingerprintDomain.CopyFilename(inputPath, c.Identifier.Copy, fileType)
		if err := os.WriteFile(filepath.Join(staging, names[i]), c.Data, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write copy %s: %w", c.Identifier, err)
		}
	}

	paths := make([]string, len(copies))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.Rename(filepath.Join(staging, name), paths[i]); err != nil {
			for _, moved := range paths[:i] {
				_ = os.Remove(moved)
			}
			return nil, fmt.Errorf("failed to move copy %s into place: %w", copies[i].Identifier, err)
		}
	}
	return paths, nil
}
