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

// EmbedOptions are the inputs of the embed command.
type EmbedOptions struct {
	InputPath      string
	OutputPath     string
	DistributionID uint64
	CopyID         uint64
	FileType       string
}

// RunEmbed writes a fingerprinted copy of InputPath. Without OutputPath the
// copy lands next to the input as "<name>_<copy><ext>".
func RunEmbed(
	ctx context.Context,
	useCase fingerprintUseCase.FingerprintUseCase,
	logger *slog.Logger,
	opts EmbedOptions,
	io IOTuple,
) error {
	fileType, err := resolveFileType(opts.FileType, opts.InputPath)
	if err != nil {
		return err
	}

	identifier, err := fingerprintDomain.NewIdentifier(opts.DistributionID, opts.CopyID)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out, err := useCase.Embed(ctx, identifier, data, fileType)
	if err != nil {
		return fmt.Errorf("failed to embed fingerprint: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(
			filepath.Dir(opts.InputPath),
			fingerprintDomain.CopyFilename(opts.InputPath, identifier.Copy, fileType),
		)
	}
	if err := os.WriteFile(outputPath, out, 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("fingerprint embedded",
		slog.String("identifier", identifier.String()),
		slog.String("file_type", string(fileType)),
		slog.String("output", outputPath),
	)
	_, _ = fmt.Fprintf(io.Writer, "%s\t%s\n", identifier, outputPath)
	return nil
}
