package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	"github.com/PrLayt0n/FiLeaked/internal/fingerprint/http/dto"
	fingerprintUseCase "github.com/PrLayt0n/FiLeaked/internal/fingerprint/usecase"
)

// RunIdentify scans a suspect file and prints who it was issued to. A file
// without a fingerprint is a normal outcome, reported as "not found" with a
// nil error.
func RunIdentify(
	ctx context.Context,
	useCase fingerprintUseCase.FingerprintUseCase,
	logger *slog.Logger,
	inputPath string,
	fileType string,
	format string,
	io IOTuple,
) error {
	ft, err := resolveFileType(fileType, inputPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	resp := dto.NotFoundResponse()
	id, err := useCase.Identify(ctx, data, ft)
	switch {
	case apperrors.Is(err, fingerprintDomain.ErrFingerprintNotFound):
		logger.Info("no fingerprint found", slog.String("input", inputPath))
	case err != nil:
		return fmt.Errorf("failed to identify: %w", err)
	default:
		resp = dto.MapIdentificationToResponse(id)
		logger.Info("fingerprint identified",
			slog.String("input", inputPath),
			slog.String("identifier", id.Identifier.String()),
		)
	}

	if format == "json" {
		b, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		outputJSON(io.Writer, b)
		return nil
	}

	if resp.Status == dto.ScanStatusNotFound {
		_, _ = fmt.Fprintln(io.Writer, "No fingerprint found")
		return nil
	}
	_, _ = fmt.Fprintf(io.Writer, "Fingerprint found\n")
	if resp.DistributionID != nil && *resp.DistributionID != 0 {
		_, _ = fmt.Fprintf(io.Writer, "Distribution: %d\n", *resp.DistributionID)
	}
	_, _ = fmt.Fprintf(io.Writer, "Copy:         %d\n", *resp.CopyID)
	_, _ = fmt.Fprintf(io.Writer, "Channel:      %s\n", resp.Channel)
	return nil
}
