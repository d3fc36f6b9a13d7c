// Package usecase orchestrates fingerprinting: sealing identifiers into tokens,
// hiding tokens in containers, and recovering identifiers from suspect copies.
//
// Recovery never trusts a codec: every candidate a codec extracts is run
// through the token codec, and the first one that authenticates and parses as
// an identifier wins.
//
//	uc := usecase.NewFingerprintUseCase(tokenCodec, carrier.NewRegistry(), 4, logger)
//
//	out, err := uc.Embed(ctx, fingerprintDomain.Identifier{Distribution: 7, Copy: 3}, pdfBytes, fingerprintDomain.PDF)
//
//	id, err := uc.Identify(ctx, leaked, fingerprintDomain.PDF)
//	if errors.Is(err, fingerprintDomain.ErrFingerprintNotFound) {
//	    // not one of ours, or the marks were destroyed
//	}
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintService "github.com/PrLayt0n/FiLeaked/internal/fingerprint/service"
)

const defaultWorkers = 4

type fingerprintUseCase struct {
	tokenCodec fingerprintService.TokenCodec
	registry   CodecRegistry
	workers    int
	logger     *slog.Logger
}

// NewFingerprintUseCase creates a FingerprintUseCase. workers bounds the
// number of copies Distribute builds at once; values below 1 use the default.
func NewFingerprintUseCase(
	tokenCodec fingerprintService.TokenCodec,
	registry CodecRegistry,
	workers int,
	logger *slog.Logger,
) FingerprintUseCase {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &fingerprintUseCase{
		tokenCodec: tokenCodec,
		registry:   registry,
		workers:    workers,
		logger:     logger,
	}
}

func (f *fingerprintUseCase) Embed(
	ctx context.Context,
	identifier fingerprintDomain.Identifier,
	data []byte,
	fileType fingerprintDomain.FileType,
) ([]byte, error) {
	if identifier.Copy == 0 {
		return nil, fmt.Errorf("%w: copy reference must be positive", fingerprintDomain.ErrInvalidIdentifier)
	}
	codec, err := f.registry.Get(fileType)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := f.tokenCodec.Encode(identifier.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}

	out, err := codec.Embed(data, token)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("fingerprint embedded",
		slog.String("identifier", identifier.String()),
		slog.String("file_type", string(fileType)),
		slog.Int("input_bytes", len(data)),
		slog.Int("output_bytes", len(out)),
	)
	return out, nil
}

func (f *fingerprintUseCase) Identify(
	ctx context.Context,
	data []byte,
	fileType fingerprintDomain.FileType,
) (*fingerprintDomain.Identification, error) {
	codec, err := f.registry.Get(fileType)
	if err != nil {
		return nil, err
	}

	candidates := codec.Extract(data)
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		plaintext, err := f.tokenCodec.Decode(candidate.Token)
		if err != nil {
			f.logger.Debug("candidate rejected",
				slog.Int("index", i),
				slog.String("channel", string(candidate.Channel)),
			)
			continue
		}

		identifier, err := fingerprintDomain.ParseIdentifier(string(plaintext))
		if err != nil {
			f.logger.Debug("authenticated candidate is not an identifier",
				slog.Int("index", i),
				slog.String("channel", string(candidate.Channel)),
			)
			continue
		}

		return &fingerprintDomain.Identification{
			Identifier: identifier,
			Channel:    candidate.Channel,
		}, nil
	}

	if len(candidates) > 0 {
		f.logger.Warn("no candidate authenticated",
			slog.String("file_type", string(fileType)),
			slog.Int("rejected", len(candidates)),
		)
	}
	return nil, fingerprintDomain.ErrFingerprintNotFound
}

func (f *fingerprintUseCase) Distribute(
	ctx context.Context,
	data []byte,
	fileType fingerprintDomain.FileType,
	distribution uint64,
	copyRefs []uint64,
) ([]fingerprintDomain.Copy, error) {
	if len(copyRefs) == 0 {
		return nil, fmt.Errorf("%w: no copy references", fingerprintDomain.ErrInvalidIdentifier)
	}

	identifiers := make([]fingerprintDomain.Identifier, len(copyRefs))
	seen := make(map[uint64]struct{}, len(copyRefs))
	for i, ref := range copyRefs {
		if _, dup := seen[ref]; dup {
			return nil, fmt.Errorf("%w: duplicate copy reference %d", fingerprintDomain.ErrInvalidIdentifier, ref)
		}
		seen[ref] = struct{}{}

		id, err := fingerprintDomain.NewIdentifier(distribution, ref)
		if err != nil {
			return nil, err
		}
		identifiers[i] = id
	}

	copies := make([]fingerprintDomain.Copy, len(identifiers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, id := range identifiers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := f.Embed(gctx, id, data, fileType)
			if err != nil {
				return fmt.Errorf("copy %s: %w", id, err)
			}
			copies[i] = fingerprintDomain.Copy{Identifier: id, Data: out}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Info("distribution built",
		slog.Uint64("distribution", distribution),
		slog.Int("copies", len(copies)),
		slog.String("file_type", string(fileType)),
	)
	return copies, nil
}
