package usecase

import (
	"context"

	"github.com/PrLayt0n/FiLeaked/internal/carrier"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// CodecRegistry resolves the carrier codec for a file type.
type CodecRegistry interface {
	Get(fileType fingerprintDomain.FileType) (carrier.Codec, error)
}

// FingerprintUseCase embeds identifiers into documents and recovers them from leaked copies.
type FingerprintUseCase interface {
	// Embed seals identifier into a token and hides it in data.
	Embed(
		ctx context.Context,
		identifier fingerprintDomain.Identifier,
		data []byte,
		fileType fingerprintDomain.FileType,
	) ([]byte, error)

	// Identify returns the first candidate in data that authenticates, or
	// ErrFingerprintNotFound.
	Identify(
		ctx context.Context,
		data []byte,
		fileType fingerprintDomain.FileType,
	) (*fingerprintDomain.Identification, error)

	// Distribute produces one fingerprinted copy per copy reference, in input order.
	Distribute(
		ctx context.Context,
		data []byte,
		fileType fingerprintDomain.FileType,
		distribution uint64,
		copyRefs []uint64,
	) ([]fingerprintDomain.Copy, error)
}
