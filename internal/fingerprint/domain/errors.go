package domain

import (
	"github.com/PrLayt0n/FiLeaked/internal/errors"
)

// Fingerprint error definitions.
//
// Every error wraps a sentinel from internal/errors so the HTTP layer can map it
// without knowing which codec produced it.
var (
	// ErrAuthentication indicates a token failed to decode or verify. Every cause
	// (bad base64, short blob, AEAD tag mismatch, HMAC mismatch) yields this same
	// value so callers cannot tell them apart.
	ErrAuthentication = errors.Wrap(errors.ErrInvalidInput, "fingerprint authentication failed")

	// ErrCapacity indicates the container cannot hold the framed token.
	ErrCapacity = errors.Wrap(errors.ErrInvalidInput, "container capacity exceeded")

	// ErrInvalidContainer indicates the container bytes could not be parsed, or
	// have no structure to embed into (e.g., a PDF without pages).
	ErrInvalidContainer = errors.Wrap(errors.ErrInvalidInput, "invalid container")

	// ErrEmptyPayload indicates an attempt to frame an empty token.
	ErrEmptyPayload = errors.Wrap(errors.ErrInvalidInput, "empty payload")

	// ErrFraming indicates the bit stream ended early or declared an impossible length.
	ErrFraming = errors.Wrap(errors.ErrInvalidInput, "invalid framing")

	// ErrDecode indicates framed bytes are not printable ASCII.
	ErrDecode = errors.Wrap(errors.ErrInvalidInput, "framed payload is not ascii")

	// ErrInvalidIdentifier indicates a malformed identifier.
	ErrInvalidIdentifier = errors.Wrap(errors.ErrInvalidInput, "invalid identifier")

	// ErrUnsupportedFileType indicates the file type is not PDF, PNG or TXT.
	ErrUnsupportedFileType = errors.Wrap(errors.ErrInvalidInput, "unsupported file type")

	// ErrInvalidMasterSecret indicates the master secret is missing or could not be unwrapped.
	ErrInvalidMasterSecret = errors.Wrap(errors.ErrInvalidInput, "invalid master secret")

	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a cipher key that is not 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrFingerprintNotFound is the normal result of scanning a file that carries
	// no authentic fingerprint. It is not a failure of the scan.
	ErrFingerprintNotFound = errors.Wrap(errors.ErrNotFound, "fingerprint not found")
)
