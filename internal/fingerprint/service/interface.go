// Package service provides the cryptographic services behind fingerprint tokens:
// AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the token codec that seals
// identifiers, and master secret loading (optionally unwrapped through a KMS).
package service

import (
	"context"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg fingerprintDomain.Algorithm) (AEAD, error)
}

// TokenCodec turns identifier bytes into authenticated tokens and back.
type TokenCodec interface {
	// Encode seals identifier into a fresh base64 token.
	Encode(identifier []byte) (string, error)

	// Decode authenticates token and returns the identifier it carries.
	// Every failure returns ErrAuthentication.
	Decode(token string) ([]byte, error)
}

// KMSKeeper is the subset of *secrets.Keeper used to wrap the master secret.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens KMS keepers.
type KMSService interface {
	// OpenKeeper opens a keeper for the key identified by keyURI.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
