package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// sealer holds the AEAD shared by both token ciphers. Each Encrypt draws a
// fresh random nonce; the tag travels at the end of the ciphertext.
type sealer struct {
	aead cipher.AEAD
}

func (s sealer) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, s.aead.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("nonce: %w", err)
	}
	return s.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func (s sealer) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if got, want := len(nonce), s.aead.NonceSize(); got != want {
		return nil, fmt.Errorf("nonce is %d bytes, want %d", got, want)
	}
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("open sealed token: %w", err)
	}
	return plaintext, nil
}

// AESGCMCipher seals tokens with AES-256-GCM.
type AESGCMCipher struct {
	sealer
}

// NewAESGCM builds an AES-256-GCM cipher from a KeySize-byte key.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != fingerprintDomain.KeySize {
		return nil, fingerprintDomain.ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &AESGCMCipher{sealer{aead: gcm}}, nil
}

// ChaCha20Poly1305Cipher seals tokens with ChaCha20-Poly1305. Nonce and tag
// sizes match AES-GCM, so tokens from either cipher have the same length.
type ChaCha20Poly1305Cipher struct {
	sealer
}

func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	if len(key) != fingerprintDomain.KeySize {
		return nil, fingerprintDomain.ErrInvalidKeySize
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("chacha20-poly1305: %w", err)
	}
	return &ChaCha20Poly1305Cipher{sealer{aead: aead}}, nil
}

// AEADManagerService picks a token cipher by algorithm name.
type AEADManagerService struct{}

func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize for a key of the wrong length and
// ErrUnsupportedAlgorithm for an unknown alg.
func (AEADManagerService) CreateCipher(key []byte, alg fingerprintDomain.Algorithm) (AEAD, error) {
	if len(key) != fingerprintDomain.KeySize {
		return nil, fingerprintDomain.ErrInvalidKeySize
	}
	switch alg {
	case fingerprintDomain.AESGCM:
		return NewAESGCM(key)
	case fingerprintDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	}
	return nil, fingerprintDomain.ErrUnsupportedAlgorithm
}
