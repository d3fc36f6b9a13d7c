package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// tokenCodec seals identifiers as base64(nonce || AEAD(identifier || HMAC(identifier))).
// The HMAC is verified after the AEAD tag, in constant time.
type tokenCodec struct {
	cipher AEAD
	macKey []byte
}

// NewTokenCodec builds a TokenCodec from derived keys and an AEAD algorithm.
func NewTokenCodec(
	keys *fingerprintDomain.Keys,
	aeadManager AEADManager,
	alg fingerprintDomain.Algorithm,
) (TokenCodec, error) {
	encKey := keys.EncryptionKey()
	defer fingerprintDomain.Zero(encKey)

	cipher, err := aeadManager.CreateCipher(encKey, alg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cipher: %w", err)
	}

	return &tokenCodec{
		cipher: cipher,
		macKey: keys.MACKey(),
	}, nil
}

// Encode returns a fresh token for identifier; two calls never return the same token.
func (t *tokenCodec) Encode(identifier []byte) (string, error) {
	plaintext := make([]byte, 0, len(identifier)+fingerprintDomain.MACSize)
	plaintext = append(plaintext, identifier...)
	plaintext = append(plaintext, t.mac(identifier)...)

	ciphertext, nonce, err := t.cipher.Encrypt(plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to seal identifier: %w", err)
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decode returns ErrAuthentication for every kind of failure.
func (t *tokenCodec) Decode(token string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fingerprintDomain.ErrAuthentication
	}
	if len(blob) < fingerprintDomain.NonceSize+fingerprintDomain.TagSize {
		return nil, fingerprintDomain.ErrAuthentication
	}

	nonce := blob[:fingerprintDomain.NonceSize]
	plaintext, err := t.cipher.Decrypt(blob[fingerprintDomain.NonceSize:], nonce, nil)
	if err != nil {
		return nil, fingerprintDomain.ErrAuthentication
	}
	if len(plaintext) < fingerprintDomain.MACSize {
		return nil, fingerprintDomain.ErrAuthentication
	}

	split := len(plaintext) - fingerprintDomain.MACSize
	identifier, mac := plaintext[:split], plaintext[split:]
	if !hmac.Equal(mac, t.mac(identifier)) {
		return nil, fingerprintDomain.ErrAuthentication
	}
	return identifier, nil
}

func (t *tokenCodec) mac(data []byte) []byte {
	h := hmac.New(sha256.New, t.macKey)
	h.Write(data)
	return h.Sum(nil)
}
