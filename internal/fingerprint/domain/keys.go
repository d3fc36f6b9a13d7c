package domain

import (
	"crypto/sha512"
)

// Keys holds the encryption and MAC keys derived from the master secret.
//
// A Keys value is created once at startup and shared read-only by every codec;
// the accessors return copies so callers cannot mutate the key material.
type Keys struct {
	enc [KeySize]byte
	mac [KeySize]byte
}

// DeriveKeys derives the token keys from the master secret: the first half of
// SHA-512(secret) is the encryption key and the second half is the MAC key.
// Returns ErrInvalidMasterSecret if secret is empty.
func DeriveKeys(secret []byte) (*Keys, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidMasterSecret
	}

	sum := sha512.Sum512(secret)
	defer Zero(sum[:])

	k := &Keys{}
	copy(k.enc[:], sum[:KeySize])
	copy(k.mac[:], sum[KeySize:])
	return k, nil
}

// EncryptionKey returns a copy of the AEAD key.
func (k *Keys) EncryptionKey() []byte {
	out := make([]byte, KeySize)
	copy(out, k.enc[:])
	return out
}

// MACKey returns a copy of the HMAC key.
func (k *Keys) MACKey() []byte {
	out := make([]byte, KeySize)
	copy(out, k.mac[:])
	return out
}

// Close zeroes the key material. The Keys must not be used afterwards.
func (k *Keys) Close() {
	Zero(k.enc[:])
	Zero(k.mac[:])
}

// Zero wipes secret material in place once it is no longer needed.
func Zero(b []byte) {
	clear(b)
}
