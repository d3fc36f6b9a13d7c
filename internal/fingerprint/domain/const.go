package domain

// Algorithm represents the AEAD algorithm that seals fingerprint tokens.
//
// Both algorithms use a 256-bit key, a 12-byte nonce and a 16-byte tag, so the
// token layout is identical; only the cipher differs. Every process that reads
// tokens must be configured with the algorithm that wrote them.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, the default token cipher.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, for hosts without AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size of each derived key in bytes.
	KeySize = 32
	// NonceSize is the AEAD nonce size in bytes.
	NonceSize = 12
	// TagSize is the AEAD authentication tag size in bytes.
	TagSize = 16
	// MACSize is the HMAC-SHA256 output size in bytes.
	MACSize = 32
)

// Channel names the place inside a container a candidate token was read from.
type Channel string

const (
	ChannelMetadata  Channel = "metadata"
	ChannelText      Channel = "text"
	ChannelPixels    Channel = "pixels"
	ChannelZeroWidth Channel = "zero-width"
)
