// Package framing packs a token into a length-prefixed bit stream and reads it
// back from any lazy source of bits.
//
// Layout: a 16-bit big-endian byte count followed by the token bytes, every
// value written most significant bit first, one bit per element.
package framing

import (
	"fmt"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

const (
	// LengthBits is the size of the length prefix.
	LengthBits = 16
	// MaxPayload is the largest token the prefix can describe.
	MaxPayload = 1<<LengthBits - 1
)

// BitSource is a finite, non-restartable sequence of bits (0 or 1).
// Next returns ok=false once the source is exhausted.
type BitSource interface {
	Next() (bit byte, ok bool)
}

// SourceFunc adapts a function to BitSource.
type SourceFunc func() (byte, bool)

func (f SourceFunc) Next() (byte, bool) { return f() }

// SliceSource yields the elements of a bit slice in order.
type SliceSource struct {
	bits []byte
	pos  int
}

// NewSliceSource returns a BitSource over bits.
func NewSliceSource(bits []byte) *SliceSource {
	return &SliceSource{bits: bits}
}

func (s *SliceSource) Next() (byte, bool) {
	if s.pos >= len(s.bits) {
		return 0, false
	}
	b := s.bits[s.pos] & 1
	s.pos++
	return b, true
}

// BitsNeeded returns the number of bits Pack produces for a token of tokenLen bytes.
func BitsNeeded(tokenLen int) int {
	return LengthBits + tokenLen*8
}

// Pack frames token as a slice of bits.
func Pack(token string) ([]byte, error) {
	if len(token) == 0 {
		return nil, fingerprintDomain.ErrEmptyPayload
	}
	if len(token) > MaxPayload {
		return nil, fmt.Errorf("%w: token is %d bytes, framing allows %d", fingerprintDomain.ErrCapacity, len(token), MaxPayload)
	}

	bits := make([]byte, 0, BitsNeeded(len(token)))
	bits = appendBits(bits, uint64(len(token)), LengthBits)
	for i := 0; i < len(token); i++ {
		bits = appendBits(bits, uint64(token[i]), 8)
	}
	return bits, nil
}

// Unpack reads one frame from src. maxBits is the number of bits src can
// possibly hold; a declared length that does not fit is ErrFraming, as is a
// source that runs dry. Bytes above 0x7F yield ErrDecode.
func Unpack(src BitSource, maxBits int) (string, error) {
	length, err := readBits(src, LengthBits)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", fmt.Errorf("%w: zero length", fingerprintDomain.ErrFraming)
	}
	if BitsNeeded(int(length)) > maxBits {
		return "", fmt.Errorf("%w: declared %d bytes but only %d bits available", fingerprintDomain.ErrFraming, length, maxBits)
	}

	payload := make([]byte, length)
	for i := range payload {
		v, err := readBits(src, 8)
		if err != nil {
			return "", err
		}
		if v > 0x7F {
			return "", fmt.Errorf("%w: byte 0x%02x at offset %d", fingerprintDomain.ErrDecode, v, i)
		}
		payload[i] = byte(v)
	}
	return string(payload), nil
}

func appendBits(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>uint(i))&1)
	}
	return dst
}

func readBits(src BitSource, n int) (uint64, error) {
	var v uint64
	for range n {
		b, ok := src.Next()
		if !ok {
			return 0, fmt.Errorf("%w: bit source exhausted", fingerprintDomain.ErrFraming)
		}
		v = v<<1 | uint64(b&1)
	}
	return v, nil
}
