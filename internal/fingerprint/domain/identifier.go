package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Identifier names one distributed copy of a document.
//
// It serializes to "<distribution>:<copy>", or to "<copy>" alone when the
// distribution reference is zero (unknown). Copy must be positive.
type Identifier struct {
	Distribution uint64
	Copy         uint64
}

// NewIdentifier builds an Identifier, returning ErrInvalidIdentifier when the copy reference is zero.
func NewIdentifier(distribution, copyRef uint64) (Identifier, error) {
	if copyRef == 0 {
		return Identifier{}, fmt.Errorf("%w: copy reference must be positive", ErrInvalidIdentifier)
	}
	return Identifier{Distribution: distribution, Copy: copyRef}, nil
}

// String returns the wire form of the identifier.
func (i Identifier) String() string {
	if i.Distribution == 0 {
		return strconv.FormatUint(i.Copy, 10)
	}
	return strconv.FormatUint(i.Distribution, 10) + ":" + strconv.FormatUint(i.Copy, 10)
}

// Bytes returns the wire form as bytes, the plaintext sealed inside a token.
func (i Identifier) Bytes() []byte {
	return []byte(i.String())
}

// ParseIdentifier parses the wire form. Text containing ':' must have exactly
// two decimal parts; otherwise the whole text must be decimal digits.
func ParseIdentifier(s string) (Identifier, error) {
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return Identifier{}, fmt.Errorf("%w: expected 'distribution:copy', got %d parts", ErrInvalidIdentifier, len(parts))
		}
		dist, err := parseDecimal(parts[0])
		if err != nil {
			return Identifier{}, err
		}
		copyRef, err := parseDecimal(parts[1])
		if err != nil {
			return Identifier{}, err
		}
		return NewIdentifier(dist, copyRef)
	}

	copyRef, err := parseDecimal(s)
	if err != nil {
		return Identifier{}, err
	}
	return NewIdentifier(0, copyRef)
}

func parseDecimal(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty number", ErrInvalidIdentifier)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidIdentifier, s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return n, nil
}

// Identification is the result of a successful scan.
type Identification struct {
	Identifier Identifier
	Channel    Channel
}

// Copy is one fingerprinted output of a distribution.
type Copy struct {
	Identifier Identifier
	Data       []byte
}
