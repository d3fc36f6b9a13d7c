// Package carrier hides fingerprint tokens inside container files and finds
// candidate tokens in suspect copies.
//
// A Codec never authenticates what it extracts: candidates are only strings
// that look like tokens, in the order the Codec trusts them most. Callers run
// each candidate through the token codec and keep the first that verifies.
package carrier

import (
	"fmt"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// Candidate is a possible token read from a container.
type Candidate struct {
	Token   string
	Channel fingerprintDomain.Channel
}

// Codec embeds tokens into, and extracts candidate tokens from, one container format.
type Codec interface {
	// Embed returns a copy of data carrying token. data is never modified.
	Embed(data []byte, token string) ([]byte, error)

	// Extract returns candidate tokens in priority order. Unreadable input
	// yields no candidates rather than an error.
	Extract(data []byte) []Candidate
}

// Registry maps file types to codecs.
type Registry struct {
	codecs map[fingerprintDomain.FileType]Codec
}

// NewRegistry returns a registry with the PDF, PNG and TXT codecs.
func NewRegistry() *Registry {
	return &Registry{
		codecs: map[fingerprintDomain.FileType]Codec{
			fingerprintDomain.PDF: NewPDFCodec(),
			fingerprintDomain.PNG: NewPNGCodec(),
			fingerprintDomain.TXT: NewTXTCodec(),
		},
	}
}

// Register adds or replaces the codec for a file type.
func (r *Registry) Register(fileType fingerprintDomain.FileType, codec Codec) {
	r.codecs[fileType] = codec
}

// Get returns the codec for fileType or ErrUnsupportedFileType.
func (r *Registry) Get(fileType fingerprintDomain.FileType) (Codec, error) {
	codec, ok := r.codecs[fileType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", fingerprintDomain.ErrUnsupportedFileType, fileType)
	}
	return codec, nil
}
