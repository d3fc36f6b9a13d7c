package carrier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	"github.com/PrLayt0n/FiLeaked/internal/framing"
)

const (
	// ZeroWidth0 (ZERO WIDTH SPACE) encodes a 0 bit.
	ZeroWidth0 = '\u200B'
	// ZeroWidth1 (ZERO WIDTH NON-JOINER) encodes a 1 bit.
	ZeroWidth1 = '\u200C'
)

// TXTCodec hides the framed token as a run of zero-width characters on a line
// of its own after the text.
type TXTCodec struct{}

// NewTXTCodec creates a TXTCodec.
func NewTXTCodec() *TXTCodec {
	return &TXTCodec{}
}

// Embed trims trailing whitespace and any previous marker run, then appends a
// newline and the marker run. Output is always UTF-8.
func (c *TXTCodec) Embed(data []byte, token string) ([]byte, error) {
	bits, err := framing.Pack(token)
	if err != nil {
		return nil, err
	}

	text := strings.TrimRightFunc(decodeText(data), isTrailer)

	var sb strings.Builder
	sb.Grow(len(text) + 1 + len(bits)*3)
	sb.WriteString(text)
	sb.WriteByte('\n')
	for _, bit := range bits {
		if bit == 0 {
			sb.WriteRune(ZeroWidth0)
		} else {
			sb.WriteRune(ZeroWidth1)
		}
	}
	return []byte(sb.String()), nil
}

// Extract reads the marker run at the end of the text. Whitespace mixed into
// the run is ignored.
func (c *TXTCodec) Extract(data []byte) []Candidate {
	text := decodeText(data)
	if !strings.ContainsRune(text, ZeroWidth0) && !strings.ContainsRune(text, ZeroWidth1) {
		return nil
	}

	start := len(text)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isTrailer(r) {
			break
		}
		start -= size
	}
	hidden := text[start:]

	markers := strings.Count(hidden, string(ZeroWidth0)) + strings.Count(hidden, string(ZeroWidth1))
	pos := 0
	src := framing.SourceFunc(func() (byte, bool) {
		for pos < len(hidden) {
			r, size := utf8.DecodeRuneInString(hidden[pos:])
			pos += size
			switch r {
			case ZeroWidth0:
				return 0, true
			case ZeroWidth1:
				return 1, true
			}
		}
		return 0, false
	})

	token, err := framing.Unpack(src, markers)
	if err != nil {
		return nil
	}
	return []Candidate{{Token: token, Channel: fingerprintDomain.ChannelZeroWidth}}
}

func isTrailer(r rune) bool {
	return r == ZeroWidth0 || r == ZeroWidth1 || unicode.IsSpace(r)
}

// decodeText decodes UTF-8, falling back to ISO-8859-1 for anything else.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(decoded)
}
