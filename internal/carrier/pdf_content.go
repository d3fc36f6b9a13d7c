package carrier

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/reader/scanner"
)

// pageText returns the string operands of the text-showing operators
// (Tj, TJ, ' and ") in a decoded content stream, one line per operator.
// String bytes are read as Latin-1; font encodings are not applied.
func pageText(content io.Reader) string {
	s := scanner.NewScanner()
	s.SetInput(content)

	latin1 := charmap.ISO8859_1.NewDecoder()

	var (
		lines   []string
		inImage bool
	)
	for s.Scan() {
		op := s.Operator()

		// Inline image data between ID and EI is not content.
		switch {
		case op.Name == "ID":
			inImage = true
			continue
		case op.Name == "EI":
			inImage = false
			continue
		case inImage:
			continue
		}

		var text []byte
		switch op.Name {
		case "Tj", "'", `"`:
			if len(op.Args) == 0 {
				continue
			}
			str, ok := op.Args[len(op.Args)-1].(pdf.String)
			if !ok {
				continue
			}
			text = str
		case "TJ":
			if len(op.Args) == 0 {
				continue
			}
			parts, ok := op.Args[0].(pdf.Array)
			if !ok {
				continue
			}
			for _, part := range parts {
				if str, ok := part.(pdf.String); ok {
					text = append(text, str...)
				}
			}
		default:
			continue
		}
		decoded, err := latin1.Bytes(text)
		if err != nil {
			continue
		}
		lines = append(lines, string(decoded))
	}
	return strings.Join(lines, "\n")
}
