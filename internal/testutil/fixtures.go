// Package testutil provides container fixtures for codec and end-to-end tests.
//
// PDF fixtures are written by hand with a correct cross-reference table so
// that they parse without any repair:
//
//	data := testutil.BuildPDF(testutil.PDFOptions{
//	    Pages: []string{"first page text", "second page text"},
//	    Info:  map[string]string{"Title": "Quarterly report"},
//	})
//
// PNG fixtures are generated pixel by pixel:
//
//	data := testutil.BuildPNG(t, 64, 64, testutil.Gradient)
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PDFOptions describes a generated PDF document.
type PDFOptions struct {
	// Pages holds the text shown on each page. A nil slice produces one page
	// with a default sentence; an empty, non-nil slice produces a document
	// without pages.
	Pages []string
	// Info entries are written to the document information dictionary.
	Info map[string]string
	// InheritAttributes moves MediaBox and Resources to the page tree root.
	InheritAttributes bool
	// MediaBox overrides the default US Letter page size.
	MediaBox *[4]float64
	// ContentsArray stores each page's contents as a one-element array.
	ContentsArray bool
}

// BuildPDF returns a minimal, well-formed PDF 1.4 document.
func BuildPDF(opts PDFOptions) []byte {
	pages := opts.Pages
	if pages == nil {
		pages = []string{"Confidential quarterly figures."}
	}
	box := [4]float64{0, 0, 612, 792}
	if opts.MediaBox != nil {
		box = *opts.MediaBox
	}
	mediaBox := fmt.Sprintf("[%g %g %g %g]", box[0], box[1], box[2], box[3])
	resources := "<< /Font << /F1 3 0 R >> >>"

	// 1: catalog, 2: pages root, 3: font, 4: info, then page/content pairs.
	objects := make([]string, 0, 4+2*len(pages))
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 5+2*i))
	}

	root := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", strings.Join(kids, " "), len(pages))
	if opts.InheritAttributes {
		root += " /MediaBox " + mediaBox + " /Resources " + resources
	}
	root += " >>"

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		root,
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		infoDict(opts.Info),
	)

	for i, text := range pages {
		contents := fmt.Sprintf("%d 0 R", 6+2*i)
		if opts.ContentsArray {
			contents = "[" + contents + "]"
		}
		page := "<< /Type /Page /Parent 2 0 R /Contents " + contents
		if !opts.InheritAttributes {
			page += " /MediaBox " + mediaBox + " /Resources " + resources
		}
		page += " >>"

		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapePDFString(text))
		content := fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)

		objects = append(objects, page, content)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func infoDict(info map[string]string) string {
	if len(info) == 0 {
		return "<< /Producer (testutil) >>"
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("<<")
	for _, k := range keys {
		fmt.Fprintf(&sb, " /%s (%s)", k, escapePDFString(info[k]))
	}
	sb.WriteString(" >>")
	return sb.String()
}

func escapePDFString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

// PixelFunc returns the colour of pixel (x, y).
type PixelFunc func(x, y int) color.NRGBA

// Gradient is an opaque pattern with every red value present.
func Gradient(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(x*7 + y*13), G: uint8(x * 3), B: uint8(y * 5), A: 255}
}

// Translucent is Gradient with varying alpha.
func Translucent(x, y int) color.NRGBA {
	c := Gradient(x, y)
	c.A = uint8(128 + (x+y)%128)
	return c
}

// BuildPNG encodes a w x h NRGBA image.
func BuildPNG(t testing.TB, w, h int, fill PixelFunc) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// Gradient16 is an opaque pattern whose samples use all 16 bits.
func Gradient16(x, y int) color.NRGBA64 {
	return color.NRGBA64{R: uint16(x*1021 + y*523), G: uint16(x*911 + 7), B: uint16(y * 733), A: 0xffff}
}

// BuildPNG16 encodes a w x h image with 16 bits per sample.
func BuildPNG16(t testing.TB, w, h int, fill func(x, y int) color.NRGBA64) []byte {
	t.Helper()
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA64(x, y, fill(x, y))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// BuildPalettedPNG encodes a w x h paletted image.
func BuildPalettedPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	palette := color.Palette{
		color.NRGBA{R: 10, G: 20, B: 30, A: 255},
		color.NRGBA{R: 200, G: 100, B: 50, A: 255},
		color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for y := range h {
		for x := range w {
			img.SetColorIndex(x, y, uint8((x+y)%len(palette)))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// DecodePNG decodes data into an NRGBA grid.
func DecodePNG(t testing.TB, data []byte) *image.NRGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// SampleText is a short multi-line plain-text document.
const SampleText = "Board minutes\n\nItem 1: budget approved.\nItem 2: merger talks continue.\n"
