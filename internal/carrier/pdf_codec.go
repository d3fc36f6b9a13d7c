package carrier

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

const (
	// MetadataKey is the document information entry that carries the token.
	MetadataKey = "fingerprint"

	pdfFontSize    = 5
	pdfTextInset   = 10
	maxParentDepth = 32
	maxPageContent = 64 << 20
)

// pdfTokenPattern matches base64 runs in extracted page text.
var pdfTokenPattern = regexp.MustCompile(`[A-Za-z0-9+/=]{16,}`)

var noRef pdf.Reference

// usLetter is the MediaBox used when a page declares none.
var usLetter = [4]float64{0, 0, 612, 792}

// PDFCodec writes the token twice: as the "fingerprint" document information
// entry and as a white 5pt text run near the top-left corner of the first page.
type PDFCodec struct{}

// NewPDFCodec creates a PDFCodec.
func NewPDFCodec() *PDFCodec {
	return &PDFCodec{}
}

// Embed returns a rewritten PDF carrying token. A file that does not parse or
// has no pages fails with ErrInvalidContainer.
//
// The source objects are copied into a fresh file. The first page is
// redirected to a rewritten dictionary before anything is copied, so every
// reference to it in the page tree lands on the stamped version.
func (c *PDFCodec) Embed(data []byte, token string) (out []byte, err error) {
	if token == "" {
		return nil, fingerprintDomain.ErrEmptyPayload
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, r)
		}
	}()

	src, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	defer src.Close()

	srcMeta := src.GetMeta()
	if srcMeta.Catalog == nil {
		return nil, fmt.Errorf("%w: missing catalog", fingerprintDomain.ErrInvalidContainer)
	}
	pages, err := pagetree.FindPages(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	if len(pages) == 0 || pages[0] == noRef {
		return nil, fmt.Errorf("%w: document has no pages", fingerprintDomain.ErrInvalidContainer)
	}

	version := pdf.GetVersion(src)
	if _, err := version.ToString(); err != nil {
		version = pdf.V1_7
	}

	var buf bytes.Buffer
	w, err := pdf.NewWriter(&buf, version, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf writer: %w", err)
	}
	copier := pdfcopy.NewCopier(w, src)

	pageRef := w.Alloc()
	copier.Redirect(pages[0], pageRef)

	page, err := stampPage(src, w, copier, pages[0], token)
	if err != nil {
		return nil, err
	}
	if err := w.Put(pageRef, page); err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}

	catalog, err := pdfcopy.CopyStruct(copier, srcMeta.Catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}

	meta := w.GetMeta()
	meta.Catalog = catalog
	meta.Info = tokenInfo(srcMeta.Info, token)
	if len(srcMeta.ID) == 2 {
		meta.ID = srcMeta.ID
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Extract returns the metadata token first, then every base64 run found in
// the text of each page, in page order. Duplicates are dropped.
func (c *PDFCodec) Extract(data []byte) (candidates []Candidate) {
	defer func() {
		if recover() != nil {
			candidates = nil
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil
	}
	defer doc.Close()

	seen := make(map[string]struct{})
	add := func(token string, channel fingerprintDomain.Channel) {
		if _, dup := seen[token]; dup {
			return
		}
		seen[token] = struct{}{}
		candidates = append(candidates, Candidate{Token: token, Channel: channel})
	}

	if info := doc.GetMeta().Info; info != nil {
		if v := strings.TrimSpace(info.Custom[MetadataKey]); v != "" {
			add(v, fingerprintDomain.ChannelMetadata)
		}
	}

	if doc.GetMeta().Catalog == nil {
		return candidates
	}
	pages, err := pagetree.FindPages(doc)
	if err != nil {
		return candidates
	}
	for _, ref := range pages {
		if ref == noRef {
			continue
		}
		r, err := pagetree.ContentStream(doc, ref)
		if err != nil {
			continue
		}
		for _, m := range pdfTokenPattern.FindAllString(pageText(io.LimitReader(r, maxPageContent)), -1) {
			add(m, fingerprintDomain.ChannelText)
		}
	}
	return candidates
}

// tokenInfo returns a copy of info with the token entry set.
func tokenInfo(info *pdf.Info, token string) *pdf.Info {
	out := &pdf.Info{}
	if info != nil {
		*out = *info
	}
	custom := maps.Clone(out.Custom)
	if custom == nil {
		custom = make(map[string]string, 1)
	}
	custom[MetadataKey] = token
	out.Custom = custom
	return out
}

// stampPage copies the source page dictionary into w, wrapping the existing
// content in q/Q and appending a stream that draws token in white Helvetica.
func stampPage(src pdf.Getter, w *pdf.Writer, copier *pdfcopy.Copier, srcRef pdf.Reference, token string) (pdf.Dict, error) {
	pageDict, err := pdf.GetDict(src, srcRef)
	if err != nil || pageDict == nil {
		return nil, fmt.Errorf("%w: unreadable first page", fingerprintDomain.ErrInvalidContainer)
	}

	// Resources and Contents are rebuilt below.
	rest := maps.Clone(pageDict)
	delete(rest, "Resources")
	delete(rest, "Contents")
	page, err := copier.CopyDict(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}

	resources, err := inherited(src, pageDict, "Resources")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	srcRes, _ := resources.(pdf.Dict)
	srcFonts, err := pdf.GetDict(src, srcRes["Font"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	delete(srcRes, "Font")

	res, err := copier.CopyDict(srcRes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	fonts, err := copier.CopyDict(srcFonts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	fontName := freshName(fonts, "FP")
	fonts[fontName] = pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
	res["Font"] = fonts
	page["Resources"] = res

	box, err := mediaBox(src, pageDict)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	x := box[0] + pdfTextInset
	y := box[3] - pdfTextInset

	openRef, err := putStream(w, "q\n")
	if err != nil {
		return nil, err
	}
	run := fmt.Sprintf("Q\nq\nBT\n/%s %d Tf\n1 1 1 rg\n%s %s Td\n(%s) Tj\nET\nQ\n",
		fontName, pdfFontSize, formatNumber(x), formatNumber(y), escapeLiteral(token))
	runRef, err := putStream(w, run)
	if err != nil {
		return nil, err
	}

	contents := pdf.Array{openRef}
	existing, err := pdf.Resolve(src, pageDict["Contents"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
	}
	switch existing := existing.(type) {
	case nil:
	case pdf.Array:
		copied, err := copier.CopyArray(existing)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
		}
		contents = append(contents, copied...)
	default:
		if ref, ok := pageDict["Contents"].(pdf.Reference); ok {
			copied, err := copier.CopyReference(ref)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", fingerprintDomain.ErrInvalidContainer, err)
			}
			contents = append(contents, copied)
		}
	}
	contents = append(contents, runRef)
	page["Contents"] = contents

	return page, nil
}

// inherited looks up an inheritable page attribute, following Parent links.
// A returned dictionary is a shallow copy.
func inherited(r pdf.Getter, pageDict pdf.Dict, key pdf.Name) (pdf.Native, error) {
	node := pageDict
	for range maxParentDepth {
		if v, ok := node[key]; ok {
			obj, err := pdf.Resolve(r, v)
			if dict, isDict := obj.(pdf.Dict); isDict {
				obj = maps.Clone(dict)
			}
			return obj, err
		}
		parent, err := pdf.GetDict(r, node["Parent"])
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, nil
		}
		node = parent
	}
	return nil, nil
}

func mediaBox(r pdf.Getter, pageDict pdf.Dict) ([4]float64, error) {
	obj, err := inherited(r, pageDict, "MediaBox")
	if err != nil {
		return usLetter, err
	}
	arr, ok := obj.(pdf.Array)
	if !ok || len(arr) != 4 {
		return usLetter, nil
	}

	var box [4]float64
	for i, v := range arr {
		n, err := pdf.GetNumber(r, v)
		if err != nil {
			return usLetter, nil
		}
		box[i] = float64(n)
	}
	// Normalize so that box[0:2] is the lower-left corner.
	if box[0] > box[2] {
		box[0], box[2] = box[2], box[0]
	}
	if box[1] > box[3] {
		box[1], box[3] = box[3], box[1]
	}
	return box, nil
}

func putStream(w *pdf.Writer, content string) (pdf.Reference, error) {
	ref := w.Alloc()
	stm, err := w.OpenStream(ref, nil)
	if err != nil {
		return noRef, fmt.Errorf("failed to open content stream: %w", err)
	}
	if _, err := io.WriteString(stm, content); err != nil {
		return noRef, fmt.Errorf("failed to write content stream: %w", err)
	}
	if err := stm.Close(); err != nil {
		return noRef, fmt.Errorf("failed to close content stream: %w", err)
	}
	return ref, nil
}

func freshName(dict pdf.Dict, prefix string) pdf.Name {
	for i := 0; ; i++ {
		name := pdf.Name(prefix + strconv.Itoa(i))
		if _, taken := dict[name]; !taken {
			return name
		}
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
