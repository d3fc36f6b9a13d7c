package carrier

import (
	"bytes"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	"github.com/PrLayt0n/FiLeaked/internal/testutil"
)

// stripMetadata copies data into a new file without the fingerprint entry in
// the document information dictionary.
func stripMetadata(t *testing.T, data []byte) []byte {
	t.Helper()
	src, err := pdf.NewReader(bytes.NewReader(data), nil)
	require.NoError(t, err)
	defer src.Close()

	var buf bytes.Buffer
	w, err := pdf.NewWriter(&buf, pdf.GetVersion(src), nil)
	require.NoError(t, err)

	catalog, err := pdfcopy.CopyStruct(pdfcopy.NewCopier(w, src), src.GetMeta().Catalog)
	require.NoError(t, err)
	w.GetMeta().Catalog = catalog
	if info := src.GetMeta().Info; info != nil {
		stripped := *info
		stripped.Custom = maps.Clone(info.Custom)
		delete(stripped.Custom, MetadataKey)
		w.GetMeta().Info = &stripped
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestPDFCodec_Embed(t *testing.T) {
	codec := NewPDFCodec()

	t.Run("Success_MetadataCandidateFirst", func(t *testing.T) {
		out, err := codec.Embed(testutil.BuildPDF(testutil.PDFOptions{}), testToken)
		require.NoError(t, err)

		candidates := codec.Extract(out)
		require.NotEmpty(t, candidates)
		assert.Equal(t, Candidate{Token: testToken, Channel: fingerprintDomain.ChannelMetadata}, candidates[0])
	})

	t.Run("Success_TextChannelSurvivesMetadataLoss", func(t *testing.T) {
		out, err := codec.Embed(testutil.BuildPDF(testutil.PDFOptions{}), testToken)
		require.NoError(t, err)

		candidates := codec.Extract(stripMetadata(t, out))
		require.Len(t, candidates, 1)
		assert.Equal(t, Candidate{Token: testToken, Channel: fingerprintDomain.ChannelText}, candidates[0])
	})

	t.Run("Success_InheritedAttributes", func(t *testing.T) {
		src := testutil.BuildPDF(testutil.PDFOptions{InheritAttributes: true})
		out, err := codec.Embed(src, testToken)
		require.NoError(t, err)

		candidates := codec.Extract(stripMetadata(t, out))
		require.Len(t, candidates, 1)
		assert.Equal(t, testToken, candidates[0].Token)
	})

	t.Run("Success_ContentsArray", func(t *testing.T) {
		src := testutil.BuildPDF(testutil.PDFOptions{ContentsArray: true, Pages: []string{"one", "two"}})
		out, err := codec.Embed(src, testToken)
		require.NoError(t, err)

		candidates := codec.Extract(stripMetadata(t, out))
		require.Len(t, candidates, 1)
		assert.Equal(t, testToken, candidates[0].Token)
	})

	t.Run("Success_KeepsPagesAndText", func(t *testing.T) {
		src := testutil.BuildPDF(testutil.PDFOptions{Pages: []string{"first", "second", "third"}})
		out, err := codec.Embed(src, testToken)
		require.NoError(t, err)

		doc, err := pdf.NewReader(bytes.NewReader(out), nil)
		require.NoError(t, err)
		defer doc.Close()

		pages, err := pagetree.FindPages(doc)
		require.NoError(t, err)
		require.Len(t, pages, 3)

		var texts []string
		for _, ref := range pages {
			r, err := pagetree.ContentStream(doc, ref)
			require.NoError(t, err)
			texts = append(texts, pageText(r))
		}
		assert.Equal(t, []string{"first\n" + testToken, "second", "third"}, texts)
	})

	t.Run("Success_PreservesExistingInfo", func(t *testing.T) {
		src := testutil.BuildPDF(testutil.PDFOptions{Info: map[string]string{"Title": "Quarterly report"}})
		out, err := codec.Embed(src, testToken)
		require.NoError(t, err)

		doc, err := pdf.NewReader(bytes.NewReader(out), nil)
		require.NoError(t, err)
		defer doc.Close()
		info := doc.GetMeta().Info
		require.NotNil(t, info)
		assert.Equal(t, pdf.TextString("Quarterly report"), info.Title)
		assert.Equal(t, testToken, info.Custom[MetadataKey])
	})

	t.Run("Success_ReembedOverwritesMetadata", func(t *testing.T) {
		first, err := codec.Embed(testutil.BuildPDF(testutil.PDFOptions{}), testToken)
		require.NoError(t, err)

		other := "c2Vjb25kIHRva2VuIHZhbHVl"
		second, err := codec.Embed(first, other)
		require.NoError(t, err)

		candidates := codec.Extract(second)
		require.NotEmpty(t, candidates)
		assert.Equal(t, other, candidates[0].Token)
	})

	t.Run("Error_NoPages", func(t *testing.T) {
		_, err := codec.Embed(testutil.BuildPDF(testutil.PDFOptions{Pages: []string{}}), testToken)
		assert.ErrorIs(t, err, fingerprintDomain.ErrInvalidContainer)
	})

	t.Run("Error_NotAPDF", func(t *testing.T) {
		_, err := codec.Embed([]byte("%PDF-1.4 truncated"), testToken)
		assert.ErrorIs(t, err, fingerprintDomain.ErrInvalidContainer)
	})

	t.Run("Error_EmptyToken", func(t *testing.T) {
		_, err := codec.Embed(testutil.BuildPDF(testutil.PDFOptions{}), "")
		assert.ErrorIs(t, err, fingerprintDomain.ErrEmptyPayload)
	})
}

func TestPDFCodec_Extract(t *testing.T) {
	codec := NewPDFCodec()

	t.Run("Success_MetadataOnly", func(t *testing.T) {
		src := testutil.BuildPDF(testutil.PDFOptions{Info: map[string]string{MetadataKey: " " + testToken + " "}})

		candidates := codec.Extract(src)
		require.Len(t, candidates, 1)
		assert.Equal(t, Candidate{Token: testToken, Channel: fingerprintDomain.ChannelMetadata}, candidates[0])
	})

	t.Run("Success_TextRunsInPageOrder", func(t *testing.T) {
		first := "Rmlyc3RQYWdlVG9rZW4x"
		second := "U2Vjb25kUGFnZVRva2VuMg=="
		src := testutil.BuildPDF(testutil.PDFOptions{
			Info:  map[string]string{MetadataKey: testToken},
			Pages: []string{"ref " + first + " end", "short abc", "trailer " + second},
		})

		candidates := codec.Extract(src)
		assert.Equal(t, []Candidate{
			{Token: testToken, Channel: fingerprintDomain.ChannelMetadata},
			{Token: first, Channel: fingerprintDomain.ChannelText},
			{Token: second, Channel: fingerprintDomain.ChannelText},
		}, candidates)
	})

	t.Run("Success_NoCandidates", func(t *testing.T) {
		assert.Empty(t, codec.Extract(testutil.BuildPDF(testutil.PDFOptions{})))
	})

	t.Run("Success_Garbage", func(t *testing.T) {
		assert.Empty(t, codec.Extract([]byte("not a pdf at all")))
		assert.Empty(t, codec.Extract(nil))
	})
}
