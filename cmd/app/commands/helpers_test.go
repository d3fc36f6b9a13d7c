package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

func TestParseCopyRefs(t *testing.T) {
	t.Run("Success_Count", func(t *testing.T) {
		refs, err := ParseCopyRefs(3, "")
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2, 3}, refs)
	})

	t.Run("Success_ExplicitList", func(t *testing.T) {
		refs, err := ParseCopyRefs(0, " 7, 3 ,12")
		require.NoError(t, err)
		assert.Equal(t, []uint64{7, 3, 12}, refs)
	})

	tests := []struct {
		name    string
		copies  int
		copyIDs string
	}{
		{"Error_Neither", 0, ""},
		{"Error_Both", 2, "1,2"},
		{"Error_Negative", -1, ""},
		{"Error_Zero", 0, "1,0"},
		{"Error_NotANumber", 0, "1,two"},
		{"Error_Duplicate", 0, "4,4"},
		{"Error_EmptyItem", 0, "1,,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCopyRefs(tt.copies, tt.copyIDs)
			assert.Error(t, err)
		})
	}
}

func TestResolveFileType(t *testing.T) {
	ft, err := resolveFileType("", "/tmp/report.PDF")
	require.NoError(t, err)
	assert.Equal(t, fingerprintDomain.PDF, ft)

	ft, err = resolveFileType("png", "/tmp/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, fingerprintDomain.PNG, ft)

	_, err = resolveFileType("", "/tmp/report")
	assert.ErrorIs(t, err, fingerprintDomain.ErrUnsupportedFileType)
}
