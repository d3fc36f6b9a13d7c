package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
)

func TestPositiveReference(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "one", value: "1"},
		{name: "large", value: "18446744073709551615"},
		{name: "leading zeros", value: "007"},
		{name: "empty is left to Required", value: ""},
		{name: "zero", value: "0", shouldErr: true},
		{name: "negative", value: "-3", shouldErr: true},
		{name: "plus sign", value: "+3", shouldErr: true},
		{name: "overflow", value: "18446744073709551616", shouldErr: true},
		{name: "letters", value: "12a", shouldErr: true},
		{name: "space", value: " 12", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, PositiveReference)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "positive whole number")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileType(t *testing.T) {
	for _, v := range []string{"pdf", "PNG", ".txt", "application/pdf", "text/plain; charset=utf-8"} {
		assert.NoError(t, validation.Validate(v, FileType), v)
	}
	for _, v := range []string{"docx", "image/gif", "pdf2"} {
		assert.Error(t, validation.Validate(v, FileType), v)
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("value", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(errors.New("copy_id: must be a positive whole number."))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "copy_id")
}
