// Package validation holds the jellydator rules shared by the request DTOs.
package validation

import (
	"strconv"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// WrapValidationError tags a failed ValidateStruct result as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

var (
	// NotBlank rejects whitespace-only form fields that Required lets through.
	NotBlank = validation.NewStringRuleWithError(
		func(s string) bool { return strings.TrimSpace(s) != "" },
		validation.NewError("validation_not_blank", "must not be blank"),
	)

	// PositiveReference accepts plain decimal digits naming a uint64 above zero.
	// Signs and spaces are refused even though ParseUint would take some of them.
	PositiveReference = validation.NewStringRuleWithError(
		isPositiveReference,
		validation.NewError("validation_positive_reference", "must be a positive whole number"),
	)

	// FileType accepts anything ParseFileType understands: a format name, an
	// extension or a MIME type.
	FileType = validation.NewStringRuleWithError(
		func(s string) bool {
			_, err := fingerprintDomain.ParseFileType(s)
			return err == nil
		},
		validation.NewError("validation_file_type", "must be one of pdf, png or txt"),
	)
)

func isPositiveReference(s string) bool {
	if strings.TrimLeft(s, "0123456789") != "" {
		return false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return err == nil && v > 0
}
