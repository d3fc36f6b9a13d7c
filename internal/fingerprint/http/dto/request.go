// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"strconv"

	validation "github.com/jellydator/validation"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	customValidation "github.com/PrLayt0n/FiLeaked/internal/validation"
)

// EmbedRequest holds the multipart form fields of a fingerprint request.
// The file part is read separately.
type EmbedRequest struct {
	DistributionID string `form:"distribution_id" json:"distribution_id"`
	CopyID         string `form:"copy_id" json:"copy_id"`
	FileType       string `form:"file_type" json:"file_type"`
}

// Validate checks if the embed request is valid.
func (r *EmbedRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DistributionID,
			customValidation.PositiveReference,
		),
		validation.Field(&r.CopyID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PositiveReference,
		),
		validation.Field(&r.FileType,
			customValidation.FileType,
		),
	)
}

// Identifier converts a validated request into a domain identifier.
// A missing distribution_id means "unknown distribution".
func (r *EmbedRequest) Identifier() (fingerprintDomain.Identifier, error) {
	var distribution uint64
	if r.DistributionID != "" {
		v, err := strconv.ParseUint(r.DistributionID, 10, 64)
		if err != nil {
			return fingerprintDomain.Identifier{}, fingerprintDomain.ErrInvalidIdentifier
		}
		distribution = v
	}
	copyRef, err := strconv.ParseUint(r.CopyID, 10, 64)
	if err != nil {
		return fingerprintDomain.Identifier{}, fingerprintDomain.ErrInvalidIdentifier
	}
	return fingerprintDomain.NewIdentifier(distribution, copyRef)
}

// ScanRequest holds the multipart form fields of a scan request.
type ScanRequest struct {
	FileType string `form:"file_type" json:"file_type"`
}

// Validate checks if the scan request is valid.
func (r *ScanRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FileType,
			customValidation.FileType,
		),
	)
}
