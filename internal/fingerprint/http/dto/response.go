package dto

import (
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

const (
	ScanStatusFound    = "found"
	ScanStatusNotFound = "not_found"
)

// ScanResponse is the result of scanning a suspect file. Identifier fields are
// present only when Status is "found".
type ScanResponse struct {
	Status         string  `json:"status"`
	DistributionID *uint64 `json:"distribution_id,omitempty"`
	CopyID         *uint64 `json:"copy_id,omitempty"`
	Identifier     string  `json:"identifier,omitempty"`
	Channel        string  `json:"channel,omitempty"`
}

// MapIdentificationToResponse converts an identification to a "found" response.
func MapIdentificationToResponse(id *fingerprintDomain.Identification) ScanResponse {
	distribution := id.Identifier.Distribution
	copyRef := id.Identifier.Copy
	return ScanResponse{
		Status:         ScanStatusFound,
		DistributionID: &distribution,
		CopyID:         &copyRef,
		Identifier:     id.Identifier.String(),
		Channel:        string(id.Channel),
	}
}

// NotFoundResponse is returned when no fingerprint authenticates.
func NotFoundResponse() ScanResponse {
	return ScanResponse{Status: ScanStatusNotFound}
}
