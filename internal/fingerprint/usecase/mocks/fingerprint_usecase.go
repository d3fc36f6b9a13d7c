// Package mocks provides mock implementations for testing fingerprint consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// MockFingerprintUseCase is a mock implementation of FingerprintUseCase for testing.
type MockFingerprintUseCase struct {
	mock.Mock
}

// Embed mocks the Embed method of FingerprintUseCase.
func (m *MockFingerprintUseCase) Embed(
	ctx context.Context,
	identifier fingerprintDomain.Identifier,
	data []byte,
	fileType fingerprintDomain.FileType,
) ([]byte, error) {
	args := m.Called(ctx, identifier, data, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Identify mocks the Identify method of FingerprintUseCase.
func (m *MockFingerprintUseCase) Identify(
	ctx context.Context,
	data []byte,
	fileType fingerprintDomain.FileType,
) (*fingerprintDomain.Identification, error) {
	args := m.Called(ctx, data, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fingerprintDomain.Identification), args.Error(1)
}

// Distribute mocks the Distribute method of FingerprintUseCase.
func (m *MockFingerprintUseCase) Distribute(
	ctx context.Context,
	data []byte,
	fileType fingerprintDomain.FileType,
	distribution uint64,
	copyRefs []uint64,
) ([]fingerprintDomain.Copy, error) {
	args := m.Called(ctx, data, fileType, distribution, copyRefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fingerprintDomain.Copy), args.Error(1)
}
