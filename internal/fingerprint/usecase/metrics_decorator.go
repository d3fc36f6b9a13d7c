package usecase

import (
	"context"
	"time"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	"github.com/PrLayt0n/FiLeaked/internal/metrics"
)

const metricsDomain = "fingerprint"

// fingerprintUseCaseWithMetrics decorates FingerprintUseCase with metrics instrumentation.
type fingerprintUseCaseWithMetrics struct {
	next    FingerprintUseCase
	metrics metrics.BusinessMetrics
}

// NewFingerprintUseCaseWithMetrics wraps a FingerprintUseCase with metrics recording.
func NewFingerprintUseCaseWithMetrics(useCase FingerprintUseCase, m metrics.BusinessMetrics) FingerprintUseCase {
	return &fingerprintUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *fingerprintUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	switch {
	case apperrors.Is(err, fingerprintDomain.ErrFingerprintNotFound):
		status = metrics.StatusNotFound
	case err != nil:
		status = metrics.StatusError
	}

	f.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	f.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Embed records metrics for embed operations.
func (f *fingerprintUseCaseWithMetrics) Embed(
	ctx context.Context,
	identifier fingerprintDomain.Identifier,
	data []byte,
	fileType fingerprintDomain.FileType,
) ([]byte, error) {
	start := time.Now()
	out, err := f.next.Embed(ctx, identifier, data, fileType)
	f.record(ctx, "fingerprint_embed", start, err)
	return out, err
}

// Identify records metrics for identify operations. A missing fingerprint is
// recorded as not_found rather than error.
func (f *fingerprintUseCaseWithMetrics) Identify(
	ctx context.Context,
	data []byte,
	fileType fingerprintDomain.FileType,
) (*fingerprintDomain.Identification, error) {
	start := time.Now()
	id, err := f.next.Identify(ctx, data, fileType)
	f.record(ctx, "fingerprint_identify", start, err)
	return id, err
}

// Distribute records metrics for distribute operations.
func (f *fingerprintUseCaseWithMetrics) Distribute(
	ctx context.Context,
	data []byte,
	fileType fingerprintDomain.FileType,
	distribution uint64,
	copyRefs []uint64,
) ([]fingerprintDomain.Copy, error) {
	start := time.Now()
	copies, err := f.next.Distribute(ctx, data, fileType, distribution, copyRefs)
	f.record(ctx, "fingerprint_distribute", start, err)
	return copies, err
}
