package repository

import (
	"context"

	"BrandPulse/internal/domain/models"
)

// AnalyticsClient performs the upstream analytics calls. Implementations
// must honor ctx cancellation and carry their own per-call timeout.
type AnalyticsClient interface {
	RunReport(ctx context.Context, propertyID string, dr models.DateRange, filter *models.DimensionFilter) (*models.Report, error)
	RunRealtimeReport(ctx context.Context, propertyID string) (*models.Report, error)
}

// ConfigProvider returns the current brand -> property mapping. It may serve
// from a short-lived cache of its own; bypass forces a remote fetch. On
// remote failure it falls back to the last-known mapping or built-in
// defaults before reporting models.ErrConfigUnavailable.
type ConfigProvider interface {
	Brands(ctx context.Context, bypassCache bool) (map[string]models.BrandConfig, error)
}

// Publisher emits per-brand snapshot events for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, brand string, stats models.BrandStats) error
	Close() error
}

type Metrics interface {
	RecordFetchLatency(horizon string, seconds float64)
	RecordFetchError(horizon string)
	RecordCacheHit(horizon string)
	RecordCacheMiss(horizon string)
	RecordActiveUsers(brand, horizon string, value float64)
	RecordSnapshotDuration(seconds float64)
}
