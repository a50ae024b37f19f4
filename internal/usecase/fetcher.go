package usecase

import (
	"context"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/domain/repository"
)

// MetricFetcher performs one upstream metric read per call and normalizes
// the report into a single active-users count.
type MetricFetcher struct {
	client  repository.AnalyticsClient
	metrics repository.Metrics
}

func NewMetricFetcher(client repository.AnalyticsClient, metrics repository.Metrics) *MetricFetcher {
	return &MetricFetcher{client: client, metrics: metrics}
}

// Fetch runs the report for one property and horizon. HorizonNow uses the
// realtime endpoint and ignores the filter, which realtime does not
// support upstream. All failures are wrapped in models.FetchError.
func (f *MetricFetcher) Fetch(ctx context.Context, propertyID string, horizon models.Horizon, filter *models.DimensionFilter) (int64, error) {
	start := time.Now()

	var (
		rep *models.Report
		err error
	)
	if horizon == models.HorizonNow {
		rep, err = f.client.RunRealtimeReport(ctx, propertyID)
	} else {
		dr, ok := models.DateRangeFor(horizon)
		if !ok {
			return 0, &models.FetchError{PropertyID: propertyID, Horizon: horizon, Err: models.ErrUnknownHorizon}
		}
		rep, err = f.client.RunReport(ctx, propertyID, dr, filter)
	}
	if err != nil {
		f.recordError(horizon)
		return 0, &models.FetchError{PropertyID: propertyID, Horizon: horizon, Err: err}
	}

	value, err := rep.ActiveUsers()
	if err != nil {
		f.recordError(horizon)
		return 0, &models.FetchError{PropertyID: propertyID, Horizon: horizon, Err: err}
	}

	if f.metrics != nil {
		f.metrics.RecordFetchLatency(string(horizon), time.Since(start).Seconds())
	}
	return value, nil
}

func (f *MetricFetcher) recordError(horizon models.Horizon) {
	if f.metrics != nil {
		f.metrics.RecordFetchError(string(horizon))
	}
}
