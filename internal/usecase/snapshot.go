package usecase

import (
	"context"
	"sync"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/domain/repository"
	"BrandPulse/internal/service/metriccache"
	"BrandPulse/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// TTLs carries the freshness window per horizon.
type TTLs struct {
	Now     time.Duration
	Today   time.Duration
	Days30  time.Duration
	Days365 time.Duration
}

func (t TTLs) For(h models.Horizon) time.Duration {
	switch h {
	case models.HorizonNow:
		return t.Now
	case models.HorizonToday:
		return t.Today
	case models.Horizon30Days:
		return t.Days30
	case models.Horizon365Days:
		return t.Days365
	default:
		return 0
	}
}

// AggregatorOptions bound snapshot concurrency and realtime polling.
type AggregatorOptions struct {
	TTLs              TTLs
	MinNowInterval    time.Duration
	BrandParallel     int
	DefaultPropertyID string
}

// Aggregator resolves per-brand stats across all horizons, serving from
// the metric cache and refreshing stale entries on demand. One Aggregator
// serves all requests; per-key refreshes are deduplicated by the store.
type Aggregator struct {
	fetcher   *MetricFetcher
	store     *metriccache.Store
	provider  repository.ConfigProvider
	publisher repository.Publisher
	metrics   repository.Metrics
	log       *logger.Logger
	opts      AggregatorOptions
}

func NewAggregator(
	fetcher *MetricFetcher,
	store *metriccache.Store,
	provider repository.ConfigProvider,
	publisher repository.Publisher,
	metrics repository.Metrics,
	log *logger.Logger,
	opts AggregatorOptions,
) *Aggregator {
	if opts.BrandParallel <= 0 {
		opts.BrandParallel = 8
	}
	return &Aggregator{
		fetcher:   fetcher,
		store:     store,
		provider:  provider,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		opts:      opts,
	}
}

// Snapshot resolves stats for every configured brand. Brands whose fetches
// fail keep their previous cached values; a brand with no usable value at
// all is still present with zeros so the response shape is stable. bypass
// drops every cached entry first, forcing full re-fetches.
func (a *Aggregator) Snapshot(ctx context.Context, bypass bool) (map[string]models.BrandStats, error) {
	start := time.Now()

	brands, err := a.provider.Brands(ctx, bypass)
	if err != nil {
		return nil, err
	}

	if bypass {
		for name := range brands {
			a.store.DeleteBrand(name)
		}
	}

	var (
		mu      sync.Mutex
		results = make(map[string]models.BrandStats, len(brands))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.BrandParallel)
	for name, cfg := range brands {
		name, cfg := name, cfg
		g.Go(func() error {
			stats := a.refreshBrand(gctx, name, cfg)
			mu.Lock()
			results[name] = stats
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if a.publisher != nil {
		for name, stats := range results {
			if err := a.publisher.Publish(ctx, name, stats); err != nil {
				a.log.Warn("snapshot publish failed",
					logger.String("brand", name), logger.Error(err))
			}
		}
	}

	if a.metrics != nil {
		a.metrics.RecordSnapshotDuration(time.Since(start).Seconds())
	}
	return results, nil
}

// refreshBrand resolves all four horizons for one brand. The three report
// horizons run concurrently; now is resolved afterwards because the
// estimation path depends on the today value.
func (a *Aggregator) refreshBrand(ctx context.Context, name string, cfg models.BrandConfig) models.BrandStats {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values = make(map[models.Horizon]int64, 4)
	)

	for _, h := range models.ReportHorizons() {
		wg.Add(1)
		go func(h models.Horizon) {
			defer wg.Done()
			v, err := a.resolve(ctx, name, h, cfg)
			if err != nil {
				a.log.Warn("horizon refresh failed",
					logger.String("brand", name),
					logger.String("horizon", string(h)),
					logger.Error(err))
			}
			mu.Lock()
			values[h] = v
			mu.Unlock()
		}(h)
	}
	wg.Wait()

	now, err := a.resolveNow(ctx, name, cfg, values[models.HorizonToday])
	if err != nil {
		a.log.Warn("now refresh failed",
			logger.String("brand", name), logger.Error(err))
	}
	values[models.HorizonNow] = now

	stats := models.BrandStats{
		Now:     values[models.HorizonNow],
		Today:   values[models.HorizonToday],
		Days30:  values[models.Horizon30Days],
		Days365: values[models.Horizon365Days],
	}
	a.record(name, stats)
	return stats
}

// resolve serves one (brand, horizon) pair through the cache.
func (a *Aggregator) resolve(ctx context.Context, name string, h models.Horizon, cfg models.BrandConfig) (int64, error) {
	key := metriccache.Key{Brand: name, Horizon: h}
	return a.store.GetOrRefresh(ctx, key, a.opts.TTLs.For(h), func(ctx context.Context) (int64, error) {
		return a.fetcher.Fetch(ctx, cfg.PropertyID, h, cfg.Filter)
	})
}

// resolveNow serves the active-now value. Filtered brands cannot be
// queried in realtime, so their now value is always estimated from today.
// Unfiltered brands fall back to estimation when the realtime call fails;
// the estimate is cached like a fetched value so retries pace normally.
func (a *Aggregator) resolveNow(ctx context.Context, name string, cfg models.BrandConfig, today int64) (int64, error) {
	key := metriccache.Key{Brand: name, Horizon: models.HorizonNow}
	return a.store.GetOrRefresh(ctx, key, a.opts.TTLs.Now, func(ctx context.Context) (int64, error) {
		if cfg.Filter != nil {
			return Estimate(today), nil
		}
		v, err := a.fetcher.Fetch(ctx, cfg.PropertyID, models.HorizonNow, nil)
		if err != nil {
			a.log.Warn("realtime fetch failed, estimating",
				logger.String("brand", name), logger.Error(err))
			return Estimate(today), nil
		}
		return v, nil
	})
}

// ActiveNow serves a single brand's realtime value with a caller-chosen
// refresh interval. The interval is clamped to the configured floor and
// becomes part of the cache key, so distinct pollers do not shorten each
// other's windows. "default" resolves to the configured default property.
func (a *Aggregator) ActiveNow(ctx context.Context, brand string, interval time.Duration) (value int64, cached bool, err error) {
	if interval < a.opts.MinNowInterval {
		interval = a.opts.MinNowInterval
	}

	var cfg models.BrandConfig
	if brand == "default" && a.opts.DefaultPropertyID != "" {
		cfg = models.BrandConfig{Name: "default", PropertyID: a.opts.DefaultPropertyID}
	} else {
		brands, err := a.provider.Brands(ctx, false)
		if err != nil {
			return 0, false, err
		}
		var ok bool
		cfg, ok = brands[brand]
		if !ok {
			return 0, false, models.ErrUnknownBrand
		}
	}

	key := metriccache.Key{Brand: brand, Horizon: models.HorizonNow, Interval: interval}
	if v, ok := a.store.Fresh(key, interval); ok {
		if a.metrics != nil {
			a.metrics.RecordCacheHit(string(models.HorizonNow))
		}
		return v, true, nil
	}

	v, err := a.store.GetOrRefresh(ctx, key, interval, func(ctx context.Context) (int64, error) {
		if cfg.Filter != nil {
			today, terr := a.resolve(ctx, brand, models.HorizonToday, cfg)
			if terr != nil {
				return 0, terr
			}
			return Estimate(today), nil
		}
		return a.fetcher.Fetch(ctx, cfg.PropertyID, models.HorizonNow, nil)
	})
	if err != nil {
		return v, false, err
	}
	return v, false, nil
}

func (a *Aggregator) record(name string, stats models.BrandStats) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordActiveUsers(name, string(models.HorizonNow), float64(stats.Now))
	a.metrics.RecordActiveUsers(name, string(models.HorizonToday), float64(stats.Today))
	a.metrics.RecordActiveUsers(name, string(models.Horizon30Days), float64(stats.Days30))
	a.metrics.RecordActiveUsers(name, string(models.Horizon365Days), float64(stats.Days365))
}
