package di

import (
	"context"
	"fmt"

	"BrandPulse/internal/domain/repository"
	"BrandPulse/internal/handler/api"
	internalrepo "BrandPulse/internal/repository"
	"BrandPulse/internal/service/brandconfig"
	"BrandPulse/internal/service/ga4"
	"BrandPulse/internal/service/metriccache"
	"BrandPulse/internal/usecase"
	"BrandPulse/pkg/cache"
	"BrandPulse/pkg/config"
	xhttp "BrandPulse/pkg/http"
	pkgkafka "BrandPulse/pkg/kafka"
	"BrandPulse/pkg/logger"
	"BrandPulse/pkg/metrics"
	"BrandPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBytesCache creates the config-document cache. Redis is used when
// enabled so replicas share the cached brand mapping.
func ProvideBytesCache(cfg *config.Config) cache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	}
	return cache.NewTTLCache()
}

// ProvideAnalyticsClient creates the upstream analytics client.
func ProvideAnalyticsClient(cfg *config.Config) (repository.AnalyticsClient, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, fmt.Errorf("analytics credentials: %w", err)
	}
	client, err := ga4.New(context.Background(), creds, cfg.Analytics.Endpoint, cfg.Analytics.Timeout)
	if err != nil {
		return nil, fmt.Errorf("analytics client: %w", err)
	}
	return client, nil
}

// ProvideConfigProvider creates the brand mapping provider.
func ProvideConfigProvider(cfg *config.Config, bc cache.BytesCache, log *logger.Logger) repository.ConfigProvider {
	return brandconfig.New(brandconfig.Options{
		BaseURL:    cfg.BrandConfig.ProviderURL,
		Collection: cfg.BrandConfig.Collection,
		CacheTTL:   cfg.BrandConfig.CacheTTL,
		Timeout:    cfg.BrandConfig.Timeout,
	}, bc, log)
}

// ProvidePublisher creates the snapshot event publisher. Without brokers
// configured, snapshot events are disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideMetricStore creates the in-process metric cache.
func ProvideMetricStore(m repository.Metrics) *metriccache.Store {
	return metriccache.NewStore(m)
}

// ProvideMetricFetcher creates the upstream fetcher use case.
func ProvideMetricFetcher(client repository.AnalyticsClient, m repository.Metrics) *usecase.MetricFetcher {
	return usecase.NewMetricFetcher(client, m)
}

// ProvideAggregator creates the snapshot aggregator use case.
func ProvideAggregator(
	fetcher *usecase.MetricFetcher,
	store *metriccache.Store,
	provider repository.ConfigProvider,
	publisher repository.Publisher,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.Aggregator {
	return usecase.NewAggregator(fetcher, store, provider, publisher, m, log, usecase.AggregatorOptions{
		TTLs: usecase.TTLs{
			Now:     cfg.Cache.TTL.Now,
			Today:   cfg.Cache.TTL.Today,
			Days30:  cfg.Cache.TTL.Days30,
			Days365: cfg.Cache.TTL.Days365,
		},
		MinNowInterval:    cfg.Cache.MinNowInterval,
		BrandParallel:     cfg.Snapshot.BrandParallel,
		DefaultPropertyID: cfg.Analytics.DefaultPropertyID,
	})
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(log *logger.Logger, agg *usecase.Aggregator) xhttp.Handler {
	return api.NewActiveUsersHandler(log, agg)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	publisher repository.Publisher,
	bc cache.BytesCache,
) *server.App {
	return server.New(cfg, log, handler, publisher, bc)
}
