//go:build wireinject
// +build wireinject

package di

import (
	"BrandPulse/pkg/config"
	"BrandPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideBytesCache,
		ProvideAnalyticsClient,
		ProvidePublisher,

		// Services
		ProvideConfigProvider,
		ProvideMetricStore,

		// Use cases
		ProvideMetricFetcher,
		ProvideAggregator,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
