//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/technician-matching/internal/bootstrap"
	"github.com/yanqian/technician-matching/internal/domain/matching"
	"github.com/yanqian/technician-matching/internal/infra/config"
	httpiface "github.com/yanqian/technician-matching/internal/interface/http"
	"github.com/yanqian/technician-matching/pkg/logger"
	"github.com/yanqian/technician-matching/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMatchingConfig,
		provideDirectory,
		provideSearchStats,
		provideMetricsRegistry,
		provideTracing,
		provideMatchingTracer,
		provideSearchMetrics,
		wire.Bind(new(matching.Recorder), new(*metrics.SearchMetrics)),
		matching.NewService,
		httpiface.NewTechnicianHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
