package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/yanqian/technician-matching/internal/domain/matching"
	"github.com/yanqian/technician-matching/internal/infra/config"
	"github.com/yanqian/technician-matching/internal/infra/searchstats"
	"github.com/yanqian/technician-matching/internal/infra/techrepo"
	"github.com/yanqian/technician-matching/internal/infra/tracing"
	"github.com/yanqian/technician-matching/pkg/metrics"
)

func provideMatchingConfig(cfg *config.Config) matching.Config {
	return matching.Config{
		DefaultRadiusKm: cfg.Matching.DefaultRadiusKm,
		DefaultLimit:    cfg.Matching.DefaultLimit,
		MaxLimit:        cfg.Matching.MaxLimit,
		FallbackLocation: matching.Location{
			Lat: cfg.Matching.FallbackLocation.Lat,
			Lng: cfg.Matching.FallbackLocation.Lng,
		},
		TrendingLimit: cfg.Matching.TrendingLimit,
	}
}

func provideDirectory(cfg *config.Config, logger *slog.Logger) matching.Directory {
	fallback := provideSeededDirectory(cfg, logger)
	dsn := strings.TrimSpace(cfg.Directory.Postgres.DSN)
	if dsn == "" {
		logger.Info("directory postgres dsn not set, using memory directory", "technicians", fallback.Len())
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory directory", "error", err)
		return fallback
	}
	if cfg.Directory.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Directory.Postgres.MaxConns
	}
	if cfg.Directory.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Directory.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory directory", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory directory", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("directory postgres repository enabled")
	return techrepo.NewPostgresRepository(pool)
}

func provideSeededDirectory(cfg *config.Config, logger *slog.Logger) *techrepo.MemoryRepository {
	path := strings.TrimSpace(cfg.Directory.SeedFile)
	if path == "" {
		return techrepo.NewMemoryRepository()
	}
	records, err := techrepo.LoadSeedFile(path)
	if err != nil {
		logger.Error("failed to load technician seed file, starting empty", "path", path, "error", err)
		return techrepo.NewMemoryRepository()
	}
	return techrepo.NewMemoryRepository(records...)
}

func provideSearchStats(cfg *config.Config, logger *slog.Logger) matching.SearchStats {
	if cfg.Stats.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory stats", "error", err)
			return searchstats.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory stats", "error", err)
			return searchstats.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory stats", "error", err)
			client.Close()
		} else {
			logger.Info("search stats valkey store enabled", "addr", cfg.Stats.Valkey.Addr)
			return searchstats.NewValkeyStore(client, cfg.Stats.Valkey.Prefix)
		}
	}
	return searchstats.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Stats.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Stats.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Stats.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideSearchMetrics() *metrics.SearchMetrics {
	categories := make([]string, 0, len(matching.Specialties))
	for _, sp := range matching.Specialties {
		categories = append(categories, string(sp))
	}
	return metrics.NewSearchMetrics(categories)
}

func provideMetricsRegistry(searchMetrics *metrics.SearchMetrics) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := searchMetrics.Register(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func provideTracing(cfg *config.Config, logger *slog.Logger) (*tracing.Provider, error) {
	return tracing.NewProvider(cfg.Tracing, logger)
}

func provideMatchingTracer(tp *tracing.Provider) trace.Tracer {
	return tp.Tracer(matching.TracerName)
}
