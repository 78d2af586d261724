package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/weather-data-etl/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/weather-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-data-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/weather-data-etl/internal/adapter/postgres"
	"github.com/couchcryptid/weather-data-etl/internal/config"
	"github.com/couchcryptid/weather-data-etl/internal/domain"
	"github.com/couchcryptid/weather-data-etl/internal/observability"
	"github.com/couchcryptid/weather-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("etl failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	geocoder, err := newGeocoder(cfg, logger, metrics)
	if err != nil {
		return err
	}

	loader, closeLoader, err := newLoader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLoader()

	opts := domain.TransformOptions{Unit: cfg.TemperatureUnit, TemperatureColumns: cfg.TemperatureColumns}
	p := pipeline.New(
		csvfile.NewReader(cfg.CSVFilePath, logger),
		pipeline.NewTransformer(opts, geocoder, logger),
		loader,
		logger,
		metrics,
	)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		// A single run ends the process; a scheduled run ends on signal.
		defer cancel()
		logger.Info("etl starting",
			"csv", cfg.CSVFilePath, "sink", cfg.Sink, "unit", cfg.TemperatureUnit.String(), "interval", cfg.RunInterval)
		return p.Run(gctx, cfg.RunInterval)
	})
	return g.Wait()
}

// newGeocoder returns nil when geocoding is disabled.
func newGeocoder(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (domain.Geocoder, error) {
	if !cfg.MapboxEnabled {
		logger.Info("mapbox geocoding disabled")
		return nil, nil
	}
	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	if err != nil {
		return nil, fmt.Errorf("geocoder cache: %w", err)
	}
	metrics.GeocodeEnabled.Set(1)
	logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	return cached, nil
}

func newLoader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.Loader, func(), error) {
	switch cfg.Sink {
	case config.SinkKafka:
		w := kafkaadapter.NewWriter(cfg, logger)
		return w, func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return postgres.NewLoader(pool, cfg.DatabaseTable, cfg.BatchSize, logger), pool.Close, nil
	}
}
