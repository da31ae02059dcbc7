package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/agri-alert-impact/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/agri-alert-impact/internal/adapter/kafka"
	"github.com/couchcryptid/agri-alert-impact/internal/adapter/rediscache"
	"github.com/couchcryptid/agri-alert-impact/internal/adapter/tomorrow"
	"github.com/couchcryptid/agri-alert-impact/internal/config"
	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
	"github.com/couchcryptid/agri-alert-impact/internal/pipeline"
	"github.com/couchcryptid/agri-alert-impact/internal/store"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var seed []domain.IncidentRecord
	if cfg.FixturesEnabled {
		seed = domain.SampleIncidents()
	}
	incidents := store.NewIncidentLog(seed...)
	reports := store.NewReportBook()
	metrics.IncidentsTracked.Set(float64(incidents.Len()))
	logger.Info("incident log initialised", "seeded", len(seed))

	// Live weather (feature-flagged via WEATHER_ENABLED / TOMORROW_API_KEY).
	var (
		board *pipeline.WeatherBoard
		rdb   *redis.Client
	)
	if cfg.WeatherEnabled {
		var provider domain.WeatherProvider = tomorrow.NewClient(cfg.TomorrowAPIKey, cfg.WeatherTimeout, metrics, logger)
		if rdb = rediscache.Open(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
			shared := rediscache.NewProvider(provider, rdb, cfg.WeatherCacheTTL, metrics, logger)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.WeatherTimeout)
			if err := shared.Ping(pingCtx); err != nil {
				logger.Warn("redis unreachable, weather will bypass it until it recovers", "addr", cfg.RedisAddr, "error", err)
			} else {
				logger.Info("redis weather cache enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
			}
			cancelPing()
			provider = shared
		}
		provider = tomorrow.NewCachedProvider(provider, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, metrics, nil)
		board = pipeline.NewWeatherBoard(provider, domain.Regions(), cfg.WeatherRefreshInterval, logger, metrics,
			pipeline.WithRequestSpacing(cfg.WeatherRequestSpacing))
		logger.Info("live weather enabled",
			"refresh_interval", cfg.WeatherRefreshInterval, "cache_size", cfg.WeatherCacheSize, "cache_ttl", cfg.WeatherCacheTTL)
	} else {
		logger.Info("live weather disabled, using default conditions")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	// A nil *WeatherBoard must not become a non-nil interface.
	var weatherSource pipeline.WeatherSource
	var weatherView httpadapter.WeatherView
	if board != nil {
		weatherSource = board
		weatherView = board
	}

	p := pipeline.New(reader, pipeline.NewTransformer(), incidents, weatherSource, writer, logger, metrics, cfg.BatchSize)

	api := &httpadapter.API{
		Incidents: incidents,
		Weather:   weatherView,
		Reports:   reports,
		Metrics:   metrics,
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	var workers errgroup.Group

	if board != nil {
		workers.Go(func() error {
			board.Run(ctx)
			return nil
		})
	}

	// Start impact pipeline.
	workers.Go(func() error {
		return p.Run(ctx)
	})

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := workers.Wait(); err != nil {
		logger.Error("pipeline error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
