package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/kebabish-pizza/geocoding-service/internal/adapter/http"
	kafkaadapter "github.com/kebabish-pizza/geocoding-service/internal/adapter/kafka"
	"github.com/kebabish-pizza/geocoding-service/internal/adapter/nominatim"
	"github.com/kebabish-pizza/geocoding-service/internal/config"
	"github.com/kebabish-pizza/geocoding-service/internal/geocode"
	"github.com/kebabish-pizza/geocoding-service/internal/observability"
	"github.com/kebabish-pizza/geocoding-service/internal/pipeline"
	"github.com/kebabish-pizza/geocoding-service/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := nominatim.NewClient(
		nominatim.WithBaseURL(cfg.NominatimBaseURL),
		nominatim.WithUserAgent(cfg.NominatimUserAgent),
		nominatim.WithTimeout(cfg.NominatimTimeout),
		nominatim.WithRequestsPerSecond(cfg.NominatimRateLimit),
		nominatim.WithLogger(logger),
	)

	svcOpts := []geocode.Option{
		geocode.WithCacheSize(cfg.GeocodeCacheSize),
		geocode.WithCacheTTL(cfg.GeocodeCacheTTL),
		geocode.WithRateLimit(cfg.GeocodeMaxPerWindow, cfg.GeocodeWindow),
	}

	// Stats sink (feature-flagged via STATS_ENABLED).
	var recorder *stats.RedisRecorder
	if cfg.StatsEnabled {
		recorder = stats.NewRedisRecorder(stats.RedisOptions{
			Addr:           cfg.StatsRedisAddr,
			Password:       cfg.StatsRedisPassword,
			DB:             cfg.StatsRedisDB,
			Prefix:         cfg.StatsPrefix,
			TTL:            cfg.StatsTTL,
			TrackAddresses: cfg.StatsTrackAddresses,
		})
		svcOpts = append(svcOpts, geocode.WithStats(recorder))
		logger.Info("redis stats enabled", "addr", cfg.StatsRedisAddr, "prefix", cfg.StatsPrefix)
	} else {
		logger.Info("redis stats disabled")
	}

	resolver := geocode.NewService(client, logger, metrics, svcOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Order-enrichment worker (feature-flagged via KAFKA_ENABLED).
	var ready httpadapter.ReadinessChecker
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		enricher := pipeline.NewOrderEnricher(resolver, logger)

		w := pipeline.New(reader, enricher, writer, logger, metrics, cfg.BatchSize)
		ready = w

		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("order worker error", "error", err)
			}
		}()
		logger.Info("order worker enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
			"batch_size", cfg.BatchSize,
		)
	} else {
		logger.Info("order worker disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, resolver, ready, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			logger.Error("stats recorder close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
