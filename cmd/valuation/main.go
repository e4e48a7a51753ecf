package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/home-valuation/internal/adapter/attom"
	"github.com/couchcryptid/home-valuation/internal/adapter/estated"
	"github.com/couchcryptid/home-valuation/internal/adapter/google"
	httpadapter "github.com/couchcryptid/home-valuation/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/home-valuation/internal/adapter/kafka"
	redisadapter "github.com/couchcryptid/home-valuation/internal/adapter/redis"
	"github.com/couchcryptid/home-valuation/internal/adapter/schooldigger"
	"github.com/couchcryptid/home-valuation/internal/config"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/couchcryptid/home-valuation/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var opts []service.Option
	providers := service.Providers{}

	// Geocoding and autocomplete (feature-flagged via GOOGLE_MAPS_API_KEY).
	if cfg.GeocodingEnabled() {
		client := google.NewClient(cfg.GoogleMapsAPIKey, cfg.ProviderTimeout, metrics, logger)
		providers.Geocoder = google.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
		providers.Places = client
		logger.Info("google geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.ProviderTimeout)
	} else {
		logger.Info("google geocoding disabled")
	}
	if cfg.EstatedAPIKey != "" {
		providers.Records = estated.NewClient(cfg.EstatedAPIKey, cfg.ProviderTimeout, metrics, logger)
		logger.Info("estated property records enabled")
	}
	if cfg.SchoolRatingsEnabled() {
		providers.Schools = schooldigger.NewClient(cfg.SchoolDiggerAppID, cfg.SchoolDiggerAppKey, cfg.SchoolDiggerState, cfg.ProviderTimeout, metrics, logger)
		logger.Info("schooldigger ratings enabled", "state", cfg.SchoolDiggerState)
	}
	if cfg.AttomAPIKey != "" {
		providers.Comps = attom.NewClient(cfg.AttomAPIKey, cfg.CompsRadiusMiles, cfg.CompsLimit, cfg.ProviderTimeout, metrics, logger)
		logger.Info("attom comparable sales enabled", "radius_miles", cfg.CompsRadiusMiles, "limit", cfg.CompsLimit)
	}

	// Shared provider cache in front of the in-memory geocode cache.
	var rdb *redisadapter.Client
	if cfg.RedisEnabled() {
		rdb = redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cache := redisadapter.NewCache(rdb, cfg.CacheTTL, metrics, logger)
		if providers.Geocoder != nil {
			providers.Geocoder = cache.Geocoder(providers.Geocoder)
		}
		if providers.Records != nil {
			providers.Records = cache.PropertyRecords(providers.Records)
		}
		if providers.Schools != nil {
			providers.Schools = cache.SchoolRatings(providers.Schools)
		}
		opts = append(opts, service.WithReadinessCheck(rdb.Ping))
		logger.Info("redis provider cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	var publisher *kafkaadapter.Publisher
	if cfg.EventsEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, metrics, logger)
		opts = append(opts, service.WithPublisher(publisher))
		logger.Info("estimate events enabled", "topic", cfg.KafkaEstimateTopic)
	}

	estimator := service.New(providers, cfg.ProviderTimeout, metrics, logger, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, estimator, cfg.RateLimitPerMinute, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
