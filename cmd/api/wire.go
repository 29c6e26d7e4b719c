package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/haulmarket/api/controllers"
	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/internal/matching"
	"github.com/angelmondragon/haulmarket/internal/pricing"
	"github.com/angelmondragon/haulmarket/pkg/config"
	"github.com/angelmondragon/haulmarket/pkg/db"
	"github.com/angelmondragon/haulmarket/pkg/distance"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/maps"
	"github.com/angelmondragon/haulmarket/pkg/metrics"
	"github.com/angelmondragon/haulmarket/pkg/redis"
)

// application holds everything the router needs beyond config and the db.
// Optional dependencies stay nil interfaces when disabled.
type application struct {
	redisClient     *redis.Client
	redisPinger     controllers.Pinger
	idempotency     redis.IdempotencyStore
	metricsHandler  http.Handler
	listingsRepo    listings.Repository
	matchingService matching.Service
	pricingService  pricing.Service
}

func wire(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*application, error) {
	app := &application{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(reg)
	app.metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	var shared redis.Store
	if cfg.Redis.Enabled {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		app.redisClient = client
		app.redisPinger = client
		app.idempotency = client
		shared = client
	}

	var resolver *distance.Resolver
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey, cfg.GoogleMaps.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("bootstrap google maps: %w", err)
		}
		resolver = distance.NewResolver(mapsClient, shared, logg)
	} else if cfg.Matching.VerifyDrivingDistance {
		return nil, fmt.Errorf("%s is required when driving verification is enabled", config.EnvGoogleMapsAPIKey)
	}

	repo := listings.NewRepository(dbClient.DB())
	app.listingsRepo = repo

	opts := matching.Options{
		MemoTTL:               cfg.Matching.WasteTypeMemoTTL,
		MemoCapacity:          cfg.Matching.WasteTypeMemoCapacity,
		SharedMemo:            shared,
		VerifyDrivingDistance: cfg.Matching.VerifyDrivingDistance,
		DrivingCandidateCap:   cfg.Matching.DrivingCandidateCap,
		Metrics:               engineMetrics,
		Logger:                logg,
	}
	if resolver != nil {
		opts.Driving = resolver
	}
	matchingEngine, err := matching.NewEngine(repo, opts)
	if err != nil {
		return nil, fmt.Errorf("matching engine: %w", err)
	}
	app.matchingService, err = matching.NewService(dbClient, repo, matchingEngine, logg)
	if err != nil {
		return nil, fmt.Errorf("matching service: %w", err)
	}

	pricingEngine := pricing.NewEngine(cfg.Pricing.CurrencyPlaces, engineMetrics, logg)
	app.pricingService, err = pricing.NewService(repo, pricingEngine)
	if err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"redis":          cfg.Redis.Enabled,
		"driving_verify": cfg.Matching.VerifyDrivingDistance,
		"memo_ttl":       cfg.Matching.WasteTypeMemoTTL.String(),
	}), "services wired")
	return app, nil
}

func (a *application) close() error {
	if a == nil || a.redisClient == nil {
		return nil
	}
	return a.redisClient.Close()
}
