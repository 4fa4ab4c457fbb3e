// Package main provides the entrypoint for the RoamCast monitoring daemon.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamcast/roamcast/internal/api"
	"github.com/roamcast/roamcast/internal/api/handler"
	"github.com/roamcast/roamcast/internal/api/middleware"
	"github.com/roamcast/roamcast/internal/config"
	"github.com/roamcast/roamcast/internal/database"
	"github.com/roamcast/roamcast/internal/dispatch"
	"github.com/roamcast/roamcast/internal/monitor"
	"github.com/roamcast/roamcast/internal/provider/resilience"
	"github.com/roamcast/roamcast/internal/telemetry"
	"github.com/roamcast/roamcast/internal/trip"
	"github.com/roamcast/roamcast/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "roamcast-monitord"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Environment).
		Msg("starting RoamCast monitor")

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Trip storage: Postgres when enabled, in-memory otherwise.
	var (
		trips       trip.Repository
		readyChecks []handler.ReadyCheck
	)
	if cfg.Database.Enabled {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		trips = trip.NewPostgresRepository(pool)
		readyChecks = append(readyChecks, handler.ReadyCheck{
			Name:  "database",
			Check: pool.Ping,
		})
	} else {
		log.Info().Msg("database disabled, using in-memory trip storage")
		trips = trip.NewInMemoryRepository()
	}

	// Weather provider with retry and circuit breaking.
	httpClient := resilience.NewClient(resilience.ClientConfig{
		Name:       openmeteo.ProviderName,
		Timeout:    cfg.Weather.Timeout,
		MaxRetries: uint64(cfg.Weather.MaxRetries),
	})
	provider := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:      cfg.Weather.BaseURL,
		GeocodingURL: cfg.Weather.GeocodingURL,
		HTTPClient:   httpClient,
		Logger:       log,
	})
	log.Info().Str("provider", provider.Name()).Msg("weather provider initialized")

	// Trigger dispatch to Pub/Sub, when configured.
	var (
		changeListeners []monitor.ChangeListener
		alertListeners  []monitor.AlertListener
	)
	if cfg.PubSub.Enabled {
		publisher, err := dispatch.NewPublisher(ctx, dispatch.PublisherConfig{
			ProjectID:    cfg.PubSub.ProjectID,
			TriggerTopic: cfg.PubSub.TriggerTopic,
			AlertTopic:   cfg.PubSub.AlertTopic,
			Logger:       log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub publisher")
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()

		changeListeners = append(changeListeners, publisher)
		alertListeners = append(alertListeners, publisher)
		log.Info().
			Str("project", cfg.PubSub.ProjectID).
			Str("topic", cfg.PubSub.TriggerTopic).
			Msg("pubsub publisher initialized")
	}

	registry := monitor.NewRegistry(monitor.RegistryConfig{
		Provider: provider,
		Logger:   log,
		Defaults: cfg.MonitorDefaults(),
		ActivitySourceFor: func(tripID string) monitor.ActivitySource {
			return trip.NewActivitySource(trips, tripID)
		},
		ChangeListeners: changeListeners,
		AlertListeners:  alertListeners,
	})
	defer registry.StopAll()

	rehydrate(ctx, log, registry, trips)

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Registry:    registry,
		Trips:       trips,
		ReadyChecks: readyChecks,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// rehydrate restarts monitoring for trips that were being watched when the
// process last stopped. Individual failures are logged and skipped so one bad
// trip cannot block startup.
func rehydrate(ctx context.Context, log zerolog.Logger, registry *monitor.Registry, trips trip.Repository) {
	monitored, err := trips.ListMonitoring(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list monitored trips")
		return
	}

	for _, t := range monitored {
		m, err := registry.GetOrCreate(t.ID)
		if err != nil {
			log.Error().Err(err).Str("trip_id", t.ID).Msg("failed to create monitor")
			continue
		}
		if err := m.Initialize(ctx, t.ID, t.City, t.Country); err != nil {
			log.Error().Err(err).Str("trip_id", t.ID).Msg("failed to initialize monitor")
			registry.Remove(t.ID)
			continue
		}
		if err := m.Start(ctx); err != nil {
			log.Error().Err(err).Str("trip_id", t.ID).Msg("failed to start monitor")
			continue
		}
		log.Info().Str("trip_id", t.ID).Str("city", t.City).Msg("monitoring resumed")
	}

	if len(monitored) > 0 {
		log.Info().Int("count", len(monitored)).Msg("trip monitors rehydrated")
	}
}
