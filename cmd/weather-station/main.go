package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-station/internal/api/http"
	"github.com/i474232898/weather-station/internal/config"
	"github.com/i474232898/weather-station/internal/display"
	"github.com/i474232898/weather-station/internal/metrics"
	"github.com/i474232898/weather-station/internal/pubsub"
	"github.com/i474232898/weather-station/internal/scheduler"
	"github.com/i474232898/weather-station/internal/store"
	"github.com/i474232898/weather-station/internal/weather"
	"github.com/i474232898/weather-station/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// The exporter is built first so the station can report failed passes to it.
	var station *weather.Station
	exporter := metrics.New(func() int { return station.Len() })
	station = weather.NewStation(
		weather.WithLogger(log.StandardLogger()),
		weather.WithNotifyHook(exporter.ObserveNotify),
	)
	station.RegisterObserver(exporter)

	// In-memory history with configured retention.
	history := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	station.RegisterObserver(store.NewRecorder(history, station))

	// Displays register themselves on construction. The index keeps them
	// reachable over HTTP after they are removed from the station.
	displays := display.NewIndex(
		display.NewCurrentConditions(station, os.Stdout),
		display.NewStatistics(station, os.Stdout),
		display.NewForecast(station, os.Stdout),
	)

	if cfg.MQTT != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		publisher, err := pubsub.Connect(ctx, *cfg.MQTT)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("failed to establish mqtt connection")
		}
		defer publisher.Close()
		station.RegisterObserver(publisher)
		log.WithField("topic", publisher.Topic()).Info("publishing measurements to mqtt")
	}

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Sources with resilience (backoff + circuit breaker).
	var sources []weather.Source
	if cfg.OpenWeatherAPIKey != "" {
		sources = append(sources, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		sources = append(sources, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.OpenMeteo {
		var geocode providers.GeocodeFunc
		if cfg.GeocoderAPIKey != "" {
			geocode = providers.GoogleGeocoder(cfg.GeocoderAPIKey)
		}
		sources = append(sources, providers.NewOpenMeteoProvider(httpClient, geocode))
	}

	poller := weather.NewPoller(station, sources, cfg.Location)

	// Scheduler that periodically polls sources into the station.
	sched := scheduler.New(cfg.FetchInterval, poller)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := httpapi.NewApp()
	httpapi.RegisterRoutes(app, station, history, displays)
	httpapi.RegisterMetrics(app, exporter.Handler())

	go func() {
		log.WithField("port", cfg.Port).Info("weather-station listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
