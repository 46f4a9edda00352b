package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station/internal/pubsub"
	"github.com/i474232898/weather-station/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	// OpenMeteo enables the keyless Open-Meteo source.
	OpenMeteo bool

	// FetchInterval controls how often sources are polled.
	FetchInterval time.Duration
	// HTTPTimeout bounds each outbound source request.
	HTTPTimeout time.Duration

	// Location the station reports for.
	Location weather.Location

	// In-memory history retention.
	StoreMaxHistory int           // max number of readings kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of readings (0 = unlimited)

	// MQTT is nil when no broker is configured.
	MQTT *pubsub.Config

	LogLevel log.Level
	Port     string
}

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.OpenMeteo = getenvBool("OPENMETEO_ENABLED", false)

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if cfg.Location, err = loadLocation(); err != nil {
		return nil, err
	}

	if host := os.Getenv("MQTT_HOST"); host != "" {
		cfg.MQTT = &pubsub.Config{
			Host:        host,
			Port:        getenvInt("MQTT_PORT", 1883),
			ClientID:    getenvDefault("MQTT_CLIENT_ID", "weather-station"),
			TopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "weather"),
			Username:    os.Getenv("MQTT_USERNAME"),
			Password:    os.Getenv("MQTT_PASSWORD"),
		}
	}

	if cfg.LogLevel, err = log.ParseLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadLocation() (weather.Location, error) {
	loc := weather.Location{
		City:    strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY")),
		Country: strings.TrimSpace(os.Getenv("WEATHER_LOCATION_COUNTRY")),
	}

	latStr, lonStr := os.Getenv("WEATHER_LOCATION_LAT"), os.Getenv("WEATHER_LOCATION_LON")
	if (latStr == "") != (lonStr == "") {
		return loc, fmt.Errorf("WEATHER_LOCATION_LAT and WEATHER_LOCATION_LON must be set together")
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return loc, fmt.Errorf("invalid WEATHER_LOCATION_LAT: %w", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return loc, fmt.Errorf("invalid WEATHER_LOCATION_LON: %w", err)
		}
		loc.Lat, loc.Lon = &lat, &lon
	}

	return loc, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
