package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/melmove/parking-viewer/services/api/db"
	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/source"
)

// Config holds environment-driven settings for the parking API.
type Config struct {
	Port           int
	DefaultSource  source.Kind
	RequestTimeout time.Duration

	BaysFile    string
	SensorsFile string

	Database  db.Config
	DBVariant db.Variant
	DBTimeout time.Duration

	Feed          source.FeedConfig
	FeedRateLimit float64
	FeedBurst     int

	PredictionURL     string
	PredictionTimeout time.Duration

	Log logging.Config
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           3000,
		DefaultSource:  source.KindLocal,
		RequestTimeout: 15 * time.Second,
		BaysFile:       "data/on-street-parking-bays.json",
		SensorsFile:    "data/on-street-parking-bay-sensors.json",
		Database: db.Config{
			Port: 5432,
		},
		DBVariant: db.VariantTables,
		DBTimeout: 10 * time.Second,
		Feed: source.FeedConfig{
			URL:     source.DefaultFeedURL,
			Timeout: 10 * time.Second,
			Retries: 1,
		},
		FeedBurst:         1,
		PredictionURL:     "http://localhost:8000",
		PredictionTimeout: 30 * time.Second,
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if sourceStr := os.Getenv("DATA_SOURCE"); sourceStr != "" {
		kind, ok := source.ParseKind(sourceStr)
		if !ok {
			return cfg, fmt.Errorf("invalid DATA_SOURCE: %s", sourceStr)
		}
		cfg.DefaultSource = kind
	}

	if path := os.Getenv("BAYS_FILE"); path != "" {
		cfg.BaysFile = path
	}
	if path := os.Getenv("SENSORS_FILE"); path != "" {
		cfg.SensorsFile = path
	}

	cfg.Database.Host = os.Getenv("DB_HOST")
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = os.Getenv("DB_SSLMODE")

	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Database.Port = port
		} else {
			return cfg, fmt.Errorf("invalid DB_PORT: %s", portStr)
		}
	}

	if variant := os.Getenv("DB_VARIANT"); variant != "" {
		cfg.DBVariant = db.ParseVariant(variant)
	}

	if u := os.Getenv("FEED_URL"); u != "" {
		cfg.Feed.URL = u
	}

	if retriesStr := os.Getenv("FEED_RETRIES"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil && retries >= 0 {
			cfg.Feed.Retries = retries
		} else {
			return cfg, fmt.Errorf("invalid FEED_RETRIES: %s", retriesStr)
		}
	}

	if rateStr := os.Getenv("FEED_RATE_LIMIT"); rateStr != "" {
		if rate, err := strconv.ParseFloat(rateStr, 64); err == nil && rate >= 0 {
			cfg.FeedRateLimit = rate
		} else {
			return cfg, fmt.Errorf("invalid FEED_RATE_LIMIT: %s", rateStr)
		}
	}

	if burstStr := os.Getenv("FEED_BURST"); burstStr != "" {
		if burst, err := strconv.Atoi(burstStr); err == nil && burst > 0 {
			cfg.FeedBurst = burst
		} else {
			return cfg, fmt.Errorf("invalid FEED_BURST: %s", burstStr)
		}
	}

	if u := os.Getenv("PREDICTION_URL"); u != "" {
		cfg.PredictionURL = u
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"DB_TIMEOUT", &cfg.DBTimeout},
		{"FEED_TIMEOUT", &cfg.Feed.Timeout},
		{"PREDICTION_TIMEOUT", &cfg.PredictionTimeout},
	}
	for _, d := range durations {
		if err := parseDuration(d.env, d.dst); err != nil {
			return cfg, err
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Log.Format = strings.ToLower(format)
	}

	return cfg, nil
}

// parseDuration accepts Go duration strings ("15s") or whole seconds ("15").
func parseDuration(env string, dst *time.Duration) error {
	raw := os.Getenv(env)
	if raw == "" {
		return nil
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", env, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s: must be positive", env)
	}
	*dst = d
	return nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// CloudConfigured reports whether a database host was supplied.
func (c Config) CloudConfigured() bool {
	return c.Database.Host != ""
}
