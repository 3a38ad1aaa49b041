package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppURL           = "http://localhost:8080"
	defaultPort             = "8080"
	defaultJWTTTL           = "24h"
	defaultSyncWorkers      = "4"
	defaultFeedFetchTimeout = "30s"
	defaultSyncTimeout      = "10m"
)

// Config is the API server's runtime configuration, loaded once at startup.
type Config struct {
	DatabaseURL      string
	JWTSecret        string
	JWTTTL           time.Duration
	AppURL           string
	Port             string
	SyncCron         string
	SyncWorkers      int
	FeedFetchTimeout time.Duration
	SyncTimeout      time.Duration
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET
// are required; everything else has a working default. SYNC_CRON is empty by
// default, which disables background sync.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AppURL:      strings.TrimRight(getEnv("APP_URL", defaultAppURL), "/"),
		Port:        getEnv("PORT", defaultPort),
		SyncCron:    strings.TrimSpace(os.Getenv("SYNC_CRON")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.SyncWorkers, err = parseIntEnv("SYNC_WORKERS", defaultSyncWorkers); err != nil {
		return nil, err
	}
	if cfg.FeedFetchTimeout, err = parseDurationEnv("FEED_FETCH_TIMEOUT", defaultFeedFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.SyncTimeout, err = parseDurationEnv("SYNC_TIMEOUT", defaultSyncTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parseIntEnv(key, def string) (int, error) {
	raw := getEnv(key, def)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
