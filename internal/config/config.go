// Package config loads runtime settings from the environment. Every value
// has a default; the addon runs with zero configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FranksOps/mdrive/internal/cinemeta"
	"github.com/FranksOps/mdrive/internal/origin"
)

// Config holds all runtime settings.
type Config struct {
	Port        int // addon HTTP port
	MetricsPort int // 0 disables the metrics server

	PointerURL   string // origin pointer document
	FallbackBase string // origin base when the pointer is unavailable
	CinemetaBase string

	OriginTimeout time.Duration // origin page fetches
	MetaTimeout   time.Duration // pointer and Cinemeta fetches

	Fingerprint string  // TLS profile for origin fetches
	RPS         float64 // origin rate limit, 0 = unlimited
	Jitter      float64
	Concurrency int // parallel button expansions per request

	ProxyFile string // optional proxy list, one URL per line

	LogLevel  slog.Level
	LogFormat string // text or json
}

// Load reads the environment, applying defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Port:          envInt("MDRIVE_PORT", 5000),
		MetricsPort:   envInt("MDRIVE_METRICS_PORT", 0),
		PointerURL:    envString("MDRIVE_POINTER_URL", origin.DefaultPointerURL),
		FallbackBase:  envString("MDRIVE_ORIGIN_URL", origin.DefaultBaseURL),
		CinemetaBase:  envString("MDRIVE_CINEMETA_URL", cinemeta.DefaultBaseURL),
		OriginTimeout: 15 * time.Second,
		MetaTimeout:   10 * time.Second,
		Fingerprint:   envString("MDRIVE_FINGERPRINT", "chrome"),
		Concurrency:   envInt("MDRIVE_CONCURRENCY", 3),
		ProxyFile:     os.Getenv("MDRIVE_PROXY_FILE"),
		LogFormat:     envString("MDRIVE_LOG_FORMAT", "text"),
	}

	var err error
	if cfg.OriginTimeout, err = envDuration("MDRIVE_ORIGIN_TIMEOUT", cfg.OriginTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MetaTimeout, err = envDuration("MDRIVE_META_TIMEOUT", cfg.MetaTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RPS, err = envFloat("MDRIVE_RPS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Jitter, err = envFloat("MDRIVE_JITTER", 0); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = parseLevel(envString("MDRIVE_LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if cfg.Concurrency < 1 {
		return Config{}, fmt.Errorf("config: concurrency must be at least 1")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("config: unknown log format %q", cfg.LogFormat)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: unknown log level %q", s)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
