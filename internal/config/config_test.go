package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("defaults should load cleanly: %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("default port = %d", cfg.Port)
	}
	if cfg.OriginTimeout != 15*time.Second || cfg.MetaTimeout != 10*time.Second {
		t.Errorf("default timeouts = %v / %v", cfg.OriginTimeout, cfg.MetaTimeout)
	}
	if cfg.Fingerprint != "chrome" {
		t.Errorf("default fingerprint = %q", cfg.Fingerprint)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("default concurrency = %d", cfg.Concurrency)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("default logging = %v %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MDRIVE_PORT", "8080")
	t.Setenv("MDRIVE_ORIGIN_URL", "https://mirror.example")
	t.Setenv("MDRIVE_ORIGIN_TIMEOUT", "30s")
	t.Setenv("MDRIVE_RPS", "2.5")
	t.Setenv("MDRIVE_LOG_LEVEL", "debug")
	t.Setenv("MDRIVE_LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.FallbackBase != "https://mirror.example" {
		t.Errorf("fallback = %q", cfg.FallbackBase)
	}
	if cfg.OriginTimeout != 30*time.Second {
		t.Errorf("origin timeout = %v", cfg.OriginTimeout)
	}
	if cfg.RPS != 2.5 {
		t.Errorf("rps = %v", cfg.RPS)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("logging = %v %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct{ key, val string }{
		{"MDRIVE_PORT", "70000"},
		{"MDRIVE_ORIGIN_TIMEOUT", "soon"},
		{"MDRIVE_RPS", "fast"},
		{"MDRIVE_LOG_LEVEL", "loud"},
		{"MDRIVE_LOG_FORMAT", "yaml"},
		{"MDRIVE_CONCURRENCY", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s should be rejected", tc.key, tc.val)
			}
		})
	}
}
