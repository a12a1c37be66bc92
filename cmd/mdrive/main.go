// mdrive serves a Stremio addon backed by live scraping of the MoviesDrive
// origin site. It holds no state beyond the origin base URL resolved at
// startup; every catalog and stream request scrapes on demand.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FranksOps/mdrive/internal/addon"
	"github.com/FranksOps/mdrive/internal/bypass"
	"github.com/FranksOps/mdrive/internal/cinemeta"
	"github.com/FranksOps/mdrive/internal/config"
	"github.com/FranksOps/mdrive/internal/fingerprint"
	"github.com/FranksOps/mdrive/internal/metrics"
	"github.com/FranksOps/mdrive/internal/origin"
	"github.com/FranksOps/mdrive/internal/pipeline"
	"github.com/FranksOps/mdrive/internal/resolve"
	"github.com/FranksOps/mdrive/internal/scraper"
	"github.com/FranksOps/mdrive/pkg/proxy"
	"github.com/FranksOps/mdrive/pkg/ratelimit"
	"github.com/FranksOps/mdrive/pkg/useragent"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsSrv *metrics.Server
	if cfg.MetricsPort > 0 {
		metricsSrv = metrics.Start(cfg.MetricsPort)
		logger.Info("metrics listening", "port", cfg.MetricsPort)
	}

	// Resolve the origin base once. The pointer document moves when the
	// origin rotates domains; a restart picks up the new host.
	locator, err := origin.NewLocator(origin.Config{
		PointerURL: cfg.PointerURL,
		Fallback:   cfg.FallbackBase,
		Timeout:    cfg.MetaTimeout,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("origin locator: %w", err)
	}
	baseURL := locator.Resolve(ctx)
	logger.Info("origin resolved", "base", baseURL)

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("fetcher: %w", err)
	}

	enrich, err := cinemeta.NewClient(cinemeta.Config{
		BaseURL: cfg.CinemetaBase,
		Timeout: cfg.MetaTimeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("cinemeta: %w", err)
	}

	schema := scraper.DefaultSchema()
	pipe := pipeline.New(pipeline.Config{
		BaseURL:  baseURL,
		Searcher: scraper.NewSearcher(baseURL, schema, fetcher, logger),
		Detail:   scraper.NewDetailFetcher(schema, fetcher, logger),
		Enrich:   enrich,
		Resolver: resolve.NewStage(schema, fetcher, resolve.DefaultRegistry(fetcher, logger), cfg.Concurrency, logger),
		Logger:   logger,
	})

	handlers := addon.NewServer(addon.Config{Source: pipe, Logger: logger})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handlers.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("addon listening", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("addon shutdown", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Stop(shutdownCtx); err != nil {
			logger.Error("metrics shutdown", "error", err)
		}
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func newFetcher(cfg config.Config, logger *slog.Logger) (*scraper.Fetcher, error) {
	var proxies *proxy.Pool
	if cfg.ProxyFile != "" {
		proxies = proxy.NewPool(proxy.Config{})
		if err := proxies.LoadFile(cfg.ProxyFile); err != nil {
			return nil, fmt.Errorf("loading proxies: %w", err)
		}
		logger.Info("proxy pool loaded", "file", cfg.ProxyFile)
	}

	var limiter *ratelimit.Limiter
	if cfg.RPS > 0 {
		limiter = ratelimit.NewLimiter(cfg.RPS, cfg.Jitter)
	}

	return scraper.NewFetcher(scraper.FetchConfig{
		Timeout:      cfg.OriginTimeout,
		MaxRedirects: 10,
		ProxyPool:    proxies,
		UAPool:       useragent.NewPool(nil),
		Fingerprint:  fingerprint.Profile(cfg.Fingerprint),
		Limiter:      limiter,
		Detectors:    bypass.Detectors(),
		OnProxyFailure: func(proxyURL string) {
			metrics.ProxyFailures.WithLabelValues(proxyURL).Inc()
		},
	})
}
