package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/FranksOps/mdrive/internal/fingerprint"
	"github.com/FranksOps/mdrive/pkg/httpclient"
	"github.com/FranksOps/mdrive/pkg/proxy"
	"github.com/FranksOps/mdrive/pkg/ratelimit"
	"github.com/FranksOps/mdrive/pkg/useragent"
	"github.com/google/uuid"
)

type contextKey string

const proxyKey contextKey = "proxy_url"

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	ProxyPool    *proxy.Pool
	UAPool       *useragent.Pool
	Fingerprint  fingerprint.Profile
	Limiter      *ratelimit.Limiter
	// Detectors run against every response to flag bot-wall challenges.
	Detectors []Detector
	// OnProxyFailure is invoked with the failing proxy URL, letting the
	// caller record metrics without this package depending on them.
	OnProxyFailure func(proxyURL string)
}

// Fetcher performs single URL fetches using the configured bypass strategies.
// Holding one client across requests lets cookie jars (if configured)
// persist for the lifetime of the Fetcher.
type Fetcher struct {
	config FetchConfig
	client *httpclient.Client
}

// NewFetcher initializes a new Fetcher with the given configuration.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if string(cfg.Fingerprint) == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}

	// One transport per fetcher for connection pooling. Per-request proxy
	// rotation goes through the request context: Transport.Proxy is shared
	// state and not safe to swap concurrently.
	proxyFunc := func(req *http.Request) (*url.URL, error) {
		if val := req.Context().Value(proxyKey); val != nil {
			if u, ok := val.(*url.URL); ok {
				return u, nil
			}
		}
		if req.URL.Hostname() == "127.0.0.1" {
			// Keep local test servers off any system proxy.
			return nil, nil
		}
		return http.ProxyFromEnvironment(req)
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, fingerprint.Options{Proxy: proxyFunc})
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Fetcher{config: cfg, client: client}, nil
}

// Client exposes the underlying HTTP client for callers that need raw
// redirect handling (the generic stream resolver).
func (f *Fetcher) Client() *httpclient.Client {
	return f.client
}

// Fetch executes a GET request to the target URL, tracking the duration and
// capturing the response into a Result. Transport and status failures are
// recorded in the Result; the error return is reserved for programmer
// mistakes (nil context and the like).
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Result, error) {
	if f.config.Limiter != nil {
		if err := f.config.Limiter.Wait(ctx); err != nil {
			return &Result{
				ID:        uuid.New().String(),
				URL:       targetURL,
				Method:    http.MethodGet,
				CreatedAt: time.Now().UTC(),
				Error:     fmt.Sprintf("rate limiter failed: %v", err),
			}, nil
		}
	}

	start := time.Now()

	result := &Result{
		ID:        uuid.New().String(),
		URL:       targetURL,
		Method:    http.MethodGet,
		CreatedAt: start.UTC(),
	}

	var activeProxy *url.URL
	if f.config.ProxyPool != nil {
		activeProxy = f.config.ProxyPool.Next()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		result.Duration = time.Since(start)
		return result, nil
	}

	if activeProxy != nil {
		req = req.WithContext(context.WithValue(req.Context(), proxyKey, activeProxy))
	}

	req.Header.Set("User-Agent", f.config.UAPool.GetSequential())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req.Context(), req)
	if err != nil {
		if activeProxy != nil {
			_ = f.config.ProxyPool.MarkFailure(activeProxy)
			if f.config.OnProxyFailure != nil {
				f.config.OnProxyFailure(activeProxy.String())
			}
		}
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Duration = time.Since(start)
		return result, nil
	}
	defer resp.Body.Close()

	if activeProxy != nil {
		_ = f.config.ProxyPool.MarkSuccess(activeProxy)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read body: %v", err)
	}

	result.StatusCode = resp.StatusCode
	result.Headers = resp.Header
	result.Body = body
	result.Duration = time.Since(start)

	Analyze(result, f.config.Detectors)

	return result, nil
}
