package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages used as metric labels.
const (
	StageSearch   = "search"
	StageDetail   = "detail"
	StageButton   = "button"
	StageProvider = "provider"
)

var (
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdrive_fetches_total",
			Help: "Total number of upstream fetches by pipeline stage",
		},
		[]string{"stage", "status", "detected"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mdrive_fetch_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)

	SourcesResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdrive_sources_resolved_total",
			Help: "Stream sources successfully resolved, by provider and quality",
		},
		[]string{"provider", "quality"},
	)

	SourcesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdrive_sources_dropped_total",
			Help: "Candidate stream links that resolved to nothing",
		},
		[]string{"provider"},
	)

	EnrichTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdrive_enrich_total",
			Help: "Cinemeta enrichment lookups by outcome",
		},
		[]string{"outcome"},
	)

	ProxyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdrive_proxy_failures_total",
			Help: "Total number of proxy failures during fetches",
		},
		[]string{"proxy_url"},
	)
)

// ObserveFetch updates the fetch metrics for one pipeline stage. A non-empty
// errMsg maps the status label to "error" regardless of code.
func ObserveFetch(stage string, statusCode int, errMsg string, detected bool, d time.Duration) {
	detectedStr := "false"
	if detected {
		detectedStr = "true"
	}

	statusStr := strconv.Itoa(statusCode)
	if errMsg != "" {
		statusStr = "error"
	}

	FetchesTotal.WithLabelValues(stage, statusStr, detectedStr).Inc()
	FetchDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordSource counts one resolved stream source.
func RecordSource(provider, quality string) {
	SourcesResolved.WithLabelValues(provider, quality).Inc()
}

// RecordDropped counts one candidate that could not be resolved.
func RecordDropped(provider string) {
	SourcesDropped.WithLabelValues(provider).Inc()
}

// RecordEnrich counts one enrichment lookup ("hit", "miss", or "error").
func RecordEnrich(outcome string) {
	EnrichTotal.WithLabelValues(outcome).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
