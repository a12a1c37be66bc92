// Package cinemeta talks to the public Cinemeta metadata service to enrich
// scraped entries with canonical artwork, synopsis, and cast. The origin's
// own fields are frequently truncated or watermarked, so enrichment wins
// whenever both are present.
package cinemeta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FranksOps/mdrive/internal/metrics"
	"github.com/FranksOps/mdrive/pkg/httpclient"
)

// DefaultBaseURL is the public Cinemeta meta endpoint.
const DefaultBaseURL = "https://v3-cinemeta.strem.io/meta"

// Meta is the subset of Cinemeta's meta object this service consumes. Every
// field is optional; a zero Meta overrides nothing.
type Meta struct {
	Name        string   `json:"name"`
	Poster      string   `json:"poster"`
	Background  string   `json:"background"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Cast        []string `json:"cast"`
	Year        string   `json:"year"`
	IMDBRating  string   `json:"imdbRating"`
}

type metaEnvelope struct {
	Meta Meta `json:"meta"`
}

// Client fetches Cinemeta metadata.
type Client struct {
	base   string
	client *httpclient.Client
	logger *slog.Logger
}

// Config for the Client. Zero values get defaults.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClient builds a Cinemeta client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client, err := httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}

	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: client,
		logger: cfg.Logger,
	}, nil
}

// Meta fetches the metadata for one title. It never fails: any error
// (network, status, malformed JSON) yields a zero Meta, silently preserving
// the origin-scraped values downstream.
func (c *Client) Meta(ctx context.Context, kind, imdbID string) Meta {
	if imdbID == "" {
		return Meta{}
	}

	target := fmt.Sprintf("%s/%s/%s.json", c.base, kind, imdbID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.logger.Warn("failed to build cinemeta request", "err", err)
		return Meta{}
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		c.logger.Warn("cinemeta fetch failed", "id", imdbID, "err", err)
		metrics.RecordEnrich("error")
		return Meta{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("cinemeta returned unexpected status", "id", imdbID, "status", resp.StatusCode)
		metrics.RecordEnrich("miss")
		return Meta{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read cinemeta body", "id", imdbID, "err", err)
		return Meta{}
	}

	var envelope metaEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Warn("malformed cinemeta response", "id", imdbID, "err", err)
		metrics.RecordEnrich("error")
		return Meta{}
	}

	metrics.RecordEnrich("hit")
	return envelope.Meta
}
