// Package pipeline orchestrates the scrape-and-resolve flow: origin search,
// content-page detail extraction, Cinemeta enrichment, and stream link
// resolution. Everything is created per request and discarded; the only
// process-lifetime state is the origin base URL resolved at startup.
package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/FranksOps/mdrive/internal/cinemeta"
	"github.com/FranksOps/mdrive/internal/resolve"
	"github.com/FranksOps/mdrive/internal/scraper"
	"golang.org/x/sync/errgroup"
)

// ContentDetail is the fully assembled record for one title: scraped fields,
// enrichment overrides, and resolved stream sources.
type ContentDetail struct {
	Title       string
	Kind        string // movie or series
	Poster      string
	Background  string
	Description string
	Genres      []string
	Cast        []string
	Year        string
	IMDBRating  string
	IMDBID      string
	Sources     []resolve.Source
}

// Pipeline wires the stages together.
type Pipeline struct {
	base     string
	searcher *scraper.Searcher
	detail   *scraper.DetailFetcher
	enrich   *cinemeta.Client
	resolver *resolve.Stage
	logger   *slog.Logger
}

// Config holds the pipeline's collaborators.
type Config struct {
	BaseURL  string
	Searcher *scraper.Searcher
	Detail   *scraper.DetailFetcher
	Enrich   *cinemeta.Client
	Resolver *resolve.Stage
	Logger   *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		searcher: cfg.Searcher,
		detail:   cfg.Detail,
		enrich:   cfg.Enrich,
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
	}
}

// BaseURL reports the origin base the pipeline was built against.
func (p *Pipeline) BaseURL() string {
	return p.base
}

// Search runs an origin search. Result URLs are absolutized against the
// origin base so callers can hand them straight back to Detail.
func (p *Pipeline) Search(ctx context.Context, query string) []scraper.SearchResult {
	results := p.searcher.Search(ctx, query)
	for i := range results {
		results[i].URL = p.absolutize(results[i].URL)
	}
	return results
}

// Detail assembles the full record for one content page. It returns ok ==
// false only when the page itself cannot be fetched; enrichment and
// resolution failures degrade to scraped fields and an empty source list.
func (p *Pipeline) Detail(ctx context.Context, pageURL string) (ContentDetail, bool) {
	pageURL = p.absolutize(pageURL)

	doc, page, ok := p.detail.Fetch(ctx, pageURL)
	if !ok {
		return ContentDetail{}, false
	}

	// Enrichment and link resolution touch disjoint upstreams; run them
	// concurrently.
	var meta cinemeta.Meta
	var sources []resolve.Source

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if page.IMDBID != "" {
			meta = p.enrich.Meta(gCtx, page.Kind, page.IMDBID)
		}
		return nil
	})
	g.Go(func() error {
		sources = p.resolver.Sources(gCtx, doc, pageURL)
		return nil
	})
	// Both stages swallow their own failures.
	_ = g.Wait()

	return merge(page, meta, sources), true
}

// merge folds enrichment over the scraped page fields; enrichment wins
// wherever both are present.
func merge(page scraper.PageDetail, meta cinemeta.Meta, sources []resolve.Source) ContentDetail {
	d := ContentDetail{
		Title:       page.Title,
		Kind:        page.Kind,
		Poster:      page.Poster,
		Background:  page.Poster,
		Description: meta.Description,
		Genres:      meta.Genre,
		Cast:        meta.Cast,
		Year:        meta.Year,
		IMDBRating:  meta.IMDBRating,
		IMDBID:      page.IMDBID,
		Sources:     sources,
	}

	if meta.Name != "" {
		d.Title = meta.Name
	}
	if meta.Poster != "" {
		d.Poster = meta.Poster
	}
	if meta.Background != "" {
		d.Background = meta.Background
	}
	return d
}

// absolutize resolves origin-relative URLs against the pipeline base.
func (p *Pipeline) absolutize(raw string) string {
	if raw == "" || p.base == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return raw
	}
	base, err := url.Parse(p.base)
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}
