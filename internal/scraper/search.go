package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/FranksOps/mdrive/internal/metrics"
	"github.com/PuerkitoBio/goquery"
)

// Content kinds as they appear in the external catalog protocol.
const (
	KindMovie  = "movie"
	KindSeries = "series"
)

// Stream qualities assigned at search time from the listing title alone.
const (
	QualityCAM = "CAM"
	QualityHD  = "HD"
)

const (
	searchMaxPages   = 3
	searchMaxResults = 20
)

// SearchResult is one entry parsed from the origin's result listing.
type SearchResult struct {
	Title   string
	URL     string
	Poster  string
	Quality string // CAM or HD
	Kind    string // movie or series
}

// Searcher runs origin search queries and parses the result listings.
type Searcher struct {
	base    string
	schema  Schema
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewSearcher creates a Searcher rooted at the given origin base URL.
func NewSearcher(base string, schema Schema, fetcher *Fetcher, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		base:    strings.TrimRight(base, "/"),
		schema:  schema,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Search queries up to three result pages, accumulating at most 20 results.
// It never fails: a page that errors is skipped, a page with zero items ends
// the walk, and per-item parse failures discard just that item.
func (s *Searcher) Search(ctx context.Context, query string) []SearchResult {
	var results []SearchResult

	for page := 1; page <= searchMaxPages; page++ {
		target := fmt.Sprintf("%s/page/%d/?s=%s", s.base, page, url.QueryEscape(query))

		res, err := s.fetcher.Fetch(ctx, target)
		observe(metrics.StageSearch, res)
		if err != nil || !res.OK() {
			s.logger.Warn("search page fetch failed", "url", target, "err", err, "result", summarize(res))
			continue
		}

		items, err := s.parsePage(res.Body)
		if err != nil {
			s.logger.Warn("search page parse failed", "url", target, "err", err)
			continue
		}

		// An empty page means we walked past the last result, not an error.
		if len(items) == 0 {
			break
		}

		results = append(results, items...)
		if len(results) >= searchMaxResults {
			results = results[:searchMaxResults]
			break
		}
	}

	return results
}

func (s *Searcher) parsePage(body []byte) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var items []SearchResult
	doc.Find(s.schema.SearchItem).Each(func(i int, sel *goquery.Selection) {
		if item, ok := s.parseItem(sel); ok {
			items = append(items, item)
		}
	})
	return items, nil
}

// parseItem extracts one listing entry. Items missing a title, link, or
// image are discarded silently.
func (s *Searcher) parseItem(sel *goquery.Selection) (SearchResult, bool) {
	img := sel.Find(s.schema.SearchImage).First()
	link := sel.Find(s.schema.SearchAnchor).First()
	if img.Length() == 0 || link.Length() == 0 {
		return SearchResult{}, false
	}

	title := strings.Replace(img.AttrOr("title", ""), s.schema.TitlePrefix, "", 1)
	href := link.AttrOr("href", "")
	if title == "" || href == "" {
		return SearchResult{}, false
	}

	return SearchResult{
		Title:   title,
		URL:     href,
		Poster:  img.AttrOr("src", ""),
		Quality: s.classifyQuality(title),
		Kind:    s.classifyKind(title),
	}, true
}

func (s *Searcher) classifyQuality(title string) string {
	upper := strings.ToUpper(title)
	for _, kw := range s.schema.CamKeywords {
		if strings.Contains(upper, kw) {
			return QualityCAM
		}
	}
	return QualityHD
}

func (s *Searcher) classifyKind(title string) string {
	lower := strings.ToLower(title)
	for _, kw := range s.schema.SeriesKeywords {
		if strings.Contains(lower, kw) {
			return KindSeries
		}
	}
	return KindMovie
}

func summarize(res *Result) string {
	if res == nil {
		return "<nil>"
	}
	if res.Error != "" {
		return res.Error
	}
	return fmt.Sprintf("status %d", res.StatusCode)
}

func observe(stage string, res *Result) {
	if res == nil {
		return
	}
	metrics.ObserveFetch(stage, res.StatusCode, res.Error, res.DetectedBot, res.Duration)
}
