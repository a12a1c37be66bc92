package resolve

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/FranksOps/mdrive/internal/metrics"
	"github.com/FranksOps/mdrive/internal/scraper"
	"github.com/PuerkitoBio/goquery"
)

// Stage discovers download buttons on a content page and expands each into
// zero or more resolved stream sources.
type Stage struct {
	schema      scraper.Schema
	fetcher     *scraper.Fetcher
	registry    Registry
	concurrency int
	logger      *slog.Logger
}

// NewStage creates the link-resolution stage. Concurrency bounds the number
// of button pages fetched in parallel.
func NewStage(schema scraper.Schema, fetcher *scraper.Fetcher, registry Registry, concurrency int, logger *slog.Logger) *Stage {
	if concurrency <= 0 {
		concurrency = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{
		schema:      schema,
		fetcher:     fetcher,
		registry:    registry,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Sources resolves every stream reachable from the content page. Output
// order is button discovery order and, within a button page, anchor
// discovery order; no deduplication is performed. The method never fails:
// unresolvable buttons and candidates contribute nothing.
func (s *Stage) Sources(ctx context.Context, doc *goquery.Document, pageURL string) []Source {
	buttons := s.discoverButtons(doc, pageURL)
	if len(buttons) == 0 {
		return nil
	}

	perButton := expand(ctx, s.concurrency, len(buttons), func(ctx context.Context, i int) []Source {
		return s.expandButton(ctx, buttons[i])
	})

	var sources []Source
	for _, batch := range perButton {
		sources = append(sources, batch...)
	}
	return sources
}

// discoverButtons scans the content page for download buttons, skipping
// archive bundles ("zip" labels are not playable streams).
func (s *Stage) discoverButtons(doc *goquery.Document, pageURL string) []string {
	var buttons []string
	doc.Find(s.schema.DownloadButton).Each(func(i int, sel *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(sel.Text()))
		if strings.Contains(label, "zip") {
			return
		}
		if href := absoluteURL(pageURL, sel.AttrOr("href", "")); href != "" {
			buttons = append(buttons, href)
		}
	})
	return buttons
}

// expandButton fetches one button page and resolves its candidate anchors.
// Any failure contributes zero sources from this button.
func (s *Stage) expandButton(ctx context.Context, buttonURL string) []Source {
	res, err := s.fetcher.Fetch(ctx, buttonURL)
	if res != nil {
		metrics.ObserveFetch(metrics.StageButton, res.StatusCode, res.Error, res.DetectedBot, res.Duration)
	}
	if err != nil || !res.OK() {
		s.logger.Debug("button page fetch failed", "url", buttonURL)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		s.logger.Debug("button page parse failed", "url", buttonURL, "err", err)
		return nil
	}

	var sources []Source
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href := absoluteURL(buttonURL, sel.AttrOr("href", ""))
		if href == "" || !isCandidate(href) {
			return
		}

		provider := DetectProvider(href)
		finalURL, ok := s.registry.Resolve(ctx, href)
		if !ok {
			metrics.RecordDropped(string(provider))
			return
		}

		quality := DetectQuality(sel.Text(), href)
		metrics.RecordSource(string(provider), quality)
		sources = append(sources, Source{
			URL:      finalURL,
			Quality:  quality,
			Provider: provider,
		})
	})
	return sources
}
