package scraper

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/FranksOps/mdrive/internal/metrics"
	"github.com/PuerkitoBio/goquery"
)

var (
	imdbIDPattern  = regexp.MustCompile(`title/([^/]+)`)
	seasonPattern  = regexp.MustCompile(`(?i)season\s*\d+`)
	imdbIDValidate = regexp.MustCompile(`^tt\d+$`)
)

// PageDetail holds the fields scraped from a single content page. Every
// field is independently optional; a page that yields none of them still
// produces a usable (if bare) detail.
type PageDetail struct {
	Title  string
	Kind   string // movie or series
	Poster string
	IMDBID string // empty when no IMDb link was found on the page
}

// DetailFetcher fetches and parses individual content pages.
type DetailFetcher struct {
	schema  Schema
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewDetailFetcher creates a DetailFetcher.
func NewDetailFetcher(schema Schema, fetcher *Fetcher, logger *slog.Logger) *DetailFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailFetcher{schema: schema, fetcher: fetcher, logger: logger}
}

// Fetch retrieves a content page and extracts its detail fields. The parsed
// document is returned alongside so the link-resolution stage can walk the
// same markup without refetching. ok is false only on total fetch failure or
// a non-200 status; that is the single case the pipeline propagates upward
// as "nothing found".
func (d *DetailFetcher) Fetch(ctx context.Context, pageURL string) (doc *goquery.Document, detail PageDetail, ok bool) {
	res, err := d.fetcher.Fetch(ctx, pageURL)
	observe(metrics.StageDetail, res)
	if err != nil || !res.OK() {
		d.logger.Warn("detail fetch failed", "url", pageURL, "err", err, "result", summarize(res))
		return nil, PageDetail{}, false
	}

	doc, err = goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		d.logger.Warn("detail parse failed", "url", pageURL, "err", err)
		return nil, PageDetail{}, false
	}

	return doc, d.Parse(doc), true
}

// Parse extracts the detail fields from an already parsed content page.
func (d *DetailFetcher) Parse(doc *goquery.Document) PageDetail {
	title := strings.Replace(
		doc.Find(d.schema.DetailTitle).First().AttrOr("content", ""),
		d.schema.TitlePrefix, "", 1)

	poster := doc.Find(d.schema.DetailPoster).First().AttrOr("src", "")

	var imdbID string
	if href := doc.Find(d.schema.IMDBAnchor).First().AttrOr("href", ""); href != "" {
		if m := imdbIDPattern.FindStringSubmatch(href); m != nil && imdbIDValidate.MatchString(m[1]) {
			imdbID = m[1]
		}
	}

	return PageDetail{
		Title:  title,
		Kind:   classifyDetailKind(title),
		Poster: poster,
		IMDBID: imdbID,
	}
}

// classifyDetailKind applies the content-page classification rules, which
// are stricter than the listing heuristics: an explicit episode or series
// mention, or a "season N" pattern.
func classifyDetailKind(title string) string {
	lower := strings.ToLower(title)
	if strings.Contains(lower, "episode") || strings.Contains(lower, "series") || seasonPattern.MatchString(title) {
		return KindSeries
	}
	return KindMovie
}
