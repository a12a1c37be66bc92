package resolve

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/FranksOps/mdrive/internal/metrics"
	"github.com/FranksOps/mdrive/internal/scraper"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// jsHopPatterns match the client-side redirects these file hosts use to
// shuffle visitors between their mirror domains. The capture group is the
// next hop.
var jsHopPatterns = []*regexp.Regexp{
	regexp.MustCompile(`var\s+url\s*=\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`location\.replace\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`location\.href\s*=\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`window\.open\(\s*['"]([^'"]+)['"]`),
}

// hopConfig parameterizes one provider's walk. The providers differ only in
// which anchor labels mark the real file link and how many mirror hops they
// interpose, so a single implementation carries all of them.
type hopConfig struct {
	provider Provider
	match    string   // lowercase URL substring claiming a candidate
	hints    []string // lowercase anchor-text fragments marking the file link
	maxHops  int      // mirror redirect pages to chase before giving up
}

// hopResolver resolves one provider's links by fetching its pages and
// hunting for the direct file URL.
type hopResolver struct {
	cfg     hopConfig
	fetcher *scraper.Fetcher
	logger  *slog.Logger
}

func newHopResolver(cfg hopConfig, fetcher *scraper.Fetcher, logger *slog.Logger) *hopResolver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.maxHops <= 0 {
		cfg.maxHops = 2
	}
	return &hopResolver{cfg: cfg, fetcher: fetcher, logger: logger}
}

func (h *hopResolver) Provider() Provider {
	return h.cfg.provider
}

func (h *hopResolver) Matches(rawURL string) bool {
	return strings.Contains(strings.ToLower(rawURL), h.cfg.match)
}

// Resolve walks up to maxHops provider pages. On each page it first looks
// for an anchor that is already a direct video URL, then for an anchor whose
// label matches a provider hint, then for a scripted redirect to follow.
// Exhausting the hops falls back to plain redirect following.
func (h *hopResolver) Resolve(ctx context.Context, rawURL string) (string, bool) {
	current := rawURL

	for hop := 0; hop <= h.cfg.maxHops; hop++ {
		res, err := h.fetcher.Fetch(ctx, current)
		if res != nil {
			metrics.ObserveFetch(metrics.StageProvider, res.StatusCode, res.Error, res.DetectedBot, res.Duration)
		}
		if err != nil || !res.OK() {
			h.logger.Debug("provider page fetch failed", "provider", h.cfg.provider, "url", current)
			return "", false
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
		if err != nil {
			return "", false
		}

		if direct, ok := h.findDirect(doc, current); ok {
			return direct, true
		}

		next, ok := findScriptedHop(res.Body, current)
		if !ok {
			break
		}
		current = next
	}

	// The page never exposed a file link; the URL itself may still redirect
	// straight to one.
	return resolveByRedirect(ctx, h.fetcher, rawURL)
}

// findDirect scans the page's anchors for the file link.
func (h *hopResolver) findDirect(doc *goquery.Document, pageURL string) (string, bool) {
	var direct, hinted string

	doc.Find("a[href]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href := absoluteURL(pageURL, sel.AttrOr("href", ""))
		if href == "" {
			return true
		}

		if isVideoURL(href) {
			direct = href
			return false // a direct file link always wins
		}

		if hinted == "" {
			label := strings.ToLower(strings.TrimSpace(sel.Text()))
			for _, hint := range h.cfg.hints {
				if strings.Contains(label, hint) {
					hinted = href
					break
				}
			}
		}
		return true
	})

	if direct != "" {
		return direct, true
	}
	if hinted != "" {
		return hinted, true
	}
	return "", false
}

// findScriptedHop extracts the next mirror page from inline scripts.
func findScriptedHop(body []byte, pageURL string) (string, bool) {
	for _, p := range jsHopPatterns {
		if m := p.FindSubmatch(body); m != nil {
			if next := absoluteURL(pageURL, string(m[1])); next != "" && next != pageURL {
				return next, true
			}
		}
	}
	return "", false
}

// resolveByRedirect follows the redirect chain without downloading a body
// and accepts the final target only if it is a direct video URL.
func resolveByRedirect(ctx context.Context, fetcher *scraper.Fetcher, rawURL string) (string, bool) {
	final, err := fetcher.Client().FinalURL(ctx, rawURL)
	if err != nil {
		return "", false
	}
	if !isVideoURL(final) {
		return "", false
	}
	return final, true
}

// absoluteURL resolves href against base, returning "" on garbage.
func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := b.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// expand runs fn over each input index with bounded parallelism, preserving
// input order in the returned slices.
func expand[T any](ctx context.Context, limit int, n int, fn func(ctx context.Context, i int) []T) [][]T {
	if limit <= 0 {
		limit = 3
	}

	out := make([][]T, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			out[i] = fn(gCtx, i)
			return nil
		})
	}

	// Workers never return errors; failures resolve to empty slices.
	_ = g.Wait()
	return out
}
