package resolve

import (
	"context"
	"log/slog"

	"github.com/FranksOps/mdrive/internal/scraper"
)

// NewHubCloud resolves hubcloud links. HubCloud interposes a scripted hop to
// its current drive domain; the landing page labels the real file link with
// one of its server buttons.
func NewHubCloud(fetcher *scraper.Fetcher, logger *slog.Logger) URLResolver {
	return newHopResolver(hopConfig{
		provider: ProviderHubCloud,
		match:    "hubcloud",
		hints:    []string{"download file", "fsl server", "download [fsl", "10gbps", "direct download"},
		maxHops:  2,
	}, fetcher, logger)
}

// NewGDFlix resolves gdflix links. GDFlix pages expose instant/direct
// buttons alongside index listings; mirrors hop at most once.
func NewGDFlix(fetcher *scraper.Fetcher, logger *slog.Logger) URLResolver {
	return newHopResolver(hopConfig{
		provider: ProviderGDFlix,
		match:    "gdflix",
		hints:    []string{"instant dl", "direct dl", "cloud download", "fast cloud"},
		maxHops:  1,
	}, fetcher, logger)
}

// NewGDLink resolves gdlink links, which follow the same shape as GDFlix.
func NewGDLink(fetcher *scraper.Fetcher, logger *slog.Logger) URLResolver {
	return newHopResolver(hopConfig{
		provider: ProviderGDLink,
		match:    "gdlink",
		hints:    []string{"instant dl", "direct dl", "download now"},
		maxHops:  1,
	}, fetcher, logger)
}

// genericResolver handles candidates without a provider-specific resolver:
// follow redirects without a body and accept only direct video targets.
type genericResolver struct {
	fetcher *scraper.Fetcher
}

// NewGeneric builds the fallback resolver.
func NewGeneric(fetcher *scraper.Fetcher) URLResolver {
	return &genericResolver{fetcher: fetcher}
}

func (g *genericResolver) Provider() Provider { return ProviderUnknown }

func (g *genericResolver) Matches(string) bool { return true }

func (g *genericResolver) Resolve(ctx context.Context, rawURL string) (string, bool) {
	return resolveByRedirect(ctx, g.fetcher, rawURL)
}

// DefaultRegistry wires the provider resolvers in front of the generic
// fallback.
func DefaultRegistry(fetcher *scraper.Fetcher, logger *slog.Logger) Registry {
	return NewRegistry(
		NewGeneric(fetcher),
		NewHubCloud(fetcher, logger),
		NewGDFlix(fetcher, logger),
		NewGDLink(fetcher, logger),
	)
}
