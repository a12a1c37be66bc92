package resolve

import "context"

// URLResolver turns a hosting-provider link into a final playable URL.
// Implementations encapsulate one provider's quirks; the false return means
// "this candidate yields nothing", never an error.
type URLResolver interface {
	Provider() Provider
	Matches(rawURL string) bool
	Resolve(ctx context.Context, rawURL string) (string, bool)
}

// Registry holds resolvers in match order, with a fallback for candidates
// no provider-specific resolver claims.
type Registry struct {
	resolvers []URLResolver
	fallback  URLResolver
}

// NewRegistry builds a registry. Resolvers are consulted in the order given;
// fallback handles everything else.
func NewRegistry(fallback URLResolver, resolvers ...URLResolver) Registry {
	return Registry{resolvers: resolvers, fallback: fallback}
}

// Resolve dispatches rawURL to the first matching resolver.
func (r Registry) Resolve(ctx context.Context, rawURL string) (string, bool) {
	for _, res := range r.resolvers {
		if res.Matches(rawURL) {
			return res.Resolve(ctx, rawURL)
		}
	}
	if r.fallback != nil {
		return r.fallback.Resolve(ctx, rawURL)
	}
	return "", false
}
