package facet

import (
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/rng"
)

// TextResolver picks one canned rating sentence per facet score.
type TextResolver struct {
	catalog Catalog
	stream  *rng.Stream
}

// NewTextResolver returns a resolver over catalog drawing from its own stream
// seeded with seed.
func NewTextResolver(catalog Catalog, seed string) *TextResolver {
	return &TextResolver{catalog: catalog, stream: rng.New(seed)}
}

// ResolveFacet returns a random rating sentence for the facet at score, chosen
// uniformly across its survey items. ok is false for unknown facets and scores
// no survey item covers.
func (r *TextResolver) ResolveFacet(name string, score int) (string, bool) {
	f, ok := r.catalog.Get(name)
	if !ok {
		return "", false
	}
	return rng.Pick(r.stream, f.Texts(score))
}

// ResolveAll resolves every facet of every domain in canonical order. Facets
// without a matching sentence are left out of the inner map.
func (r *TextResolver) ResolveAll(p domain.PersonalityResult) map[domain.Domain]map[string]string {
	scores := p.FacetScores()
	out := make(map[domain.Domain]map[string]string, len(domain.Domains))
	for _, d := range domain.Domains {
		names, _ := d.Facets()
		texts := make(map[string]string, len(names))
		for _, n := range names {
			if text, ok := r.ResolveFacet(n, scores[d][n]); ok {
				texts[n] = text
			}
		}
		out[d] = texts
	}
	return out
}
