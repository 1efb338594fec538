// Package resolver turns facet triples or domain scores into one behavioral
// text and its instructions, drawn from a corpus store.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/rng"
	"go.uber.org/zap"
)

// Behavior is one resolved corpus selection.
type Behavior struct {
	Domain       domain.Domain    `json:"domain"`
	Score        int              `json:"score"`
	FacetScores  domain.Triple    `json:"facet_scores"`
	Coherence    domain.Coherence `json:"coherence"`
	Text         string           `json:"text"`
	Instructions []string         `json:"instructions"`
}

// Resolver draws from its own seeded stream. It is not safe for concurrent
// use; run one per pipeline. The store may be shared.
type Resolver struct {
	store  corpus.Store
	stream *rng.Stream
	log    *zap.Logger
}

// New returns a resolver over store seeded with seed.
func New(store corpus.Store, seed string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, stream: rng.New(seed), log: log}
}

// Seed returns the seed the resolver's stream was created from.
func (r *Resolver) Seed() string {
	return r.stream.Seed()
}

// ResolveExact looks up the entry for (d, t) and picks one of its texts.
// It returns nil, nil for an unknown domain, an out-of-range triple, a missing
// entry, or an entry without texts.
func (r *Resolver) ResolveExact(ctx context.Context, d domain.Domain, t domain.Triple) (*Behavior, error) {
	if !d.Valid() || !t.Valid() {
		return nil, nil
	}
	return r.pickText(ctx, d, t, t.Score())
}

// Resolve picks a triple whose rounded mean equals score from the coherence
// classes 1..ceiling, then one of its texts. A ceiling outside 1..3 is treated
// as 1. It returns nil, nil for an unknown domain, a score outside 1..5, or
// when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, d domain.Domain, score int, ceiling domain.Coherence) (*Behavior, error) {
	if !d.Valid() || !domain.ValidScore(score) {
		return nil, nil
	}
	if !ceiling.Valid() {
		ceiling = domain.CoherenceCoherent
	}

	idx, err := r.store.CoherenceIndex(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("loading coherence index for %s: %w", d, err)
	}

	var candidates []domain.Triple
	for _, p := range idx.Paths(ceiling) {
		t, err := domain.ParsePath(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s index: %v", corpus.ErrDataIntegrity, d, err)
		}
		if t.Score() == score {
			candidates = append(candidates, t)
		}
	}

	t, ok := rng.Pick(r.stream, candidates)
	if !ok {
		r.log.Debug("no triple matches",
			zap.String("domain", string(d)),
			zap.Int("score", score),
			zap.Int("ceiling", int(ceiling)))
		return nil, nil
	}
	return r.pickText(ctx, d, t, score)
}

// ResolveAll resolves each domain score independently, in canonical domain
// order. Domains absent from scores are skipped; unresolvable ones map to nil.
func (r *Resolver) ResolveAll(ctx context.Context, scores map[domain.Domain]int, ceiling domain.Coherence) (map[domain.Domain]*Behavior, error) {
	out := make(map[domain.Domain]*Behavior, len(scores))
	for _, d := range domain.Domains {
		score, ok := scores[d]
		if !ok {
			continue
		}
		b, err := r.Resolve(ctx, d, score, ceiling)
		if err != nil {
			return nil, err
		}
		out[d] = b
	}
	return out, nil
}

// ResolveAllExact is ResolveAll keyed by exact facet triples.
func (r *Resolver) ResolveAllExact(ctx context.Context, triples map[domain.Domain]domain.Triple) (map[domain.Domain]*Behavior, error) {
	out := make(map[domain.Domain]*Behavior, len(triples))
	for _, d := range domain.Domains {
		t, ok := triples[d]
		if !ok {
			continue
		}
		b, err := r.ResolveExact(ctx, d, t)
		if err != nil {
			return nil, err
		}
		out[d] = b
	}
	return out, nil
}

func (r *Resolver) pickText(ctx context.Context, d domain.Domain, t domain.Triple, score int) (*Behavior, error) {
	e, err := r.store.Get(ctx, d, t)
	if errors.Is(err, corpus.ErrNotFound) {
		r.log.Warn("indexed corpus entry missing", zap.String("domain", string(d)), zap.String("path", t.Path()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stored, err := e.Triple()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", d, t.Path(), err)
	}
	if stored != t {
		return nil, fmt.Errorf("%w: %s %s stores scores %v", corpus.ErrDataIntegrity, d, t.Path(), stored)
	}
	if want := domain.Classify(t); e.Coherence != want {
		return nil, fmt.Errorf("%w: %s %s stores coherence %d, want %d", corpus.ErrDataIntegrity, d, t.Path(), int(e.Coherence), int(want))
	}

	text, ok := rng.Pick(r.stream, e.TextKeys())
	if !ok {
		return nil, nil
	}
	return &Behavior{
		Domain:       d,
		Score:        score,
		FacetScores:  t,
		Coherence:    e.Coherence,
		Text:         text,
		Instructions: e.Texts[text],
	}, nil
}
