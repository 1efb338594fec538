// Package generation produces random, correlated BFI-2 personalities.
package generation

import (
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/rng"
)

// maxCoherenceAttempts bounds rejection sampling in coherence mode before the
// generator falls back to picking directly from the class's triples.
const maxCoherenceAttempts = 64

// Generator draws personalities from a single seeded stream. Successive
// Generate calls continue the same stream.
type Generator struct {
	seed   string
	stream *rng.Stream
}

// New returns a generator for seed. An empty seed is replaced by a synthesized
// six-digit seed, which is echoed back in every result.
func New(seed string) *Generator {
	seed = rng.OrNew(seed)
	return &Generator{seed: seed, stream: rng.New(seed)}
}

// Seed returns the effective seed.
func (g *Generator) Seed() string {
	return g.seed
}

// Generate builds a personality. With coherence set to 1..3 every domain's
// facet triple is drawn from that coherence class; CoherenceAny leaves the
// draws unconstrained.
//
// Draw order is fixed: negative emotionality anchors the run, its average
// biases extraversion, agreeableness and conscientiousness, and the
// extraversion average biases open-mindedness.
func (g *Generator) Generate(coherence domain.Coherence) domain.PersonalityResult {
	if !coherence.Valid() {
		coherence = domain.CoherenceAny
	}

	n := g.triple(0, coherence)
	nBias := negativeEmotionalityBias(n)

	e := g.triple(nBias, coherence)
	a := g.triple(nBias, coherence)
	c := g.triple(nBias, coherence)

	o := g.triple(openMindednessBias(e), coherence)

	return domain.NewPersonalityResult(g.seed, map[domain.Domain]domain.Triple{
		domain.Extraversion:         e,
		domain.Agreeableness:        a,
		domain.Conscientiousness:    c,
		domain.NegativeEmotionality: n,
		domain.OpenMindedness:       o,
	})
}

// negativeEmotionalityBias: high N suppresses E/A/C, low N lifts them.
func negativeEmotionalityBias(n domain.Triple) int {
	switch sum := n.Sum(); {
	case sum >= 12: // average >= 4
		return -1
	case sum <= 6: // average <= 2
		return 1
	default:
		return 0
	}
}

// openMindednessBias: weak positive correlation with extraversion.
func openMindednessBias(e domain.Triple) int {
	if e.Sum() >= 12 {
		return 1
	}
	return 0
}

func (g *Generator) facet(bias int) int {
	return domain.ClampScore(g.stream.Between(domain.MinScore, domain.MaxScore) + bias)
}

func (g *Generator) draw(bias int) domain.Triple {
	return domain.Triple{g.facet(bias), g.facet(bias), g.facet(bias)}
}

func (g *Generator) triple(bias int, coherence domain.Coherence) domain.Triple {
	if coherence == domain.CoherenceAny {
		return g.draw(bias)
	}
	for i := 0; i < maxCoherenceAttempts; i++ {
		t := g.draw(bias)
		if domain.Classify(t) == coherence {
			return t
		}
	}
	t, _ := rng.Pick(g.stream, domain.TriplesOfClass(coherence))
	return t
}
