// Package corpus is the read-only, content-addressable store of pre-generated
// behavioral text keyed by (domain, facet triple), plus the offline tooling
// that builds and verifies it.
//
// On disk a corpus is one directory per domain:
//
//	<domain>/<f1>/<f2>/<f3>.json   125 entries
//	<domain>/coherence.json        coherence index
package corpus

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/craigtrim/persona-api/internal/domain"
)

var (
	// ErrNotFound indicates no entry exists for a key. Callers treat it as an
	// ordinary miss.
	ErrNotFound = errors.New("corpus entry not found")

	// ErrDataIntegrity indicates a corpus artifact exists but is unreadable or
	// contradicts its key. It signals a broken build, never a normal miss.
	ErrDataIntegrity = errors.New("corpus data integrity violation")
)

// IndexFile is the per-domain coherence index file name.
const IndexFile = "coherence.json"

// Meta records the key an entry was built for.
type Meta struct {
	Domain domain.Domain `json:"domain"`
	Facets []string      `json:"facets"`
	Scores []int         `json:"scores"`
}

// Entry is the corpus value for one (domain, triple) key. Texts maps each
// combined rating sentence to its sorted, deduplicated instructions.
type Entry struct {
	Meta      Meta                `json:"_meta"`
	Coherence domain.Coherence    `json:"coherence"`
	Texts     map[string][]string `json:"texts"`
}

// Triple recovers the key's facet triple from the stored meta scores.
func (e *Entry) Triple() (domain.Triple, error) {
	if len(e.Meta.Scores) != 3 {
		return domain.Triple{}, fmt.Errorf("%w: meta has %d scores", ErrDataIntegrity, len(e.Meta.Scores))
	}
	t := domain.Triple{e.Meta.Scores[0], e.Meta.Scores[1], e.Meta.Scores[2]}
	if !t.Valid() {
		return domain.Triple{}, fmt.Errorf("%w: meta scores %v out of range", ErrDataIntegrity, e.Meta.Scores)
	}
	return t, nil
}

// TextKeys returns the entry's sentences in sorted order, the order every
// seeded pick draws from.
func (e *Entry) TextKeys() []string {
	keys := make([]string, 0, len(e.Texts))
	for k := range e.Texts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CoherenceIndex partitions a domain's 125 entry paths by coherence class.
type CoherenceIndex map[domain.Coherence][]string

// Paths returns the paths of every class from 1 up to and including ceiling,
// in class order.
func (idx CoherenceIndex) Paths(ceiling domain.Coherence) []string {
	var out []string
	for _, c := range domain.CoherenceLevels {
		if c > ceiling {
			break
		}
		out = append(out, idx[c]...)
	}
	return out
}

// Distribution counts the paths in each class.
func (idx CoherenceIndex) Distribution() map[domain.Coherence]int {
	out := make(map[domain.Coherence]int, 3)
	for _, c := range domain.CoherenceLevels {
		out[c] = len(idx[c])
	}
	return out
}

// Store is a read-only corpus. Implementations must be safe for concurrent
// readers.
type Store interface {
	// Get returns the entry for (d, t), ErrNotFound when none exists, or an
	// ErrDataIntegrity error when the stored artifact is unusable.
	Get(ctx context.Context, d domain.Domain, t domain.Triple) (*Entry, error)

	// CoherenceIndex returns d's index. A missing index yields an empty one.
	CoherenceIndex(ctx context.Context, d domain.Domain) (CoherenceIndex, error)
}

// BuildIndex computes the coherence index every corpus must carry.
func BuildIndex() CoherenceIndex {
	idx := CoherenceIndex{
		domain.CoherenceCoherent:      {},
		domain.CoherenceUncertain:     {},
		domain.CoherenceContradictory: {},
	}
	for _, t := range domain.AllTriples() {
		c := domain.Classify(t)
		idx[c] = append(idx[c], t.Path())
	}
	return idx
}
