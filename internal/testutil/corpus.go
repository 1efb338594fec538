package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/facet"
)

// Behavioral returns instruction data for every facet. Each (facet, item,
// score) carries exactly one instruction named "<facet>#<item>@<score>".
func Behavioral() corpus.Behavioral {
	out := make(corpus.Behavioral)
	for _, name := range domain.AllFacets() {
		f := &corpus.BehavioralFacet{Facet: name}
		for item := 0; item < 4; item++ {
			ratings := make(map[string]corpus.BehavioralRating, 5)
			for score := domain.MinScore; score <= domain.MaxScore; score++ {
				ratings[fmt.Sprint(score)] = corpus.BehavioralRating{
					Instructions: []string{fmt.Sprintf("%s#%d@%d", name, item, score)},
				}
			}
			f.SurveyItems = append(f.SurveyItems, corpus.BehavioralItem{ID: fmt.Sprint(item + 1), Ratings: ratings})
		}
		out[name] = f
	}
	return out
}

// BuildCorpus writes a complete five-domain corpus, built from the embedded
// facet data and Behavioral, into a temp dir and returns a store over it.
func BuildCorpus(t testing.TB) *corpus.FSStore {
	t.Helper()
	return corpus.NewDirStore(CorpusDir(t), nil)
}

// CorpusDir writes the corpus BuildCorpus reads and returns its root.
func CorpusDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	b := &corpus.Builder{Catalog: facet.MustDefault(), Behavioral: Behavioral()}
	if _, err := corpus.WriteDir(context.Background(), dir, b, domain.Domains, nil); err != nil {
		t.Fatalf("building test corpus: %v", err)
	}
	return dir
}

// CorpusFS assembles a sparse in-memory corpus. Each entry is stored at the
// path its meta names; indices are written verbatim.
type CorpusFS struct {
	t    testing.TB
	fsys fstest.MapFS
}

// NewCorpusFS returns an empty in-memory corpus.
func NewCorpusFS(t testing.TB) *CorpusFS {
	return &CorpusFS{t: t, fsys: fstest.MapFS{}}
}

// Entry adds an entry for (d, tr) with the given texts. The stored coherence
// is Classify(tr).
func (c *CorpusFS) Entry(d domain.Domain, tr domain.Triple, texts map[string][]string) *CorpusFS {
	return c.EntryWithCoherence(d, tr, domain.Classify(tr), texts)
}

// EntryWithCoherence adds an entry with an explicit stored coherence.
func (c *CorpusFS) EntryWithCoherence(d domain.Domain, tr domain.Triple, coh domain.Coherence, texts map[string][]string) *CorpusFS {
	c.t.Helper()
	if texts == nil {
		texts = map[string][]string{}
	}
	e := corpus.Entry{
		Meta:      corpus.Meta{Domain: d, Facets: []string{"a", "b", "c"}, Scores: []int{tr[0], tr[1], tr[2]}},
		Coherence: coh,
		Texts:     texts,
	}
	c.put(corpus.EntryPath(d, tr), e)
	return c
}

// Index writes d's coherence index.
func (c *CorpusFS) Index(d domain.Domain, idx corpus.CoherenceIndex) *CorpusFS {
	c.t.Helper()
	c.put(string(d)+"/"+corpus.IndexFile, idx)
	return c
}

// Raw stores data at p unchanged.
func (c *CorpusFS) Raw(p string, data []byte) *CorpusFS {
	c.fsys[p] = &fstest.MapFile{Data: data}
	return c
}

// Store returns a fresh store over the assembled files.
func (c *CorpusFS) Store() *corpus.FSStore {
	return corpus.NewFSStore(c.fsys, nil)
}

func (c *CorpusFS) put(p string, v any) {
	c.t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		c.t.Fatalf("encoding %s: %v", p, err)
	}
	c.fsys[p] = &fstest.MapFile{Data: raw}
}
