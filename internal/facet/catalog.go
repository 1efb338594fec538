// Package facet holds the static BFI-2 facet records and resolves facet
// scores to their canned survey rating sentences.
package facet

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/craigtrim/persona-api/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// SurveyItem is one BFI-2 survey question with a canned sentence per rating.
type SurveyItem struct {
	ID      string            `json:"id"`
	Ratings map[string]string `json:"ratings"`
}

// Rating returns the sentence for score, if present.
func (s SurveyItem) Rating(score int) (string, bool) {
	text, ok := s.Ratings[strconv.Itoa(score)]
	return text, ok && text != ""
}

// Facet is the immutable record for one of the 15 facets.
type Facet struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	SurveyItems []SurveyItem `json:"survey_items"`
}

// Texts returns the rating sentence of every survey item that has one for
// score, in survey item order.
func (f *Facet) Texts(score int) []string {
	var out []string
	for _, item := range f.SurveyItems {
		if text, ok := item.Rating(score); ok {
			out = append(out, text)
		}
	}
	return out
}

// Catalog maps facet name to its record.
type Catalog map[string]*Facet

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// Default returns the catalog compiled into the binary. It is loaded once.
func Default() (Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = load()
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded asset as a
// programming error.
func MustDefault() Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func load() (Catalog, error) {
	c := make(Catalog, 15)
	for _, name := range domain.AllFacets() {
		raw, err := dataFS.ReadFile("data/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading facet %s: %w", name, err)
		}
		var f Facet
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decoding facet %s: %w", name, err)
		}
		if f.Name != name {
			return nil, fmt.Errorf("facet file %s.json declares name %q", name, f.Name)
		}
		c[name] = &f
	}
	return c, nil
}

// Get returns the named facet.
func (c Catalog) Get(name string) (*Facet, bool) {
	f, ok := c[name]
	return f, ok
}

// ForDomain returns the three facets of d in corpus key order.
func (c Catalog) ForDomain(d domain.Domain) ([3]*Facet, error) {
	var out [3]*Facet
	names, ok := d.Facets()
	if !ok {
		return out, fmt.Errorf("unknown domain %q", d)
	}
	for i, n := range names {
		f, ok := c[n]
		if !ok {
			return out, fmt.Errorf("facet %q missing from catalog", n)
		}
		out[i] = f
	}
	return out, nil
}
