package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/facet"
)

// BehavioralRating is the instruction set extracted for one rating sentence.
type BehavioralRating struct {
	Sentence     string   `json:"sentence"`
	Instructions []string `json:"instructions"`
}

// BehavioralItem mirrors a facet survey item with per-rating instructions.
type BehavioralItem struct {
	ID      string                      `json:"id"`
	Ratings map[string]BehavioralRating `json:"ratings"`
}

// BehavioralFacet holds the extracted instructions of one facet.
type BehavioralFacet struct {
	Facet       string           `json:"facet"`
	SurveyItems []BehavioralItem `json:"survey_items"`
}

// Behavioral maps facet name to its extracted instructions.
type Behavioral map[string]*BehavioralFacet

// Instructions returns the instructions attached to (facet, item, score).
func (b Behavioral) Instructions(facetName string, item, score int) []string {
	f, ok := b[facetName]
	if !ok || item >= len(f.SurveyItems) {
		return nil
	}
	return f.SurveyItems[item].Ratings[strconv.Itoa(score)].Instructions
}

// LoadBehavioral reads <facet>.json for all 15 facets from fsys. Every file is
// required; the error lists all missing facets at once.
func LoadBehavioral(fsys fs.FS) (Behavioral, error) {
	out := make(Behavioral, 15)
	var missing []string
	for _, name := range domain.AllFacets() {
		raw, err := fs.ReadFile(fsys, name+".json")
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading behavioral file %s: %w", name, err)
		}
		var f BehavioralFacet
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decoding behavioral file %s: %w", name, err)
		}
		out[name] = &f
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing behavioral files: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Builder produces corpus entries from the facet catalog and the extracted
// behavioral instructions. A nil Behavioral builds entries with texts but no
// instructions.
type Builder struct {
	Catalog    facet.Catalog
	Behavioral Behavioral
}

// Entry builds the entry for (d, t).
//
// Every combination of survey items across the three facets (4^3 = 64) yields
// one sentence: the rating texts of the non-neutral facets joined by a space.
// Combinations producing the same sentence share one key and the union of
// their instructions. A fully neutral triple therefore has no texts.
func (b *Builder) Entry(d domain.Domain, t domain.Triple) (*Entry, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("triple %v out of range", t)
	}
	facets, err := b.Catalog.ForDomain(d)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 3)
	items := 0
	for i, f := range facets {
		labels[i] = f.Label
		if n := len(f.SurveyItems); i == 0 || n < items {
			items = n
		}
	}

	sets := make(map[string]map[string]struct{})
	for i0 := 0; i0 < items; i0++ {
		for i1 := 0; i1 < items; i1++ {
			for i2 := 0; i2 < items; i2++ {
				b.combine(sets, facets, t, [3]int{i0, i1, i2})
			}
		}
	}

	texts := make(map[string][]string, len(sets))
	for text, set := range sets {
		list := make([]string, 0, len(set))
		for ins := range set {
			list = append(list, ins)
		}
		slices.Sort(list)
		texts[text] = list
	}

	return &Entry{
		Meta:      Meta{Domain: d, Facets: labels, Scores: []int{t[0], t[1], t[2]}},
		Coherence: domain.Classify(t),
		Texts:     texts,
	}, nil
}

func (b *Builder) combine(sets map[string]map[string]struct{}, facets [3]*facet.Facet, t domain.Triple, idx [3]int) {
	var parts []string
	var instructions []string
	for i, f := range facets {
		if t[i] == domain.NeutralScore {
			continue
		}
		if text, ok := f.SurveyItems[idx[i]].Rating(t[i]); ok {
			parts = append(parts, text)
		}
		instructions = append(instructions, b.Behavioral.Instructions(f.Name, idx[i], t[i])...)
	}
	if len(parts) == 0 {
		return
	}
	text := strings.Join(parts, " ")
	set, ok := sets[text]
	if !ok {
		set = make(map[string]struct{})
		sets[text] = set
	}
	for _, ins := range instructions {
		set[ins] = struct{}{}
	}
}
