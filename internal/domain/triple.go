package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Triple is an ordered set of three facet scores for one domain.
type Triple [3]int

// Valid reports whether every score is within [1,5].
func (t Triple) Valid() bool {
	return ValidScore(t[0]) && ValidScore(t[1]) && ValidScore(t[2])
}

// Sum returns f1+f2+f3.
func (t Triple) Sum() int {
	return t[0] + t[1] + t[2]
}

// Score returns the domain score: the mean of the three facets rounded to the
// nearest integer. Sums of three integers only produce thirds, so there is no
// .5 tie and (sum+1)/3 is exact for all positive sums.
func (t Triple) Score() int {
	return (t.Sum() + 1) / 3
}

// Path returns the corpus-relative file path, e.g. "3/2/4.json".
func (t Triple) Path() string {
	return fmt.Sprintf("%d/%d/%d.json", t[0], t[1], t[2])
}

func (t Triple) String() string {
	return fmt.Sprintf("(%d,%d,%d)", t[0], t[1], t[2])
}

// ParsePath converts a corpus-relative path such as "3/2/4.json" back into a
// Triple. It rejects malformed paths and out-of-range scores.
func ParsePath(p string) (Triple, error) {
	parts := strings.Split(strings.TrimSuffix(p, ".json"), "/")
	if len(parts) != 3 {
		return Triple{}, fmt.Errorf("corpus path %q: want f1/f2/f3.json", p)
	}
	var t Triple
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Triple{}, fmt.Errorf("corpus path %q: %w", p, err)
		}
		t[i] = n
	}
	if !t.Valid() {
		return Triple{}, fmt.Errorf("corpus path %q: score out of range", p)
	}
	return t, nil
}

// Uniform returns the triple (s,s,s).
func Uniform(s int) Triple {
	return Triple{s, s, s}
}

// AllTriples enumerates the 125 triples in lexicographic order, the same order
// the corpus builder and coherence index use.
func AllTriples() []Triple {
	out := make([]Triple, 0, 125)
	for a := MinScore; a <= MaxScore; a++ {
		for b := MinScore; b <= MaxScore; b++ {
			for c := MinScore; c <= MaxScore; c++ {
				out = append(out, Triple{a, b, c})
			}
		}
	}
	return out
}

// TriplesOfClass returns every triple whose Classify result equals c, in
// lexicographic order.
func TriplesOfClass(c Coherence) []Triple {
	var out []Triple
	for _, t := range AllTriples() {
		if Classify(t) == c {
			out = append(out, t)
		}
	}
	return out
}

// Classify rates the internal consistency of a facet triple.
//
//	1: fully neutral, or every score within 1 of the others
//	2: spread of exactly 2, or a spread of 3+ without a clear outlier
//	3: two scores within 1 of each other and the third at least 3 away
//
// The result is order independent. The corpus builder, the verifier, the
// generator's coherence mode and the resolver all call this one function.
func Classify(t Triple) Coherence {
	if t[0] == NeutralScore && t[1] == NeutralScore && t[2] == NeutralScore {
		return CoherenceCoherent
	}

	s := []int{t[0], t[1], t[2]}
	slices.Sort(s)
	spread := s[2] - s[0]

	switch {
	case spread <= 1:
		return CoherenceCoherent
	case spread == 2:
		return CoherenceUncertain
	}

	lowGap, highGap := s[1]-s[0], s[2]-s[1]
	if lowGap <= 1 && highGap >= 3 {
		return CoherenceContradictory
	}
	if highGap <= 1 && lowGap >= 3 {
		return CoherenceContradictory
	}
	return CoherenceUncertain
}
