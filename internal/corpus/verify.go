package corpus

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/craigtrim/persona-api/internal/domain"
)

// Problem is one integrity violation found by Verify. WideSpread marks a
// triple labelled contradictory only because its spread is 3 or more, as
// corpora built by the older tooling do.
type Problem struct {
	Domain     domain.Domain
	Path       string
	Reason     string
	WideSpread bool `json:",omitempty"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s/%s: %s", p.Domain, p.Path, p.Reason)
}

// Report summarizes a verification run.
type Report struct {
	Checked  int
	Problems []Problem
}

// OK reports whether no problems were found.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) add(d domain.Domain, path, format string, args ...any) *Problem {
	r.Problems = append(r.Problems, Problem{Domain: d, Path: path, Reason: fmt.Sprintf(format, args...)})
	return &r.Problems[len(r.Problems)-1]
}

// WideSpread counts the problems flagged WideSpread.
func (r *Report) WideSpread() int {
	n := 0
	for _, p := range r.Problems {
		if p.WideSpread {
			n++
		}
	}
	return n
}

func wideSpreadLabel(t domain.Triple, stored domain.Coherence) bool {
	lo, hi := slices.Min(t[:]), slices.Max(t[:])
	return stored == domain.CoherenceContradictory && hi-lo >= 3 && domain.Classify(t) == domain.CoherenceUncertain
}

// Verify checks the 125-key invariant and label consistency for domains:
// every entry exists and parses, its meta matches its key, its stored
// coherence equals Classify, and the index partitions all 125 paths with the
// same labels. Only context cancellation aborts the run.
func Verify(ctx context.Context, s Store, domains []domain.Domain) (*Report, error) {
	r := &Report{}
	for _, d := range domains {
		if err := verifyIndex(ctx, s, d, r); err != nil {
			return r, err
		}
		for _, t := range domain.AllTriples() {
			if err := ctx.Err(); err != nil {
				return r, err
			}
			r.Checked++
			verifyEntry(ctx, s, d, t, r)
		}
	}
	return r, nil
}

func verifyIndex(ctx context.Context, s Store, d domain.Domain, r *Report) error {
	idx, err := s.CoherenceIndex(ctx, d)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.add(d, IndexFile, "%v", err)
		return nil
	}

	r.Problems = append(r.Problems, CheckIndex(d, idx)...)
	return nil
}

// CheckIndex reports every way idx fails to partition d's 125 paths into the
// classes Classify assigns them.
func CheckIndex(d domain.Domain, idx CoherenceIndex) []Problem {
	r := &Report{}
	seen := make(map[string]domain.Coherence, 125)
	for _, c := range domain.CoherenceLevels {
		for _, p := range idx[c] {
			if prev, dup := seen[p]; dup {
				r.add(d, IndexFile, "path %s listed under %d and %d", p, prev, c)
				continue
			}
			seen[p] = c
			t, err := domain.ParsePath(p)
			if err != nil {
				r.add(d, IndexFile, "%v", err)
				continue
			}
			if want := domain.Classify(t); want != c {
				r.add(d, IndexFile, "path %s indexed as %d, classifies as %d", p, c, want).WideSpread = wideSpreadLabel(t, c)
			}
		}
	}
	for c := range idx {
		if !slices.Contains(domain.CoherenceLevels, c) {
			r.add(d, IndexFile, "unknown coherence class %d", c)
		}
	}
	for _, t := range domain.AllTriples() {
		if _, ok := seen[t.Path()]; !ok {
			r.add(d, IndexFile, "path %s not indexed", t.Path())
		}
	}
	return r.Problems
}

func verifyEntry(ctx context.Context, s Store, d domain.Domain, t domain.Triple, r *Report) {
	e, err := s.Get(ctx, d, t)
	switch {
	case errors.Is(err, ErrNotFound):
		r.add(d, t.Path(), "missing")
		return
	case err != nil:
		r.add(d, t.Path(), "%v", err)
		return
	}

	if e.Meta.Domain != d {
		r.add(d, t.Path(), "meta domain is %q", e.Meta.Domain)
	}
	got, err := e.Triple()
	if err != nil {
		r.add(d, t.Path(), "%v", err)
	} else if got != t {
		r.add(d, t.Path(), "meta scores %v do not match key", got)
	}
	if want := domain.Classify(t); e.Coherence != want {
		r.add(d, t.Path(), "stored coherence %d, classifies as %d", e.Coherence, want).WideSpread = wideSpreadLabel(t, e.Coherence)
	}
}
