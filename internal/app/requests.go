package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/profile"
	"github.com/craigtrim/persona-api/internal/resolver"
	"github.com/craigtrim/persona-api/internal/rng"
)

// GenerateRequest asks for one personality profile. Random mode is selected
// by a non-zero Coherence; explicit mode by a non-empty Scores.
type GenerateRequest struct {
	Seed         string
	Coherence    domain.Coherence
	Scores       map[domain.Domain]int
	Length       int
	Instructions int
	DryRun       bool
}

// NewRandomRequest returns a random-mode request at the given coherence.
func NewRandomRequest(coherence domain.Coherence) GenerateRequest {
	return GenerateRequest{
		Coherence:    coherence,
		Instructions: profile.DefaultInstructionCount,
	}
}

// NewExplicitRequest returns an explicit-mode request. Domains missing from
// scores are neutral.
func NewExplicitRequest(scores map[domain.Domain]int) GenerateRequest {
	return GenerateRequest{
		Scores:       scores,
		Instructions: profile.DefaultInstructionCount,
	}
}

// Random reports whether r selects random mode.
func (r GenerateRequest) Random() bool {
	return r.Coherence != domain.CoherenceAny
}

// Validate rejects requests that name both or neither mode, or carry
// out-of-range values.
func (r GenerateRequest) Validate() error {
	switch {
	case r.Random() && len(r.Scores) > 0:
		return &RequestError{Code: ErrConflictingModes, Message: "random coherence and explicit scores are mutually exclusive"}
	case !r.Random() && len(r.Scores) == 0:
		return &RequestError{Code: ErrNoMode, Message: "either a random coherence or at least one domain score is required"}
	case r.Random() && !r.Coherence.Valid():
		return &RequestError{Code: ErrInvalidCoherence, Message: fmt.Sprintf("coherence %d not in 1-3", r.Coherence)}
	case r.Length < 0:
		return &RequestError{Code: ErrInvalidLength, Message: fmt.Sprintf("length %d is negative", r.Length)}
	case r.Instructions < 0:
		return &RequestError{Code: ErrInvalidLength, Message: fmt.Sprintf("instruction count %d is negative", r.Instructions)}
	}
	for d, s := range r.Scores {
		if !d.Valid() {
			return &RequestError{Code: ErrInvalidDomain, Message: fmt.Sprintf("unknown domain %q", d)}
		}
		if !domain.ValidScore(s) {
			return &RequestError{Code: ErrInvalidScore, Message: fmt.Sprintf("%s score %d not in 1-5", d, s)}
		}
	}
	return nil
}

// ExplicitTriples expands explicit scores to uniform triples for all five
// domains, defaulting the unnamed ones to neutral.
func (r GenerateRequest) ExplicitTriples() map[domain.Domain]domain.Triple {
	out := make(map[domain.Domain]domain.Triple, len(domain.Domains))
	for _, d := range domain.Domains {
		s, ok := r.Scores[d]
		if !ok {
			s = domain.NeutralScore
		}
		out[d] = domain.Uniform(s)
	}
	return out
}

// EffectiveSeed returns the seed the request resolves under. Random mode
// without a seed returns "" and lets the generator invent one; explicit mode
// without a seed hashes the sorted scores so equal requests agree.
func (r GenerateRequest) EffectiveSeed() string {
	if r.Seed != "" || r.Random() {
		return r.Seed
	}
	parts := make([]string, 0, len(r.Scores))
	for d, s := range r.Scores {
		parts = append(parts, fmt.Sprintf("%s=%d", d, s))
	}
	sort.Strings(parts)
	return rng.HashSeed(strings.Join(parts, ","))
}

// GenerateResponse is one generated profile. Profile is empty for dry runs.
type GenerateResponse struct {
	Seed      string                               `json:"seed"`
	Mode      string                               `json:"mode"`
	Coherence domain.Coherence                     `json:"coherence,omitempty"`
	Scores    map[domain.Domain]int                `json:"domain_scores"`
	Facets    map[domain.Domain]domain.Triple      `json:"facets"`
	Behaviors map[domain.Domain]*resolver.Behavior `json:"-"`
	Explicit  map[domain.Domain]int                `json:"-"`
	Traits    []profile.Trait                      `json:"traits"`
	Prompt    string                               `json:"prompt,omitempty"`
	Profile   string                               `json:"profile,omitempty"`
	Model     string                               `json:"model,omitempty"`
	TargetLen int                                  `json:"target_length,omitempty"`
	HistoryID string                               `json:"history_id,omitempty"`
}

// ResolveRequest asks for one domain's behavior, either by score under a
// coherence ceiling or by an exact facet triple.
type ResolveRequest struct {
	Domain  domain.Domain
	Score   int
	Ceiling domain.Coherence
	Triple  *domain.Triple
	Seed    string
}

func (r ResolveRequest) Validate() error {
	if !r.Domain.Valid() {
		return &RequestError{Code: ErrInvalidDomain, Message: fmt.Sprintf("unknown domain %q", r.Domain)}
	}
	if r.Triple != nil {
		if !r.Triple.Valid() {
			return &RequestError{Code: ErrInvalidScore, Message: fmt.Sprintf("facet scores %v not in 1-5", *r.Triple)}
		}
		return nil
	}
	if !domain.ValidScore(r.Score) {
		return &RequestError{Code: ErrInvalidScore, Message: fmt.Sprintf("score %d not in 1-5", r.Score)}
	}
	return nil
}

type RequestErrorCode string

const (
	ErrConflictingModes RequestErrorCode = "CONFLICTING_MODES"
	ErrNoMode           RequestErrorCode = "NO_MODE"
	ErrInvalidCoherence RequestErrorCode = "INVALID_COHERENCE"
	ErrInvalidDomain    RequestErrorCode = "INVALID_DOMAIN"
	ErrInvalidScore     RequestErrorCode = "INVALID_SCORE"
	ErrInvalidLength    RequestErrorCode = "INVALID_LENGTH"
	ErrNoMatch          RequestErrorCode = "NO_MATCH"
)

// RequestError is a caller mistake or an ordinary miss, never a system fault.
type RequestError struct {
	Code    RequestErrorCode
	Message string
}

func (e *RequestError) Error() string {
	return string(e.Code) + ": " + e.Message
}
