package testutil

import (
	"time"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/profile"
	"github.com/craigtrim/persona-api/internal/repository"
)

// ProfileOption customizes a test profile record.
type ProfileOption func(*repository.ProfileRecord)

func WithCreatedAt(at time.Time) ProfileOption {
	return func(r *repository.ProfileRecord) {
		r.CreatedAt = at
	}
}

func WithMode(mode string) ProfileOption {
	return func(r *repository.ProfileRecord) {
		r.Mode = mode
	}
}

func WithScores(scores map[domain.Domain]int) ProfileOption {
	return func(r *repository.ProfileRecord) {
		r.Scores = scores
	}
}

func WithProfileText(text string) ProfileOption {
	return func(r *repository.ProfileRecord) {
		r.Profile = text
	}
}

// NewTestProfileRecord returns an unsaved random-mode record with neutral
// scores and two traits.
func NewTestProfileRecord(seed string, opts ...ProfileOption) *repository.ProfileRecord {
	scores := make(map[domain.Domain]int, len(domain.Domains))
	for _, d := range domain.Domains {
		scores[d] = domain.NeutralScore
	}
	r := &repository.ProfileRecord{
		Seed:      seed,
		Mode:      repository.ModeRandom,
		Coherence: domain.CoherenceCoherent,
		Scores:    scores,
		Traits: []profile.Trait{
			{Trait: "Ask one follow-up question.", Domain: domain.Extraversion},
			{Trait: "Acknowledge feelings first.", Domain: domain.Agreeableness},
		},
		Prompt:  "prompt for " + seed,
		Profile: "You MUST adopt a steady personality.",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
