package service

import (
	"context"
	"errors"

	"github.com/craigtrim/persona-api/internal/app"
	"github.com/craigtrim/persona-api/internal/domain"
)

// ErrHistoryDisabled is returned by history use cases when no history store
// is configured.
var ErrHistoryDisabled = errors.New("profile history is not configured")

// FacetTexts is a random personality with one survey sentence per facet.
type FacetTexts struct {
	Personality domain.PersonalityResult            `json:"personality"`
	Texts       map[domain.Domain]map[string]string `json:"texts"`
}

type PersonaService interface {
	app.GenerateProfileUseCase
	app.ResolveBehaviorUseCase
	app.RandomPersonalityUseCase
	app.HistoryUseCase
	DescribeFacets(ctx context.Context, seed string, coherence domain.Coherence) (*FacetTexts, error)
}
