package app

import (
	"context"

	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/repository"
	"github.com/craigtrim/persona-api/internal/resolver"
)

type GenerateProfileUseCase interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	GenerateMany(ctx context.Context, req GenerateRequest, n int) ([]*GenerateResponse, error)
}

type ResolveBehaviorUseCase interface {
	ResolveBehavior(ctx context.Context, req ResolveRequest) (*resolver.Behavior, error)
}

type RandomPersonalityUseCase interface {
	RandomPersonality(ctx context.Context, seed string, coherence domain.Coherence) (domain.PersonalityResult, error)
}

type HistoryUseCase interface {
	ListHistory(ctx context.Context, limit int) ([]*repository.ProfileRecord, error)
}
