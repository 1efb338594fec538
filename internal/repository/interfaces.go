package repository

import (
	"context"
	"errors"
	"time"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/profile"
)

var ErrNotFound = errors.New("not found")

// Profile generation modes recorded in history.
const (
	ModeRandom   = "random"
	ModeExplicit = "explicit"
)

// ProfileRecord is one generated profile as kept in history.
type ProfileRecord struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Seed      string                `json:"seed"`
	Mode      string                `json:"mode"`
	Coherence domain.Coherence      `json:"coherence"`
	Length    int                   `json:"length"`
	Scores    map[domain.Domain]int `json:"scores"`
	Traits    []profile.Trait       `json:"traits"`
	Prompt    string                `json:"prompt"`
	Profile   string                `json:"profile"`
	Model     string                `json:"model"`
}

// CorpusRepo is a corpus.Store backed by SQL tables, writable by imports.
type CorpusRepo interface {
	corpus.Store
	PutEntry(ctx context.Context, e *corpus.Entry) error
	PutIndex(ctx context.Context, d domain.Domain, idx corpus.CoherenceIndex) error
	Count(ctx context.Context) (int, error)
}

type ProfileRepo interface {
	Save(ctx context.Context, r *ProfileRecord) error
	GetByID(ctx context.Context, id string) (*ProfileRecord, error)
	List(ctx context.Context, limit int) ([]*ProfileRecord, error)
}
