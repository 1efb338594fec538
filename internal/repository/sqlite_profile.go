package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/craigtrim/persona-api/internal/db"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/google/uuid"
)

// SQLiteProfileRepo implements ProfileRepo using a SQLite database.
type SQLiteProfileRepo struct {
	db db.DBTX
}

// NewSQLiteProfileRepo creates a new SQLiteProfileRepo.
func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

const profileColumns = `id, created_at, seed, mode, coherence, length, scores, traits, prompt, profile, model`

// Save inserts r, assigning an ID and creation time when unset.
func (p *SQLiteProfileRepo) Save(ctx context.Context, r *ProfileRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = nowUTC()
	}
	scores, err := jsonColumn(r.Scores)
	if err != nil {
		return err
	}
	traits, err := jsonColumn(r.Traits)
	if err != nil {
		return err
	}

	query := `INSERT INTO profile_history (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = p.db.ExecContext(ctx, query,
		r.ID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.Seed,
		r.Mode,
		int(r.Coherence),
		r.Length,
		scores,
		traits,
		r.Prompt,
		r.Profile,
		r.Model,
	)
	if err != nil {
		return fmt.Errorf("inserting profile record: %w", err)
	}
	return nil
}

func (p *SQLiteProfileRepo) GetByID(ctx context.Context, id string) (*ProfileRecord, error) {
	query := `SELECT ` + profileColumns + ` FROM profile_history WHERE id = ?`
	r, err := scanProfile(p.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return r, err
}

// List returns the newest records first. A non-positive limit lists all.
func (p *SQLiteProfileRepo) List(ctx context.Context, limit int) ([]*ProfileRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + profileColumns + ` FROM profile_history
		ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var out []*ProfileRecord
	for rows.Next() {
		r, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*ProfileRecord, error) {
	var (
		r              ProfileRecord
		createdAt      string
		coherence      int
		scores, traits string
	)
	err := row.Scan(
		&r.ID,
		&createdAt,
		&r.Seed,
		&r.Mode,
		&coherence,
		&r.Length,
		&scores,
		&traits,
		&r.Prompt,
		&r.Profile,
		&r.Model,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning profile record: %w", err)
	}
	r.Coherence = domain.Coherence(coherence)
	if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", r.ID, err)
	}
	if err := scanJSON(scores, &r.Scores); err != nil {
		return nil, fmt.Errorf("decoding scores of %s: %w", r.ID, err)
	}
	if err := scanJSON(traits, &r.Traits); err != nil {
		return nil, fmt.Errorf("decoding traits of %s: %w", r.ID, err)
	}
	return &r, nil
}
