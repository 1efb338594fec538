package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/db"
	"github.com/craigtrim/persona-api/internal/domain"
)

// SQLiteCorpusRepo implements CorpusRepo using a SQLite database. Reads are
// uncached; wrap it in corpus.NewCachedStore for serving.
type SQLiteCorpusRepo struct {
	db db.DBTX
}

// NewSQLiteCorpusRepo creates a new SQLiteCorpusRepo.
func NewSQLiteCorpusRepo(conn db.DBTX) *SQLiteCorpusRepo {
	return &SQLiteCorpusRepo{db: conn}
}

func (r *SQLiteCorpusRepo) Get(ctx context.Context, d domain.Domain, t domain.Triple) (*corpus.Entry, error) {
	if !d.Valid() || !t.Valid() {
		return nil, fmt.Errorf("%s %v: %w", d, t, corpus.ErrNotFound)
	}
	query := `SELECT coherence, facets, texts FROM corpus_entries
		WHERE domain = ? AND f1 = ? AND f2 = ? AND f3 = ?`
	row := r.db.QueryRowContext(ctx, query, string(d), t[0], t[1], t[2])

	var (
		coherence     int
		facets, texts string
	)
	if err := row.Scan(&coherence, &facets, &texts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", corpus.EntryPath(d, t), corpus.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning corpus entry: %w", err)
	}

	e := &corpus.Entry{
		Meta:      corpus.Meta{Domain: d, Scores: []int{t[0], t[1], t[2]}},
		Coherence: domain.Coherence(coherence),
		Texts:     map[string][]string{},
	}
	if err := scanJSON(facets, &e.Meta.Facets); err != nil {
		return nil, fmt.Errorf("%w: facets of %s: %v", corpus.ErrDataIntegrity, corpus.EntryPath(d, t), err)
	}
	if err := scanJSON(texts, &e.Texts); err != nil {
		return nil, fmt.Errorf("%w: texts of %s: %v", corpus.ErrDataIntegrity, corpus.EntryPath(d, t), err)
	}
	return e, nil
}

func (r *SQLiteCorpusRepo) CoherenceIndex(ctx context.Context, d domain.Domain) (corpus.CoherenceIndex, error) {
	query := `SELECT coherence, path FROM coherence_index
		WHERE domain = ? ORDER BY coherence, position`
	rows, err := r.db.QueryContext(ctx, query, string(d))
	if err != nil {
		return nil, fmt.Errorf("listing coherence index: %w", err)
	}
	defer rows.Close()

	idx := corpus.CoherenceIndex{}
	for rows.Next() {
		var (
			c int
			p string
		)
		if err := rows.Scan(&c, &p); err != nil {
			return nil, fmt.Errorf("scanning coherence index: %w", err)
		}
		idx[domain.Coherence(c)] = append(idx[domain.Coherence(c)], p)
	}
	return idx, rows.Err()
}

// PutEntry inserts or replaces e under the key its meta records.
func (r *SQLiteCorpusRepo) PutEntry(ctx context.Context, e *corpus.Entry) error {
	t, err := e.Triple()
	if err != nil {
		return err
	}
	if !e.Meta.Domain.Valid() {
		return fmt.Errorf("%w: unknown domain %q", corpus.ErrDataIntegrity, e.Meta.Domain)
	}
	facets, err := jsonColumn(e.Meta.Facets)
	if err != nil {
		return err
	}
	texts, err := jsonColumn(e.Texts)
	if err != nil {
		return err
	}

	query := `INSERT OR REPLACE INTO corpus_entries (domain, f1, f2, f3, coherence, facets, texts)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		string(e.Meta.Domain),
		t[0], t[1], t[2],
		int(e.Coherence),
		facets,
		texts,
	)
	if err != nil {
		return fmt.Errorf("inserting corpus entry %s: %w", corpus.EntryPath(e.Meta.Domain, t), err)
	}
	return nil
}

// PutIndex replaces d's coherence index.
func (r *SQLiteCorpusRepo) PutIndex(ctx context.Context, d domain.Domain, idx corpus.CoherenceIndex) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM coherence_index WHERE domain = ?`, string(d)); err != nil {
		return fmt.Errorf("clearing coherence index: %w", err)
	}
	query := `INSERT INTO coherence_index (domain, path, coherence, position) VALUES (?, ?, ?, ?)`
	for _, c := range domain.CoherenceLevels {
		for i, p := range idx[c] {
			if _, err := r.db.ExecContext(ctx, query, string(d), p, int(c), i); err != nil {
				return fmt.Errorf("inserting coherence index %s/%s: %w", d, p, err)
			}
		}
	}
	return nil
}

// Count returns the number of stored entries across all domains.
func (r *SQLiteCorpusRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM corpus_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting corpus entries: %w", err)
	}
	return n, nil
}
