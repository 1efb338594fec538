package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/db"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportResult summarizes a completed corpus import.
type ImportResult struct {
	ID      string
	Entries int
}

type domainSnapshot struct {
	d       domain.Domain
	index   corpus.CoherenceIndex
	entries []*corpus.Entry
}

// ImportCorpus copies every entry and index of domains from src into the
// database in a single transaction. Every key must be present in src with
// meta and coherence matching the key, and every index must partition the
// domain's paths by class; otherwise nothing is written.
func ImportCorpus(ctx context.Context, uow db.UnitOfWork, src corpus.Store, domains []domain.Domain, source string, log *zap.Logger) (*ImportResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	snapshots := make([]domainSnapshot, 0, len(domains))
	for _, d := range domains {
		snap, err := readDomain(ctx, src, d)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	result := &ImportResult{ID: uuid.New().String()}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteCorpusRepo(tx)
		for _, snap := range snapshots {
			for _, e := range snap.entries {
				if err := repo.PutEntry(ctx, e); err != nil {
					return err
				}
			}
			if err := repo.PutIndex(ctx, snap.d, snap.index); err != nil {
				return err
			}
			result.Entries += len(snap.entries)
			log.Info("domain imported", zap.String("domain", string(snap.d)), zap.Int("entries", len(snap.entries)))
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO corpus_imports (id, source, entries, imported_at) VALUES (?, ?, ?, ?)`,
			result.ID, source, result.Entries, nowUTC().Format(timeLayout))
		if err != nil {
			return fmt.Errorf("recording import: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing corpus: %w", err)
	}
	return result, nil
}

func readDomain(ctx context.Context, src corpus.Store, d domain.Domain) (domainSnapshot, error) {
	idx, err := src.CoherenceIndex(ctx, d)
	if err != nil {
		return domainSnapshot{}, fmt.Errorf("reading %s index: %w", d, err)
	}
	if problems := corpus.CheckIndex(d, idx); len(problems) > 0 {
		return domainSnapshot{}, fmt.Errorf("%w: %s (%d index problems)", corpus.ErrDataIntegrity, problems[0], len(problems))
	}
	snap := domainSnapshot{d: d, index: idx}
	for _, t := range domain.AllTriples() {
		e, err := src.Get(ctx, d, t)
		if err != nil {
			if errors.Is(err, corpus.ErrNotFound) {
				return domainSnapshot{}, fmt.Errorf("%w: %s missing from source", corpus.ErrDataIntegrity, corpus.EntryPath(d, t))
			}
			return domainSnapshot{}, err
		}
		got, err := e.Triple()
		if err != nil {
			return domainSnapshot{}, fmt.Errorf("%s: %w", corpus.EntryPath(d, t), err)
		}
		if got != t || e.Meta.Domain != d {
			return domainSnapshot{}, fmt.Errorf("%w: %s records %s %v", corpus.ErrDataIntegrity, corpus.EntryPath(d, t), e.Meta.Domain, got)
		}
		if want := domain.Classify(t); e.Coherence != want {
			return domainSnapshot{}, fmt.Errorf("%w: %s stores coherence %d, classifies as %d", corpus.ErrDataIntegrity, corpus.EntryPath(d, t), int(e.Coherence), int(want))
		}
		snap.entries = append(snap.entries, e)
	}
	return snap, nil
}
