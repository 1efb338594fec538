package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/craigtrim/persona-api/internal/db"
)

// FailingUoW wraps Inner and makes the FailOn-th matching ExecContext call
// return Err, so callers can check that a multi-write operation rolls back.
// Only statements containing Match are counted; an empty Match counts every
// ExecContext. Counting starts at 1. Reads are never failed.
type FailingUoW struct {
	Inner  db.UnitOfWork
	Match  string
	FailOn int32
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, uow: u})
	})
}

type failingExec struct {
	db.DBTX
	uow   *FailingUoW
	count atomic.Int32
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) && f.count.Add(1) == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
