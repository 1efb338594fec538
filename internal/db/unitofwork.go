package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// UnitOfWork runs fn inside one transaction. Repositories built on the DBTX
// passed to fn see each other's writes; nothing is visible to other
// connections until fn returns nil.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork is the UnitOfWork used by corpus imports.
type SQLiteUnitOfWork struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLiteUnitOfWork returns a UnitOfWork over db.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db, log: zap.NewNop()}
}

// WithLogger reports rollbacks and commits to log.
func (u *SQLiteUnitOfWork) WithLogger(log *zap.Logger) *SQLiteUnitOfWork {
	if log != nil {
		u.log = log
	}
	return u
}

// WithinTx commits when fn succeeds and ctx is still live. A cancelled
// context rolls back even after fn returned nil.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	started := time.Now()
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		u.log.Warn("transaction rolled back", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	u.log.Debug("transaction committed", zap.Duration("elapsed", time.Since(started)))
	return nil
}
