package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/craigtrim/persona-api/internal/db"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/repository"
)

// NewTestDB returns a migrated in-memory database closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW returns the production UnitOfWork over database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewImportedDB returns a test database holding the BuildCorpus fixture.
func NewImportedDB(t *testing.T) *sql.DB {
	t.Helper()
	database := NewTestDB(t)
	if _, err := repository.ImportCorpus(context.Background(), NewTestUoW(database), BuildCorpus(t), domain.Domains, "fixture", nil); err != nil {
		t.Fatalf("importing fixture corpus: %v", err)
	}
	return database
}
