package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// One row per (domain, triple) corpus key. texts holds the entry's
	// text -> instructions map as JSON; facets the meta facet labels.
	`CREATE TABLE IF NOT EXISTS corpus_entries (
		domain     TEXT    NOT NULL
		           CHECK(domain IN ('extraversion','agreeableness','conscientiousness','negative_emotionality','open_mindedness')),
		f1         INTEGER NOT NULL CHECK(f1 BETWEEN 1 AND 5),
		f2         INTEGER NOT NULL CHECK(f2 BETWEEN 1 AND 5),
		f3         INTEGER NOT NULL CHECK(f3 BETWEEN 1 AND 5),
		coherence  INTEGER NOT NULL CHECK(coherence BETWEEN 1 AND 3),
		facets     TEXT    NOT NULL DEFAULT '[]',
		texts      TEXT    NOT NULL DEFAULT '{}',
		PRIMARY KEY (domain, f1, f2, f3)
	)`,

	`CREATE TABLE IF NOT EXISTS coherence_index (
		domain     TEXT    NOT NULL,
		path       TEXT    NOT NULL,
		coherence  INTEGER NOT NULL CHECK(coherence BETWEEN 1 AND 3),
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (domain, path)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_coherence_index_level ON coherence_index(domain, coherence, position)`,

	`CREATE TABLE IF NOT EXISTS corpus_imports (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		entries     INTEGER NOT NULL,
		imported_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS profile_history (
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		seed        TEXT NOT NULL,
		mode        TEXT NOT NULL CHECK(mode IN ('random','explicit')),
		coherence   INTEGER NOT NULL DEFAULT 0 CHECK(coherence BETWEEN 0 AND 3),
		length      INTEGER NOT NULL DEFAULT 0,
		scores      TEXT NOT NULL DEFAULT '{}',
		traits      TEXT NOT NULL DEFAULT '[]',
		prompt      TEXT NOT NULL DEFAULT '',
		profile     TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profile_history_created ON profile_history(created_at)`,

	// Added after the first release; re-running is tolerated above.
	`ALTER TABLE profile_history ADD COLUMN model TEXT NOT NULL DEFAULT ''`,
}
