package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewDB opens a Postgres connection pool and verifies it is reachable
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// schema creates the four collections as tables. Legislation dates are
// stored as entered, malformed ones included.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS legislation (
		legislation_id TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL,
		start_date     TEXT NOT NULL,
		end_date       TEXT NOT NULL,
		status         TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		comment_id      TEXT PRIMARY KEY,
		legislation_id  TEXT NOT NULL,
		text            TEXT NOT NULL,
		rating          INTEGER,
		sentiment_label TEXT,
		sentiment_score DOUBLE PRECISION,
		created_at      TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_legislation_id_idx ON comments (legislation_id)`,
	`CREATE TABLE IF NOT EXISTS analysis (
		analysis_id            TEXT PRIMARY KEY,
		legislation_id         TEXT NOT NULL,
		total_comments         INTEGER NOT NULL,
		positive_comment_count INTEGER NOT NULL,
		negative_comment_count INTEGER NOT NULL,
		neutral_comment_count  INTEGER NOT NULL,
		overall_summary        TEXT NOT NULL DEFAULT '',
		top_words              JSONB NOT NULL DEFAULT '[]',
		timestamp              TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS analysis_legislation_id_idx ON analysis (legislation_id)`,
	`CREATE TABLE IF NOT EXISTS gov_officials (
		email         TEXT PRIMARY KEY,
		gov_id        TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT ''
	)`,
}

// Migrate creates any missing tables and indexes
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
