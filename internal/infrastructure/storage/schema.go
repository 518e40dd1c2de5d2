package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS labeled_articles (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		subject TEXT,
		label TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL,
		prediction TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		base_confidence DOUBLE PRECISION NOT NULL,
		model_version TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at DESC)`,
}

// Migrate creates the tables used by the repositories.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
