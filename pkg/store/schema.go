package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaMigration is one versioned DDL step. Steps are embedded rather than
// shipped as files so the binary is self-contained.
type schemaMigration struct {
	Version string
	SQL     string
}

var schemaMigrations = []schemaMigration{
	{
		Version: "001_meetings",
		SQL: `CREATE TABLE IF NOT EXISTS meetings (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			case_ref TEXT NOT NULL DEFAULT '',
			consent_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			attendees JSONB NOT NULL DEFAULT '[]',
			transcript_text TEXT NOT NULL DEFAULT '',
			minutes_text TEXT NOT NULL DEFAULT '',
			actions JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'draft',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Version: "002_meetings_status_date_idx",
		SQL:     `CREATE INDEX IF NOT EXISTS meetings_status_date_idx ON meetings (status, date DESC)`,
	},
}

// EnsureSchema applies any pending schema migrations. Safe to call on every
// startup; applied versions are tracked and skipped.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}

	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate migrations: %w", err)
	}
	rows.Close()

	for _, m := range schemaMigrations {
		if applied[m.Version] {
			continue
		}
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Version, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
	}

	return nil
}
