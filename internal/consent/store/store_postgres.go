package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

// PostgresBackend persists blobs in the consent_state table, one row per key.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// Probe issues a harmless read against the consent_state table so a missing
// table or dead connection is detected up front.
func (b *PostgresBackend) Probe(ctx context.Context) error {
	var one int
	if err := b.db.QueryRowContext(ctx, `SELECT 1 FROM consent_state LIMIT 1`).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("probe consent_state: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context, key string) (string, error) {
	var blob string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM consent_state WHERE key = $1`, key,
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("read %q: %w", key, err)
	}
	return blob, nil
}

func (b *PostgresBackend) Write(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO consent_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) Remove(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM consent_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
