package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLAdapter stores snapshot keys as rows in a kv_store table. The
// schema is created on construction so a fresh database works without a
// migration step.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(ctx context.Context, db *sql.DB) (*SQLAdapter, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(191) PRIMARY KEY,
			v MEDIUMTEXT NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &SQLAdapter{db: db}, nil
}

func (s *SQLAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT v FROM kv_store WHERE k = ?`, key,
	).Scan(&v)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query kv_store: %w", err)
	}
	return v, true, nil
}

func (s *SQLAdapter) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert kv_store: %w", err)
	}
	return nil
}

func (s *SQLAdapter) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE k = ?`, key); err != nil {
		return fmt.Errorf("delete kv_store: %w", err)
	}
	return nil
}
