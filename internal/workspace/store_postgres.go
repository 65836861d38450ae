package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore persists the catalog blob and selection keys in a single
// key/value table. The catalog stays one opaque JSON blob per the storage
// contract; Postgres here is a durable kv store, not a relational schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed store, creating the kv table on
// first use.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	_, err := pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS catalog_kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("create catalog_kv table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) LoadTree(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM catalog_kv WHERE key = $1`, treeKey,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog blob: %w", err)
	}
	return []byte(value), nil
}

func (s *PostgresStore) SaveTree(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO catalog_kv (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		treeKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("save catalog blob: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadSelection(ctx context.Context) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM catalog_kv WHERE key = ANY($1)`,
		[]string{selectedPathKey, selectedCourseKey},
	)
	if err != nil {
		return "", "", fmt.Errorf("load selection: %w", err)
	}
	defer rows.Close()

	var pathID, courseID string
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return "", "", fmt.Errorf("scan selection: %w", err)
		}
		switch key {
		case selectedPathKey:
			pathID = value
		case selectedCourseKey:
			courseID = value
		}
	}
	if err := rows.Err(); err != nil {
		return "", "", fmt.Errorf("iterate selection: %w", err)
	}
	return pathID, courseID, nil
}

func (s *PostgresStore) SaveSelection(ctx context.Context, pathID, courseID string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	queueSetOrDelete(batch, selectedPathKey, pathID)
	queueSetOrDelete(batch, selectedCourseKey, courseID)

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

func queueSetOrDelete(batch *pgx.Batch, key, value string) {
	if value == "" {
		batch.Queue(`DELETE FROM catalog_kv WHERE key = $1`, key)
		return
	}
	batch.Queue(
		`INSERT INTO catalog_kv (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
}
