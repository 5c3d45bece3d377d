package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// undefinedTable is the Postgres error code raised when the state
// table has not been created yet.
const undefinedTable = "42P01"

// PGPersister stores the snapshot as a single versioned row. The whole
// state is one document; there is no per-collection schema.
type PGPersister struct {
	pool *pgxpool.Pool
}

// NewPGPersister builds a PGPersister over the pool.
func NewPGPersister(pool *pgxpool.Pool) *PGPersister {
	return &PGPersister{pool: pool}
}

// EnsureSchema creates the state table when missing.
func (p *PGPersister) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS stockmaster_state (
			id         smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			doc        jsonb NOT NULL,
			version    text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// Load reads the snapshot row, treating a missing row or table as a
// fresh installation.
func (p *PGPersister) Load(ctx context.Context) (*State, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM stockmaster_state WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			if err := p.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, fmt.Errorf("store: load row: %w", err)
	}
	var st State
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, fmt.Errorf("store: parse row: %w", err)
	}
	return &st, nil
}

// Save upserts the snapshot row.
func (p *PGPersister) Save(ctx context.Context, st State) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO stockmaster_state (id, doc, version, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, version = EXCLUDED.version, updated_at = now()`,
		doc, SnapshotVersion)
	if err != nil {
		return fmt.Errorf("store: save row: %w", err)
	}
	return nil
}
