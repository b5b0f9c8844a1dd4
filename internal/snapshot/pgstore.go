package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS plans (
	id       text PRIMARY KEY,
	name     text NOT NULL DEFAULT '',
	saved_at timestamptz NOT NULL,
	body     jsonb NOT NULL
)`

// PGStore keeps plans in a Postgres table, one jsonb body per plan.
type PGStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPGStore connects to databaseURL.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database url not set")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PGStore{pool: pool, now: time.Now}, nil
}

// EnsureSchema creates the plans table when missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create plans table: %w", err)
	}
	return nil
}

func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PGStore) Save(ctx context.Context, doc *Document) (*Document, error) {
	out, err := prepare(doc, s.now())
	if err != nil {
		return nil, err
	}
	body, err := Encode(out, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	query := `
		INSERT INTO plans (id, name, saved_at, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			saved_at = EXCLUDED.saved_at,
			body = EXCLUDED.body
	`
	if _, err := s.pool.Exec(ctx, query, out.ID, out.Name, out.SavedAt, body); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	return out, nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM plans WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	doc, err := Decode(body, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

func (s *PGStore) List(ctx context.Context) ([]Meta, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, saved_at FROM plans ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	metas := []Meta{}
	for rows.Next() {
		var m Meta
		if err := rows.Scan(&m.ID, &m.Name, &m.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return metas, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
