package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("not found")

// Store wraps DB access.
type Store struct {
	DB *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}

// Bootstrap creates the games table when it does not exist yet.
func (s *Store) Bootstrap(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS games (
	id              TEXT PRIMARY KEY,
	tier_id         TEXT NOT NULL,
	white_address   TEXT NOT NULL,
	black_address   TEXT NOT NULL,
	winner_address  TEXT NOT NULL DEFAULT '',
	end_reason      TEXT NOT NULL DEFAULT '',
	pot             BIGINT NOT NULL DEFAULT 0,
	winner_payout   BIGINT NOT NULL DEFAULT 0,
	platform_cut    BIGINT NOT NULL DEFAULT 0,
	settlement_ref  TEXT NOT NULL DEFAULT '',
	white_moves     INT NOT NULL DEFAULT 0,
	black_moves     INT NOT NULL DEFAULT 0,
	started_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	ended_at        TIMESTAMPTZ
)`)
	return err
}
