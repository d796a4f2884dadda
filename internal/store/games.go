package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type GameRecord struct {
	ID            string     `json:"id"`
	TierID        string     `json:"tier_id"`
	WhiteAddress  string     `json:"white_address"`
	BlackAddress  string     `json:"black_address"`
	WinnerAddress string     `json:"winner_address,omitempty"`
	EndReason     string     `json:"end_reason,omitempty"`
	Pot           int64      `json:"pot"`
	WinnerPayout  int64      `json:"winner_payout"`
	PlatformCut   int64      `json:"platform_cut"`
	SettlementRef string     `json:"settlement_ref,omitempty"`
	WhiteMoves    int        `json:"white_moves"`
	BlackMoves    int        `json:"black_moves"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}

func (s *Store) RecordGameStart(ctx context.Context, gameID, tierID, whiteAddress, blackAddress string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO games (id, tier_id, white_address, black_address) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO NOTHING`,
		gameID, tierID, whiteAddress, blackAddress)
	return err
}

func (s *Store) RecordGameEnd(ctx context.Context, gameID, winnerAddress, reason string,
	pot, winnerPayout, platformCut int64, settlementRef string, whiteMoves, blackMoves int) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE games SET winner_address = $2, end_reason = $3, pot = $4, winner_payout = $5,
		 platform_cut = $6, settlement_ref = $7, white_moves = $8, black_moves = $9, ended_at = now()
		 WHERE id = $1`,
		gameID, winnerAddress, reason, pot, winnerPayout, platformCut, settlementRef, whiteMoves, blackMoves)
	return err
}

func (s *Store) GetGame(ctx context.Context, gameID string) (*GameRecord, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, tier_id, white_address, black_address, winner_address, end_reason,
		 pot, winner_payout, platform_cut, settlement_ref, white_moves, black_moves, started_at, ended_at
		 FROM games WHERE id = $1`, gameID)
	rec, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Store) ListRecentGames(ctx context.Context, limit int) ([]GameRecord, error) {
	limit = normalizeLimit(limit)
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, tier_id, white_address, black_address, winner_address, end_reason,
		 pot, winner_payout, platform_cut, settlement_ref, white_moves, black_moves, started_at, ended_at
		 FROM games ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]GameRecord, 0, limit)
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*GameRecord, error) {
	var rec GameRecord
	var ended sql.NullTime
	err := row.Scan(&rec.ID, &rec.TierID, &rec.WhiteAddress, &rec.BlackAddress,
		&rec.WinnerAddress, &rec.EndReason, &rec.Pot, &rec.WinnerPayout,
		&rec.PlatformCut, &rec.SettlementRef, &rec.WhiteMoves, &rec.BlackMoves,
		&rec.StartedAt, &ended)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		rec.EndedAt = &t
	}
	return &rec, nil
}
