package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeRow struct {
	vals []any
	err  error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	if len(dest) != len(f.vals) {
		return fmt.Errorf("scan arity %d, want %d", len(dest), len(f.vals))
	}
	for i, v := range f.vals {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int64:
			*d = v.(int64)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		case *sql.NullTime:
			*d = v.(sql.NullTime)
		default:
			return fmt.Errorf("unexpected dest type %T", dest[i])
		}
	}
	return nil
}

func gameRowValues(ended sql.NullTime) []any {
	return []any{
		"01J0TEST", "bronze", "addr_w", "addr_b", "addr_w", "checkmate",
		int64(4400000), int64(4328000), int64(72000), "tx_abc",
		12, 11, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), ended,
	}
}

func TestScanGameLiveGameHasNoEndedAt(t *testing.T) {
	rec, err := scanGame(fakeRow{vals: gameRowValues(sql.NullTime{})})
	if err != nil {
		t.Fatalf("scanGame: %v", err)
	}
	if rec.EndedAt != nil {
		t.Fatalf("EndedAt = %v, want nil for a null ended_at", rec.EndedAt)
	}
	if rec.ID != "01J0TEST" || rec.TierID != "bronze" || rec.Pot != 4400000 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestScanGameFinishedGame(t *testing.T) {
	ended := time.Date(2026, 8, 24, 12, 30, 0, 0, time.UTC)
	rec, err := scanGame(fakeRow{vals: gameRowValues(sql.NullTime{Time: ended, Valid: true})})
	if err != nil {
		t.Fatalf("scanGame: %v", err)
	}
	if rec.EndedAt == nil || !rec.EndedAt.Equal(ended) {
		t.Fatalf("EndedAt = %v, want %v", rec.EndedAt, ended)
	}
	if rec.WinnerAddress != "addr_w" || rec.EndReason != "checkmate" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.WinnerPayout+rec.PlatformCut != rec.Pot {
		t.Fatalf("payout %d + cut %d != pot %d", rec.WinnerPayout, rec.PlatformCut, rec.Pot)
	}
}

func TestScanGamePropagatesError(t *testing.T) {
	if _, err := scanGame(fakeRow{err: sql.ErrNoRows}); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 50},
		{-5, 50},
		{1, 1},
		{200, 200},
	}
	for _, c := range cases {
		if got := normalizeLimit(c.in); got != c.want {
			t.Fatalf("normalizeLimit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
