package engine

import (
	"errors"
	"strings"
	"testing"

	"chess-wager/internal/tier"
)

func playAll(t *testing.T, p *Position, moves ...string) Applied {
	t.Helper()
	var last Applied
	for _, mv := range moves {
		from, to, promo := mv[:2], mv[2:4], mv[4:]
		applied, err := p.Apply(from, to, promo)
		if err != nil {
			t.Fatalf("apply %s: %v", mv, err)
		}
		last = applied
	}
	return last
}

func TestApplyTracksSideToMove(t *testing.T) {
	p := NewPosition()
	if p.SideToMove() != White {
		t.Fatalf("side to move = %s, want white", p.SideToMove())
	}
	applied := playAll(t, p, "e2e4")
	if applied.Mover != White || applied.Captured != "" {
		t.Fatalf("unexpected applied move: %+v", applied)
	}
	if p.SideToMove() != Black {
		t.Fatalf("side to move = %s, want black", p.SideToMove())
	}
}

func TestApplyRejectsIllegal(t *testing.T) {
	p := NewPosition()
	before := p.FEN()
	cases := [][3]string{
		{"e2", "e5", ""}, // pawn cannot jump three
		{"e7", "e5", ""}, // not white's piece
		{"zz", "e4", ""}, // malformed square
	}
	for _, c := range cases {
		if _, err := p.Apply(c[0], c[1], c[2]); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("apply %v: expected ErrIllegalMove, got %v", c, err)
		}
	}
	if p.FEN() != before {
		t.Fatal("rejected moves must not mutate the position")
	}
}

func TestApplyDetectsCapture(t *testing.T) {
	p := NewPosition()
	applied := playAll(t, p, "e2e4", "d7d5", "e4d5")
	if applied.Captured != tier.Pawn {
		t.Fatalf("captured = %q, want pawn", applied.Captured)
	}
	if applied.Mover != White {
		t.Fatalf("mover = %s, want white", applied.Mover)
	}
}

func TestApplyDetectsEnPassant(t *testing.T) {
	p := NewPosition()
	applied := playAll(t, p, "e2e4", "a7a6", "e4e5", "d7d5", "e5d6")
	if applied.Captured != tier.Pawn {
		t.Fatalf("en passant captured = %q, want pawn", applied.Captured)
	}
}

func TestApplyDetectsCheckmate(t *testing.T) {
	p := NewPosition()
	applied := playAll(t, p, "f2f3", "e7e5", "g2g4", "d8h4")
	if applied.Status != StatusCheckmate {
		t.Fatalf("status = %q, want checkmate", applied.Status)
	}
	if applied.Mover != Black {
		t.Fatalf("mover = %s, want black", applied.Mover)
	}
	if !applied.Check {
		t.Fatal("mating move should carry check")
	}
}

func TestApplyClaimsThreefoldRepetition(t *testing.T) {
	p := NewPosition()
	applied := playAll(t, p,
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	)
	if applied.Status != StatusThreefoldRepetition {
		t.Fatalf("status = %q, want threefold_repetition", applied.Status)
	}
}

func TestFENSerialization(t *testing.T) {
	p := NewPosition()
	playAll(t, p, "e2e4")
	fen := p.FEN()
	if !strings.Contains(fen, " b ") {
		t.Fatalf("expected black to move in FEN, got %q", fen)
	}
}
