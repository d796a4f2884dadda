package game

import (
	"testing"

	"chess-wager/internal/engine"
	"chess-wager/internal/tier"
)

func testGame(phase Phase, deposit int64) *Game {
	return &Game{
		ID:            "g1",
		DepositAmount: deposit,
		BaseAmount:    deposit,
		phase:         phase,
		pos:           engine.NewPosition(),
		seats: map[Color]*Seat{
			White: {Address: "addr_w", Color: White, DepositConfirmed: phase != PhaseAwaitingWagers},
			Black: {Address: "addr_b", Color: Black, DepositConfirmed: phase != PhaseAwaitingWagers},
		},
		events: NewEventBuffer(16),
	}
}

func TestSettleDecisiveNoCaptures(t *testing.T) {
	g := testGame(PhasePlaying, 200000)
	g.pot = 400000

	res := settleGame(g, EndCheckmate, White, 3)
	if res.Winner != White || res.Loser != Black {
		t.Fatalf("winner/loser = %s/%s", res.Winner, res.Loser)
	}
	if res.WinnerPayout != 394000 {
		t.Fatalf("winner payout = %d, want 394000", res.WinnerPayout)
	}
	if res.PlatformCut != 6000 {
		t.Fatalf("platform cut = %d, want 6000", res.PlatformCut)
	}
	if res.WinnerPayout+res.PlatformCut != res.Pot {
		t.Fatalf("payout %d + cut %d != pot %d", res.WinnerPayout, res.PlatformCut, res.Pot)
	}
}

func TestSettleDecisiveWithCaptures(t *testing.T) {
	g := testGame(PhasePlaying, 200000)
	// white took a pawn: 20% of base, split 3%
	g.ledger = []CapturePayment{{
		Victim: Black, Capturer: White, Piece: tier.Pawn,
		Amount: 40000, CapturerShare: 38800, PlatformShare: 1200,
	}}
	g.pot = 440000

	res := settleGame(g, EndResignation, White, 3)
	if res.WinnerPayout != 394000+38800 {
		t.Fatalf("winner payout = %d, want %d", res.WinnerPayout, 394000+38800)
	}
	if res.PlatformCut != 6000+1200 {
		t.Fatalf("platform cut = %d, want 7200", res.PlatformCut)
	}
	if res.WinnerPayout+res.PlatformCut != res.Pot {
		t.Fatalf("payout %d + cut %d != pot %d", res.WinnerPayout, res.PlatformCut, res.Pot)
	}
}

func TestSettleLoserCapturesStayInEscrow(t *testing.T) {
	g := testGame(PhasePlaying, 200000)
	g.ledger = []CapturePayment{{
		Victim: White, Capturer: Black, Piece: tier.Knight,
		Amount: 140000, CapturerShare: 135800, PlatformShare: 4200,
	}}
	g.pot = 540000

	res := settleGame(g, EndTimeout, White, 3)
	// loser's capture share is forfeit; only its platform part moves
	if res.WinnerPayout != 394000 {
		t.Fatalf("winner payout = %d, want 394000", res.WinnerPayout)
	}
	if res.PlatformCut != 6000+4200 {
		t.Fatalf("platform cut = %d, want 10200", res.PlatformCut)
	}
}

func TestSettleDraw(t *testing.T) {
	g := testGame(PhasePlaying, 200000)
	g.pot = 400000

	res := settleGame(g, EndDrawAgreement, "", 3)
	if res.Winner != "" {
		t.Fatalf("draw should have no winner, got %s", res.Winner)
	}
	if res.WinnerPayout != 194000 || res.LoserPayout != 194000 {
		t.Fatalf("draw shares = %d/%d, want 194000 each", res.WinnerPayout, res.LoserPayout)
	}
	if res.PlatformCut != 12000 {
		t.Fatalf("platform cut = %d, want 12000", res.PlatformCut)
	}
	if res.WinnerPayout+res.LoserPayout+res.PlatformCut != 2*g.DepositAmount {
		t.Fatal("draw settlement must conserve both deposits")
	}
}

func TestSettleAwaitingWagersRefund(t *testing.T) {
	g := testGame(PhaseAwaitingWagers, 200000)
	g.seats[White].DepositConfirmed = true
	g.pot = 200000

	res := settleGame(g, EndDisconnect, "", 3)
	if res.Pot != 0 {
		t.Fatalf("aborted game pot = %d, want 0", res.Pot)
	}
	if len(res.Refunds) != 1 {
		t.Fatalf("refunds = %d, want 1", len(res.Refunds))
	}
	if res.Refunds[0].Address != "addr_w" || res.Refunds[0].Amount != 200000 {
		t.Fatalf("unexpected refund: %+v", res.Refunds[0])
	}
	if res.WinnerPayout != 0 || res.PlatformCut != 0 {
		t.Fatal("aborted game must not pay out or take a cut")
	}
}

func TestTransfersDrawSplitsCut(t *testing.T) {
	res := GameOverResult{
		GameID: "g1", Pot: 400000,
		WinnerPayout: 194000, LoserPayout: 194000, PlatformCut: 12000,
		WhiteAddress: "addr_w", BlackAddress: "addr_b",
	}
	trs := res.transfers()
	if len(trs) != 2 {
		t.Fatalf("transfers = %d, want 2", len(trs))
	}
	if trs[0].platform+trs[1].platform != 12000 {
		t.Fatalf("platform split = %d+%d, want 12000", trs[0].platform, trs[1].platform)
	}
}

func TestTransfersRefundsCarryNoCut(t *testing.T) {
	res := GameOverResult{
		GameID:  "g1",
		Refunds: []Refund{{Address: "addr_w", Amount: 200000}},
	}
	trs := res.transfers()
	if len(trs) != 1 || trs[0].platform != 0 || trs[0].amount != 200000 {
		t.Fatalf("unexpected transfers: %+v", trs)
	}
}
