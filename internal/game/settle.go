package game

import (
	"context"

	"github.com/rs/zerolog/log"

	"chess-wager/internal/economy"
	"chess-wager/internal/escrow"
)

type Refund struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// GameOverResult is the one-shot settlement outcome of a match.
type GameOverResult struct {
	GameID       string    `json:"game_id"`
	Winner       Color     `json:"winner,omitempty"`
	Loser        Color     `json:"loser,omitempty"`
	Reason       EndReason `json:"reason"`
	Pot          int64     `json:"pot"`
	WinnerPayout int64     `json:"winner_payout"`
	LoserPayout  int64     `json:"loser_payout"`
	PlatformCut  int64     `json:"platform_cut"`
	WhiteAddress string    `json:"white_address"`
	BlackAddress string    `json:"black_address"`
	Refunds      []Refund  `json:"refunds,omitempty"`
}

// settleGame computes the payout for a finished match. Pure: it reads
// the game but never mutates it. Caller holds g.mu and has not yet
// flipped the phase, so an abort before the first move still sees
// awaiting_wagers here.
func settleGame(g *Game, reason EndReason, winner Color, cutPercent int64) GameOverResult {
	res := GameOverResult{
		GameID:       g.ID,
		Reason:       reason,
		Pot:          g.pot,
		WhiteAddress: g.seats[White].Address,
		BlackAddress: g.seats[Black].Address,
	}

	if g.phase == PhaseAwaitingWagers {
		// Match never started: refund confirmed deposits in full,
		// no platform cut, nobody wins money.
		res.Pot = 0
		for _, c := range []Color{White, Black} {
			if g.seats[c].DepositConfirmed {
				res.Refunds = append(res.Refunds, Refund{
					Address: g.seats[c].Address,
					Amount:  g.DepositAmount,
				})
			}
		}
		return res
	}

	depCut, depShare := economy.Split(g.DepositAmount, cutPercent)

	if winner == "" {
		// Draw: each seat recovers its deposit less the platform cut.
		// Capture shares cancel against the opposing deposit leg.
		res.WinnerPayout = depShare
		res.LoserPayout = depShare
		res.PlatformCut = 2 * depCut
		return res
	}

	res.Winner = winner
	res.Loser = winner.Opponent()
	payout := g.DepositAmount + depShare
	platform := depCut
	for _, cp := range g.ledger {
		if cp.Capturer == winner {
			payout += cp.CapturerShare
		}
		platform += cp.PlatformShare
	}
	res.WinnerPayout = payout
	res.PlatformCut = platform
	return res
}

type transfer struct {
	recipient string
	amount    int64
	platform  int64
}

// transfers expands a result into the escrow payouts to broadcast.
func (r GameOverResult) transfers() []transfer {
	if len(r.Refunds) > 0 {
		out := make([]transfer, 0, len(r.Refunds))
		for _, ref := range r.Refunds {
			out = append(out, transfer{recipient: ref.Address, amount: ref.Amount})
		}
		return out
	}
	if r.Winner != "" {
		addr := r.WhiteAddress
		if r.Winner == Black {
			addr = r.BlackAddress
		}
		if r.WinnerPayout == 0 && r.PlatformCut == 0 {
			return nil
		}
		return []transfer{{recipient: addr, amount: r.WinnerPayout, platform: r.PlatformCut}}
	}
	if r.WinnerPayout == 0 && r.PlatformCut == 0 {
		return nil
	}
	half := r.PlatformCut / 2
	return []transfer{
		{recipient: r.WhiteAddress, amount: r.WinnerPayout, platform: half},
		{recipient: r.BlackAddress, amount: r.LoserPayout, platform: r.PlatformCut - half},
	}
}

// afterGameOver performs the settlement side effects: escrow payouts
// and the history record. Runs without the game lock; failures are
// logged, never retried into a double payout.
func (m *Manager) afterGameOver(ctx context.Context, g *Game, res GameOverResult) {
	var settlementRef string
	for _, tr := range res.transfers() {
		txID, err := m.escrow.Settle(ctx, escrow.SettleRequest{
			GameID:          res.GameID,
			Recipient:       tr.recipient,
			RecipientAmount: tr.amount,
			PlatformAmount:  tr.platform,
		})
		if err != nil {
			log.Error().Err(err).
				Str("game_id", res.GameID).
				Str("recipient", tr.recipient).
				Int64("amount", tr.amount).
				Msg("escrow settlement failed")
			continue
		}
		if settlementRef == "" {
			settlementRef = txID
		}
	}

	if m.recorder == nil {
		return
	}
	g.mu.Lock()
	winnerAddr := ""
	if res.Winner != "" {
		winnerAddr = g.seats[res.Winner].Address
	}
	whiteMoves := g.seats[White].MoveCount
	blackMoves := g.seats[Black].MoveCount
	g.mu.Unlock()
	err := m.recorder.RecordGameEnd(ctx, res.GameID, winnerAddr, string(res.Reason),
		res.Pot, res.WinnerPayout, res.PlatformCut, settlementRef, whiteMoves, blackMoves)
	if err != nil {
		log.Error().Err(err).Str("game_id", res.GameID).Msg("record game end failed")
	}
}
