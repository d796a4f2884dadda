package game

import (
	"context"
	"time"
)

// ConfirmDeposit marks one seat's escrow deposit as received. When the
// second deposit lands the match flips to playing and white's turn
// clock starts.
func (m *Manager) ConfirmDeposit(ctx context.Context, gameID, address string) error {
	g, err := m.LookupByID(gameID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseGameOver {
		return ErrGameOver
	}
	if g.phase != PhaseAwaitingWagers {
		return ErrWrongPhase
	}
	s := g.seatByAddress(address)
	if s == nil {
		return ErrSeatNotFound
	}
	if s.DepositConfirmed {
		return ErrDepositConfirmed
	}

	s.DepositConfirmed = true
	g.pot += g.DepositAmount
	g.events.Append(EventDepositConfirmed, g.ID, map[string]any{
		"color":   s.Color,
		"address": s.Address,
		"pot":     g.pot,
	})

	if !g.seats[White].DepositConfirmed || !g.seats[Black].DepositConfirmed {
		return nil
	}

	g.phase = PhasePlaying
	g.started = time.Now()
	m.timers.schedule(turnKey(g.ID), m.cfg.TurnClock, func() { m.turnClockExpired(g.ID) })
	g.events.Append(EventGameStarted, g.ID, map[string]any{
		"fen":           g.pos.FEN(),
		"side_to_move":  string(White),
		"turn_deadline": g.started.Add(m.cfg.TurnClock).UnixMilli(),
	})
	return nil
}
