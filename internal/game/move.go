package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"chess-wager/internal/economy"
	"chess-wager/internal/engine"
)

// MoveResult reports one applied move back to the caller.
type MoveResult struct {
	UCI      string          `json:"uci"`
	SAN      string          `json:"san"`
	FEN      string          `json:"fen"`
	Check    bool            `json:"check"`
	Capture  *CapturePayment `json:"capture,omitempty"`
	GameOver *GameOverResult `json:"game_over,omitempty"`
}

// SubmitMove validates and applies a move for the connection's seat.
// Captures grow the pot and append to the ledger; a terminal position
// settles immediately, anything else rearms the turn clock for the
// opponent while both seats are connected.
func (m *Manager) SubmitMove(ctx context.Context, connID, from, to, promotion string) (MoveResult, error) {
	g, err := m.lookupByConn(connID)
	if err != nil {
		return MoveResult{}, err
	}

	g.mu.Lock()
	if g.phase == PhaseGameOver {
		g.mu.Unlock()
		return MoveResult{}, ErrGameOver
	}
	if g.phase != PhasePlaying {
		g.mu.Unlock()
		return MoveResult{}, ErrWrongPhase
	}
	s := g.seatByConn(connID)
	if s == nil {
		g.mu.Unlock()
		return MoveResult{}, ErrSeatNotFound
	}
	if Color(g.pos.SideToMove()) != s.Color {
		g.mu.Unlock()
		return MoveResult{}, ErrNotYourTurn
	}

	applied, err := g.pos.Apply(from, to, promotion)
	if err != nil {
		g.mu.Unlock()
		return MoveResult{}, err
	}

	s.MoveCount++
	g.moves = append(g.moves, AppliedMove{
		Number:   len(g.moves) + 1,
		Color:    s.Color,
		UCI:      applied.UCI,
		SAN:      applied.SAN,
		Captured: applied.Captured,
	})
	g.drawOfferBy = ""

	var cp *CapturePayment
	if applied.Captured != "" {
		amount := economy.CaptureAmount(g.BaseAmount, applied.Captured)
		platform, capturer := economy.Split(amount, m.cfg.PlatformCutPercent)
		entry := CapturePayment{
			Victim:        s.Color.Opponent(),
			Capturer:      s.Color,
			Piece:         applied.Captured,
			Amount:        amount,
			CapturerShare: capturer,
			PlatformShare: platform,
		}
		g.ledger = append(g.ledger, entry)
		g.pot += amount
		cp = &entry
	}

	res := MoveResult{
		UCI:     applied.UCI,
		SAN:     applied.SAN,
		FEN:     g.pos.FEN(),
		Check:   applied.Check,
		Capture: cp,
	}
	g.events.Append(EventMoveApplied, g.ID, map[string]any{
		"color":   s.Color,
		"uci":     applied.UCI,
		"san":     applied.SAN,
		"fen":     res.FEN,
		"check":   applied.Check,
		"capture": cp,
		"pot":     g.pot,
	})

	var over *GameOverResult
	if applied.Status != "" {
		r := m.finishLocked(g, reasonForStatus(applied.Status), winnerForStatus(applied.Status, s.Color))
		over = &r
		res.GameOver = over
	} else if g.seats[White].Connected && g.seats[Black].Connected {
		// With a seat on its grace clock the turn clock stays stopped;
		// Reconnect rearms it.
		m.timers.schedule(turnKey(g.ID), m.cfg.TurnClock, func() { m.turnClockExpired(g.ID) })
	}

	var victimColor Color
	var victimAddr string
	if cp != nil && over == nil {
		victimColor = cp.Victim
		victimAddr = g.seats[cp.Victim].Address
	}
	g.mu.Unlock()

	if over != nil {
		m.afterGameOver(ctx, g, *over)
	} else if victimAddr != "" {
		m.checkFunds(ctx, g, victimColor, victimAddr)
	}
	return res, nil
}

func reasonForStatus(st engine.Status) EndReason {
	switch st {
	case engine.StatusCheckmate:
		return EndCheckmate
	case engine.StatusStalemate:
		return EndStalemate
	case engine.StatusThreefoldRepetition:
		return EndThreefoldRepetition
	case engine.StatusFiftyMove:
		return EndFiftyMove
	default:
		return EndInsufficientMaterial
	}
}

func winnerForStatus(st engine.Status, mover Color) Color {
	if st == engine.StatusCheckmate {
		return mover
	}
	return ""
}

// checkFunds pauses the game when the capture victim's balance no
// longer covers the worst remaining downside. Runs after the game lock
// is released since the balance read is remote I/O; the pause itself
// re-checks phase.
func (m *Manager) checkFunds(ctx context.Context, g *Game, victim Color, address string) {
	required := economy.WorstCaseRequirement(g.DepositAmount, g.BaseAmount)
	balance, err := m.escrow.BalanceOf(ctx, address)
	if err != nil {
		log.Warn().Err(err).Str("game_id", g.ID).Str("address", address).
			Msg("balance check failed; skipping funds pause")
		return
	}
	if balance >= required {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhasePlaying {
		return
	}
	g.phase = PhasePaused
	g.pause = &PauseState{Seat: victim, At: time.Now(), Reason: "insufficient_funds"}
	m.timers.cancel(turnKey(g.ID))
	m.timers.schedule(pauseKey(g.ID), m.cfg.FundsPause, func() { m.pauseClockExpired(g.ID) })
	g.events.Append(EventGamePaused, g.ID, map[string]any{
		"seat":     victim,
		"reason":   "insufficient_funds",
		"required": required,
		"balance":  balance,
		"deadline": time.Now().Add(m.cfg.FundsPause).UnixMilli(),
	})
	log.Info().Str("game_id", g.ID).Str("seat", string(victim)).
		Int64("required", required).Int64("balance", balance).Msg("game paused for funds")
}

// NotifyFundsAdded re-checks the blocked seat's balance and resumes
// play when it covers the requirement again.
func (m *Manager) NotifyFundsAdded(ctx context.Context, gameID string) error {
	g, err := m.LookupByID(gameID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.phase != PhasePaused || g.pause == nil {
		g.mu.Unlock()
		if g.Phase() == PhaseGameOver {
			return ErrGameOver
		}
		return ErrWrongPhase
	}
	blocked := g.pause.Seat
	address := g.seats[blocked].Address
	g.mu.Unlock()

	required := economy.WorstCaseRequirement(g.DepositAmount, g.BaseAmount)
	balance, err := m.escrow.BalanceOf(ctx, address)
	if err != nil {
		return err
	}
	if balance < required {
		return ErrInsufficientFunds
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhasePaused || g.pause == nil || g.pause.Seat != blocked {
		return ErrWrongPhase
	}
	g.phase = PhasePlaying
	g.pause = nil
	m.timers.cancel(pauseKey(g.ID))
	if g.seats[White].Connected && g.seats[Black].Connected {
		m.timers.schedule(turnKey(g.ID), m.cfg.TurnClock, func() { m.turnClockExpired(g.ID) })
	}
	g.events.Append(EventGameResumed, g.ID, map[string]any{
		"seat":          blocked,
		"balance":       balance,
		"turn_deadline": time.Now().Add(m.cfg.TurnClock).UnixMilli(),
	})
	return nil
}
