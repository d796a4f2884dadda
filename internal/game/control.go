package game

import "context"

// Resign ends the match in favor of the resigner's opponent. Resigning
// before both deposits are in aborts the match with full refunds
// instead of awarding the pot.
func (m *Manager) Resign(ctx context.Context, connID string) (GameOverResult, error) {
	g, err := m.lookupByConn(connID)
	if err != nil {
		return GameOverResult{}, err
	}
	g.mu.Lock()
	if g.phase == PhaseGameOver {
		g.mu.Unlock()
		return GameOverResult{}, ErrGameOver
	}
	s := g.seatByConn(connID)
	if s == nil {
		g.mu.Unlock()
		return GameOverResult{}, ErrSeatNotFound
	}
	winner := s.Color.Opponent()
	if g.phase == PhaseAwaitingWagers {
		winner = ""
	}
	res := m.finishLocked(g, EndResignation, winner)
	g.mu.Unlock()

	m.afterGameOver(ctx, g, res)
	return res, nil
}

// OfferDraw records a standing draw offer from the caller's seat. The
// offer survives until accepted, or is cleared by the next move.
func (m *Manager) OfferDraw(connID string) error {
	g, err := m.lookupByConn(connID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseGameOver {
		return ErrGameOver
	}
	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	s := g.seatByConn(connID)
	if s == nil {
		return ErrSeatNotFound
	}
	if g.drawOfferBy == s.Color {
		return nil
	}
	g.drawOfferBy = s.Color
	g.events.Append(EventDrawOffered, g.ID, map[string]any{"color": s.Color})
	return nil
}

// AcceptDraw settles the match as a draw when the opponent has a
// standing offer.
func (m *Manager) AcceptDraw(ctx context.Context, connID string) (GameOverResult, error) {
	g, err := m.lookupByConn(connID)
	if err != nil {
		return GameOverResult{}, err
	}
	g.mu.Lock()
	if g.phase == PhaseGameOver {
		g.mu.Unlock()
		return GameOverResult{}, ErrGameOver
	}
	if g.phase != PhasePlaying {
		g.mu.Unlock()
		return GameOverResult{}, ErrWrongPhase
	}
	s := g.seatByConn(connID)
	if s == nil {
		g.mu.Unlock()
		return GameOverResult{}, ErrSeatNotFound
	}
	if g.drawOfferBy == "" || g.drawOfferBy != s.Color.Opponent() {
		g.mu.Unlock()
		return GameOverResult{}, ErrNoDrawOffer
	}
	res := m.finishLocked(g, EndDrawAgreement, "")
	g.mu.Unlock()

	m.afterGameOver(ctx, g, res)
	return res, nil
}
