package game

import (
	"context"
	"time"
)

// Disconnect handles a dropped connection. Before both wagers are in
// the match is simply voided with refunds. Once money is at stake the
// seat keeps its state and a reconnect grace clock starts; all other
// clocks stop so the absent player is only racing one deadline.
func (m *Manager) Disconnect(ctx context.Context, connID string) {
	g, err := m.lookupByConn(connID)
	if err != nil {
		return
	}
	g.mu.Lock()
	s := g.seatByConn(connID)
	if s == nil || g.phase == PhaseGameOver {
		g.mu.Unlock()
		return
	}

	if g.phase == PhaseAwaitingWagers {
		res := m.finishLocked(g, EndDisconnect, "")
		g.mu.Unlock()
		m.afterGameOver(ctx, g, res)
		return
	}

	s.Connected = false
	s.DisconnectedAt = time.Now()
	m.timers.cancel(turnKey(g.ID))
	m.timers.cancel(pauseKey(g.ID))
	color := s.Color
	m.timers.schedule(graceKey(g.ID, color), m.cfg.ReconnectGrace, func() {
		m.graceExpired(g.ID, color)
	})
	g.events.Append(EventSeatDisconnected, g.ID, map[string]any{
		"color":    color,
		"deadline": time.Now().Add(m.cfg.ReconnectGrace).UnixMilli(),
	})
	g.mu.Unlock()
}

// Reconnect rebinds a seat to a fresh connection. The address must
// match the seat exactly; a mismatch leaves the game untouched. On
// success the grace clock stops and the clock matching the current
// phase restarts from its full duration.
func (m *Manager) Reconnect(gameID, address, connID string) (*Game, error) {
	g, err := m.LookupByID(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	if g.phase == PhaseGameOver {
		g.mu.Unlock()
		return nil, ErrGameOver
	}
	s := g.seatByAddress(address)
	if s == nil {
		g.mu.Unlock()
		return nil, ErrAddressMismatch
	}

	oldConn := s.ConnID
	s.ConnID = connID
	s.Connected = true
	s.DisconnectedAt = time.Time{}
	m.timers.cancel(graceKey(g.ID, s.Color))

	bothConnected := g.seats[White].Connected && g.seats[Black].Connected
	switch {
	case g.phase == PhasePlaying && bothConnected:
		m.timers.schedule(turnKey(g.ID), m.cfg.TurnClock, func() { m.turnClockExpired(g.ID) })
	case g.phase == PhasePaused && bothConnected:
		m.timers.schedule(pauseKey(g.ID), m.cfg.FundsPause, func() { m.pauseClockExpired(g.ID) })
	}
	g.events.Append(EventSeatReconnected, g.ID, map[string]any{"color": s.Color})
	g.mu.Unlock()

	m.mu.Lock()
	if oldConn != connID {
		delete(m.byConn, oldConn)
	}
	m.byConn[connID] = g.ID
	m.mu.Unlock()
	return g, nil
}

// Timer expiry handlers. Each re-locks the game and re-checks phase:
// a handler that lost the race to a move, resume or reconnect is a
// no-op.

func (m *Manager) turnClockExpired(gameID string) {
	g, err := m.LookupByID(gameID)
	if err != nil {
		return
	}
	g.mu.Lock()
	if g.phase != PhasePlaying {
		g.mu.Unlock()
		return
	}
	mover := Color(g.pos.SideToMove())
	res := m.finishLocked(g, EndTimeout, mover.Opponent())
	g.mu.Unlock()
	m.afterGameOver(context.Background(), g, res)
}

func (m *Manager) pauseClockExpired(gameID string) {
	g, err := m.LookupByID(gameID)
	if err != nil {
		return
	}
	g.mu.Lock()
	if g.phase != PhasePaused || g.pause == nil {
		g.mu.Unlock()
		return
	}
	winner := g.pause.Seat.Opponent()
	res := m.finishLocked(g, EndInsufficientFunds, winner)
	g.mu.Unlock()
	m.afterGameOver(context.Background(), g, res)
}

func (m *Manager) graceExpired(gameID string, c Color) {
	g, err := m.LookupByID(gameID)
	if err != nil {
		return
	}
	g.mu.Lock()
	if g.phase == PhaseGameOver || g.phase == PhaseAwaitingWagers {
		g.mu.Unlock()
		return
	}
	s := g.seats[c]
	if s.Connected {
		g.mu.Unlock()
		return
	}
	res := m.finishLocked(g, EndDisconnect, c.Opponent())
	g.mu.Unlock()
	m.afterGameOver(context.Background(), g, res)
}
