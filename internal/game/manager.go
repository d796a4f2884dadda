package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chess-wager/internal/economy"
	"chess-wager/internal/engine"
	"chess-wager/internal/escrow"
	"chess-wager/internal/oracle"
	"chess-wager/internal/store"
	"chess-wager/internal/tier"
)

// Recorder persists game lifecycle facts. Nil disables persistence.
type Recorder interface {
	RecordGameStart(ctx context.Context, gameID, tierID, whiteAddress, blackAddress string) error
	RecordGameEnd(ctx context.Context, gameID, winnerAddress, reason string,
		pot, winnerPayout, platformCut int64, settlementRef string, whiteMoves, blackMoves int) error
}

type Config struct {
	TurnClock          time.Duration
	FundsPause         time.Duration
	ReconnectGrace     time.Duration
	Retention          time.Duration
	PlatformCutPercent int64
}

func DefaultConfig() Config {
	return Config{
		TurnClock:          5 * time.Minute,
		FundsPause:         60 * time.Second,
		ReconnectGrace:     2 * time.Minute,
		Retention:          10 * time.Minute,
		PlatformCutPercent: tier.PlatformCutPercent,
	}
}

// Manager owns every live game. The registry maps are guarded by
// Manager.mu; per-game state is guarded by each Game's own lock, and
// Manager.mu is never taken while a game lock is held.
type Manager struct {
	cfg      Config
	oracle   oracle.Oracle
	escrow   escrow.Service
	recorder Recorder
	timers   *timerSet

	mu     sync.Mutex
	games  map[string]*Game
	byConn map[string]string
}

func NewManager(cfg Config, o oracle.Oracle, esc escrow.Service, rec Recorder) *Manager {
	def := DefaultConfig()
	if cfg.TurnClock <= 0 {
		cfg.TurnClock = def.TurnClock
	}
	if cfg.FundsPause <= 0 {
		cfg.FundsPause = def.FundsPause
	}
	if cfg.ReconnectGrace <= 0 {
		cfg.ReconnectGrace = def.ReconnectGrace
	}
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	if cfg.PlatformCutPercent <= 0 {
		cfg.PlatformCutPercent = def.PlatformCutPercent
	}
	return &Manager{
		cfg:      cfg,
		oracle:   o,
		escrow:   esc,
		recorder: rec,
		timers:   newTimerSet(),
		games:    map[string]*Game{},
		byConn:   map[string]string{},
	}
}

// CreateGame pairs two players into a fresh match at the given tier.
// Colors are assigned randomly; the game starts in awaiting_wagers
// with both deposits pending against a dedicated escrow address.
func (m *Manager) CreateGame(ctx context.Context, a, b SeatInput, tierID string) (*Game, error) {
	tr, ok := tier.Lookup(tierID)
	if !ok {
		return nil, ErrTierNotFound
	}
	price, err := m.oracle.Price(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	deposit, err := economy.ToAssetUnits(tr.DepositCents, price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	base, err := economy.ToAssetUnits(tr.BaseCents, price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	if rand.Intn(2) == 1 {
		a, b = b, a
	}

	id := store.NewID()
	address, err := m.escrow.GameAddress(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("escrow address: %w", err)
	}

	g := &Game{
		ID:            id,
		Tier:          tr,
		EscrowAddress: address,
		DepositAmount: deposit,
		BaseAmount:    base,
		PriceAtStart:  price,
		Created:       time.Now(),
		phase:         PhaseAwaitingWagers,
		pos:           engine.NewPosition(),
		seats: map[Color]*Seat{
			White: {ConnID: a.ConnID, Address: a.Address, DisplayName: a.DisplayName, Color: White, Connected: a.ConnID != ""},
			Black: {ConnID: b.ConnID, Address: b.Address, DisplayName: b.DisplayName, Color: Black, Connected: b.ConnID != ""},
		},
		events: NewEventBuffer(512),
	}

	m.mu.Lock()
	m.games[id] = g
	if a.ConnID != "" {
		m.byConn[a.ConnID] = id
	}
	if b.ConnID != "" {
		m.byConn[b.ConnID] = id
	}
	m.mu.Unlock()

	if m.recorder != nil {
		if err := m.recorder.RecordGameStart(ctx, id, tr.ID, a.Address, b.Address); err != nil {
			log.Error().Err(err).Str("game_id", id).Msg("record game start failed")
		}
	}

	g.events.Append(EventMatchStarted, id, map[string]any{
		"tier":           tr.ID,
		"escrow_address": address,
		"deposit_units":  deposit,
		"base_units":     base,
		"price_usd":      price,
		"white":          a.DisplayName,
		"black":          b.DisplayName,
	})
	log.Info().Str("game_id", id).Str("tier", tr.ID).
		Int64("deposit_units", deposit).Msg("game created")
	return g, nil
}

func (m *Manager) LookupByID(gameID string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) lookupByConn(connID string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byConn[connID]
	if !ok {
		return nil, ErrGameNotFound
	}
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// RemoveGame drops a game from the registry and disarms its timers.
// Safe to call more than once.
func (m *Manager) RemoveGame(gameID string) {
	m.mu.Lock()
	g, ok := m.games[gameID]
	if ok {
		delete(m.games, gameID)
		for conn, id := range m.byConn {
			if id == gameID {
				delete(m.byConn, conn)
			}
		}
	}
	m.mu.Unlock()
	m.timers.cancelGame(gameID)
	if ok {
		g.events.Close()
	}
}

// finishLocked performs the single gameover transition. Caller holds
// g.mu and has already ruled out PhaseGameOver, which is what makes
// settlement one-shot under timer races.
func (m *Manager) finishLocked(g *Game, reason EndReason, winner Color) GameOverResult {
	res := settleGame(g, reason, winner, m.cfg.PlatformCutPercent)
	g.phase = PhaseGameOver
	g.endReason = reason
	g.winner = winner
	g.ended = time.Now()
	g.pause = nil
	g.drawOfferBy = ""
	g.result = &res

	m.timers.cancel(turnKey(g.ID))
	m.timers.cancel(pauseKey(g.ID))
	m.timers.cancel(graceKey(g.ID, White))
	m.timers.cancel(graceKey(g.ID, Black))
	m.timers.schedule(retainKey(g.ID), m.cfg.Retention, func() { m.RemoveGame(g.ID) })

	g.events.Append(EventGameOver, g.ID, map[string]any{
		"reason":        reason,
		"winner":        winner,
		"pot":           res.Pot,
		"winner_payout": res.WinnerPayout,
		"platform_cut":  res.PlatformCut,
		"refunds":       res.Refunds,
	})
	log.Info().Str("game_id", g.ID).Str("reason", string(reason)).
		Str("winner", string(winner)).Int64("pot", res.Pot).Msg("game over")
	return res
}
