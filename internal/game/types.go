package game

import (
	"sync"
	"time"

	"chess-wager/internal/engine"
	"chess-wager/internal/tier"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

type Phase string

const (
	PhaseAwaitingWagers Phase = "awaiting_wagers"
	PhasePlaying        Phase = "playing"
	PhasePaused         Phase = "paused"
	PhaseGameOver       Phase = "gameover"
)

type EndReason string

const (
	EndCheckmate            EndReason = "checkmate"
	EndStalemate            EndReason = "stalemate"
	EndThreefoldRepetition  EndReason = "threefold_repetition"
	EndFiftyMove            EndReason = "fifty_move"
	EndInsufficientMaterial EndReason = "insufficient_material"
	EndResignation          EndReason = "resignation"
	EndDrawAgreement        EndReason = "draw_agreement"
	EndTimeout              EndReason = "timeout"
	EndDisconnect           EndReason = "disconnect"
	EndInsufficientFunds    EndReason = "insufficient_funds"
)

// SeatInput identifies one player joining a match.
type SeatInput struct {
	ConnID      string
	Address     string
	DisplayName string
}

type Seat struct {
	ConnID           string
	Address          string
	DisplayName      string
	Color            Color
	DepositConfirmed bool
	MoveCount        int
	Connected        bool
	DisconnectedAt   time.Time
}

// CapturePayment is one entry in a game's capture ledger. Amount is
// split between the capturer and the platform at capture time; the
// split only moves on settlement.
type CapturePayment struct {
	Victim        Color          `json:"victim"`
	Capturer      Color          `json:"capturer"`
	Piece         tier.PieceKind `json:"piece"`
	Amount        int64          `json:"amount"`
	CapturerShare int64          `json:"capturer_share"`
	PlatformShare int64          `json:"platform_share"`
}

type PauseState struct {
	Seat   Color
	At     time.Time
	Reason string
}

type AppliedMove struct {
	Number   int            `json:"number"`
	Color    Color          `json:"color"`
	UCI      string         `json:"uci"`
	SAN      string         `json:"san"`
	Captured tier.PieceKind `json:"captured,omitempty"`
}

// Game holds all mutable state of one wagered match. Every field below
// mu is guarded by it; Tier, DepositAmount, BaseAmount, EscrowAddress
// and PriceAtStart are fixed at creation and safe to read unlocked.
type Game struct {
	ID            string
	Tier          tier.Tier
	EscrowAddress string
	DepositAmount int64
	BaseAmount    int64
	PriceAtStart  float64
	Created       time.Time

	mu          sync.Mutex
	phase       Phase
	pos         *engine.Position
	seats       map[Color]*Seat
	pot         int64
	ledger      []CapturePayment
	moves       []AppliedMove
	pause       *PauseState
	drawOfferBy Color
	started     time.Time
	ended       time.Time
	endReason   EndReason
	winner      Color
	result      *GameOverResult

	events *EventBuffer
}

func (g *Game) seat(c Color) *Seat {
	return g.seats[c]
}

func (g *Game) seatByConn(connID string) *Seat {
	for _, s := range g.seats {
		if s.ConnID == connID {
			return s
		}
	}
	return nil
}

func (g *Game) seatByAddress(address string) *Seat {
	for _, s := range g.seats {
		if s.Address == address {
			return s
		}
	}
	return nil
}

func (g *Game) Events() *EventBuffer {
	return g.events
}

// Result returns the settlement outcome once the game is over.
func (g *Game) Result() (GameOverResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result == nil {
		return GameOverResult{}, false
	}
	return *g.result, true
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

type SeatView struct {
	Color            Color  `json:"color"`
	Address          string `json:"address"`
	DisplayName      string `json:"display_name"`
	DepositConfirmed bool   `json:"deposit_confirmed"`
	Connected        bool   `json:"connected"`
	MoveCount        int    `json:"move_count"`
}

// Snapshot is the full authoritative view of a game, used for HTTP
// state reads and reconnect catch-up.
type Snapshot struct {
	GameID        string           `json:"game_id"`
	Phase         Phase            `json:"phase"`
	TierID        string           `json:"tier_id"`
	EscrowAddress string           `json:"escrow_address"`
	DepositUnits  int64            `json:"deposit_units"`
	BaseUnits     int64            `json:"base_units"`
	Pot           int64            `json:"pot"`
	FEN           string           `json:"fen"`
	SideToMove    string           `json:"side_to_move"`
	Seats         []SeatView       `json:"seats"`
	Moves         []AppliedMove    `json:"moves"`
	Captures      []CapturePayment `json:"captures"`
	PausedSeat    Color            `json:"paused_seat,omitempty"`
	DrawOfferBy   Color            `json:"draw_offer_by,omitempty"`
	Winner        Color            `json:"winner,omitempty"`
	EndReason     EndReason        `json:"end_reason,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{
		GameID:        g.ID,
		Phase:         g.phase,
		TierID:        g.Tier.ID,
		EscrowAddress: g.EscrowAddress,
		DepositUnits:  g.DepositAmount,
		BaseUnits:     g.BaseAmount,
		Pot:           g.pot,
		FEN:           g.pos.FEN(),
		SideToMove:    string(g.pos.SideToMove()),
		Moves:         append([]AppliedMove(nil), g.moves...),
		Captures:      append([]CapturePayment(nil), g.ledger...),
		DrawOfferBy:   g.drawOfferBy,
		Winner:        g.winner,
		EndReason:     g.endReason,
	}
	if g.pause != nil {
		snap.PausedSeat = g.pause.Seat
	}
	for _, c := range []Color{White, Black} {
		s := g.seats[c]
		snap.Seats = append(snap.Seats, SeatView{
			Color:            s.Color,
			Address:          s.Address,
			DisplayName:      s.DisplayName,
			DepositConfirmed: s.DepositConfirmed,
			Connected:        s.Connected,
			MoveCount:        s.MoveCount,
		})
	}
	return snap
}
