package engine

import (
	"errors"
	"strings"

	"github.com/notnil/chess"

	"chess-wager/internal/tier"
)

var ErrIllegalMove = errors.New("illegal_move")

// Side is the color to move, "white" or "black".
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// Status is a terminal condition detected after a move, or empty while
// the game continues.
type Status string

const (
	StatusNone                 Status = ""
	StatusCheckmate            Status = "checkmate"
	StatusStalemate            Status = "stalemate"
	StatusThreefoldRepetition  Status = "threefold_repetition"
	StatusFiftyMove            Status = "fifty_move"
	StatusInsufficientMaterial Status = "insufficient_material"
)

// Applied describes a legal move after it has been played.
type Applied struct {
	UCI      string
	SAN      string
	Mover    Side
	Captured tier.PieceKind // empty when nothing was taken
	Check    bool
	Status   Status
}

// Position wraps a live chess game. It is not safe for concurrent use;
// callers serialize access per game.
type Position struct {
	g *chess.Game
}

func NewPosition() *Position {
	return &Position{g: chess.NewGame()}
}

func (p *Position) SideToMove() Side {
	if p.g.Position().Turn() == chess.Black {
		return Black
	}
	return White
}

// FEN serializes the current position.
func (p *Position) FEN() string {
	return p.g.FEN()
}

// Apply validates and plays a move given in coordinate form. Promotion
// is an optional piece letter (q, r, b, n). Illegal or malformed input
// returns ErrIllegalMove and leaves the position untouched.
func (p *Position) Apply(from, to, promotion string) (Applied, error) {
	uci := strings.ToLower(strings.TrimSpace(from) + strings.TrimSpace(to) + strings.TrimSpace(promotion))
	pos := p.g.Position()
	mover := p.SideToMove()

	decoded, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return Applied{}, ErrIllegalMove
	}
	var mv *chess.Move
	for _, valid := range pos.ValidMoves() {
		if valid.S1() == decoded.S1() && valid.S2() == decoded.S2() && valid.Promo() == decoded.Promo() {
			mv = valid
			break
		}
	}
	if mv == nil {
		return Applied{}, ErrIllegalMove
	}

	captured := capturedKind(pos, mv)
	san := chess.AlgebraicNotation{}.Encode(pos, mv)
	if err := p.g.Move(mv); err != nil {
		return Applied{}, ErrIllegalMove
	}

	return Applied{
		UCI:      uci,
		SAN:      san,
		Mover:    mover,
		Captured: captured,
		Check:    mv.HasTag(chess.Check),
		Status:   p.terminalStatus(),
	}, nil
}

func capturedKind(pos *chess.Position, mv *chess.Move) tier.PieceKind {
	if mv.HasTag(chess.EnPassant) {
		return tier.Pawn
	}
	if !mv.HasTag(chess.Capture) {
		return ""
	}
	piece := pos.Board().Piece(mv.S2())
	if piece == chess.NoPiece {
		return tier.Pawn
	}
	switch piece.Type() {
	case chess.Queen:
		return tier.Queen
	case chess.Rook:
		return tier.Rook
	case chess.Bishop:
		return tier.Bishop
	case chess.Knight:
		return tier.Knight
	default:
		return tier.Pawn
	}
}

// terminalStatus reports the condition that ended the game, claiming
// repetition and fifty-move draws on the players' behalf. The server
// ends such games immediately rather than waiting for a claim.
func (p *Position) terminalStatus() Status {
	if p.g.Outcome() == chess.NoOutcome {
		for _, method := range p.g.EligibleDraws() {
			switch method {
			case chess.ThreefoldRepetition, chess.FiftyMoveRule:
				_ = p.g.Draw(method)
			}
		}
	}
	switch p.g.Method() {
	case chess.Checkmate:
		return StatusCheckmate
	case chess.Stalemate:
		return StatusStalemate
	case chess.ThreefoldRepetition, chess.FivefoldRepetition:
		return StatusThreefoldRepetition
	case chess.FiftyMoveRule, chess.SeventyFiveMoveRule:
		return StatusFiftyMove
	case chess.InsufficientMaterial:
		return StatusInsufficientMaterial
	default:
		return StatusNone
	}
}
