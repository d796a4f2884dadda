package tier

// PieceKind names a chess piece class for capture pricing.
type PieceKind string

const (
	King   PieceKind = "king"
	Queen  PieceKind = "queen"
	Rook   PieceKind = "rook"
	Bishop PieceKind = "bishop"
	Knight PieceKind = "knight"
	Pawn   PieceKind = "pawn"
)

// Tier is a static stake tier. DepositCents is the forfeit-protection
// stake each seat escrows before play; BaseCents is the reference value
// capture payouts are priced against (100% of the tier).
type Tier struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepositCents int64  `json:"deposit_cents"`
	BaseCents    int64  `json:"base_cents"`
}

// PlatformCutPercent is skimmed from deposits and captures at settlement.
const PlatformCutPercent = 3

var tiers = []Tier{
	{ID: "bronze", Name: "Bronze", DepositCents: 100, BaseCents: 100},
	{ID: "silver", Name: "Silver", DepositCents: 500, BaseCents: 500},
	{ID: "gold", Name: "Gold", DepositCents: 2000, BaseCents: 2000},
	{ID: "diamond", Name: "Diamond", DepositCents: 10000, BaseCents: 10000},
}

// capturePercents prices a capture as a percentage of the tier base.
// King is the checkmate proxy and is never captured in play.
var capturePercents = map[PieceKind]int64{
	King:   100,
	Queen:  90,
	Rook:   80,
	Bishop: 70,
	Knight: 70,
	Pawn:   20,
}

// Lookup returns the tier with the given id. Absence is a normal
// outcome, not a fault.
func Lookup(id string) (Tier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// All returns the catalog in display order.
func All() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// CapturePercent returns the payout percentage for capturing the given
// piece kind, or 0 for an unknown kind.
func CapturePercent(kind PieceKind) int64 {
	return capturePercents[kind]
}

// ArmyPercentSum is the summed capture percentage of one full initial
// army: 8 pawns, 2 rooks, 2 knights, 2 bishops, queen and king.
func ArmyPercentSum() int64 {
	return 8*capturePercents[Pawn] +
		2*capturePercents[Rook] +
		2*capturePercents[Knight] +
		2*capturePercents[Bishop] +
		capturePercents[Queen] +
		capturePercents[King]
}
