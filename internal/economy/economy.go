package economy

import (
	"errors"
	"math"

	"chess-wager/internal/tier"
)

// AssetScale is the number of base units per whole settlement asset.
const AssetScale = 100_000_000

var ErrInvalidPrice = errors.New("invalid_price")

// ToAssetUnits converts a USD cent amount into settlement-asset base
// units at the given USD price per whole asset. Rounding is always up
// so escrow never under-collects.
func ToAssetUnits(cents int64, priceUSD float64) (int64, error) {
	if priceUSD <= 0 {
		return 0, ErrInvalidPrice
	}
	units := math.Ceil(float64(cents) / 100.0 / priceUSD * AssetScale)
	return int64(units), nil
}

// CaptureAmount prices the capture of the given piece kind against the
// tier base amount, rounded up.
func CaptureAmount(baseAmount int64, kind tier.PieceKind) int64 {
	return ceilPercent(baseAmount, tier.CapturePercent(kind))
}

// Split divides an amount into the platform share (rounded up) and the
// capturer share (the remainder).
func Split(amount int64, cutPercent int64) (platform, capturer int64) {
	platform = ceilPercent(amount, cutPercent)
	return platform, amount - platform
}

// WorstCaseRequirement is the balance a seat must hold to cover its
// deposit plus every possible capture against its full army, with a
// 10% buffer.
func WorstCaseRequirement(depositAmount, baseAmount int64) int64 {
	captures := baseAmount * tier.ArmyPercentSum()
	// captures is in percent-units; apply the 1.1 buffer and round up.
	buffered := captures * 110
	return depositAmount + (buffered+100*100-1)/(100*100)
}

func ceilPercent(amount, percent int64) int64 {
	return (amount*percent + 99) / 100
}
