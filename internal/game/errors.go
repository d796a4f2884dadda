package game

import "errors"

var (
	ErrTierNotFound      = errors.New("tier_not_found")
	ErrGameNotFound      = errors.New("game_not_found")
	ErrSeatNotFound      = errors.New("seat_not_found")
	ErrGameOver          = errors.New("game_over")
	ErrWrongPhase        = errors.New("wrong_phase")
	ErrNotYourTurn       = errors.New("not_your_turn")
	ErrDepositConfirmed  = errors.New("deposit_already_confirmed")
	ErrAddressMismatch   = errors.New("address_mismatch")
	ErrNoDrawOffer       = errors.New("no_draw_offer")
	ErrPriceUnavailable  = errors.New("price_unavailable")
	ErrInsufficientFunds = errors.New("insufficient_funds")
)
