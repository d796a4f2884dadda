package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chess-wager/internal/engine"
	"chess-wager/internal/game"
	"chess-wager/internal/store"
	"chess-wager/internal/tier"
)

func tiersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tiers": tier.All()})
	}
}

type createGameRequest struct {
	TierID  string `json:"tier_id"`
	Players [2]struct {
		Address     string `json:"address"`
		DisplayName string `json:"display_name"`
	} `json:"players"`
}

func createGameHandler(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_body")
			return
		}
		if req.Players[0].Address == "" || req.Players[1].Address == "" ||
			req.Players[0].Address == req.Players[1].Address {
			writeHTTPError(w, http.StatusBadRequest, "invalid_players")
			return
		}
		g, err := manager.CreateGame(r.Context(),
			game.SeatInput{Address: req.Players[0].Address, DisplayName: req.Players[0].DisplayName},
			game.SeatInput{Address: req.Players[1].Address, DisplayName: req.Players[1].DisplayName},
			req.TierID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, g.Snapshot())
	}
}

func gameStateHandler(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := manager.LookupByID(chi.URLParam(r, "game_id"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g.Snapshot())
	}
}

// depositHandler is the escrow watcher's callback: it confirms that a
// seat's wager landed on the game address.
func depositHandler(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Address string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_body")
			return
		}
		err := manager.ConfirmDeposit(r.Context(), chi.URLParam(r, "game_id"), req.Address)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func fundsAddedHandler(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := manager.NotifyFundsAdded(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func historyHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		games, err := st.ListRecentGames(r.Context(), limit)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"games": games})
	}
}

func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrTierNotFound),
		errors.Is(err, store.ErrNotFound):
		writeHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrSeatNotFound), errors.Is(err, game.ErrAddressMismatch):
		writeHTTPError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrWrongPhase), errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrDepositConfirmed), errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNoDrawOffer), errors.Is(err, game.ErrInsufficientFunds):
		writeHTTPError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrIllegalMove):
		writeHTTPError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, game.ErrPriceUnavailable):
		writeHTTPError(w, http.StatusServiceUnavailable, game.ErrPriceUnavailable.Error())
	default:
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
