package api

import (
	"net/http"
)

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

type playRequest struct {
	GameType string `json:"gameType"`
	Bet      uint64 `json:"bet"`
	Won      bool   `json:"won"`
}

// GetBalanceHandler handles GET /account/{identity}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := pathIdentity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid identity in path")
		return
	}

	bal, err := h.eng.Balance(r.Context(), identity)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"identity": identity,
		"balance":  bal,
	})
}

// DepositHandler handles POST /account/{identity}/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := pathIdentity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid identity in path")
		return
	}

	var req amountRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := callerIdentity(r, identity)

	err = h.eng.Deposit(r.Context(), caller, identity, req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WithdrawHandler handles POST /account/{identity}/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := pathIdentity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid identity in path")
		return
	}

	var req amountRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := callerIdentity(r, identity)

	err = h.eng.Withdraw(r.Context(), caller, identity, req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PlayHandler handles POST /account/{identity}/play
func (h *HandlerProvider) PlayHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := pathIdentity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid identity in path")
		return
	}

	var req playRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.GameType == "" {
		writeError(w, http.StatusBadRequest, "gameType required")
		return
	}

	caller := callerIdentity(r, identity)

	err = h.eng.PlayGame(r.Context(), caller, identity, req.GameType, req.Bet, req.Won)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
