package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fastprodman/stakehouse/internal/engine"
	"github.com/fastprodman/stakehouse/internal/repos/games"
	"github.com/go-chi/chi/v5"
)

type gameConfigRequest struct {
	MinBet        uint64 `json:"minBet"`
	MaxBet        uint64 `json:"maxBet"`
	MultiplierBPS uint64 `json:"multiplierBps"`
	IsActive      bool   `json:"isActive"`
	DisplayName   string `json:"displayName"`
}

type roleRequest struct {
	Role     string `json:"role"`
	Identity string `json:"identity"`
}

type treasuryRequest struct {
	Sink string `json:"sink"`
}

func pathGameType(r *http.Request) (string, error) {
	gameType := strings.TrimSpace(chi.URLParam(r, "gameType"))
	if gameType == "" {
		return "", fmt.Errorf("missing gameType")
	}

	return gameType, nil
}

func parseRole(s string) (engine.Role, bool) {
	switch engine.Role(strings.TrimSpace(s)) {
	case engine.RoleGameManager:
		return engine.RoleGameManager, true
	case engine.RoleMinter:
		return engine.RoleMinter, true
	default:
		return "", false
	}
}

// GetGameConfigHandler handles GET /games/{gameType}
func (h *HandlerProvider) GetGameConfigHandler(w http.ResponseWriter, r *http.Request) {
	gameType, err := pathGameType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := h.eng.GameConfig(r.Context(), gameType)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"gameType":      gameType,
		"minBet":        cfg.MinBet,
		"maxBet":        cfg.MaxBet,
		"multiplierBps": cfg.MultiplierBPS,
		"isActive":      cfg.IsActive,
		"displayName":   cfg.DisplayName,
	})
}

// GetStatsHandler handles GET /stats
func (h *HandlerProvider) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := h.eng.Stats(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"gamesPlayed":   snap.GamesPlayed,
		"volumeWagered": snap.VolumeWagered,
		"totalPayouts":  snap.TotalPayouts,
		"feesAccrued":   snap.FeesAccrued,
		"feesCollected": snap.FeesCollected,
		"nativeReserve": snap.NativeReserve,
		"peggedCustody": snap.PeggedCustody,
		"paused":        h.eng.Paused(),
	})
}

// SetGameConfigHandler handles PUT /admin/games/{gameType}
func (h *HandlerProvider) SetGameConfigHandler(w http.ResponseWriter, r *http.Request) {
	gameType, err := pathGameType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req gameConfigRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.eng.SetGameConfig(r.Context(), callerIdentity(r, ""), gameType, games.Config{
		MinBet:        req.MinBet,
		MaxBet:        req.MaxBet,
		MultiplierBPS: req.MultiplierBPS,
		IsActive:      req.IsActive,
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PauseHandler handles POST /admin/pause
func (h *HandlerProvider) PauseHandler(w http.ResponseWriter, r *http.Request) {
	err := h.eng.Pause(callerIdentity(r, ""))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UnpauseHandler handles POST /admin/unpause
func (h *HandlerProvider) UnpauseHandler(w http.ResponseWriter, r *http.Request) {
	err := h.eng.Unpause(callerIdentity(r, ""))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthorizeHandler handles POST /admin/authorize
func (h *HandlerProvider) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	var req roleRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, ok := parseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if req.Identity == "" {
		writeError(w, http.StatusBadRequest, "identity required")
		return
	}

	err = h.eng.Authorize(callerIdentity(r, ""), role, req.Identity)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RevokeHandler handles POST /admin/revoke
func (h *HandlerProvider) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	var req roleRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, ok := parseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if req.Identity == "" {
		writeError(w, http.StatusBadRequest, "identity required")
		return
	}

	err = h.eng.Revoke(callerIdentity(r, ""), role, req.Identity)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetTreasuryHandler handles PUT /admin/treasury
func (h *HandlerProvider) SetTreasuryHandler(w http.ResponseWriter, r *http.Request) {
	var req treasuryRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Sink == "" {
		writeError(w, http.StatusBadRequest, "sink required")
		return
	}

	err = h.eng.SetTreasury(r.Context(), callerIdentity(r, ""), req.Sink)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WithdrawFeesHandler handles POST /admin/fees/withdraw
func (h *HandlerProvider) WithdrawFeesHandler(w http.ResponseWriter, r *http.Request) {
	err := h.eng.WithdrawFees(r.Context(), callerIdentity(r, ""))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
