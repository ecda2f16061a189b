package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/fastprodman/stakehouse/internal/engine"
	"github.com/fastprodman/stakehouse/internal/repos/accounts"
	"github.com/fastprodman/stakehouse/internal/repos/games"
	"github.com/fastprodman/stakehouse/internal/repos/platform"
	"github.com/go-chi/chi/v5"
)

// HandlerProvider wraps the engine and exposes HTTP handlers.
type HandlerProvider struct {
	eng *engine.Engine

	// admission queues state-mutating requests so they reach the engine
	// one at a time in arrival order. The engine's own guard then only
	// fires on genuine re-entry (a collaborator calling back in).
	admission sync.Mutex
}

// NewHandler returns a new Handler provider.
func NewHandler(eng *engine.Engine) *HandlerProvider {
	return &HandlerProvider{eng: eng}
}

// serialized wraps a mutating handler with the admission queue.
func (h *HandlerProvider) serialized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.admission.Lock()
		defer h.admission.Unlock()

		next(w, r)
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotOwner),
		errors.Is(err, engine.ErrNotAuthorized),
		errors.Is(err, engine.ErrInvalidIdentity):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrPaused):
		writeError(w, http.StatusServiceUnavailable, "engine is paused")
	case errors.Is(err, engine.ErrReentrantCall):
		writeError(w, http.StatusConflict, "request rejected: engine busy")
	case errors.Is(err, engine.ErrZeroAmount),
		errors.Is(err, engine.ErrNotMultipleOfRatio),
		errors.Is(err, engine.ErrBetOutOfBounds),
		errors.Is(err, engine.ErrAmountOverflow):
		writeError(w, http.StatusBadRequest, unwrapMsg(err))
	case errors.Is(err, engine.ErrUnknownGame),
		errors.Is(err, games.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "unknown game type")
	case errors.Is(err, accounts.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, engine.ErrGameInactive),
		errors.Is(err, accounts.ErrInsufficientFunds),
		errors.Is(err, platform.ErrCustodyShortfall),
		errors.Is(err, platform.ErrReserveShortfall),
		errors.Is(err, platform.ErrFeeShortfall),
		errors.Is(err, engine.ErrMinterNotLinked),
		errors.Is(err, engine.ErrNoTreasury),
		errors.Is(err, engine.ErrNoAccruedFees):
		writeError(w, http.StatusConflict, unwrapMsg(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// unwrapMsg strips the wrapping context so clients see the sentinel text,
// not the internal call chain.
func unwrapMsg(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}

		err = inner
	}
}

func pathIdentity(r *http.Request) (string, error) {
	identity := strings.TrimSpace(chi.URLParam(r, "identity"))
	if identity == "" {
		return "", fmt.Errorf("missing identity")
	}

	return identity, nil
}

// callerIdentity reads X-Caller, falling back to the given default (the
// path identity on account routes, empty on admin routes).
func callerIdentity(r *http.Request, fallback string) string {
	caller := strings.TrimSpace(r.Header.Get("X-Caller"))
	if caller == "" {
		return fallback
	}

	return caller
}

// decodeBody parses a JSON body into dst: 1MB cap, unknown fields rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	return nil
}
