package api

import (
	"net/http"

	"github.com/fastprodman/stakehouse/internal/engine"
	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the router with all API endpoints registered.
// Mutating routes read the acting identity from the X-Caller header; on
// account routes it defaults to the identity in the path.
func NewRouter(eng *engine.Engine) http.Handler {
	h := NewHandler(eng)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/account/{identity}/balance", h.GetBalanceHandler)
	r.Post("/account/{identity}/deposit", h.serialized(h.DepositHandler))
	r.Post("/account/{identity}/withdraw", h.serialized(h.WithdrawHandler))
	r.Post("/account/{identity}/play", h.serialized(h.PlayHandler))

	r.Get("/games/{gameType}", h.GetGameConfigHandler)
	r.Get("/stats", h.GetStatsHandler)

	r.Put("/admin/games/{gameType}", h.serialized(h.SetGameConfigHandler))
	r.Post("/admin/pause", h.serialized(h.PauseHandler))
	r.Post("/admin/unpause", h.serialized(h.UnpauseHandler))
	r.Post("/admin/authorize", h.serialized(h.AuthorizeHandler))
	r.Post("/admin/revoke", h.serialized(h.RevokeHandler))
	r.Put("/admin/treasury", h.serialized(h.SetTreasuryHandler))
	r.Post("/admin/fees/withdraw", h.serialized(h.WithdrawFeesHandler))

	return r
}
