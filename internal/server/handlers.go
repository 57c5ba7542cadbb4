package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abczzz13/referral-balance-api/internal/referral"
	mw "github.com/abczzz13/referral-balance-api/internal/server/middleware"
)

// handleReferralBalances serves GET /api/referral-balances. Query failures
// are contained to this request: the error message is surfaced as a 500 and
// the process keeps serving.
func (s *Server) handleReferralBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.store.ListBalances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "referral balance query failed",
			"error", err,
			"request_id", mw.GetRequestID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	if balances == nil {
		balances = []referral.Balance{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": balances,
	})
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
