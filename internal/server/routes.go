package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/abczzz13/referral-balance-api/internal/server/middleware"
)

// routes builds the router with the full middleware chain. The IP allowlist
// filter applies uniformly to every route, health and metrics included.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(s.filter.Handler)

	r.Get("/api/referral-balances", s.handleReferralBalances)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
