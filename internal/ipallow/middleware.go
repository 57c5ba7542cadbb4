package ipallow

import (
	"fmt"
	"net/http"
)

// deniedBody is the fixed payload returned for denied requests.
const deniedBody = `{"error": "Access denied. Your IP is not whitelisted."}`

// Filter makes allow/deny decisions for inbound requests against an
// immutable rule list.
//
// Filter instances are safe for concurrent reuse. They are typically created
// once at application startup and shared across all requests.
type Filter struct {
	config *config
}

// New creates a Filter from one or more Option builders.
func New(opts ...Option) (*Filter, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	for range cfg.rules.Invalid() {
		cfg.metrics.RecordInvalidRule()
	}

	return &Filter{config: cfg}, nil
}

// Decision is the outcome of evaluating one request.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Reason is the reason constant that produced the decision.
	Reason string
	// ClientAddress is the resolved effective client address. Empty when the
	// decision was made before resolution (fail-open) or nothing resolved.
	ClientAddress string
}

// Decide evaluates the request against the rule list. It is pure computation
// over request metadata: no I/O, no locks, and the same request against the
// same rules always yields the same decision.
func (f *Filter) Decide(r *http.Request) Decision {
	if !f.config.rules.Active() {
		return Decision{Allowed: true, Reason: ReasonFailOpen}
	}

	addr := ResolveClientAddress(r.RemoteAddr, r.Header)
	if addr == "" {
		return Decision{Allowed: false, Reason: ReasonNoClientAddress}
	}

	if f.config.rules.IsAllowed(addr) {
		return Decision{Allowed: true, Reason: ReasonRuleMatched, ClientAddress: addr}
	}

	return Decision{Allowed: false, Reason: ReasonNoRuleMatched, ClientAddress: addr}
}

// Handler wraps next with access-decision enforcement. Denied requests
// receive a 403 with a fixed JSON payload and never reach next.
func (f *Filter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := f.Decide(r)

		outcome := outcomeDeny
		if decision.Allowed {
			outcome = outcomeAllow
		}
		f.config.metrics.RecordDecision(outcome, decision.Reason)

		if decision.Allowed {
			next.ServeHTTP(w, r)
			return
		}

		f.config.logger.WarnContext(r.Context(), "request denied by IP allowlist",
			"reason", decision.Reason,
			"client_address", decision.ClientAddress,
			"remote_addr", r.RemoteAddr,
			"path", requestPath(r),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(deniedBody))
	})
}

func requestPath(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Path
}
