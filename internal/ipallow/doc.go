// Package ipallow implements IP allowlist enforcement for HTTP services:
// rule parsing, CIDR/exact matching, client address resolution, and an
// access-decision middleware.
//
// # Rules
//
// A rule list is built once at startup from a comma-separated configuration
// string. Each entry is either a literal address (v4 or v6) or a CIDR block.
// Three implicit localhost entries (127.0.0.1, ::1, localhost) are always
// appended for local development. Malformed CIDR entries never abort
// construction; they are excluded from the active match set and reported via
// Rules.Invalid so callers can log them.
//
//	rules := ipallow.ParseList("192.168.1.1,10.0.0.0/8,203.0.113.0/24")
//	for _, bad := range rules.Invalid() {
//	    log.Printf("skipping malformed allow rule %q: %v", bad.Raw, bad.Err)
//	}
//
// # Fail-Open Policy
//
// The implicit localhost entries alone never constitute an active allowlist.
// When no other rules are configured, the middleware allows every request.
// This insecure-by-default behavior is intentional: an unconfigured service
// must keep working.
//
// # Middleware
//
//	filter, err := ipallow.New(
//	    ipallow.WithRules(rules),
//	    ipallow.WithLogger(slog.Default()),
//	    ipallow.WithMetrics(metrics),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = filter.Handler(handler)
//
// The effective client address is resolved per request from the transport
// peer address, overridden by the first X-Forwarded-For entry, overridden in
// turn by X-Real-IP. The resolved string is matched as-is; invalid strings
// simply fail to match.
//
// # Thread Safety
//
// Rules and Filter are immutable after construction and safe for concurrent
// use across all requests. The decision path performs no blocking I/O.
package ipallow
