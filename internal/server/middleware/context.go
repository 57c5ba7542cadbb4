// Package middleware provides the ambient HTTP middleware for the referral
// balance API: request IDs, structured request logging, panic recovery, and
// the permissive CORS policy.
package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// requestIDKey stores the unique request ID.
	requestIDKey contextKey = "request_id"
)
