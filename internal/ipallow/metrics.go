package ipallow

// Metrics records access decisions and rule-list conditions emitted by
// Filter.
//
// Implementations should be safe for concurrent use, as a single Filter
// instance is shared across many goroutines.
type Metrics interface {
	// RecordDecision is called once per request with the decision outcome
	// ("allow" or "deny") and the reason constant that produced it.
	RecordDecision(outcome, reason string)
	// RecordInvalidRule is called at construction time for every configured
	// rule excluded from the active match set.
	RecordInvalidRule()
}

// noopMetrics is the default Metrics implementation when metrics are not
// explicitly configured.
type noopMetrics struct{}

func (noopMetrics) RecordDecision(string, string) {}

func (noopMetrics) RecordInvalidRule() {}
