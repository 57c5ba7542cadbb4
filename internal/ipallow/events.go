package ipallow

// Decision outcomes reported to Metrics.
const (
	outcomeAllow = "allow"
	outcomeDeny  = "deny"
)

// Decision reasons.
const (
	// ReasonFailOpen: no rules beyond the implicit localhost entries are
	// configured, so every request is allowed.
	ReasonFailOpen = "fail_open"
	// ReasonRuleMatched: the resolved client address matched a rule.
	ReasonRuleMatched = "rule_matched"
	// ReasonNoRuleMatched: the resolved client address matched no rule.
	ReasonNoRuleMatched = "no_rule_matched"
	// ReasonNoClientAddress: no client address could be resolved from the
	// transport address or proxy headers.
	ReasonNoClientAddress = "no_client_address"
)
