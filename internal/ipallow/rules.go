package ipallow

import (
	"fmt"
	"net/netip"
	"strings"
)

// Implicit localhost entries appended to every rule list. They keep local
// development working but never count toward an active allowlist.
var implicitLocalhostRules = []string{"127.0.0.1", "::1", "localhost"}

// RuleKind classifies a parsed allow rule.
type RuleKind int

const (
	// Start at 1 to avoid zero-value confusion.
	//
	// RuleExact matches by string equality against the resolved client
	// address.
	RuleExact RuleKind = iota + 1
	// RuleCIDR matches by address-in-network containment.
	RuleCIDR
)

// String returns the canonical text representation of k.
func (k RuleKind) String() string {
	switch k {
	case RuleExact:
		return "exact"
	case RuleCIDR:
		return "cidr"
	default:
		return "unknown"
	}
}

// Rule is one valid allow rule.
type Rule struct {
	// Raw is the configured entry as written.
	Raw string
	// Kind reports how the rule matches.
	Kind RuleKind
	// Prefix is the normalized network for RuleCIDR rules. Invalid for
	// RuleExact rules.
	Prefix netip.Prefix
}

// InvalidRule is a configured entry that could not be parsed. It carries the
// parse failure so callers can log it; the entry is excluded from the active
// match set but still participates in the exact-equality fast path.
type InvalidRule struct {
	Raw string
	Err error
}

// Rules is an immutable, ordered allowlist built once at startup. The zero
// value matches nothing and is not active.
//
// Rules instances are safe for concurrent use.
type Rules struct {
	raw     []string
	rules   []Rule
	invalid []InvalidRule

	exact   map[string]struct{}
	matcher prefixMatcher

	activeCount int
}

// ParseList builds Rules from a comma-separated configuration string.
// Entries are trimmed; empty entries are dropped. The implicit localhost
// entries are always appended.
func ParseList(list string) Rules {
	var entries []string
	for entry := range strings.SplitSeq(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return NewRules(entries)
}

// NewRules builds Rules from individual entries, appending the implicit
// localhost entries.
func NewRules(entries []string) Rules {
	r := Rules{
		exact: make(map[string]struct{}, len(entries)+len(implicitLocalhostRules)),
	}

	all := make([]string, 0, len(entries)+len(implicitLocalhostRules))
	all = append(all, entries...)
	all = append(all, implicitLocalhostRules...)

	var prefixes []netip.Prefix
	for _, entry := range all {
		r.raw = append(r.raw, entry)
		r.exact[entry] = struct{}{}
		if !isImplicitLocalhost(entry) {
			r.activeCount++
		}

		if !strings.Contains(entry, "/") {
			r.rules = append(r.rules, Rule{Raw: entry, Kind: RuleExact})
			continue
		}

		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			r.invalid = append(r.invalid, InvalidRule{
				Raw: entry,
				Err: fmt.Errorf("invalid CIDR rule %q: %w", entry, err),
			})
			continue
		}

		// A network address with host bits set is normalized, not rejected.
		prefix = prefix.Masked()
		r.rules = append(r.rules, Rule{Raw: entry, Kind: RuleCIDR, Prefix: prefix})
		prefixes = append(prefixes, prefix)
	}

	r.matcher = buildPrefixMatcher(prefixes)
	return r
}

func isImplicitLocalhost(entry string) bool {
	for _, local := range implicitLocalhostRules {
		if entry == local {
			return true
		}
	}
	return false
}

// Active reports whether the allowlist restricts traffic. The implicit
// localhost entries alone never make a list active, and neither do
// user-supplied duplicates of them.
func (r Rules) Active() bool {
	return r.activeCount > 0
}

// Len returns the number of configured entries, implicit localhost entries
// included.
func (r Rules) Len() int {
	return len(r.raw)
}

// Invalid returns the entries excluded from the active match set because they
// could not be parsed.
func (r Rules) Invalid() []InvalidRule {
	return r.invalid
}

// IsAllowed reports whether candidate is covered by the allowlist.
//
// Exact string equality against any configured entry is checked first; this
// is what lets the literal "localhost" entry match even though it is not an
// address. Otherwise the candidate is parsed and tested against every valid
// CIDR rule. An unparseable candidate can only match exactly, and an address
// family mismatch simply fails to match.
func (r Rules) IsAllowed(candidate string) bool {
	if candidate == "" {
		return false
	}

	if _, ok := r.exact[candidate]; ok {
		return true
	}

	ip := parseCandidate(candidate)
	if !ip.IsValid() {
		return false
	}

	return r.matcher.contains(normalizeIP(ip))
}
