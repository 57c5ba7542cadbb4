package ipallow

import (
	"net/netip"
	"testing"
)

func TestPrefixMatcher_Contains(t *testing.T) {
	matcher := buildPrefixMatcher([]netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("2001:db8::/32"),
	})

	tests := []struct {
		name string
		ip   netip.Addr
		want bool
	}{
		{name: "IPv4 in range", ip: netip.MustParseAddr("10.42.1.2"), want: true},
		{name: "IPv4 network address", ip: netip.MustParseAddr("10.0.0.0"), want: true},
		{name: "IPv4 out of range", ip: netip.MustParseAddr("11.0.0.1"), want: false},
		{name: "IPv6 in range", ip: netip.MustParseAddr("2001:db8::1"), want: true},
		{name: "IPv6 out of range", ip: netip.MustParseAddr("2606:4700::1"), want: false},
		{name: "invalid address", ip: netip.Addr{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.contains(tt.ip); got != tt.want {
				t.Fatalf("matcher.contains(%v) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestPrefixMatcher_ZeroPrefix(t *testing.T) {
	v4Matcher := buildPrefixMatcher([]netip.Prefix{netip.MustParsePrefix("0.0.0.0/0")})
	if !v4Matcher.contains(netip.MustParseAddr("8.8.8.8")) {
		t.Fatal("expected IPv4 matcher to contain all IPv4 addresses")
	}
	if v4Matcher.contains(netip.MustParseAddr("2001:4860:4860::8888")) {
		t.Fatal("expected IPv4 matcher to reject IPv6 addresses")
	}

	v6Matcher := buildPrefixMatcher([]netip.Prefix{netip.MustParsePrefix("::/0")})
	if !v6Matcher.contains(netip.MustParseAddr("2001:4860:4860::8888")) {
		t.Fatal("expected IPv6 matcher to contain all IPv6 addresses")
	}
	if v6Matcher.contains(netip.MustParseAddr("8.8.8.8")) {
		t.Fatal("expected IPv6 matcher to reject IPv4 addresses")
	}
}

func TestPrefixMatcher_SingleHostPrefix(t *testing.T) {
	matcher := buildPrefixMatcher([]netip.Prefix{netip.MustParsePrefix("203.0.113.5/32")})

	if !matcher.contains(netip.MustParseAddr("203.0.113.5")) {
		t.Fatal("expected /32 prefix to contain its own address")
	}
	if matcher.contains(netip.MustParseAddr("203.0.113.6")) {
		t.Fatal("expected /32 prefix to exclude neighboring address")
	}
}

func TestPrefixMatcher_Empty(t *testing.T) {
	matcher := buildPrefixMatcher(nil)

	if matcher.contains(netip.MustParseAddr("10.0.0.1")) {
		t.Fatal("expected empty matcher to contain nothing")
	}
}

func TestPrefixMatcher_OverlappingPrefixes(t *testing.T) {
	matcher := buildPrefixMatcher([]netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("10.1.0.0/16"),
	})

	if !matcher.contains(netip.MustParseAddr("10.1.2.3")) {
		t.Fatal("expected address under both prefixes to match")
	}
	if !matcher.contains(netip.MustParseAddr("10.200.0.1")) {
		t.Fatal("expected address under only the wider prefix to match")
	}
}
