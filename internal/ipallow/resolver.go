package ipallow

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Proxy headers consulted when resolving the effective client address.
const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

// ResolveClientAddress derives the effective client address for a request.
//
// Precedence, lowest to highest:
//  1. the transport peer host (port stripped from remoteAddr when present);
//  2. the first entry of X-Forwarded-For, trimmed;
//  3. X-Real-IP, trimmed — this wins even over X-Forwarded-For.
//
// The result is empty only when no transport address and no proxy headers
// were present. No validation happens here: the resolved string is matched
// as-is, and an invalid string simply fails to match.
func ResolveClientAddress(remoteAddr string, header http.Header) string {
	addr := remoteHost(remoteAddr)

	if forwarded := headerValue(header, headerForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		addr = strings.TrimSpace(first)
	}

	if realIP := headerValue(header, headerRealIP); realIP != "" {
		addr = strings.TrimSpace(realIP)
	}

	return addr
}

func headerValue(header http.Header, name string) string {
	if header == nil {
		return ""
	}
	return header.Get(name)
}

// remoteHost extracts the host portion of a transport address, handling the
// "ip:port" and "[v6]:port" forms produced by net/http. A value without a
// port is returned as-is, minus surrounding brackets.
func remoteHost(remoteAddr string) string {
	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return ""
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}

	return trimMatchedPair(remoteAddr, '[', ']')
}

// parseCandidate parses a resolved client address leniently: surrounding
// whitespace, one level of brackets, and a port suffix are tolerated before
// netip does the actual parsing.
//
// Returns an invalid netip.Addr (IsValid() == false) if parsing fails.
func parseCandidate(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	s = trimMatchedPair(s, '[', ']')

	ip, _ := netip.ParseAddr(s)
	return ip
}

func normalizeIP(ip netip.Addr) netip.Addr {
	if ip.Is4In6() {
		return ip.Unmap()
	}
	return ip
}

// trimMatchedPair removes one leading and trailing delimiter when both match.
func trimMatchedPair(s string, start, end byte) string {
	if len(s) < 2 {
		return s
	}

	if s[0] != start || s[len(s)-1] != end {
		return s
	}

	return s[1 : len(s)-1]
}
