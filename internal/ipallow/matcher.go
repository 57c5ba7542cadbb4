package ipallow

import "net/netip"

// prefixMatcher answers address-in-network queries over the valid CIDR rules
// using one binary trie per address family. It is built once with the rule
// list and read-only afterwards.
type prefixMatcher struct {
	v4 *trieNode
	v6 *trieNode
}

// trieNode is one bit of a stored prefix. A terminal node marks the end of a
// configured prefix; every address below it is contained.
type trieNode struct {
	zero, one *trieNode
	terminal  bool
}

func buildPrefixMatcher(prefixes []netip.Prefix) prefixMatcher {
	var m prefixMatcher
	for _, prefix := range prefixes {
		m.insert(prefix)
	}
	return m
}

func (m *prefixMatcher) insert(prefix netip.Prefix) {
	addr := prefix.Addr()
	if !addr.IsValid() {
		return
	}

	bits := prefix.Bits()
	if bits < 0 {
		return
	}
	if bits > addr.BitLen() {
		bits = addr.BitLen()
	}

	var root *trieNode
	var bytes []byte
	if addr.Is4() {
		if m.v4 == nil {
			m.v4 = &trieNode{}
		}
		root = m.v4
		b := addr.As4()
		bytes = b[:]
	} else {
		if m.v6 == nil {
			m.v6 = &trieNode{}
		}
		root = m.v6
		b := addr.As16()
		bytes = b[:]
	}

	node := root
	for i := range bits {
		next := &node.zero
		if prefixBit(bytes, i) == 1 {
			next = &node.one
		}
		if *next == nil {
			*next = &trieNode{}
		}
		node = *next
	}
	node.terminal = true
}

// contains reports whether ip falls inside any stored prefix. An address
// family with no stored prefixes never matches, so mixed v4/v6 rule lists
// and candidates degrade to a non-match rather than an error.
func (m prefixMatcher) contains(ip netip.Addr) bool {
	if !ip.IsValid() {
		return false
	}

	var root *trieNode
	var bytes []byte
	if ip.Is4() {
		root = m.v4
		b := ip.As4()
		bytes = b[:]
	} else {
		root = m.v6
		b := ip.As16()
		bytes = b[:]
	}

	node := root
	for i := 0; node != nil; i++ {
		if node.terminal {
			return true
		}
		if i == len(bytes)*8 {
			return false
		}
		if prefixBit(bytes, i) == 1 {
			node = node.one
		} else {
			node = node.zero
		}
	}

	return false
}

func prefixBit(bytes []byte, index int) int {
	return int(bytes[index/8]>>(7-index%8)) & 1
}
