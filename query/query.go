// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package query classifies a free-form query token (a domain, IP address,
// CIDR, AS number, reverse-DNS name, or entity handle) into one of RDAP's
// typed query kinds, with normalized path components ready for bootstrap
// lookup and RDAP request construction.
package query

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// Kind discriminates the typed RDAP query.
type Kind int

const (
	KindIPv4Addr Kind = iota
	KindIPv6Addr
	KindIPv4Cidr
	KindIPv6Cidr
	KindAutNum
	KindDomain
	KindNameserver
	KindEntity
	KindReverseDNS
	KindEntityNameSearch
	KindEntityHandleSearch
	KindDomainNameSearch
	KindDomainNsNameSearch
	KindDomainNsIPSearch
	KindNsNameSearch
	KindNsIPSearch
	KindServerHelp
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindIPv4Addr:
		return "ipv4-addr"
	case KindIPv6Addr:
		return "ipv6-addr"
	case KindIPv4Cidr:
		return "ipv4-cidr"
	case KindIPv6Cidr:
		return "ipv6-cidr"
	case KindAutNum:
		return "autnum"
	case KindDomain:
		return "domain"
	case KindNameserver:
		return "nameserver"
	case KindEntity:
		return "entity"
	case KindReverseDNS:
		return "reverse-dns"
	case KindEntityNameSearch:
		return "entity-name-search"
	case KindEntityHandleSearch:
		return "entity-handle-search"
	case KindDomainNameSearch:
		return "domain-name-search"
	case KindDomainNsNameSearch:
		return "domain-ns-name-search"
	case KindDomainNsIPSearch:
		return "domain-ns-ip-search"
	case KindNsNameSearch:
		return "ns-name-search"
	case KindNsIPSearch:
		return "ns-ip-search"
	case KindServerHelp:
		return "help"
	case KindURL:
		return "url"
	}
	return "unknown"
}

// Query is a typed, normalized RDAP query.
type Query struct {
	Kind Kind

	// IP/CIDR kinds.
	IP      net.IP
	Net     *net.IPNet
	Reverse *net.IPNet // decoded target of a ReverseDNS query

	// AutNum.
	ASN uint32

	// Domain/Nameserver.
	ALabel string // lowercase Punycode
	ULabel string // Unicode form, cached alongside ALabel when known

	// Entity.
	Handle string

	// Search kinds: the raw glob/search pattern.
	Pattern string

	// URL kind.
	URL *url.URL

	// Raw is the original input token.
	Raw string
}

// Hint forces a query Kind, bypassing inference.
type Hint int

const (
	HintNone Hint = iota
	HintAutNum
	HintEntity
	HintDomain
	HintNameserver
	HintIP
)

// ClassifyErrorKind enumerates Classify failure modes.
type ClassifyErrorKind int

const (
	ErrInvalidForm ClassifyErrorKind = iota
	ErrTypeMismatch
	ErrAmbiguous
)

// ClassifyError is returned by Classify.
type ClassifyError struct {
	Kind  ClassifyErrorKind
	Token string
	Msg   string
}

func (e *ClassifyError) Error() string {
	return fmt.Sprintf("query: %s: %q", e.Msg, e.Token)
}

// Classify infers the typed Query for a free-form token, applying hint as a
// forced type when non-zero.
//
// Inference precedence (first match wins) follows RFC 7482's guidance on
// distinguishing query object types from free text:
//
//  1. http(s):// URL
//  2. CIDR notation (IPv4/IPv6 with a "/")
//  3. AS number ("as1234" or, with HintAutNum, a bare decimal)
//  4. IPv4/IPv6 literal
//  5. in-addr.arpa / ip6.arpa reverse DNS name
//  6. LDH/IDN domain name (contains a dot)
//  7. Leading-dot single-label TLD
//  8. Otherwise, an entity handle
func Classify(token string, hint Hint) (*Query, error) {
	raw := token
	token = strings.TrimSpace(token)

	if token == "" {
		return nil, &ClassifyError{Kind: ErrInvalidForm, Token: raw, Msg: "empty query"}
	}

	if strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://") {
		u, err := url.Parse(token)
		if err != nil {
			return nil, &ClassifyError{Kind: ErrInvalidForm, Token: raw, Msg: "invalid URL"}
		}
		if hint != HintNone {
			return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: "URL cannot satisfy hint"}
		}
		return &Query{Kind: KindURL, URL: u, Raw: raw}, nil
	}

	if q, ok := tryCIDR(token, raw); ok {
		if hint != HintNone && hint != HintIP {
			return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: "not an IP/CIDR"}
		}
		return q, nil
	}

	if asn, ok := tryASN(token, hint); ok {
		return &Query{Kind: KindAutNum, ASN: asn, Raw: raw}, nil
	}

	if ip := net.ParseIP(token); ip != nil {
		if hint != HintNone && hint != HintIP {
			return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: "not an IP"}
		}
		if ip4 := ip.To4(); ip4 != nil {
			return &Query{Kind: KindIPv4Addr, IP: ip4, Raw: raw}, nil
		}
		return &Query{Kind: KindIPv6Addr, IP: ip, Raw: raw}, nil
	}

	if q, ok := tryReverseDNS(token, raw); ok {
		return q, nil
	}

	if hint == HintEntity {
		return &Query{Kind: KindEntity, Handle: token, Raw: raw}, nil
	}

	if strings.Contains(token, ".") || strings.HasPrefix(token, ".") {
		alabel, ulabel, err := normalizeDomain(token)
		if err != nil {
			if hint == HintDomain {
				return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: err.Error()}
			}
		} else {
			kind := KindDomain
			if hint == HintNameserver {
				kind = KindNameserver
			}
			return &Query{Kind: kind, ALabel: alabel, ULabel: ulabel, Raw: raw}, nil
		}
	} else if hint == HintDomain || hint == HintNameserver {
		return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: "not a domain name"}
	}

	if hint == HintAutNum {
		return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: "not an AS number"}
	}
	if hint == HintIP {
		return nil, &ClassifyError{Kind: ErrTypeMismatch, Token: raw, Msg: "not an IP"}
	}

	if hint == HintNone && isAmbiguousEntity(token) {
		return nil, &ClassifyError{Kind: ErrAmbiguous, Token: raw, Msg: "ambiguous between AS number and entity handle"}
	}

	return &Query{Kind: KindEntity, Handle: token, Raw: raw}, nil
}

// isAmbiguousEntity reports whether a bare decimal token could be either a
// valid ASN or a valid entity handle, per §4.2/§8 scenario 2.
func isAmbiguousEntity(token string) bool {
	if token == "" {
		return false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return false
		}
	}
	_, err := strconv.ParseUint(token, 10, 32)
	return err == nil
}

func tryASN(token string, hint Hint) (uint32, bool) {
	lower := strings.ToLower(token)
	if strings.HasPrefix(lower, "as") {
		rest := lower[2:]
		if rest == "" {
			return 0, false
		}
		n, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(n), true
	}

	if hint == HintAutNum {
		n, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(n), true
	}

	return 0, false
}

func tryCIDR(token, raw string) (*Query, bool) {
	if !strings.Contains(token, "/") {
		return nil, false
	}

	parts := strings.SplitN(token, "/", 2)
	addrPart := parts[0]
	prefixPart := parts[1]

	// Shorthand like "10/8" or "2001:db8/32": infer the missing octets/groups
	// as zero before handing to net.ParseCIDR.
	isV6 := strings.Contains(addrPart, ":")
	var full string
	if isV6 {
		full = addrPart
		if !strings.Contains(full, "::") && strings.Count(full, ":") < 7 {
			full += "::"
		}
	} else {
		octets := strings.Split(addrPart, ".")
		for len(octets) < 4 {
			octets = append(octets, "0")
		}
		full = strings.Join(octets, ".")
	}

	_, ipNet, err := net.ParseCIDR(full + "/" + prefixPart)
	if err != nil {
		return nil, false
	}

	if ipNet.IP.To4() != nil {
		return &Query{Kind: KindIPv4Cidr, Net: ipNet, Raw: raw}, true
	}
	return &Query{Kind: KindIPv6Cidr, Net: ipNet, Raw: raw}, true
}

func tryReverseDNS(token, raw string) (*Query, bool) {
	lower := strings.ToLower(strings.TrimSuffix(token, "."))

	if strings.HasSuffix(lower, ".in-addr.arpa") {
		ipNet, err := decodeReverseIPv4(strings.TrimSuffix(lower, ".in-addr.arpa"))
		if err != nil {
			return nil, false
		}
		return &Query{Kind: KindReverseDNS, Reverse: ipNet, ALabel: lower, Raw: raw}, true
	}

	if strings.HasSuffix(lower, ".ip6.arpa") {
		ipNet, err := decodeReverseIPv6(strings.TrimSuffix(lower, ".ip6.arpa"))
		if err != nil {
			return nil, false
		}
		return &Query{Kind: KindReverseDNS, Reverse: ipNet, ALabel: lower, Raw: raw}, true
	}

	return nil, false
}

func decodeReverseIPv4(labels string) (*net.IPNet, error) {
	parts := strings.Split(labels, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return nil, fmt.Errorf("bad in-addr.arpa name")
	}

	octets := make([]byte, 4)
	n := len(parts)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(parts[i])
		if err != nil || v < 0 || v > 255 {
			return nil, fmt.Errorf("bad in-addr.arpa octet %q", parts[i])
		}
		// parts are in reverse order, right-to-left fills from octets[3] up.
		octets[3-i] = byte(v)
	}

	prefix := n * 8
	ip := net.IPv4(octets[0], octets[1], octets[2], octets[3])
	mask := net.CIDRMask(prefix, 32)

	return &net.IPNet{IP: ip.Mask(mask), Mask: mask}, nil
}

func decodeReverseIPv6(labels string) (*net.IPNet, error) {
	parts := strings.Split(labels, ".")
	if len(parts) == 0 || len(parts) > 32 {
		return nil, fmt.Errorf("bad ip6.arpa name")
	}

	var nibbles [32]byte
	n := len(parts)
	for i := 0; i < n; i++ {
		if len(parts[i]) != 1 {
			return nil, fmt.Errorf("bad ip6.arpa nibble %q", parts[i])
		}
		v, err := strconv.ParseUint(parts[i], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad ip6.arpa nibble %q", parts[i])
		}
		// parts are in reverse order (least-significant nibble first).
		nibbles[31-i] = byte(v)
	}

	ip := make(net.IP, 16)
	for i := 0; i < 16; i++ {
		ip[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}

	prefix := n * 4
	mask := net.CIDRMask(prefix, 128)

	return &net.IPNet{IP: ip.Mask(mask), Mask: mask}, nil
}

// normalizeDomain case-folds and Punycode-converts a domain token, returning
// (aLabel, uLabel, error). IDNA2008 is applied with Transitional processing
// off, matching modern browser/registry behavior.
func normalizeDomain(token string) (string, string, error) {
	profile := idna.New(
		idna.ValidateLabels(true),
		idna.StrictDomainName(false),
		idna.Transitional(false),
	)

	aLabel, err := profile.ToASCII(strings.ToLower(norm.NFC.String(token)))
	if err != nil {
		return "", "", fmt.Errorf("invalid domain name: %w", err)
	}

	uLabel, err := profile.ToUnicode(aLabel)
	if err != nil {
		uLabel = aLabel
	}

	return strings.ToLower(aLabel), uLabel, nil
}
