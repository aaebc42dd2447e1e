// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openrdap/rdap/resolver"
)

// RequestType identifies the kind of RDAP request a Request makes.
type RequestType int

const (
	AutnumRequest RequestType = iota
	DomainRequest
	EntityRequest
	IPRequest
	NameserverRequest
	HelpRequest
	RawRequest
	DomainSearchRequest
	DomainSearchByNameserverRequest
	DomainSearchByNameserverIPRequest
	NameserverSearchRequest
	NameserverSearchByNameserverIPRequest
	EntitySearchRequest
	EntitySearchByHandleRequest
)

func (t RequestType) String() string {
	switch t {
	case AutnumRequest:
		return "autnum"
	case DomainRequest:
		return "domain"
	case EntityRequest:
		return "entity"
	case IPRequest:
		return "ip"
	case NameserverRequest:
		return "nameserver"
	case HelpRequest:
		return "help"
	case RawRequest:
		return "raw"
	case DomainSearchRequest:
		return "domain-search"
	case DomainSearchByNameserverRequest:
		return "domain-search-by-nameserver"
	case DomainSearchByNameserverIPRequest:
		return "domain-search-by-nameserver-ip"
	case NameserverSearchRequest:
		return "nameserver-search"
	case NameserverSearchByNameserverIPRequest:
		return "nameserver-search-by-nameserver-ip"
	case EntitySearchRequest:
		return "entity-search"
	case EntitySearchByHandleRequest:
		return "entity-search-by-handle"
	}
	return "unknown"
}

// Request is a single RDAP request, ready to run via Client.Do.
type Request struct {
	Type  RequestType
	Query string

	// RawURL is used directly (with Server ignored) when Type is
	// RawRequest.
	RawURL *url.URL

	// Server is the RDAP server base URL. If nil, Client.Do bootstraps it.
	Server *url.URL

	// FetchRoles lists entity roles (e.g. "registrant", "all") that should
	// trigger a follow-up fetch of the entity's own RDAP record.
	FetchRoles []string

	// Timeout bounds the request's RDAP fetches, including link-target hops;
	// the bootstrap lookup that precedes them is not covered by it.
	Timeout time.Duration

	// LinkTarget, if it names any Targets, makes Client.Do chase the
	// initial response's RFC 9083 links (registry/registrar/up/down/top/
	// bottom relations) breadth-first after decoding it, recording each
	// hop on Response.LinkHops.
	LinkTarget resolver.LinkTargetPolicy

	ctx context.Context
}

// NewAutnumRequest makes a request for an Autonomous System Number.
func NewAutnumRequest(asn uint32) *Request {
	return &Request{Type: AutnumRequest, Query: strconv.FormatUint(uint64(asn), 10)}
}

// NewIPRequest makes a request for a single IPv4/IPv6 address.
func NewIPRequest(ip net.IP) *Request {
	return &Request{Type: IPRequest, Query: ip.String()}
}

// NewIPNetRequest makes a request for an IPv4/IPv6 CIDR block.
func NewIPNetRequest(ipNet *net.IPNet) *Request {
	return &Request{Type: IPRequest, Query: ipNet.String()}
}

// NewNameserverRequest makes a request for a nameserver name.
func NewNameserverRequest(ns string) *Request {
	return &Request{Type: NameserverRequest, Query: ns}
}

// NewDomainRequest makes a request for a domain name.
func NewDomainRequest(domain string) *Request {
	return &Request{Type: DomainRequest, Query: domain}
}

// NewEntityRequest makes a request for an entity handle.
func NewEntityRequest(handle string) *Request {
	return &Request{Type: EntityRequest, Query: handle}
}

// NewHelpRequest makes a server help request.
func NewHelpRequest() *Request {
	return &Request{Type: HelpRequest}
}

// NewRawRequest makes a request for a complete, already-built URL.
func NewRawRequest(u *url.URL) *Request {
	return &Request{Type: RawRequest, RawURL: u}
}

// NewRequest makes a request of the given type and query string, primarily
// for the search RequestTypes.
func NewRequest(t RequestType, query string) *Request {
	return &Request{Type: t, Query: query}
}

// NewAutoRequest infers the RequestType of input, for callers that don't
// need the full Query value. It tries, in order: an http(s) URL (a URL with
// no path becomes a domain request for its host, otherwise a raw request),
// a CIDR, an ASN ("AS"-prefixed or bare digits), an IP address, a dotted
// name (domain), and otherwise an entity handle. Its results can differ
// from query.Classify's: bare digits, for example, always give an autnum
// request.
func NewAutoRequest(input string) *Request {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		if u, err := url.Parse(input); err == nil {
			if u.Path == "" || u.Path == "/" {
				return NewDomainRequest(u.Hostname())
			}
			return NewRawRequest(u)
		}
	}

	if _, _, err := net.ParseCIDR(input); err == nil {
		return &Request{Type: IPRequest, Query: input}
	}

	if looksLikeASN(input) {
		return &Request{Type: AutnumRequest, Query: asnDigits(input)}
	}

	if ip := net.ParseIP(input); ip != nil {
		return &Request{Type: IPRequest, Query: input}
	}

	if strings.Contains(input, ".") {
		return NewDomainRequest(input)
	}

	return NewEntityRequest(input)
}

func looksLikeASN(s string) bool {
	rest := asnDigits(s)
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func asnDigits(s string) string {
	if len(s) >= 2 && (s[0] == 'a' || s[0] == 'A') && (s[1] == 's' || s[1] == 'S') {
		return s[2:]
	}
	return s
}

// WithServer returns a copy of r targeting the given RDAP server base URL.
func (r *Request) WithServer(server *url.URL) *Request {
	r2 := *r
	r2.Server = server
	return &r2
}

// WithContext returns a copy of r carrying ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	r2 := *r
	r2.ctx = ctx
	return &r2
}

// Context returns r's context, defaulting to context.Background().
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// URL returns the complete request URL, or nil if r.Server is unset and Type
// isn't RawRequest.
func (r *Request) URL() *url.URL {
	if r.Type == RawRequest {
		return r.RawURL
	}

	if r.Server == nil {
		return nil
	}

	reqPath := requestPathFor(r)

	return joinRequestPath(r.Server, reqPath)
}

func requestPathFor(r *Request) string {
	switch r.Type {
	case AutnumRequest:
		return "autnum/" + requestEscapePath(r.Query)
	case DomainRequest:
		return "domain/" + requestEscapePath(r.Query)
	case EntityRequest:
		return "entity/" + requestEscapePath(r.Query)
	case IPRequest:
		return "ip/" + requestEscapePath(r.Query)
	case NameserverRequest:
		return "nameserver/" + requestEscapePath(r.Query)
	case HelpRequest:
		return "help"
	case DomainSearchRequest:
		return "domains?" + url.Values{"name": {r.Query}}.Encode()
	case DomainSearchByNameserverRequest:
		return "domains?" + url.Values{"nsLdhName": {r.Query}}.Encode()
	case DomainSearchByNameserverIPRequest:
		return "domains?" + url.Values{"nsIp": {r.Query}}.Encode()
	case NameserverSearchRequest:
		return "nameservers?" + url.Values{"name": {r.Query}}.Encode()
	case NameserverSearchByNameserverIPRequest:
		return "nameservers?" + url.Values{"ip": {r.Query}}.Encode()
	case EntitySearchRequest:
		return "entities?" + url.Values{"fn": {r.Query}}.Encode()
	case EntitySearchByHandleRequest:
		return "entities?" + url.Values{"handle": {r.Query}}.Encode()
	}
	return ""
}

// joinRequestPath resolves reqPath against base, ensuring exactly one slash
// joins them regardless of whether base already ends in one.
func joinRequestPath(base *url.URL, reqPath string) *url.URL {
	rel, err := url.Parse(reqPath)
	if err != nil {
		return nil
	}

	b := *base
	if b.Path == "" {
		b.Path = "/"
	}
	if b.Path[len(b.Path)-1] != '/' {
		b.Path += "/"
	}

	return b.ResolveReference(rel)
}

func requestEscapePath(text string) string {
	escaped := make([]byte, 0, len(text))

	for i := 0; i < len(text); i++ {
		b := text[i]

		if !requestShouldPathEscape(b) {
			escaped = append(escaped, b)
		} else {
			escaped = append(escaped, '%', "0123456789ABCDEF"[b>>4], "0123456789ABCDEF"[b&0xF])
		}
	}

	return string(escaped)
}

func requestShouldPathEscape(b byte) bool {
	if ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9') {
		return false
	}

	switch b {
	case '-', '_', '.', '~', '$', '&', '+', ':', '=', '@':
		return false
	}

	return true
}
