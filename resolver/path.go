// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package resolver

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/openrdap/rdap/query"
)

// requestPath returns the RFC 7482 request path (no leading slash, no base
// URL) for q, e.g. "domain/example.cz" or "entities?fn=Bobby%20Joe*".
//
// URL-kind queries have no request path of their own (q.URL is already a
// complete request); callers must special-case KindURL before calling this.
func requestPath(q *query.Query) (string, error) {
	switch q.Kind {
	case query.KindIPv4Addr, query.KindIPv6Addr:
		return "ip/" + q.IP.String(), nil
	case query.KindIPv4Cidr, query.KindIPv6Cidr:
		return "ip/" + q.Net.String(), nil
	case query.KindAutNum:
		return "autnum/" + strconv.FormatUint(uint64(q.ASN), 10), nil
	case query.KindDomain:
		return "domain/" + escapePath(q.ALabel), nil
	case query.KindReverseDNS:
		return "domain/" + escapePath(q.ALabel), nil
	case query.KindNameserver:
		return "nameserver/" + escapePath(q.ALabel), nil
	case query.KindEntity:
		return "entity/" + escapePath(q.Handle), nil
	case query.KindServerHelp:
		return "help", nil
	case query.KindDomainNameSearch:
		return "domains?" + url.Values{"name": {q.Pattern}}.Encode(), nil
	case query.KindDomainNsNameSearch:
		return "domains?" + url.Values{"nsLdhName": {q.Pattern}}.Encode(), nil
	case query.KindDomainNsIPSearch:
		return "domains?" + url.Values{"nsIp": {q.Pattern}}.Encode(), nil
	case query.KindNsNameSearch:
		return "nameservers?" + url.Values{"name": {q.Pattern}}.Encode(), nil
	case query.KindNsIPSearch:
		return "nameservers?" + url.Values{"ip": {q.Pattern}}.Encode(), nil
	case query.KindEntityNameSearch:
		return "entities?" + url.Values{"fn": {q.Pattern}}.Encode(), nil
	case query.KindEntityHandleSearch:
		return "entities?" + url.Values{"handle": {q.Pattern}}.Encode(), nil
	default:
		return "", fmt.Errorf("resolver: no request path for query kind %s", q.Kind)
	}
}

// joinBase resolves requestPath against base, ensuring exactly one slash
// joins them regardless of whether base already ends in one.
func joinBase(base *url.URL, reqPath string) (*url.URL, error) {
	rel, err := url.Parse(reqPath)
	if err != nil {
		return nil, err
	}

	b := *base
	if b.Path == "" {
		b.Path = "/"
	}
	if b.Path[len(b.Path)-1] != '/' {
		b.Path += "/"
	}

	return b.ResolveReference(rel), nil
}

func escapePath(text string) string {
	escaped := make([]byte, 0, len(text))

	for i := 0; i < len(text); i++ {
		b := text[i]

		if !shouldPathEscape(b) {
			escaped = append(escaped, b)
		} else {
			escaped = append(escaped, '%', "0123456789ABCDEF"[b>>4], "0123456789ABCDEF"[b&0xF])
		}
	}

	return string(escaped)
}

func shouldPathEscape(b byte) bool {
	if ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9') {
		return false
	}

	switch b {
	case '-', '_', '.', '~', '$', '&', '+', ':', '=', '@':
		return false
	}

	return true
}
