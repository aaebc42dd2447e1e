// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

type DNSRegistry struct {
	DNS map[string][]*url.URL
}

// NewDNSRegistry creates a queryable DNS registry from a DNS registry JSON document.
//
// The document format is specified in https://tools.ietf.org/html/rfc7484#section-4.
func NewDNSRegistry(json []byte) (*DNSRegistry, error) {
	r, err := parse(json)

	if err != nil {
		return nil, fmt.Errorf("error parsing DNS bootstrap: %s", err)
	}

	return &DNSRegistry{
		DNS: r.Entries,
	}, nil
}

// Lookup finds the RDAP base URLs for a domain name, using the longest
// matching suffix in the registry (walking up label by label from the full
// FQDN to the root zone).
func (d *DNSRegistry) Lookup(input string) (*Result, error) {
	canonical := canonicalizeDomain(input)
	fqdn := canonical

	// Walk from the full FQDN up to the root zone, e.g. for an.example.com:
	// - "an.example.com"
	// - "example.com"
	// - "com"
	// - "" (the root zone)
	var urls []*url.URL
	for {
		var ok bool
		urls, ok = d.DNS[fqdn]

		if ok {
			break
		} else if fqdn == "" {
			break
		}

		index := strings.IndexByte(fqdn, '.')
		if index == -1 {
			fqdn = ""
		} else {
			fqdn = fqdn[index+1:]
		}
	}

	return &Result{
		URLs:  urls,
		Query: canonical,
		Entry: fqdn,
	}, nil
}

// canonicalizeDomain lowercases and IDNA2008-encodes a domain name to match
// the Service Registry's A-label entries. Inputs that don't round-trip
// through IDNA (malformed labels) fall back to plain lowercasing so lookups
// degrade gracefully rather than failing outright.
func canonicalizeDomain(input string) string {
	input = strings.TrimSuffix(input, ".")
	input = strings.ToLower(input)

	profile := idna.New(idna.MapForLookup(), idna.Transitional(false), idna.VerifyDNSLength(false))
	if ascii, err := profile.ToASCII(input); err == nil {
		return ascii
	}

	return input
}
