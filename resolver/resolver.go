// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package resolver turns a classified query.Query into an ordered list of
// RDAP server URLs to try, consulting bootstrap registries, configuration
// overrides, and an object-tag/INR backup fallback chain.
package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/openrdap/rdap/bootstrap"
	"github.com/openrdap/rdap/query"
)

// Policy configures how a query is resolved to a base URL.
type Policy struct {
	// BaseURLOverride, if set, is used verbatim: no bootstrap lookup runs.
	BaseURLOverride *url.URL

	// ObjectTagOverride forces the tag used to resolve entity/nameserver/
	// domain handles via the bootstrap object-tag registry, instead of the
	// tag embedded in the handle itself (if any).
	ObjectTagOverride string

	// TLDLookupOverride shadows the DNS bootstrap registry: a domain whose
	// TLD (or any ancestor label) appears here is resolved to the mapped
	// base URL without consulting data.iana.org.
	TLDLookupOverride map[string]*url.URL

	// INRBackupBootstrap is tried for IP/ASN queries when the primary
	// bootstrap registry has no matching entry (some INRs are omitted from
	// the IANA files during provisioning windows).
	INRBackupBootstrap *url.URL

	// LinkTarget controls how far a client should chase link-target
	// cross-references (see Traverse).
	LinkTarget LinkTargetPolicy
}

// LinkTargetPolicy controls link-target traversal.
type LinkTargetPolicy struct {
	// Targets is the ordered list of relation presets to follow, any of
	// "registry", "registrar", "up", "down", "top", "bottom".
	Targets []string

	MinDepth int
	MaxDepth int

	// OnlyShowTargets reports only the last hop's response, discarding
	// intermediate ones, when true.
	OnlyShowTargets bool
}

// Attempt is a single (URL, expected response kind) resolution step.
type Attempt struct {
	URL          *url.URL
	ExpectedKind query.Kind
}

// ResolutionPlan is an ordered sequence of Attempts; a caller tries them in
// order and stops at the first that succeeds.
type ResolutionPlan struct {
	Attempts []Attempt
}

// Resolve produces a ResolutionPlan for q.
func Resolve(q *query.Query, policy *Policy, bc *bootstrap.Client) (*ResolutionPlan, error) {
	if q == nil {
		return nil, fmt.Errorf("resolver: nil query")
	}
	if policy == nil {
		policy = &Policy{}
	}

	if q.Kind == query.KindURL {
		return &ResolutionPlan{Attempts: []Attempt{{URL: q.URL, ExpectedKind: query.KindURL}}}, nil
	}

	if policy.BaseURLOverride != nil {
		u, err := buildURL(policy.BaseURLOverride, q)
		if err != nil {
			return nil, err
		}
		return &ResolutionPlan{Attempts: []Attempt{{URL: u, ExpectedKind: q.Kind}}}, nil
	}

	bases, err := bootstrapBases(q, policy, bc)
	if err != nil {
		return nil, err
	}

	plan := &ResolutionPlan{}
	for _, base := range bases {
		u, err := buildURL(base, q)
		if err != nil {
			continue
		}
		plan.Attempts = append(plan.Attempts, Attempt{URL: u, ExpectedKind: q.Kind})
	}

	if len(plan.Attempts) == 0 {
		return nil, fmt.Errorf("resolver: no RDAP server found for query %q", q.Raw)
	}

	return plan, nil
}

func buildURL(base *url.URL, q *query.Query) (*url.URL, error) {
	reqPath, err := requestPath(q)
	if err != nil {
		return nil, err
	}
	return joinBase(base, reqPath)
}

// bootstrapBases returns the candidate base URLs for q, in priority order:
// object-tag override/embedded tag, TLD config override, bootstrap registry,
// then the INR backup bootstrap for number resources.
func bootstrapBases(q *query.Query, policy *Policy, bc *bootstrap.Client) ([]*url.URL, error) {
	var bases []*url.URL

	tag := policy.ObjectTagOverride
	if tag == "" {
		tag = embeddedObjectTag(q)
	}
	if tag != "" && bc != nil {
		if result, err := bc.Lookup(bootstrap.ObjectTag, "~"+tag); err == nil {
			bases = append(bases, result.URLs...)
		}
	}

	if len(bases) > 0 {
		return bases, nil
	}

	if q.Kind == query.KindDomain || q.Kind == query.KindReverseDNS {
		if override := tldOverride(q.ALabel, policy.TLDLookupOverride); override != nil {
			return []*url.URL{override}, nil
		}
	}

	registryType, input, ok := registryFor(q)
	if !ok {
		return nil, fmt.Errorf("resolver: query kind %s cannot be bootstrapped, specify a server", q.Kind)
	}

	if bc == nil {
		bc = bootstrap.NewClient()
	}

	result, err := bc.Lookup(registryType, input)
	if err == nil && len(result.URLs) > 0 {
		return result.URLs, nil
	}

	if policy.INRBackupBootstrap != nil && isNumberResource(q.Kind) {
		return []*url.URL{policy.INRBackupBootstrap}, nil
	}

	if err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("resolver: no bootstrap entry for %q", q.Raw)
}

func isNumberResource(k query.Kind) bool {
	switch k {
	case query.KindIPv4Addr, query.KindIPv6Addr, query.KindIPv4Cidr, query.KindIPv6Cidr, query.KindAutNum:
		return true
	}
	return false
}

func registryFor(q *query.Query) (bootstrap.RegistryType, string, bool) {
	switch q.Kind {
	case query.KindDomain, query.KindReverseDNS:
		return bootstrap.DNS, q.ALabel, true
	case query.KindIPv4Addr:
		return bootstrap.IPv4, q.IP.String(), true
	case query.KindIPv6Addr:
		return bootstrap.IPv6, q.IP.String(), true
	case query.KindIPv4Cidr:
		return bootstrap.IPv4, q.Net.String(), true
	case query.KindIPv6Cidr:
		return bootstrap.IPv6, q.Net.String(), true
	case query.KindAutNum:
		return bootstrap.ASN, fmt.Sprintf("%d", q.ASN), true
	case query.KindEntity:
		if tag := embeddedObjectTag(q); tag != "" {
			return bootstrap.ObjectTag, "~" + tag, true
		}
	}
	return 0, "", false
}

func embeddedObjectTag(q *query.Query) string {
	handle := q.Handle
	if handle == "" {
		handle = q.ALabel
	}
	if handle == "" {
		return ""
	}

	if offset := strings.LastIndexByte(handle, '~'); offset != -1 && offset != len(handle)-1 {
		return handle[offset+1:]
	}
	if offset := strings.LastIndexByte(handle, '-'); offset != -1 && offset != len(handle)-1 {
		return handle[offset+1:]
	}
	return ""
}

func tldOverride(domain string, overrides map[string]*url.URL) *url.URL {
	if overrides == nil {
		return nil
	}

	fqdn := domain
	for {
		if u, ok := overrides[fqdn]; ok {
			return u
		}
		if fqdn == "" {
			return nil
		}
		index := strings.IndexByte(fqdn, '.')
		if index == -1 {
			fqdn = ""
		} else {
			fqdn = fqdn[index+1:]
		}
	}
}
