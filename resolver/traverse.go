// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package resolver

import (
	"fmt"
	"net/url"
)

// LinkRef is the minimal information Traverse needs about one RDAP response
// link (RFC 9083 §4.2): its relation type and target.
type LinkRef struct {
	Rel  string
	Href string
}

// presetRels maps a link-target preset name to the RFC 9224 §4 / ICANN
// profile relation values it matches.
var presetRels = map[string][]string{
	"registry":  {"related"},
	"registrar": {"related"},
	"up":        {"up"},
	"down":      {"down"},
	"top":       {"top"},
	"bottom":    {"bottom"},
}

// Hop is one followed link of a link-target traversal.
type Hop struct {
	URL   *url.URL
	Rel   string
	Depth int
}

// Warning is a non-fatal traversal anomaly (a detected cycle) that a caller
// may want to surface as a check.StandardsWarning finding rather than fail
// the whole request over.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) Error() string { return w.Message }

// Traverse walks the link-target graph reachable from the links of the
// initial response, following relations named in policy.Targets,
// breadth-first, up to policy.MaxDepth hops. Every matching link at a given
// depth is followed (not just the first), so the walk fans out into a tree
// bounded by Σ fanoutⁱ rather than a single linear chain. A URL already
// visited elsewhere in the tree is not re-followed; it's reported as a
// Warning instead of failing the call, since a repeated link target is
// surfaced to the caller as a StandardsWarning, not a hard error.
//
// policy.MinDepth doesn't gate the walk itself; every reachable hop up to
// MaxDepth is followed and returned. It's on the caller to filter Hops by
// Depth when deciding what to report, per policy.MinDepth.
func Traverse(initial []LinkRef, policy LinkTargetPolicy, follow func(u *url.URL) ([]LinkRef, error)) ([]Hop, []Warning, error) {
	if len(policy.Targets) == 0 {
		return nil, nil, nil
	}

	maxDepth := policy.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 10
	}

	wantRels := map[string]bool{}
	for _, preset := range policy.Targets {
		for _, rel := range presetRels[preset] {
			wantRels[rel] = true
		}
		wantRels[preset] = true
	}

	type frontierEntry struct {
		links []LinkRef
		depth int
	}

	visited := map[string]bool{}
	var hops []Hop
	var warnings []Warning

	queue := []frontierEntry{{links: initial, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}

		for _, l := range matchingLinks(cur.links, wantRels) {
			u, err := url.Parse(l.Href)
			if err != nil {
				continue
			}

			key := u.String()
			if visited[key] {
				warnings = append(warnings, Warning{
					Code:    "LINK_TARGET_CYCLE",
					Message: fmt.Sprintf("link-target cycle detected at %s", key),
				})
				continue
			}
			visited[key] = true

			depth := cur.depth + 1
			hops = append(hops, Hop{URL: u, Rel: l.Rel, Depth: depth})

			fetched, err := follow(u)
			if err != nil {
				return hops, warnings, err
			}
			queue = append(queue, frontierEntry{links: fetched, depth: depth})
		}
	}

	return hops, warnings, nil
}

func matchingLinks(links []LinkRef, wantRels map[string]bool) []LinkRef {
	var out []LinkRef
	for _, l := range links {
		if wantRels[l.Rel] {
			out = append(out, l)
		}
	}
	return out
}

