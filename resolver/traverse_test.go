// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package resolver

import (
	"net/url"
	"testing"
)

func TestTraverseFollowsUpChain(t *testing.T) {
	graph := map[string][]LinkRef{
		"https://rdap.example/a": {{Rel: "up", Href: "https://rdap.example/b"}},
		"https://rdap.example/b": {{Rel: "up", Href: "https://rdap.example/c"}},
		"https://rdap.example/c": nil,
	}

	initial := graph["https://rdap.example/a"]

	hops, warnings, err := Traverse(initial, LinkTargetPolicy{Targets: []string{"up"}, MaxDepth: 5}, func(u *url.URL) ([]LinkRef, error) {
		return graph[u.String()], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", warnings)
	}

	if len(hops) != 2 {
		t.Fatalf("expected 2 hops, got %d: %+v", len(hops), hops)
	}
	if hops[0].URL.String() != "https://rdap.example/b" || hops[0].Depth != 1 {
		t.Errorf("unexpected hop 0: %+v", hops[0])
	}
	if hops[1].URL.String() != "https://rdap.example/c" || hops[1].Depth != 2 {
		t.Errorf("unexpected hop 1: %+v", hops[1])
	}
}

// TestTraverseFansOutOverAllMatchingLinks checks that every link matching
// the requested rel at a given depth is followed, not just the first —
// the walk is a tree, not a single linear chain.
func TestTraverseFansOutOverAllMatchingLinks(t *testing.T) {
	graph := map[string][]LinkRef{
		"https://rdap.example/a": {
			{Rel: "up", Href: "https://rdap.example/b1"},
			{Rel: "up", Href: "https://rdap.example/b2"},
		},
		"https://rdap.example/b1": nil,
		"https://rdap.example/b2": nil,
	}

	hops, warnings, err := Traverse(graph["https://rdap.example/a"], LinkTargetPolicy{Targets: []string{"up"}, MaxDepth: 5}, func(u *url.URL) ([]LinkRef, error) {
		return graph[u.String()], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", warnings)
	}
	if len(hops) != 2 {
		t.Fatalf("expected 2 hops (fan-out), got %d: %+v", len(hops), hops)
	}
	for _, h := range hops {
		if h.Depth != 1 {
			t.Errorf("expected depth 1, got %+v", h)
		}
	}
}

// TestTraverseDetectsCycle checks that a repeated link target is reported
// as a Warning rather than failing the whole traversal.
func TestTraverseDetectsCycle(t *testing.T) {
	graph := map[string][]LinkRef{
		"https://rdap.example/a": {{Rel: "up", Href: "https://rdap.example/b"}},
		"https://rdap.example/b": {{Rel: "up", Href: "https://rdap.example/a"}},
	}

	hops, warnings, err := Traverse(graph["https://rdap.example/a"], LinkTargetPolicy{Targets: []string{"up"}, MaxDepth: 10}, func(u *url.URL) ([]LinkRef, error) {
		return graph[u.String()], nil
	})
	if err != nil {
		t.Fatalf("expected no error, cycles are reported as warnings: %s", err)
	}
	if len(hops) != 1 {
		t.Fatalf("expected 1 hop before the cycle was detected, got %d: %+v", len(hops), hops)
	}
	if len(warnings) != 1 || warnings[0].Code != "LINK_TARGET_CYCLE" {
		t.Fatalf("expected a LINK_TARGET_CYCLE warning, got %+v", warnings)
	}
}

func TestTraverseNoTargetsIsNoop(t *testing.T) {
	hops, warnings, err := Traverse([]LinkRef{{Rel: "up", Href: "https://rdap.example/b"}}, LinkTargetPolicy{}, func(u *url.URL) ([]LinkRef, error) {
		t.Fatal("follow should not be called")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if hops != nil || warnings != nil {
		t.Errorf("expected nil hops and warnings, got hops=%+v warnings=%+v", hops, warnings)
	}
}

// TestTraverseMinDepthDoesNotGateWalk checks that MinDepth filters nothing
// inside Traverse itself — every hop up to MaxDepth is returned regardless,
// since MinDepth is a reporting filter callers apply to Hop.Depth.
func TestTraverseMinDepthDoesNotGateWalk(t *testing.T) {
	graph := map[string][]LinkRef{
		"https://rdap.example/a": {{Rel: "up", Href: "https://rdap.example/b"}},
		"https://rdap.example/b": nil,
	}

	hops, _, err := Traverse(graph["https://rdap.example/a"], LinkTargetPolicy{Targets: []string{"up"}, MinDepth: 5, MaxDepth: 5}, func(u *url.URL) ([]LinkRef, error) {
		return graph[u.String()], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 1 {
		t.Fatalf("expected MinDepth to not prune the walk, got %d hops", len(hops))
	}
}
