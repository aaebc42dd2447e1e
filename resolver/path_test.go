// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package resolver

import (
	"net/url"
	"testing"

	"github.com/openrdap/rdap/query"
)

func classify(t *testing.T, token string) *query.Query {
	t.Helper()
	q, err := query.Classify(token, query.HintNone)
	if err != nil {
		t.Fatalf("Classify(%q) failed: %s", token, err)
	}
	return q
}

func TestRequestPathIP(t *testing.T) {
	q := classify(t, "192.0.2.0")

	path, err := requestPath(q)
	if err != nil {
		t.Fatal(err)
	}
	if path != "ip/192.0.2.0" {
		t.Errorf("unexpected path: %s", path)
	}
}

func TestRequestPathCIDR(t *testing.T) {
	q := classify(t, "192.0.2.0/24")

	path, err := requestPath(q)
	if err != nil {
		t.Fatal(err)
	}
	if path != "ip/192.0.2.0/24" {
		t.Errorf("unexpected path: %s", path)
	}
}

func TestRequestPathDomain(t *testing.T) {
	q := classify(t, "example.cz")

	path, err := requestPath(q)
	if err != nil {
		t.Fatal(err)
	}
	if path != "domain/example.cz" {
		t.Errorf("unexpected path: %s", path)
	}
}

func TestJoinBase(t *testing.T) {
	base, _ := url.Parse("https://rdap.nic.cz")

	u, err := joinBase(base, "domain/example.cz")
	if err != nil {
		t.Fatal(err)
	}

	if u.String() != "https://rdap.nic.cz/domain/example.cz" {
		t.Errorf("unexpected URL: %s", u.String())
	}
}

func TestJoinBaseTrailingSlash(t *testing.T) {
	base, _ := url.Parse("https://rdap.nic.cz/")

	u, err := joinBase(base, "domain/example.cz")
	if err != nil {
		t.Fatal(err)
	}

	if u.String() != "https://rdap.nic.cz/domain/example.cz" {
		t.Errorf("unexpected URL: %s", u.String())
	}
}
