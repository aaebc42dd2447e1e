// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package resolver

import (
	"net/url"
	"testing"

	"github.com/openrdap/rdap/bootstrap"
	"github.com/openrdap/rdap/query"
	"github.com/openrdap/rdap/test"
)

func TestResolveWithBaseURLOverride(t *testing.T) {
	q := classify(t, "example.cz")

	base, _ := url.Parse("https://rdap.nic.cz")
	policy := &Policy{BaseURLOverride: base}

	plan, err := Resolve(q, policy, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(plan.Attempts))
	}

	if plan.Attempts[0].URL.String() != "https://rdap.nic.cz/domain/example.cz" {
		t.Errorf("unexpected URL: %s", plan.Attempts[0].URL)
	}
}

func TestResolveURLQuery(t *testing.T) {
	q := classify(t, "https://rdap.nic.cz/domain/example.cz")

	plan, err := Resolve(q, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Attempts) != 1 || plan.Attempts[0].ExpectedKind != query.KindURL {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestResolveBootstrapped(t *testing.T) {
	test.Start(test.Bootstrap)
	defer test.Finish()

	q := classify(t, "example.br")

	bc := bootstrap.NewClient()
	plan, err := Resolve(q, nil, bc)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Attempts) == 0 {
		t.Fatal("expected at least one attempt")
	}

	if plan.Attempts[0].URL.String() != "https://rdap.registro.br/domain/example.br" {
		t.Errorf("unexpected URL: %s", plan.Attempts[0].URL)
	}
}

func TestResolveTLDOverride(t *testing.T) {
	q := classify(t, "example.test")

	override, _ := url.Parse("https://rdap.example.internal/")
	policy := &Policy{TLDLookupOverride: map[string]*url.URL{"test": override}}

	plan, err := Resolve(q, policy, bootstrap.NewClient())
	if err != nil {
		t.Fatal(err)
	}

	if plan.Attempts[0].URL.String() != "https://rdap.example.internal/domain/example.test" {
		t.Errorf("unexpected URL: %s", plan.Attempts[0].URL)
	}
}
