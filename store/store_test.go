// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSingleObjectFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "example.json", `{
		"objectClassName": "domain",
		"ldhName": "example.com",
		"handle": "EXAMPLE-COM"
	}`)
	writeFile(t, dir, "entity.json", `{
		"objectClassName": "entity",
		"handle": "XXXX"
	}`)

	s, errs, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected load errors: %+v", errs)
	}

	d, ok := s.Domain("EXAMPLE.COM")
	if !ok {
		t.Fatal("expected to find example.com (case-insensitive)")
	}
	if d.Handle != "EXAMPLE-COM" {
		t.Errorf("unexpected handle: %s", d.Handle)
	}

	if _, ok := s.Entity("XXXX"); !ok {
		t.Error("expected to find entity XXXX")
	}
}

func TestLoadTemplateDomain(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "domains.template", `{
		"domain": { "objectClassName": "domain", "status": ["active"] },
		"ids": [
			{"ldhName": "one.example"},
			{"ldhName": "two.example"}
		]
	}`)

	s, errs, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected load errors: %+v", errs)
	}

	one, ok := s.Domain("one.example")
	if !ok {
		t.Fatal("expected to find one.example")
	}
	if len(one.Status) != 1 || one.Status[0] != "active" {
		t.Errorf("expected templated status to carry over, got %+v", one.Status)
	}

	if _, ok := s.Domain("two.example"); !ok {
		t.Error("expected to find two.example")
	}
}

func TestLoadTemplateAutnum(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "autnums.template", `{
		"autnum": { "objectClassName": "autnum", "name": "EXAMPLE-AS" },
		"ids": [
			{"start_autnum": 100, "end_autnum": 200}
		]
	}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	a, ok := s.Autnum(150)
	if !ok {
		t.Fatal("expected to find autnum 150 within [100,200]")
	}
	if a.Name != "EXAMPLE-AS" {
		t.Errorf("unexpected name: %s", a.Name)
	}

	if _, ok := s.Autnum(250); ok {
		t.Error("expected 250 to be outside the range")
	}
}

func TestLoadTemplateIPNetwork(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "nets.template", `{
		"ip": { "objectClassName": "ip network", "name": "EXAMPLE-NET" },
		"ids": [
			{"networkId": "192.0.2.0/24"}
		]
	}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	n, ok := s.IPNetwork("192.0.2.10")
	if !ok {
		t.Fatal("expected 192.0.2.10 to match 192.0.2.0/24")
	}
	if n.Name != "EXAMPLE-NET" {
		t.Errorf("unexpected name: %s", n.Name)
	}

	if _, ok := s.IPNetwork("198.51.100.1"); ok {
		t.Error("expected 198.51.100.1 to not match")
	}
}

func TestIPNetworkNarrowestMatch(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "nets.template", `{
		"ip": { "objectClassName": "ip network" },
		"ids": [
			{"networkId": "192.0.2.0/24", "redirect_marker": "wide"},
			{"networkId": "192.0.2.0/28", "redirect_marker": "narrow"}
		]
	}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	n, ok := s.IPNetwork("192.0.2.1")
	if !ok {
		t.Fatal("expected a match")
	}
	if n.StartAddress != "192.0.2.0" || n.EndAddress != "192.0.2.15" {
		t.Errorf("expected the narrowest /28 range, got [%s,%s]", n.StartAddress, n.EndAddress)
	}
}

func TestSearchDomainsByNameGlob(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "domains.template", `{
		"domain": { "objectClassName": "domain" },
		"ids": [
			{"ldhName": "foo.example"},
			{"ldhName": "bar.example"},
			{"ldhName": "foobar.example"}
		]
	}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	results := s.SearchDomainsByName("foo*")
	if len(results) != 2 {
		t.Fatalf("expected 2 matches for foo*, got %d: %+v", len(results), results)
	}
}

func TestRedirectEntry(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "moved.json", `{
		"objectClassName": "domain",
		"ldhName": "old.example",
		"redirect": "https://example.org/rdap/domain/new.example"
	}`)

	s, errs, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected load errors: %+v", errs)
	}

	if _, ok := s.Domain("old.example"); ok {
		t.Error("a redirect entry should not also be indexed as a domain")
	}

	target, ok := s.RedirectFor("domain:old.example")
	if !ok {
		t.Fatal("expected a redirect to be registered")
	}
	if target != "https://example.org/rdap/domain/new.example" {
		t.Errorf("unexpected redirect target: %s", target)
	}
}

func TestUpdateSentinelMergesWithoutClearing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"objectClassName":"domain","ldhName":"one.example"}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "two.json", `{"objectClassName":"domain","ldhName":"two.example"}`)
	if _, err := s.Update(); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Domain("one.example"); !ok {
		t.Error("update should preserve previously indexed domains")
	}
	if _, ok := s.Domain("two.example"); !ok {
		t.Error("update should pick up newly added domains")
	}
}

func TestReloadSentinelClearsFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"objectClassName":"domain","ldhName":"one.example"}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(dir, "one.json")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "two.json", `{"objectClassName":"domain","ldhName":"two.example"}`)

	if _, err := s.Reload(); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Domain("one.example"); ok {
		t.Error("reload should have cleared the removed domain")
	}
	if _, ok := s.Domain("two.example"); !ok {
		t.Error("reload should pick up the new domain")
	}
}

func TestWatchPicksUpReloadSentinel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"objectClassName":"domain","ldhName":"one.example"}`)

	s, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "two.json", `{"objectClassName":"domain","ldhName":"two.example"}`)
	writeFile(t, dir, "reload", "")

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.Watch(10*time.Millisecond, stop, nil)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := s.Domain("two.example"); ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(stop)
	<-done

	if _, ok := s.Domain("two.example"); !ok {
		t.Error("expected the watcher to pick up the reload sentinel")
	}
}
