// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdapsrv

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/openrdap/rdap/jcard"
	"github.com/openrdap/rdap/store"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "example.json", `{
		"objectClassName": "domain",
		"ldhName": "example.com",
		"handle": "EXAMPLE-COM",
		"entities": [{
			"objectClassName": "entity",
			"handle": "JD1-TEST",
			"vcardArray": ["vcard", [
				["version", {}, "text", "4.0"],
				["fn", {}, "text", "Jane Doe"]
			]]
		}]
	}`)
	writeFile(t, dir, "old.json", `{"objectClassName": "domain", "ldhName": "old.example", "redirect": "https://rdap.example/domain/new.example"}`)

	s, _, err := store.Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	srv := &Server{
		Store:                        s,
		EnableDomainSearchByName:     true,
		EnableNameserverSearchByName: true,
		EnableNameserverSearchByIP:   true,
	}
	return srv, httptest.NewServer(srv)
}

func getJSON(t *testing.T, ts *httptest.Server, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %s", err)
	}
	return resp, body
}

func TestDomainLookup(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, body := getJSON(t, ts, "/domain/example.com")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := body["ldhName"]; got != "example.com" {
		t.Errorf("ldhName = %v", got)
	}
	if ct := resp.Header.Get("Content-Type"); ct != contentType {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDomainNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, body := getJSON(t, ts, "/domain/nowhere.example")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["errorCode"].(float64) != 404 {
		t.Errorf("errorCode = %v", body["errorCode"])
	}
}

func TestRedirect(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	client := ts.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Get(ts.URL + "/domain/old.example")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "https://rdap.example/domain/new.example" {
		t.Errorf("Location = %q", loc)
	}
}

func TestJSContactConversionAlso(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.JSContactConversion = jcard.ConversionAlso
	defer ts.Close()

	_, body := getJSON(t, ts, "/domain/example.com")
	entities, _ := body["entities"].([]interface{})
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	entity := entities[0].(map[string]interface{})

	if _, ok := entity["vcardArray"]; !ok {
		t.Error("expected vcardArray to still be present under ConversionAlso")
	}
	jsc, ok := entity["jscontact"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a jscontact member")
	}
	if jsc["fullName"] != "Jane Doe" {
		t.Errorf("jscontact.fullName = %v", jsc["fullName"])
	}
}

func TestJSContactConversionOnly(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.JSContactConversion = jcard.ConversionOnly
	defer ts.Close()

	_, body := getJSON(t, ts, "/domain/example.com")
	entities := body["entities"].([]interface{})
	entity := entities[0].(map[string]interface{})

	if _, ok := entity["vcardArray"]; ok {
		t.Error("expected vcardArray to be removed under ConversionOnly")
	}
	if _, ok := entity["jscontact"]; !ok {
		t.Error("expected a jscontact member")
	}
}

func TestHelpDefaultWhenUnconfigured(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, body := getJSON(t, ts, "/help")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, ok := body["rdapConformance"]; !ok {
		t.Error("expected a default rdapConformance member")
	}
}

func TestDomainSearchByName(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, body := getJSON(t, ts, "/domains?name=exam*")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	results, ok := body["domainSearchResults"].([]interface{})
	if !ok || len(results) != 1 {
		t.Fatalf("domainSearchResults = %v", body["domainSearchResults"])
	}
}

func TestDomainSearchDisabledByDefault(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.EnableDomainSearchByName = false
	defer ts.Close()

	resp, _ := getJSON(t, ts, "/domains?name=exam*")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when search is disabled", resp.StatusCode)
	}
}

func TestInvalidIPIs400(t *testing.T) {
	_, ts := newTestServer(t)
	defer ts.Close()

	resp, body := getJSON(t, ts, "/ip/not-an-address")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["errorCode"].(float64) != 400 {
		t.Errorf("errorCode = %v", body["errorCode"])
	}
}
