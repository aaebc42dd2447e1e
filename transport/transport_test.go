// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package transport

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

func TestFetchOK(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://rdap.example/domain/example.com",
		func(req *httpmock.Request) (*httpmock.Response, error) {
			resp := httpmock.NewStringResponse(200, `{"objectClassName":"domain"}`)
			resp.Header.Set("Content-Type", MediaType)
			return resp, nil
		},
	)

	d := NewDriver()
	u, _ := url.Parse("https://rdap.example/domain/example.com")

	result, err := d.Fetch(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if result.StatusCode != 200 {
		t.Errorf("got status %d", result.StatusCode)
	}
	if string(result.Body) != `{"objectClassName":"domain"}` {
		t.Errorf("unexpected body: %s", result.Body)
	}
}

func TestFetchRetries429(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", "https://rdap.example/domain/example.com",
		func(req *httpmock.Request) (*httpmock.Response, error) {
			calls++
			if calls < 2 {
				resp := httpmock.NewStringResponse(429, "slow down")
				resp.Header.Set("Retry-After", "0")
				return resp, nil
			}
			resp := httpmock.NewStringResponse(200, `{"objectClassName":"domain"}`)
			resp.Header.Set("Content-Type", MediaType)
			return resp, nil
		},
	)

	d := NewDriver()
	d.Sleep = func(time.Duration) {}
	u, _ := url.Parse("https://rdap.example/domain/example.com")

	result, err := d.Fetch(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if result.StatusCode != 200 {
		t.Errorf("got status %d", result.StatusCode)
	}
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://rdap.example/domain/example.com",
		httpmock.NewStringResponder(503, "unavailable"))

	d := NewDriver()
	d.Policy.MaxRetries = 2
	d.Sleep = func(time.Duration) {}
	u, _ := url.Parse("https://rdap.example/domain/example.com")

	_, err := d.Fetch(context.Background(), u)
	if err == nil {
		t.Fatal("expected an error")
	}

	rdapErr, ok := err.(*Error)
	if !ok || rdapErr.StatusCode != 503 {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFetchDoesNotRetry404(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", "https://rdap.example/domain/missing.com",
		func(req *httpmock.Request) (*httpmock.Response, error) {
			calls++
			return httpmock.NewStringResponse(404, "not found"), nil
		},
	)

	d := NewDriver()
	d.Sleep = func(time.Duration) {}
	u, _ := url.Parse("https://rdap.example/domain/missing.com")

	_, err := d.Fetch(context.Background(), u)
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("expected no retries for a 404, got %d calls", calls)
	}
}

func TestFetchUsesCacheOn304(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", "https://rdap.example/domain/example.com",
		func(req *httpmock.Request) (*httpmock.Response, error) {
			calls++
			if calls == 1 {
				resp := httpmock.NewStringResponse(200, `{"objectClassName":"domain"}`)
				resp.Header.Set("ETag", `"v1"`)
				resp.Header.Set("Content-Type", MediaType)
				return resp, nil
			}

			if req.Header.Get("If-None-Match") != `"v1"` {
				t.Errorf("expected conditional GET with If-None-Match, got %q", req.Header.Get("If-None-Match"))
			}
			return httpmock.NewStringResponse(304, ""), nil
		},
	)

	d := NewDriver()
	d.Cache = NewResponseCache(16)
	u, _ := url.Parse("https://rdap.example/domain/example.com")

	first, err := d.Fetch(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Errorf("first fetch should not be from cache")
	}

	second, err := d.Fetch(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Errorf("second fetch should be served from cache via 304")
	}
	if string(second.Body) != string(first.Body) {
		t.Errorf("cached body mismatch")
	}
}
