// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package rdap implements a client for the Registration Data Access
// Protocol (RDAP).
//
// RDAP is a modern replacement for the text-based WHOIS (port 43) protocol.
// It provides registration data for domain names, IP addresses, AS numbers,
// and entities, in a structured JSON format.
//
// This client executes RDAP queries, following IANA's bootstrap registries
// to find the right server, and returns the responses as Go values.
//
// Example quick usage:
//
//	client := &rdap.Client{}
//	resp, err := client.Do(rdap.NewDomainRequest("google.cz"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	domain := resp.Response.(*rdap.Domain)
//
// Manual request construction, with a custom HTTP client and bootstrap
// cache:
//
//	client := &rdap.Client{
//	    HTTP:      &http.Client{Timeout: 30 * time.Second},
//	    Bootstrap: bootstrap.NewClient(),
//	}
//
//	req := rdap.NewAutnumRequest(5400)
//	resp, err := client.Do(req)
//
// resp.Attempts records every HTTP request the client made while chasing
// bootstrap redirects and referrals, so a caller can inspect partial
// failures even when the overall query ultimately succeeds or fails.
//
// All five regional internet registries (AFRINIC, ARIN, APNIC, LACNIC,
// RIPE NCC) run RDAP servers, along with a growing number of TLD registries
// and registrars, listed in IANA's bootstrap files
// (https://data.iana.org/rdap/).
//
// Beyond the client, this module also provides:
//
//   - package check, which runs a decoded response through a set of
//     structural and RFC-conformance checks;
//   - package store and package rdapsrv, an in-memory file-backed object
//     store and HTTP dispatcher for serving RDAP responses (cmd/rdap-server);
//   - a command-line client, cmd/rdap, built on this package's RunCLI.
package rdap
