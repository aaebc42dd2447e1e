// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdapsrv

import (
	"github.com/openrdap/rdap"
	"github.com/openrdap/rdap/jcard"
)

// renderObject applies mode's JSContact conversion to every entity reachable
// from obj and serializes the result to its RDAP wire JSON form, preserving
// Serialize's stable field order.
func renderObject(obj rdap.RDAPObject, mode jcard.ConversionMode) ([]byte, error) {
	return rdap.Serialize(rdap.ApplyJSContact(obj, mode))
}

func renderDomainSearchResults(domains []*rdap.Domain, mode jcard.ConversionMode) ([]byte, error) {
	results := make([]rdap.Domain, len(domains))
	for i, d := range domains {
		results[i] = *d
	}
	sr := &rdap.DomainSearchResults{
		Conformance: []string{"rdap_level_0"},
		Results:     results,
	}
	return rdap.Serialize(rdap.ApplyJSContact(sr, mode))
}

func renderNameserverSearchResults(nameservers []*rdap.Nameserver, mode jcard.ConversionMode) ([]byte, error) {
	results := make([]rdap.Nameserver, len(nameservers))
	for i, ns := range nameservers {
		results[i] = *ns
	}
	sr := &rdap.NameserverSearchResults{
		Conformance: []string{"rdap_level_0"},
		Results:     results,
	}
	return rdap.Serialize(rdap.ApplyJSContact(sr, mode))
}

// helpBody builds and serializes the default, unconfigured /help response.
func helpBody() []byte {
	body, err := rdap.Serialize(&rdap.Help{Conformance: []string{"rdap_level_0"}})
	if err != nil {
		return []byte(`{"rdapConformance":["rdap_level_0"]}`)
	}
	return body
}

// errorBody builds and serializes an RFC 9083 §6 error response body.
func errorBody(code uint32, title string, description ...string) []byte {
	e := &rdap.Error{
		Conformance: []string{"rdap_level_0"},
		ErrorCode:   code,
		Title:       title,
		Description: description,
	}
	body, err := rdap.Serialize(e)
	if err != nil {
		// Serialize only fails on an unsupported Go shape, never on data;
		// this can't happen for a literal *rdap.Error.
		return []byte(`{"rdapConformance":["rdap_level_0"],"errorCode":500,"title":"Internal Server Error"}`)
	}
	return body
}
