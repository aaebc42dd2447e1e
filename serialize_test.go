// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"reflect"
	"testing"
)

// TestSerializeRoundTrip exercises parse(serialize(r)) == r (spec.md §8)
// over a Domain response carrying nested entities, vCard, links, notices,
// secureDNS, and an unrecognized extension member.
func TestSerializeRoundTrip(t *testing.T) {
	original := `
	{
		"objectClassName": "domain",
		"rdapConformance": ["rdap_level_0", "icann_rdap_response_profile_0"],
		"handle": "XXXX",
		"ldhName": "example.cz",
		"notices": [
			{"title": "Terms of Use", "description": ["Use this data responsibly"]}
		],
		"links": [
			{"value": "https://example.com/domain/example.cz", "rel": "self", "href": "https://example.com/domain/example.cz", "type": "application/rdap+json"}
		],
		"secureDNS": {
			"zoneSigned": true,
			"delegationSigned": false
		},
		"entities": [
			{
				"objectClassName": "entity",
				"handle": "XXXX-RIR",
				"roles": ["registrant"],
				"vcardArray": [
					"vcard",
					[
						["version", {}, "text", "4.0"],
						["fn", {}, "text", "Joe User"]
					]
				]
			}
		],
		"custom_extension_field": {
			"nested": "value",
			"count": 3
		}
	}`

	first, err := NewDecoder([]byte(original)).Decode()
	if err != nil {
		t.Fatalf("initial decode failed: %s", err)
	}

	body, err := Serialize(first)
	if err != nil {
		t.Fatalf("Serialize failed: %s", err)
	}

	second, err := NewDecoder(body).Decode()
	if err != nil {
		t.Fatalf("re-decoding serialized body failed: %s\nbody: %s", err, body)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip mismatch:\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

// TestSerializeFieldOrder checks that the common RDAP fields
// (objectClassName, handle, rdapConformance) precede object-class-specific
// fields (ldhName) in the emitted bytes, per spec.md §4.1.
func TestSerializeFieldOrder(t *testing.T) {
	d := &Domain{
		ObjectClassName: "domain",
		Handle:          "XXXX",
		Conformance:     []string{"rdap_level_0"},
		LDHName:         "example.cz",
	}

	body, err := Serialize(d)
	if err != nil {
		t.Fatalf("Serialize failed: %s", err)
	}

	s := string(body)
	handleIdx := indexOf(s, `"handle"`)
	ldhIdx := indexOf(s, `"ldhName"`)
	if handleIdx == -1 || ldhIdx == -1 {
		t.Fatalf("expected both handle and ldhName in %s", s)
	}
	if handleIdx > ldhIdx {
		t.Errorf("expected handle before ldhName, got %s", s)
	}
}

func TestSerializeNil(t *testing.T) {
	if _, err := Serialize(nil); err == nil {
		t.Errorf("expected error serializing nil")
	}

	var d *Domain
	if _, err := Serialize(d); err == nil {
		t.Errorf("expected error serializing a nil *Domain")
	}
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
