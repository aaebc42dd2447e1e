// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"github.com/openrdap/rdap/jcard"
)

// Entity is an RFC 9083 §5.1 entity object.
type Entity struct {
	ObjectClassName string
	Handle          string
	Conformance     []string `rdap:"rdapConformance"`
	Notices         []Notice
	Remarks         []Remark
	Links           []Link
	Events          []Event
	Status          []string
	Port43          string
	Entities        []Entity

	VCard        *VCard `rdap:"vcardArray"`
	Roles        []string
	PublicIDs    []PublicID `rdap:"publicIds"`
	AsEventActor []Event    `rdap:"asEventActor"`

	// JSContact is an RFC 9553 JSContact conversion of VCard, populated by
	// ApplyJSContact when a caller opts into --to-jscontact also/only. It is
	// not decoded from the wire (servers don't send it); it's produced
	// locally and serialized alongside, or instead of, VCard.
	JSContact *jcard.JSContact `rdap:"jscontact"`

	// Networks/Autnums are populated by servers that attribute INR
	// resources directly to an entity (the ARIN-style extension print.go
	// already walks via printIPNetwork/printAutnum).
	Networks []IPNetwork `rdap:"networks"`
	Autnums  []Autnum    `rdap:"autnums"`

	DecodeData *DecodeData
}

// EntitySearchResults is an RFC 9083 §5.7 entity search response.
type EntitySearchResults struct {
	Conformance []string `rdap:"rdapConformance"`
	Notices     []Notice
	Results     []Entity `rdap:"entitySearchResults"`

	DecodeData *DecodeData
}
