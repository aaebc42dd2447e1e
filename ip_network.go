// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

// IPNetwork is an RFC 9083 §5.4 ip network object.
type IPNetwork struct {
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

	StartAddress string
	EndAddress   string
	IPVersion    string `rdap:"ipVersion"`
	Name         string
	Type         string
	Country      string
	ParentHandle string `rdap:"parentHandle"`
	Cidr0Cidrs   []Cidr0Cidr `rdap:"cidr0_cidrs"`

	DecodeData *DecodeData
}
