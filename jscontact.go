// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"github.com/openrdap/rdap/jcard"
)

// ApplyJSContact returns a copy of obj with every reachable Entity's
// JSContact field populated from VCard's RFC 9553 conversion: entities
// directly attached, nested sub-entities, and entities attributed to a
// network/autnum an entity itself holds (the ARIN-style extension).
// ConversionOnly additionally clears VCard on the copy, so a later Serialize
// omits vcardArray entirely. obj itself is left untouched — callers (the
// CLI and rdap-server) both hold obj from a shared store/decoded response,
// so conversion must not mutate it in place.
//
// This is the one conversion path shared by rdap-server (per response) and
// the CLI (--to-jscontact).
func ApplyJSContact(obj RDAPObject, mode jcard.ConversionMode) RDAPObject {
	if mode == jcard.ConversionNone || obj == nil {
		return obj
	}

	switch v := obj.(type) {
	case *Domain:
		return cloneDomain(v, mode)
	case *Nameserver:
		return cloneNameserver(v, mode)
	case *Entity:
		return cloneEntity(v, mode)
	case *Autnum:
		return cloneAutnum(v, mode)
	case *IPNetwork:
		return cloneIPNetwork(v, mode)
	case *DomainSearchResults:
		sr := *v
		sr.Results = make([]Domain, len(v.Results))
		for i := range v.Results {
			sr.Results[i] = *cloneDomain(&v.Results[i], mode)
		}
		return &sr
	case *NameserverSearchResults:
		sr := *v
		sr.Results = make([]Nameserver, len(v.Results))
		for i := range v.Results {
			sr.Results[i] = *cloneNameserver(&v.Results[i], mode)
		}
		return &sr
	case *EntitySearchResults:
		sr := *v
		sr.Results = make([]Entity, len(v.Results))
		for i := range v.Results {
			sr.Results[i] = *cloneEntity(&v.Results[i], mode)
		}
		return &sr
	}

	return obj
}

func cloneDomain(d *Domain, mode jcard.ConversionMode) *Domain {
	nd := *d
	nd.Entities = cloneEntities(d.Entities, mode)
	if d.Network != nil {
		nd.Network = cloneIPNetwork(d.Network, mode)
	}
	return &nd
}

func cloneNameserver(ns *Nameserver, mode jcard.ConversionMode) *Nameserver {
	nns := *ns
	nns.Entities = cloneEntities(ns.Entities, mode)
	return &nns
}

func cloneAutnum(a *Autnum, mode jcard.ConversionMode) *Autnum {
	na := *a
	na.Entities = cloneEntities(a.Entities, mode)
	return &na
}

func cloneIPNetwork(ipn *IPNetwork, mode jcard.ConversionMode) *IPNetwork {
	nipn := *ipn
	nipn.Entities = cloneEntities(ipn.Entities, mode)
	return &nipn
}

func cloneEntities(entities []Entity, mode jcard.ConversionMode) []Entity {
	if entities == nil {
		return nil
	}
	out := make([]Entity, len(entities))
	for i := range entities {
		out[i] = *cloneEntity(&entities[i], mode)
	}
	return out
}

func cloneEntity(e *Entity, mode jcard.ConversionMode) *Entity {
	ne := *e

	if e.VCard != nil {
		contact := jcard.FromVCard(e.VCard.JCard())
		ne.JSContact = jcard.ToJSContact(contact)
		if mode == jcard.ConversionOnly {
			ne.VCard = nil
		}
	}

	ne.Entities = cloneEntities(e.Entities, mode)

	if e.Networks != nil {
		ne.Networks = make([]IPNetwork, len(e.Networks))
		for i := range e.Networks {
			ne.Networks[i] = *cloneIPNetwork(&e.Networks[i], mode)
		}
	}

	if e.Autnums != nil {
		ne.Autnums = make([]Autnum, len(e.Autnums))
		for i := range e.Autnums {
			ne.Autnums[i] = *cloneAutnum(&e.Autnums[i], mode)
		}
	}

	return &ne
}
