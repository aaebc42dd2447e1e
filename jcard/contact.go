// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package jcard

import (
	"sort"
	"strings"
)

// Contact is a protocol-independent representation of a natural or legal
// person, bridging jCard (RFC 7095/6350) and JSContact (RFC 9553).
//
// Contact.FromVCard ∘ Contact.ToVCard round-trips losslessly modulo jCard
// parameter order and unknown parameters; Extras carries anything this
// struct has no field for so a round trip through ToVCard can restore it.
type Contact struct {
	FullName     string
	Kind         string // individual|org|group|location|application|device
	Organization string
	Titles       []string
	Roles        []string

	Addresses []Address
	Phones    []Phone
	Emails    []Email
	URLs      []string

	// Langs is preference-ordered (lowest Pref first; 0 means unspecified
	// and sorts last).
	Langs []Lang

	// Extras holds jCard properties with no Contact field, in document
	// order, preserved so ToVCard can round-trip them.
	Extras []*Property
}

// Address is the RDAP/jCard 7-component structured address, plus country.
type Address struct {
	POBox      string
	Ext        string // extended address
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string

	Pref  int
	Label string
	Types []string
}

// Phone is a telephone or fax number.
type Phone struct {
	Number string
	IsFax  bool
	Types  []string
	Pref   int
}

// Email is an electronic mail address.
type Email struct {
	Address string
	Types   []string
	Pref    int
}

// Lang is a preferred language, RFC 5646 tag plus jCard PREF parameter.
type Lang struct {
	Tag  string
	Pref int
}

// FromVCard builds a Contact from a decoded jCard.
//
// Unknown properties are preserved in Contact.Extras rather than dropped, so
// that a subsequent ToVCard call can restore them (see the package doc for
// the round-trip invariant).
func FromVCard(j *JCard) *Contact {
	c := &Contact{}

	known := map[string]bool{
		"fn": true, "kind": true, "org": true, "title": true, "role": true,
		"adr": true, "tel": true, "email": true, "url": true, "lang": true,
		"version": true,
	}

	for _, p := range j.Properties {
		switch p.Name {
		case "fn":
			c.FullName = firstString(p)
		case "kind":
			c.Kind = normalizeKind(firstString(p))
		case "org":
			c.Organization = firstString(p)
		case "title":
			c.Titles = append(c.Titles, firstString(p))
		case "role":
			c.Roles = append(c.Roles, firstString(p))
		case "adr":
			c.Addresses = append(c.Addresses, addressFromProperty(p))
		case "tel":
			c.Phones = append(c.Phones, phoneFromProperty(p))
		case "email":
			c.Emails = append(c.Emails, Email{
				Address: firstString(p),
				Types:   p.Parameters["type"],
				Pref:    prefOf(p),
			})
		case "url":
			c.URLs = append(c.URLs, firstString(p))
		case "lang":
			c.Langs = append(c.Langs, Lang{Tag: firstString(p), Pref: prefOf(p)})
		}

		if !known[p.Name] {
			c.Extras = append(c.Extras, p)
		}
	}

	sort.SliceStable(c.Langs, func(i, j int) bool {
		pi, pj := c.Langs[i].Pref, c.Langs[j].Pref
		if pi == 0 {
			return false
		}
		return pj == 0 || pi < pj
	})

	return c
}

// ToVCard renders a Contact back to a jCard, in canonical property order
// (version, fn, kind, org, title*, role*, adr*, tel*, email*, url*, lang*,
// then Extras in their original order).
func ToVCard(c *Contact) *JCard {
	j := &JCard{nameLookup: map[string][]*Property{}}

	add := func(p *Property) {
		j.Properties = append(j.Properties, p)
		j.nameLookup[p.Name] = append(j.nameLookup[p.Name], p)
	}

	add(&Property{Name: "version", Parameters: map[string][]string{}, Type: "text", Value: "4.0"})
	add(&Property{Name: "fn", Parameters: map[string][]string{}, Type: "text", Value: c.FullName})

	if c.Kind != "" {
		add(&Property{Name: "kind", Parameters: map[string][]string{}, Type: "text", Value: c.Kind})
	}
	if c.Organization != "" {
		add(&Property{Name: "org", Parameters: map[string][]string{}, Type: "text", Value: c.Organization})
	}
	for _, t := range c.Titles {
		add(&Property{Name: "title", Parameters: map[string][]string{}, Type: "text", Value: t})
	}
	for _, r := range c.Roles {
		add(&Property{Name: "role", Parameters: map[string][]string{}, Type: "text", Value: r})
	}
	for _, a := range c.Addresses {
		add(addressToProperty(a))
	}
	for _, t := range c.Phones {
		add(phoneToProperty(t))
	}
	for _, e := range c.Emails {
		params := map[string][]string{}
		if len(e.Types) > 0 {
			params["type"] = e.Types
		}
		setPref(params, e.Pref)
		add(&Property{Name: "email", Parameters: params, Type: "text", Value: e.Address})
	}
	for _, u := range c.URLs {
		add(&Property{Name: "url", Parameters: map[string][]string{}, Type: "uri", Value: u})
	}
	for _, l := range c.Langs {
		params := map[string][]string{}
		setPref(params, l.Pref)
		add(&Property{Name: "lang", Parameters: params, Type: "language-tag", Value: l.Tag})
	}
	for _, extra := range c.Extras {
		add(extra)
	}

	return j
}

func firstString(p *Property) string {
	if s, ok := p.Value.(string); ok {
		return s
	}
	vs := p.Values()
	if len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func prefOf(p *Property) int {
	vs, ok := p.Parameters["pref"]
	if !ok || len(vs) == 0 {
		return 0
	}
	n := 0
	for _, c := range vs[0] {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func setPref(params map[string][]string, pref int) {
	if pref > 0 {
		params["pref"] = []string{itoa(pref)}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func normalizeKind(k string) string {
	switch strings.ToLower(k) {
	case "individual", "org", "group", "location", "application", "device":
		return strings.ToLower(k)
	default:
		return k
	}
}

// addressFromProperty maps an "adr" property's 7-component structured value
// to Address. A scalar (non-array) adr value is placed entirely in Street.
func addressFromProperty(p *Property) Address {
	a := Address{
		Pref:  prefOf(p),
		Types: p.Parameters["type"],
		Label: firstParam(p, "label"),
	}

	parts, ok := p.Value.([]interface{})
	if !ok {
		a.Street = firstString(p)
		return a
	}

	get := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		if s, ok := parts[i].(string); ok {
			return s
		}
		return ""
	}

	a.POBox = get(0)
	a.Ext = get(1)
	a.Street = get(2)
	a.Locality = get(3)
	a.Region = get(4)
	a.PostalCode = get(5)
	a.Country = get(6)

	return a
}

func addressToProperty(a Address) *Property {
	params := map[string][]string{}
	if len(a.Types) > 0 {
		params["type"] = a.Types
	}
	if a.Label != "" {
		params["label"] = []string{a.Label}
	}
	setPref(params, a.Pref)

	return &Property{
		Name:       "adr",
		Parameters: params,
		Type:       "text",
		Value: []interface{}{
			a.POBox, a.Ext, a.Street, a.Locality, a.Region, a.PostalCode, a.Country,
		},
	}
}

func phoneFromProperty(p *Property) Phone {
	types := p.Parameters["type"]
	isFax := false
	for _, t := range types {
		if strings.EqualFold(t, "fax") {
			isFax = true
		}
	}

	return Phone{
		Number: firstString(p),
		IsFax:  isFax,
		Types:  types,
		Pref:   prefOf(p),
	}
}

func phoneToProperty(t Phone) *Property {
	params := map[string][]string{}
	if len(t.Types) > 0 {
		params["type"] = t.Types
	} else if t.IsFax {
		params["type"] = []string{"fax"}
	}
	setPref(params, t.Pref)

	return &Property{
		Name:       "tel",
		Parameters: params,
		Type:       "uri",
		Value:      t.Number,
	}
}

func firstParam(p *Property, name string) string {
	vs, ok := p.Parameters[name]
	if !ok || len(vs) == 0 {
		return ""
	}
	return vs[0]
}
