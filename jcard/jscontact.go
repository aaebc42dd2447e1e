// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package jcard

// ConversionMode selects how a Contact's JSContact (RFC 9553) representation
// relates to its jCard representation when re-serialized into an RDAP
// response's entity.
type ConversionMode int

const (
	// ConversionNone emits only vcardArray.
	ConversionNone ConversionMode = iota
	// ConversionAlso emits both vcardArray and a "jscontact" extension member.
	ConversionAlso
	// ConversionOnly emits only a "jscontact" member, omitting vcardArray.
	ConversionOnly
)

// ParseConversionMode parses the RDAP_SRV_JSCONTACT_CONVERSION /
// --to-jscontact values "none", "also", "only".
func ParseConversionMode(s string) ConversionMode {
	switch s {
	case "also":
		return ConversionAlso
	case "only":
		return ConversionOnly
	default:
		return ConversionNone
	}
}

// JSContact is a deliberately partial RFC 9553 representation: the fields
// that have an unambiguous Contact analog. Properties with no JSContact
// analog (jCard parameters without a JSContact equivalent, Contact.Extras)
// are dropped silently, per spec.
type JSContact struct {
	Type         string            `json:"@type"`
	FullName     string            `json:"fullName,omitempty"`
	Kind         string            `json:"kind,omitempty"`
	Organization string            `json:"organization,omitempty"`
	Titles       []string          `json:"titles,omitempty"`
	Addresses    []JSAddress       `json:"addresses,omitempty"`
	Phones       []JSPhone         `json:"phones,omitempty"`
	Emails       []JSEmail         `json:"emails,omitempty"`
	Online       []string          `json:"online,omitempty"`
	Preferences  map[string]int    `json:"-"`
}

type JSAddress struct {
	PostOfficeBox string `json:"postOfficeBox,omitempty"`
	Extended      string `json:"extendedAddress,omitempty"`
	Street        string `json:"street,omitempty"`
	Locality      string `json:"locality,omitempty"`
	Region        string `json:"region,omitempty"`
	PostalCode    string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`
}

type JSPhone struct {
	Number   string   `json:"number"`
	Features []string `json:"features,omitempty"`
}

type JSEmail struct {
	Address string `json:"address"`
}

// ToJSContact converts a Contact to its JSContact projection.
func ToJSContact(c *Contact) *JSContact {
	jc := &JSContact{
		Type:         "Card",
		FullName:     c.FullName,
		Kind:         c.Kind,
		Organization: c.Organization,
		Titles:       c.Titles,
	}

	for _, a := range c.Addresses {
		jc.Addresses = append(jc.Addresses, JSAddress{
			PostOfficeBox: a.POBox,
			Extended:      a.Ext,
			Street:        a.Street,
			Locality:      a.Locality,
			Region:        a.Region,
			PostalCode:    a.PostalCode,
			Country:       a.Country,
		})
	}

	for _, p := range c.Phones {
		features := p.Types
		if p.IsFax {
			features = append(append([]string{}, features...), "fax")
		}
		jc.Phones = append(jc.Phones, JSPhone{Number: p.Number, Features: features})
	}

	for _, e := range c.Emails {
		jc.Emails = append(jc.Emails, JSEmail{Address: e.Address})
	}

	jc.Online = append(jc.Online, c.URLs...)

	return jc
}
