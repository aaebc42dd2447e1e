// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"github.com/openrdap/rdap/jcard"
)

// VCard is a decoded jCard (RFC 7095) vcardArray value, as embedded in an
// RDAP Entity response.
type VCard struct {
	Properties []*VCardProperty

	j *jcard.JCard
}

// VCardProperty is a single jCard property, e.g. "fn" or "tel".
type VCardProperty jcard.Property

// Values returns a flattened []string view of the property value.
func (p *VCardProperty) Values() []string {
	return (*jcard.Property)(p).Values()
}

// VCardOptions configures NewVCardWithOptions.
type VCardOptions struct {
	// IgnoreInvalidProperties skips properties that fail to decode instead
	// of failing the whole vCard.
	IgnoreInvalidProperties bool
}

// NewVCard decodes a jCard JSON document (the vcardArray member of an RDAP
// Entity).
func NewVCard(jsonDocument []byte) (*VCard, error) {
	return NewVCardWithOptions(jsonDocument, VCardOptions{})
}

// NewVCardWithOptions decodes jsonDocument as NewVCard does, with options.
func NewVCardWithOptions(jsonDocument []byte, options VCardOptions) (*VCard, error) {
	j, err := jcard.New(jsonDocument)
	if err != nil {
		if options.IgnoreInvalidProperties {
			j, err = jcard.NewLenient(jsonDocument)
		}
		if err != nil {
			return nil, err
		}
	}

	v := &VCard{j: j}
	for _, p := range j.Properties {
		v.Properties = append(v.Properties, (*VCardProperty)(p))
	}

	return v, nil
}

// Get returns the properties named name, preserving document order.
func (v *VCard) Get(name string) []*VCardProperty {
	props := v.j.Get(name)

	out := make([]*VCardProperty, 0, len(props))
	for _, p := range props {
		out = append(out, (*VCardProperty)(p))
	}
	return out
}

func (v *VCard) first(name string) string {
	props := v.Get(name)
	if len(props) == 0 {
		return ""
	}
	values := props[0].Values()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (v *VCard) adrComponent(index int) string {
	props := v.Get("adr")
	if len(props) == 0 {
		return ""
	}
	values := props[0].Values()
	if index >= len(values) {
		return ""
	}
	return values[index]
}

// Name returns the "fn" (formatted name) property value.
func (v *VCard) Name() string {
	return v.first("fn")
}

// POBox returns the post office box component of the first "adr" property.
func (v *VCard) POBox() string {
	return v.adrComponent(0)
}

// ExtendedAddress returns the extended address component of the first "adr"
// property.
func (v *VCard) ExtendedAddress() string {
	return v.adrComponent(1)
}

// StreetAddress returns the street address component of the first "adr"
// property.
func (v *VCard) StreetAddress() string {
	return v.adrComponent(2)
}

// Locality returns the locality (city) component of the first "adr" property.
func (v *VCard) Locality() string {
	return v.adrComponent(3)
}

// Region returns the region (state/province) component of the first "adr"
// property.
func (v *VCard) Region() string {
	return v.adrComponent(4)
}

// PostalCode returns the postal code component of the first "adr" property.
func (v *VCard) PostalCode() string {
	return v.adrComponent(5)
}

// Country returns the country name component of the first "adr" property.
func (v *VCard) Country() string {
	return v.adrComponent(6)
}

// Tel returns the first "tel" property value.
func (v *VCard) Tel() string {
	return v.first("tel")
}

// Fax returns the first "tel" property value whose "type" parameter includes
// "fax".
func (v *VCard) Fax() string {
	for _, p := range v.Get("tel") {
		for _, t := range p.Parameters["type"] {
			if t == "fax" {
				values := p.Values()
				if len(values) > 0 {
					return values[0]
				}
			}
		}
	}
	return ""
}

// Email returns the first "email" property value.
func (v *VCard) Email() string {
	return v.first("email")
}

// Org returns the first "org" property value.
func (v *VCard) Org() string {
	return v.first("org")
}

// JCard returns the underlying jcard.JCard, for callers that need the full
// jCard representation (e.g. the RFC 9553 JSContact conversion). If v was
// built from Properties directly rather than decoded, one is assembled on
// the fly.
func (v *VCard) JCard() *jcard.JCard {
	if v.j != nil {
		return v.j
	}

	props := make([]*jcard.Property, len(v.Properties))
	for i, p := range v.Properties {
		props[i] = (*jcard.Property)(p)
	}
	return &jcard.JCard{Properties: props}
}

// MarshalJSON re-serializes the VCard to its RFC 7095 vcardArray form.
func (v *VCard) MarshalJSON() ([]byte, error) {
	if v.j != nil {
		return v.j.MarshalJSON()
	}

	props := make([]*jcard.Property, len(v.Properties))
	for i, p := range v.Properties {
		props[i] = (*jcard.Property)(p)
	}
	return (&jcard.JCard{Properties: props}).MarshalJSON()
}
