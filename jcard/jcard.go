// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package jcard implements decoding of jCard (RFC 7095), the JSON encoding of
// vCard (RFC 6350) used inside RDAP's vcardArray member, and a lossy bridge
// between jCard and the protocol-independent Contact representation used
// by the rest of this module.
//
// A jCard consists of an array of properties (e.g. "fn", "tel") describing an
// individual or entity. Properties may be repeated, e.g. to represent
// multiple telephone numbers.
//
// RFC7095 describes the jCard JSON document format, which looks like:
//
//	["vcard", [
//	  [
//	    ["version", {}, "text", "4.0"],
//	    ["fn", {}, "text", "Joe Appleseed"],
//	    ["tel", {
//	          "type":["work", "voice"],
//	        },
//	        "uri",
//	        "tel:+1-555-555-1234;ext=555"
//	    ],
//	    ...
//	  ]
//	]
package jcard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// JCard represents a jCard.
type JCard struct {
	// Properties is the ordered list of jCard properties.
	Properties []*Property

	nameLookup map[string][]*Property
}

// Property represents a single jCard property.
//
// Each jCard property has four fields:
//
//	Name   Parameters                  Type   Value
//	-----  --------------------------  -----  -----------------------------
//	["tel", {"type":["work", "voice"]}, "uri", "tel:+1-555-555-1234;ext=555"]
type Property struct {
	Name       string
	Parameters map[string][]string
	Type       string

	// Value is one of: string, float64, bool, nil, or []interface{} (which
	// may nest, mixing any of the above). Use Values() for a flattened
	// []string view.
	Value interface{}
}

// Values returns a simplified []string view of the Property value, created
// by flattening the (potentially nested) value and stringifying each leaf.
func (p *Property) Values() []string {
	out := make([]string, 0, 1)
	appendValueStrings(p.Value, &out)
	return out
}

func appendValueStrings(v interface{}, out *[]string) {
	switch v := v.(type) {
	case nil:
		*out = append(*out, "")
	case bool:
		*out = append(*out, strconv.FormatBool(v))
	case float64:
		*out = append(*out, strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		*out = append(*out, v)
	case []interface{}:
		for _, v2 := range v {
			appendValueStrings(v2, out)
		}
	default:
		*out = append(*out, fmt.Sprintf("%v", v))
	}
}

// String returns the jCard as a multiline human readable string, for
// debugging only — it is not machine parsable.
func (j *JCard) String() string {
	parts := make([]string, 0, len(j.Properties))
	for _, p := range j.Properties {
		parts = append(parts, p.String())
	}
	return "jCard[\n" + strings.Join(parts, "\n") + "\n]"
}

// String returns the Property as a human readable string, for debugging only.
func (p *Property) String() string {
	return fmt.Sprintf("  %s (type=%s, parameters=%v): %v", p.Name, p.Type, p.Parameters, p.Value)
}

// Get returns the jCard Properties named name, preserving document order.
func (j *JCard) Get(name string) []*Property {
	name = strings.ToLower(name)
	return j.nameLookup[name]
}

// New decodes a jCard JSON document (the ["vcard", [...]] array).
//
// Parsing is handled with jlexer directly (rather than encoding/json) since
// a jCard property's Value column is a small, deeply heterogeneous tuple
// that is cheaper to walk token-by-token than to unmarshal into
// interface{} and re-inspect.
func New(jsonDocument []byte) (*JCard, error) {
	l := &jlexer.Lexer{Data: jsonDocument}

	l.Delim('[')
	if l.IsDelim(']') {
		l.AddNonFatalError(jCardError("jCard array is empty"))
	}

	label := l.String()
	if !strings.EqualFold(label, "vcard") {
		return nil, jCardError("structure is not a jCard (missing 'vcard' label)")
	}
	l.WantComma()

	j := &JCard{
		nameLookup: make(map[string][]*Property),
	}

	l.Delim('[')
	for !l.IsDelim(']') {
		prop, err := decodeProperty(l)
		if err != nil {
			return nil, err
		}

		j.Properties = append(j.Properties, prop)
		j.nameLookup[prop.Name] = append(j.nameLookup[prop.Name], prop)

		l.WantComma()
	}
	l.Delim(']')
	l.WantComma()
	l.Delim(']')

	if err := l.Error(); err != nil {
		return nil, jCardError(err.Error())
	}

	return j, nil
}

// NewLenient decodes a jCard document like New, but skips individual
// properties that fail to decode instead of failing the whole document.
func NewLenient(jsonDocument []byte) (*JCard, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(jsonDocument, &top); err != nil || len(top) != 2 {
		return nil, jCardError("structure is not a jCard")
	}

	var label string
	if err := json.Unmarshal(top[0], &label); err != nil || !strings.EqualFold(label, "vcard") {
		return nil, jCardError("structure is not a jCard (missing 'vcard' label)")
	}

	var propsRaw []json.RawMessage
	if err := json.Unmarshal(top[1], &propsRaw); err != nil {
		return nil, jCardError("jCard properties is not an array")
	}

	j := &JCard{
		nameLookup: make(map[string][]*Property),
	}

	for _, pr := range propsRaw {
		prop, err := decodePropertyBytes(pr)
		if err != nil {
			continue
		}

		j.Properties = append(j.Properties, prop)
		j.nameLookup[prop.Name] = append(j.nameLookup[prop.Name], prop)
	}

	return j, nil
}

func decodePropertyBytes(data []byte) (prop *Property, err error) {
	defer func() {
		if r := recover(); r != nil {
			prop, err = nil, jCardError("malformed property")
		}
	}()

	l := &jlexer.Lexer{Data: data}
	prop, err = decodeProperty(l)
	if err != nil {
		return nil, err
	}
	if lerr := l.Error(); lerr != nil {
		return nil, jCardError(lerr.Error())
	}
	return prop, nil
}

func decodeProperty(l *jlexer.Lexer) (*Property, error) {
	l.Delim('[')

	name := strings.ToLower(l.String())
	l.WantComma()

	params := map[string][]string{}
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.String()
		l.WantColon()

		if l.IsDelim('[') {
			l.Delim('[')
			for !l.IsDelim(']') {
				params[key] = append(params[key], l.String())
				l.WantComma()
			}
			l.Delim(']')
		} else {
			params[key] = append(params[key], l.String())
		}

		l.WantComma()
	}
	l.Delim('}')
	l.WantComma()

	propType := l.String()
	l.WantComma()

	values := make([]interface{}, 0, 1)
	for !l.IsDelim(']') {
		v, err := decodeValue(l, 0)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		l.WantComma()
	}
	l.Delim(']')

	var value interface{}
	if len(values) == 1 {
		value = values[0]
	} else {
		value = values
	}

	if err := l.Error(); err != nil {
		return nil, jCardError(err.Error())
	}

	return &Property{
		Name:       name,
		Parameters: params,
		Type:       propType,
		Value:      value,
	}, nil
}

func decodeValue(l *jlexer.Lexer, depth int) (interface{}, error) {
	if depth > 3 {
		return nil, jCardError("structured value too deep")
	}

	switch {
	case l.IsNull():
		l.Skip()
		return nil, nil
	case l.IsDelim('['):
		l.Delim('[')
		out := make([]interface{}, 0, 2)
		for !l.IsDelim(']') {
			v, err := decodeValue(l, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			l.WantComma()
		}
		l.Delim(']')
		return out, nil
	default:
		return l.Interface(), nil
	}
}

// MarshalJSON re-serializes the jCard to its RFC 7095 ["vcard", [...]] form.
func (j *JCard) MarshalJSON() ([]byte, error) {
	w := &jwriter.Writer{}

	w.RawByte('[')
	w.String("vcard")
	w.RawByte(',')
	w.RawByte('[')
	for i, p := range j.Properties {
		if i > 0 {
			w.RawByte(',')
		}
		p.encode(w)
	}
	w.RawByte(']')
	w.RawByte(']')

	return w.BuildBytes()
}

func (p *Property) encode(w *jwriter.Writer) {
	w.RawByte('[')
	w.String(p.Name)
	w.RawByte(',')

	w.RawByte('{')
	first := true
	for k, vs := range p.Parameters {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(k)
		w.RawByte(':')
		if len(vs) == 1 {
			w.String(vs[0])
		} else {
			w.RawByte('[')
			for i, v := range vs {
				if i > 0 {
					w.RawByte(',')
				}
				w.String(v)
			}
			w.RawByte(']')
		}
	}
	w.RawByte('}')
	w.RawByte(',')

	w.String(p.Type)
	w.RawByte(',')
	encodeValue(w, p.Value)

	w.RawByte(']')
}

func encodeValue(w *jwriter.Writer, v interface{}) {
	switch v := v.(type) {
	case nil:
		w.RawString("null")
	case string:
		w.String(v)
	case bool:
		w.Bool(v)
	case float64:
		w.Float64(v)
	case []interface{}:
		w.RawByte('[')
		for i, v2 := range v {
			if i > 0 {
				w.RawByte(',')
			}
			encodeValue(w, v2)
		}
		w.RawByte(']')
	default:
		w.RawString("null")
	}
}

func jCardError(e string) error {
	return fmt.Errorf("jcard: %s", e)
}
