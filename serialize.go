// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/mailru/easyjson/jwriter"

	"github.com/openrdap/rdap/jcard"
)

// Serialize renders obj back to its RDAP wire JSON form.
//
// Field order is stable: every response struct declares its RFC 9083
// common members (objectClassName, handle, rdapConformance, notices, ...)
// before its object-class-specific members, and Serialize walks fields in
// that declaration order, so the common-fields-first requirement falls out
// of the struct layout rather than needing a per-type ordering table. Any
// JSON member DecodeData recorded but couldn't match to a struct field is
// replayed afterwards (sorted by key), so a decode/Serialize round trip
// doesn't silently drop unrecognized extension members.
//
// Serialize is decodeStruct/decodeValue's mirror image: same rdap:"..."
// tag convention, same VCard/JSContact special-casing, applied in reverse.
func Serialize(obj RDAPObject) ([]byte, error) {
	if obj == nil {
		return nil, fmt.Errorf("rdap: cannot serialize a nil object")
	}

	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("rdap: cannot serialize a nil %s", v.Type())
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("rdap: cannot serialize a %s", v.Type())
	}

	w := &jwriter.Writer{}
	serializeStruct(w, v)
	return w.BuildBytes()
}

func serializeStruct(w *jwriter.Writer, v reflect.Value) {
	t := v.Type()

	w.RawByte('{')
	first := true
	emitKey := func(key string) {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(key)
		w.RawByte(':')
	}

	var dd *DecodeData

	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i)
		if ft.PkgPath != "" {
			continue // unexported
		}

		fv := v.Field(i)

		if ft.Type == decodeDataType {
			if !fv.IsNil() {
				dd, _ = fv.Interface().(*DecodeData)
			}
			continue
		}

		if isZeroValue(fv) {
			continue
		}

		emitKey(jsonKeyFor(ft))
		serializeValue(w, fv)
	}

	if dd != nil {
		unknown := dd.UnknownFields()
		sort.Strings(unknown)
		for _, k := range unknown {
			emitKey(k)
			serializeRaw(w, dd.Value(k))
		}
	}

	w.RawByte('}')
}

// isZeroValue reports whether fv should be omitted from the wire form, the
// same "nothing to say" test RDAP responses apply implicitly to optional
// members: nil pointers/interfaces, empty slices/maps, and zero scalars.
func isZeroValue(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return fv.IsNil()
	default:
		return fv.IsZero()
	}
}

func serializeValue(w *jwriter.Writer, fv reflect.Value) {
	if fv.Type() == vcardType {
		vc, _ := fv.Interface().(*VCard)
		if vc == nil {
			w.RawString("null")
			return
		}
		b, err := vc.MarshalJSON()
		if err != nil {
			w.RawString("null")
			return
		}
		w.Raw(b, nil)
		return
	}

	if fv.Type() == jsContactType {
		jsc, _ := fv.Interface().(*jcard.JSContact)
		if jsc == nil {
			w.RawString("null")
			return
		}
		b, err := json.Marshal(jsc)
		if err != nil {
			w.RawString("null")
			return
		}
		w.Raw(b, nil)
		return
	}

	switch fv.Kind() {
	case reflect.Ptr:
		if fv.IsNil() {
			w.RawString("null")
			return
		}
		serializeValue(w, fv.Elem())

	case reflect.Struct:
		serializeStruct(w, fv)

	case reflect.Slice:
		if fv.IsNil() {
			w.RawString("null")
			return
		}
		w.RawByte('[')
		for i := 0; i < fv.Len(); i++ {
			if i > 0 {
				w.RawByte(',')
			}
			serializeValue(w, fv.Index(i))
		}
		w.RawByte(']')

	case reflect.Map:
		w.RawByte('{')
		keys := fv.MapKeys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		for i, name := range names {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(name)
			w.RawByte(':')
			serializeValue(w, fv.MapIndex(reflect.ValueOf(name).Convert(fv.Type().Key())))
		}
		w.RawByte('}')

	case reflect.String:
		w.String(fv.String())

	case reflect.Bool:
		w.Bool(fv.Bool())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.Uint64(fv.Uint())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.Int64(fv.Int())

	case reflect.Float32, reflect.Float64:
		w.Float64(fv.Float())

	case reflect.Interface:
		serializeRaw(w, fv.Interface())

	default:
		w.RawString("null")
	}
}

// serializeRaw writes v, one of the plain JSON value kinds encoding/json
// produces when unmarshaling into interface{} (nil, string, bool, float64,
// []interface{}, map[string]interface{}): the shape DecodeData.Value
// returns for members that didn't match a struct field.
func serializeRaw(w *jwriter.Writer, v interface{}) {
	switch val := v.(type) {
	case nil:
		w.RawString("null")
	case string:
		w.String(val)
	case bool:
		w.Bool(val)
	case float64:
		w.Float64(val)
	case []interface{}:
		w.RawByte('[')
		for i, e := range val {
			if i > 0 {
				w.RawByte(',')
			}
			serializeRaw(w, e)
		}
		w.RawByte(']')
	case map[string]interface{}:
		w.RawByte('{')
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(k)
			w.RawByte(':')
			serializeRaw(w, val[k])
		}
		w.RawByte('}')
	default:
		b, err := json.Marshal(val)
		if err != nil {
			w.RawString("null")
			return
		}
		w.Raw(b, nil)
	}
}
