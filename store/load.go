// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package store

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/openrdap/rdap"
)

// scan walks dir, loading every *.json (single object) and *.template
// (fanout spec) file into a fresh snapshot. One bad file is recorded as a
// LoadError and skipped; it doesn't fail the whole scan.
func scan(dir string) (*snapshot, []*LoadError, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("store: reading %s: %w", dir, err)
	}

	snap := newSnapshot()
	var errs []*LoadError

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}

		name := ent.Name()
		path := filepath.Join(dir, name)

		switch {
		case strings.HasSuffix(name, ".json"):
			if err := loadObjectFile(snap, path); err != nil {
				errs = append(errs, &LoadError{File: name, Err: err})
			}
		case strings.HasSuffix(name, ".template"):
			if err := loadTemplateFile(snap, path); err != nil {
				errs = append(errs, &LoadError{File: name, Err: err})
			}
		}
	}

	snap.networks.sort()

	return snap, errs, nil
}

func loadObjectFile(snap *snapshot, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if handled, err := maybeRegisterRedirect(snap, raw); handled || err != nil {
		return err
	}

	obj, err := rdap.NewDecoder(data).Decode()
	if err != nil {
		return err
	}

	return insertObject(snap, obj)
}

// maybeRegisterRedirect checks raw for a "redirect" member (an extension
// this store recognises on single-object files and template id-specs,
// alongside the object's identity field) and, if present, registers a
// redirect instead of indexing a full object. Reports whether raw was a
// redirect entry.
func maybeRegisterRedirect(snap *snapshot, raw map[string]interface{}) (bool, error) {
	target, ok := raw["redirect"].(string)
	if !ok || target == "" {
		return false, nil
	}

	class, _ := raw["objectClassName"].(string)

	var idValue string
	switch class {
	case "domain", "nameserver":
		idValue = normalizeName(stringField(raw, "ldhName"))
	case "entity":
		idValue = stringField(raw, "handle")
	case "ip network":
		idValue = stringField(raw, "startAddress")
	default:
		return true, fmt.Errorf("redirect entry has an unsupported or missing objectClassName %q", class)
	}
	if idValue == "" {
		return true, fmt.Errorf("redirect entry for class %q is missing its identity field", class)
	}

	snap.redirects[class+":"+idValue] = target
	return true, nil
}

func stringField(raw map[string]interface{}, key string) string {
	s, _ := raw[key].(string)
	return s
}

// templateFile is the *.template wire shape: exactly one class key holding
// the object body, plus "ids".
type templateFile map[string]json.RawMessage

func loadTemplateFile(snap *snapshot, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var tmpl templateFile
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return fmt.Errorf("invalid template JSON: %w", err)
	}

	idsRaw, ok := tmpl["ids"]
	if !ok {
		return fmt.Errorf("template is missing \"ids\"")
	}

	var ids []map[string]interface{}
	if err := json.Unmarshal(idsRaw, &ids); err != nil {
		return fmt.Errorf("invalid \"ids\" array: %w", err)
	}

	var class string
	var bodyRaw json.RawMessage
	for k, v := range tmpl {
		if k == "ids" {
			continue
		}
		class = k
		bodyRaw = v
	}
	if class == "" {
		return fmt.Errorf("template has no object-class key alongside \"ids\"")
	}

	var body map[string]interface{}
	if err := json.Unmarshal(bodyRaw, &body); err != nil {
		return fmt.Errorf("invalid %q body: %w", class, err)
	}

	className, ok := classObjectName(class)
	if !ok {
		return fmt.Errorf("unknown template class %q", class)
	}

	for i, id := range ids {
		merged, err := mergeID(class, body, id)
		if err != nil {
			return fmt.Errorf("ids[%d]: %w", i, err)
		}
		if _, present := merged["objectClassName"]; !present {
			merged["objectClassName"] = className
		}

		if redirect, ok := id["redirect"].(string); ok && redirect != "" {
			withClass := map[string]interface{}{"objectClassName": className, "redirect": redirect}
			for _, k := range []string{"ldhName", "handle", "startAddress"} {
				if v, ok := merged[k]; ok {
					withClass[k] = v
				}
			}
			if handled, err := maybeRegisterRedirect(snap, withClass); handled {
				if err != nil {
					return fmt.Errorf("ids[%d]: %w", i, err)
				}
				continue
			}
		}

		encoded, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("ids[%d]: %w", i, err)
		}

		obj, err := rdap.NewDecoder(encoded).Decode()
		if err != nil {
			return fmt.Errorf("ids[%d]: %w", i, err)
		}

		if err := insertObject(snap, obj); err != nil {
			return fmt.Errorf("ids[%d]: %w", i, err)
		}
	}

	return nil
}

func classObjectName(class string) (string, bool) {
	switch class {
	case "domain":
		return "domain", true
	case "nameserver":
		return "nameserver", true
	case "entity":
		return "entity", true
	case "autnum":
		return "autnum", true
	case "ip":
		return "ip network", true
	}
	return "", false
}

// mergeID merges one id-spec into a copy of body, producing the concrete
// object for that id. domain/nameserver/entity id-specs are literal body
// fields (ldhName/unicodeName/handle) and merge directly; autnum and ip
// id-specs use their own schema (§6) and are translated into the matching
// body fields.
func mergeID(class string, body map[string]interface{}, id map[string]interface{}) (map[string]interface{}, error) {
	merged := make(map[string]interface{}, len(body)+len(id))
	for k, v := range body {
		merged[k] = v
	}

	switch class {
	case "domain", "nameserver":
		for k, v := range id {
			merged[k] = v
		}

	case "entity":
		handle, ok := id["handle"]
		if !ok {
			return nil, fmt.Errorf("entity id-spec is missing \"handle\"")
		}
		merged["handle"] = handle

	case "autnum":
		start, ok1 := id["start_autnum"]
		end, ok2 := id["end_autnum"]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("autnum id-spec requires \"start_autnum\" and \"end_autnum\"")
		}
		merged["startAutnum"] = start
		merged["endAutnum"] = end

	case "ip":
		networkID, ok := id["networkId"]
		if !ok {
			return nil, fmt.Errorf("ip id-spec is missing \"networkId\"")
		}

		lo, hi, err := networkIDBounds(networkID)
		if err != nil {
			return nil, err
		}
		merged["startAddress"] = lo.String()
		merged["endAddress"] = hi.String()

	default:
		for k, v := range id {
			merged[k] = v
		}
	}

	return merged, nil
}

// networkIDBounds parses an ip id-spec's "networkId", which is either a
// CIDR string or a {"startAddress","endAddress"} object (§6).
func networkIDBounds(networkID interface{}) (lo, hi net.IP, err error) {
	switch v := networkID.(type) {
	case string:
		return parseAddrOrCIDRRange(v)
	case map[string]interface{}:
		startStr, _ := v["startAddress"].(string)
		endStr, _ := v["endAddress"].(string)
		lo := net.ParseIP(startStr)
		hi := net.ParseIP(endStr)
		if lo == nil || hi == nil {
			return nil, nil, fmt.Errorf("networkId object has an invalid startAddress/endAddress")
		}
		return lo, hi, nil
	default:
		return nil, nil, fmt.Errorf("networkId must be a string or object")
	}
}

// insertObject indexes a decoded RDAP object into snap by its concrete
// type.
func insertObject(snap *snapshot, obj interface{}) error {
	switch v := obj.(type) {
	case *rdap.Domain:
		if v.LDHName == "" {
			return fmt.Errorf("domain object is missing ldhName")
		}
		snap.domains[normalizeName(v.LDHName)] = v

	case *rdap.Nameserver:
		if v.LDHName == "" {
			return fmt.Errorf("nameserver object is missing ldhName")
		}
		snap.nameservers[normalizeName(v.LDHName)] = v

	case *rdap.Entity:
		if v.Handle == "" {
			return fmt.Errorf("entity object is missing handle")
		}
		snap.entities[v.Handle] = v

	case *rdap.Autnum:
		if v.StartAutnum == nil || v.EndAutnum == nil {
			return fmt.Errorf("autnum object is missing startAutnum/endAutnum")
		}
		snap.autnums = append(snap.autnums, autnumEntry{start: *v.StartAutnum, end: *v.EndAutnum, obj: v})

	case *rdap.IPNetwork:
		if v.StartAddress == "" || v.EndAddress == "" {
			return fmt.Errorf("ip network object is missing startAddress/endAddress")
		}
		lo := net.ParseIP(v.StartAddress)
		hi := net.ParseIP(v.EndAddress)
		if lo == nil || hi == nil {
			return fmt.Errorf("ip network object has an invalid startAddress/endAddress")
		}
		snap.networks.add(lo, hi, v)

	case *rdap.Help:
		snap.help = v

	default:
		return fmt.Errorf("unsupported object class %T for a data-directory file", obj)
	}

	return nil
}
