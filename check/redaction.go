// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package check

import (
	"strings"

	"github.com/openrdap/rdap"
)

// RedactionFlags are the orthogonal RFC 9537 redaction-handling flags.
type RedactionFlags struct {
	// HighlightSimple annotates SimpleRedaction.Highlighted on every
	// leaf a simplification pass was able to simplify.
	HighlightSimple bool

	// ShowRFC9537 is set from the show-rfc9537 redaction flag; Simplify and
	// the rules in this package do not read it.
	ShowRFC9537 bool

	// DoNotSimplify disables the simplification pass entirely; Simplify
	// then returns an empty slice.
	DoNotSimplify bool

	// DoRedactions is set from the do-redactions redaction flag; Simplify
	// and the rules in this package do not read it, and no field is blanked
	// out.
	DoRedactions bool
}

// SimpleRedaction is a simplified, leaf-addressed view of one RFC 9537
// redacted[] directive: the jsonpath collapsed down to a single field name,
// ready for a renderer to annotate without re-evaluating JSONPath.
type SimpleRedaction struct {
	Path        string
	Reason      string
	Method      string
	Highlighted bool
}

// Simplify rewrites redacted whose PathLang is "jsonpath" (or empty, RFC
// 9537's default) and whose PrePath/PostPath names a single leaf field into
// a SimpleRedaction. Entries with a compound or unparseable path, or a
// PathLang other than jsonpath, are left out — renderers needing those
// fall back to the raw Redacted array.
func Simplify(redacted []rdap.Redacted, flags RedactionFlags) []SimpleRedaction {
	if flags.DoNotSimplify {
		return nil
	}

	var out []SimpleRedaction
	for _, r := range redacted {
		if r.PathLang != "" && r.PathLang != "jsonpath" {
			continue
		}

		path := r.PrePath
		if path == "" {
			path = r.PostPath
		}
		if path == "" {
			path = r.ReplacementPath
		}

		leaf, ok := singleLeaf(path)
		if !ok {
			continue
		}

		out = append(out, SimpleRedaction{
			Path:        leaf,
			Reason:      r.Reason.Description,
			Method:      r.Method,
			Highlighted: flags.HighlightSimple,
		})
	}

	return out
}

// singleLeaf reports whether a JSONPath expression addresses exactly one
// leaf field (no wildcards, no array slices, no multi-step filters),
// returning that field's name.
func singleLeaf(path string) (string, bool) {
	path = strings.TrimPrefix(path, "$.")
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "", false
	}
	if strings.ContainsAny(path, "*[]?()") {
		return "", false
	}
	if strings.Contains(path, "..") {
		return "", false
	}
	return path, true
}
