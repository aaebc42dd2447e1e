// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
)

// ObjectTagRegistry resolves RDAP object tags (RFC 9654 / the
// draft-ietf-regext-rdap-object-tag registry) to RDAP base URLs.
//
// An entity, nameserver, domain or autnum handle may end in a registrar
// object tag, joined by either "~" or "-", e.g. "53774930~VRSN" or
// "53774930-VRSN". Both separators appear in the wild; IANA's published
// registry uses "-".
type ObjectTagRegistry struct {
	// Map of object tag (e.g. "VRSN") to RDAP base URLs.
	Tags map[string][]*url.URL

	file *RegistryFile
}

// NewObjectTagRegistry creates an ObjectTagRegistry from an object tag
// registry JSON document.
func NewObjectTagRegistry(json []byte) (*ObjectTagRegistry, error) {
	r, err := parse(json)
	if err != nil {
		return nil, fmt.Errorf("error parsing object tag bootstrap: %s", err)
	}

	return &ObjectTagRegistry{
		Tags: r.Entries,
		file: r,
	}, nil
}

// Lookup returns the RDAP base URLs for the object tag suffix of |input|.
//
// e.g. for the handle "53774930-VRSN", the RDAP base URLs for tag "VRSN" are
// returned. Missing/malformed/unknown tags are not treated as errors; an
// empty Result is returned in those cases so the caller can fall back to
// another resolution strategy.
func (s *ObjectTagRegistry) Lookup(input string) (*Result, error) {
	tag := objectTagOf(input)
	if tag == "" {
		return &Result{Query: input}, nil
	}

	urls, ok := s.Tags[tag]
	if !ok {
		tag = ""
	}

	return &Result{
		URLs:  urls,
		Query: input,
		Entry: tag,
	}, nil
}

// objectTagOf extracts the tag suffix from a handle of the form
// HANDLE~TAG or HANDLE-TAG. It prefers the last "~" if present, otherwise
// the last "-"; a bare tag (no separator) is not accepted, since a handle
// with no local part is not a valid object-tagged identifier.
func objectTagOf(input string) string {
	if offset := strings.LastIndexByte(input, '~'); offset != -1 && offset != len(input)-1 {
		return input[offset+1:]
	}

	if offset := strings.LastIndexByte(input, '-'); offset != -1 && offset != len(input)-1 {
		return input[offset+1:]
	}

	return ""
}

// File returns a struct describing the registry's JSON document.
func (s *ObjectTagRegistry) File() *RegistryFile {
	return s.file
}
