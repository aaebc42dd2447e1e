// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"github.com/openrdap/rdap/resolver"
	"github.com/openrdap/rdap/transport"
)

// Response is the result of a successful Client.Do call.
type Response struct {
	// Response is the decoded RDAP object: one of *Domain, *Entity,
	// *Nameserver, *Autnum, *IPNetwork, or *Help. When req.LinkTarget named
	// Targets and OnlyShowTargets was set, this is the last hop's response
	// instead of the initial one.
	Response RDAPObject

	// Attempts records every server contacted while resolving the request,
	// in order, including ones that failed before a final answer was
	// decoded, and every link-target hop fetched for LinkHops.
	Attempts []*HTTPResponse

	// LinkHops records the link-target traversal tree followed from the
	// initial response, breadth-first, when req.LinkTarget named Targets.
	LinkHops []*LinkHop

	// LinkWarnings carries non-fatal traversal anomalies (currently, cycle
	// detections); render these as StandardsWarning findings rather than
	// failing the request over them.
	LinkWarnings []resolver.Warning
}

// LinkHop is one followed link-target hop, paired with its decoded
// response.
type LinkHop struct {
	URL      string
	Rel      string
	Depth    int
	Response RDAPObject
}

// RDAPObject is implemented by every top-level RDAP response type
// (Domain, Entity, Nameserver, Autnum, IPNetwork, Help).
type RDAPObject interface{}

// HTTPResponse records one HTTP round trip made while resolving a request.
type HTTPResponse struct {
	URL    string
	Result *transport.Result
	Error  error
}
