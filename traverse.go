// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"context"
	"fmt"
	"net/url"

	"github.com/openrdap/rdap/resolver"
	"github.com/openrdap/rdap/transport"
)

// linksOf returns the RFC 9083 §4.2 links of any decoded RDAP response
// type, for feeding into resolver.Traverse.
func linksOf(obj RDAPObject) []Link {
	switch v := obj.(type) {
	case *Domain:
		return v.Links
	case *Entity:
		return v.Links
	case *Nameserver:
		return v.Links
	case *Autnum:
		return v.Links
	case *IPNetwork:
		return v.Links
	}
	return nil
}

func linkRefs(links []Link) []resolver.LinkRef {
	out := make([]resolver.LinkRef, len(links))
	for i, l := range links {
		out[i] = resolver.LinkRef{Rel: l.Rel, Href: l.Href}
	}
	return out
}

// traverseLinks runs resolver.Traverse from resp.Response's links, fetching
// each followed hop with driver and decoding it the same way Client.Do
// decodes the initial response. Every hop fetch is appended to
// resp.Attempts, same as the initial request's.
func (c *Client) traverseLinks(ctx context.Context, resp *Response, driver *transport.Driver, policy resolver.LinkTargetPolicy) ([]*LinkHop, []resolver.Warning) {
	byURL := map[string]RDAPObject{}

	follow := func(u *url.URL) ([]resolver.LinkRef, error) {
		result, err := driver.Fetch(ctx, u)
		resp.Attempts = append(resp.Attempts, &HTTPResponse{URL: u.String(), Result: result, Error: err})
		if err != nil {
			return nil, err
		}

		obj, decodeErr := NewDecoder(result.Body).Decode()
		if decodeErr != nil {
			return nil, decodeErr
		}

		byURL[u.String()] = obj
		return linkRefs(linksOf(obj)), nil
	}

	hops, warnings, err := resolver.Traverse(linkRefs(linksOf(resp.Response)), policy, follow)
	if err != nil {
		c.Verbose(fmt.Sprintf("client: link-target traversal stopped: %s", err))
	}

	out := make([]*LinkHop, len(hops))
	for i, h := range hops {
		out[i] = &LinkHop{URL: h.URL.String(), Rel: h.Rel, Depth: h.Depth, Response: byURL[h.URL.String()]}
	}
	return out, warnings
}
