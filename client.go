// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openrdap/rdap/bootstrap"
	"github.com/openrdap/rdap/query"
	"github.com/openrdap/rdap/resolver"
	"github.com/openrdap/rdap/transport"
)

// Client implements an RDAP client.
//
// This client executes RDAP requests, and returns the responses as Go values.
// The zero value is ready to use; HTTP and Bootstrap are lazily defaulted
// on first Do.
//
// Quick usage:
//   client := &rdap.Client{}
//   resp, err := client.Do(rdap.NewDomainRequest("example.cz"))
//
//   if domain, ok := resp.Response.(*rdap.Domain); ok {
//     fmt.Printf("Handle=%s Domain=%s\n", domain.Handle, domain.LDHName)
//   }
//
// Advanced usage:
//
// This demonstrates a custom Context, a custom HTTP client, a custom
// Bootstrapper, and a custom server.
//   // Nameserver query on rdap.nic.cz.
//   server, _ := url.Parse("https://rdap.nic.cz")
//   req := &rdap.Request{
//     Type: rdap.NameserverRequest,
//     Query: "a.ns.nic.cz",
//
//     Server: server,
//   }
//
//   req = req.WithContext(ctx) // Custom context (see https://blog.golang.org/context).
//
//   client := &rdap.Client{}
//   client.HTTP = &http.Client{}                // Custom HTTP client.
//   client.Bootstrap = bootstrap.NewClient()     // Custom bootstrapper.
//
//   resp, err := client.Do(req)
//
//   if ns, ok := resp.Response.(*rdap.Nameserver); ok {
//     fmt.Printf("Handle=%s Domain=%s\n", ns.Handle, ns.LDHName)
//   }
type Client struct {
	HTTP      *http.Client
	Bootstrap *bootstrap.Client

	// Optional callback function for verbose messages.
	Verbose func(text string)
}

// Do runs req, bootstrapping a server if req.Server is unset, and decodes
// the first successful response.
func (c *Client) Do(req *Request) (*Response, error) {
	if req == nil {
		return nil, &ClientError{Type: OtherError, Text: "rdap: nil Request"}
	}

	if c.HTTP == nil {
		c.HTTP = &http.Client{}
	}
	if c.Bootstrap == nil {
		c.Bootstrap = bootstrap.NewClient()
	}
	if c.Verbose == nil {
		c.Verbose = defaultVerboseFunc
	}

	ctx := req.Context()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	c.Verbose(fmt.Sprintf("client: running request type %s (query=%q)", req.Type, req.Query))

	urls, err := c.candidateURLs(req)
	if err != nil {
		return nil, err
	}

	driver := transport.NewDriver()
	driver.HTTP = c.HTTP

	var attempts []*HTTPResponse
	var lastErr error

	for _, u := range urls {
		c.Verbose(fmt.Sprintf("client: fetching %s", u))

		result, fetchErr := driver.Fetch(ctx, u)
		attempts = append(attempts, &HTTPResponse{URL: u.String(), Result: result, Error: fetchErr})

		if fetchErr != nil {
			if tErr, ok := fetchErr.(*transport.Error); ok && tErr.StatusCode == http.StatusNotFound {
				return nil, &ClientError{
					Type: ObjectDoesNotExist,
					Text: fmt.Sprintf("rdap: %s: object does not exist", u),
					Err:  fetchErr,
				}
			}

			lastErr = fetchErr
			continue
		}

		object, decodeErr := NewDecoder(result.Body).Decode()
		if decodeErr != nil {
			lastErr = decodeErr
			continue
		}

		resp := &Response{Response: object, Attempts: attempts}

		if len(req.LinkTarget.Targets) > 0 {
			hops, warnings := c.traverseLinks(ctx, resp, driver, req.LinkTarget)
			resp.LinkHops = hops
			resp.LinkWarnings = warnings
			if req.LinkTarget.OnlyShowTargets && len(hops) > 0 {
				resp.Response = hops[len(hops)-1].Response
			}
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("rdap: no RDAP servers to try")
	}

	errType := ServersExhausted
	var pErr *transport.ParseError
	if errors.As(lastErr, &pErr) {
		errType = MalformedResponse
	}

	return nil, &ClientError{Type: errType, Text: lastErr.Error(), Err: lastErr}
}

// candidateURLs returns, in priority order, the RDAP server URLs to try for
// req: req.RawURL for a RawRequest, req.URL() when req.Server is already
// set, or the result of bootstrapping otherwise.
func (c *Client) candidateURLs(req *Request) ([]*url.URL, error) {
	if req.Type == RawRequest {
		if req.RawURL == nil {
			return nil, &ClientError{Type: OtherError, Text: "rdap: RawRequest requires RawURL"}
		}
		return []*url.URL{req.RawURL}, nil
	}

	if req.Server != nil {
		u := req.URL()
		if u == nil {
			return nil, &ClientError{Type: OtherError, Text: "rdap: could not build a request URL"}
		}
		return []*url.URL{u}, nil
	}

	q, err := requestToQuery(req)
	if err != nil {
		return nil, &ClientError{Type: OtherError, Text: err.Error(), Err: err}
	}

	plan, err := resolver.Resolve(q, &resolver.Policy{}, c.Bootstrap)
	if err != nil {
		return nil, &ClientError{Type: BootstrapNotSupported, Text: err.Error(), Err: err}
	}

	urls := make([]*url.URL, 0, len(plan.Attempts))
	for _, a := range plan.Attempts {
		urls = append(urls, a.URL)
	}
	return urls, nil
}

// requestToQuery translates a Request into the query.Query resolver.Resolve
// expects, reusing query.Classify's inference/validation for the typed
// request kinds, and building search Queries directly (searches carry a
// free-form pattern, not something to classify).
func requestToQuery(req *Request) (*query.Query, error) {
	switch req.Type {
	case HelpRequest:
		return &query.Query{Kind: query.KindServerHelp, Raw: "help"}, nil
	case DomainSearchRequest:
		return &query.Query{Kind: query.KindDomainNameSearch, Pattern: req.Query, Raw: req.Query}, nil
	case DomainSearchByNameserverRequest:
		return &query.Query{Kind: query.KindDomainNsNameSearch, Pattern: req.Query, Raw: req.Query}, nil
	case DomainSearchByNameserverIPRequest:
		return &query.Query{Kind: query.KindDomainNsIPSearch, Pattern: req.Query, Raw: req.Query}, nil
	case NameserverSearchRequest:
		return &query.Query{Kind: query.KindNsNameSearch, Pattern: req.Query, Raw: req.Query}, nil
	case NameserverSearchByNameserverIPRequest:
		return &query.Query{Kind: query.KindNsIPSearch, Pattern: req.Query, Raw: req.Query}, nil
	case EntitySearchRequest:
		return &query.Query{Kind: query.KindEntityNameSearch, Pattern: req.Query, Raw: req.Query}, nil
	case EntitySearchByHandleRequest:
		return &query.Query{Kind: query.KindEntityHandleSearch, Pattern: req.Query, Raw: req.Query}, nil
	}

	hint := query.HintNone
	switch req.Type {
	case AutnumRequest:
		hint = query.HintAutNum
	case IPRequest:
		hint = query.HintIP
	case DomainRequest:
		hint = query.HintDomain
	case NameserverRequest:
		hint = query.HintNameserver
	case EntityRequest:
		hint = query.HintEntity
	}

	return query.Classify(req.Query, hint)
}

// QueryDomain makes an RDAP request for the |domain|.
//
// Full contact information (where available) is provided. The timeout is 30s.
func (c *Client) QueryDomain(domain string) (*Domain, error) {
	req := &Request{
		Type:  DomainRequest,
		Query: domain,
	}

	resp, err := c.doQuickRequest(req)
	if err != nil {
		return nil, err
	}

	if domain, ok := resp.Response.(*Domain); ok {
		return domain, nil
	}

	return nil, &ClientError{
		Type: WrongResponseType,
		Text: "The server didn't return an RDAP Domain response",
	}
}

func (c *Client) doQuickRequest(req *Request) (*Response, error) {
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Second*30)
	defer cancelFunc()

	req = req.WithContext(ctx)
	resp, err := c.Do(req)

	return resp, err
}

// QueryAutnum makes an RDAP request for the Autonomous System Number (ASN) |autnum|.
//
// |autnum| is an ASN string, e.g. "AS2856" or "5400".
//
// Full contact information (where available) is provided. The timeout is 30s.
func (c *Client) QueryAutnum(autnum string) (*Autnum, error) {
	req := &Request{
		Type:  AutnumRequest,
		Query: autnum,
	}

	resp, err := c.doQuickRequest(req)
	if err != nil {
		return nil, err
	}

	if autnum, ok := resp.Response.(*Autnum); ok {
		return autnum, nil
	}

	return nil, &ClientError{
		Type: WrongResponseType,
		Text: "The server didn't return an RDAP Autnum response",
	}
}

// QueryIP makes an RDAP request for the IPv4/6 address |ip|, e.g. "192.0.2.0" or "2001:db8::".
//
// Full contact information (where available) is provided. The timeout is 30s.
func (c *Client) QueryIP(ip string) (*IPNetwork, error) {
	req := &Request{
		Type:  IPRequest,
		Query: ip,
	}

	resp, err := c.doQuickRequest(req)
	if err != nil {
		return nil, err
	}

	if ipNet, ok := resp.Response.(*IPNetwork); ok {
		return ipNet, nil
	}

	return nil, &ClientError{
		Type: WrongResponseType,
		Text: "The server didn't return an RDAP IPNetwork response",
	}
}

func defaultVerboseFunc(text string) {
}
