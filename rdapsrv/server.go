// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package rdapsrv implements the RDAP server's HTTP dispatcher (§4.8): it
// routes incoming requests to store.Store lookups and serializes the result
// as an RDAP JSON response, performing JSContact conversion on every entity
// encountered along the way.
package rdapsrv

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/openrdap/rdap"
	"github.com/openrdap/rdap/internal/rdaplog"
	"github.com/openrdap/rdap/jcard"
	"github.com/openrdap/rdap/store"
)

// Server dispatches RDAP HTTP requests against a Store.
type Server struct {
	Store *store.Store

	// JSContactConversion controls the RDAP_SRV_JSCONTACT_CONVERSION
	// behavior applied to every entity in every response.
	JSContactConversion jcard.ConversionMode

	// PathPrefix is stripped from the request path before routing (e.g.
	// "/rdap"). Empty means routes are matched at the root.
	PathPrefix string

	// EnableDomainSearchByName, EnableNameserverSearchByName and
	// EnableNameserverSearchByIP gate the three optional search endpoints
	// (RDAP_SRV_DOMAIN_SEARCH_BY_NAME et al.), off by default.
	EnableDomainSearchByName     bool
	EnableNameserverSearchByName bool
	EnableNameserverSearchByIP   bool

	Log *rdaplog.Logger
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusNotFound, 404, "Not Found", "method not supported")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, s.PathPrefix)
	path = strings.TrimPrefix(path, "/")
	segments := strings.Split(path, "/")

	s.logf("request: %s %s", r.Method, r.URL.Path)

	switch segments[0] {
	case "domain":
		s.handleObject(w, segments, "domain", func(id string) (interface{}, bool) { return s.Store.Domain(id) })
	case "nameserver":
		s.handleObject(w, segments, "nameserver", func(id string) (interface{}, bool) { return s.Store.Nameserver(id) })
	case "entity":
		s.handleObject(w, segments, "entity", func(id string) (interface{}, bool) { return s.Store.Entity(id) })
	case "autnum":
		s.handleAutnum(w, segments)
	case "ip":
		s.handleIP(w, segments)
	case "help":
		s.handleHelp(w)
	case "domains":
		s.handleSearch(w, r, searchDomainsByName)
	case "nameservers":
		s.handleSearch(w, r, searchNameservers)
	default:
		s.writeError(w, http.StatusNotFound, 404, "Not Found", "unrecognized route")
	}
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.Log != nil {
		s.Log.Debugf(format, args...)
	}
}

// handleObject serves the single-segment-identifier routes (domain,
// nameserver, entity), all of which share the redirect-then-lookup-then-404
// shape.
func (s *Server) handleObject(w http.ResponseWriter, segments []string, class string, lookup func(id string) (interface{}, bool)) {
	if len(segments) != 2 || segments[1] == "" {
		s.writeError(w, http.StatusBadRequest, 400, "Bad Request", "missing identifier")
		return
	}
	id := segments[1]

	if s.redirect(w, class, id) {
		return
	}

	obj, ok := lookup(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, 404, "Not Found", class+" not found")
		return
	}
	s.writeObject(w, obj)
}

func (s *Server) handleAutnum(w http.ResponseWriter, segments []string) {
	if len(segments) != 2 || segments[1] == "" {
		s.writeError(w, http.StatusBadRequest, 400, "Bad Request", "missing autnum")
		return
	}

	n, err := strconv.ParseUint(segments[1], 10, 32)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, 400, "Bad Request", "invalid autnum")
		return
	}

	obj, ok := s.Store.Autnum(uint32(n))
	if !ok {
		s.writeError(w, http.StatusNotFound, 404, "Not Found", "autnum not found")
		return
	}
	s.writeObject(w, obj)
}

func (s *Server) handleIP(w http.ResponseWriter, segments []string) {
	// An IP or CIDR may itself contain '/', so rejoin everything after
	// "ip/".
	if len(segments) < 2 || segments[1] == "" {
		s.writeError(w, http.StatusBadRequest, 400, "Bad Request", "missing address")
		return
	}
	addrOrCIDR := strings.Join(segments[1:], "/")

	if s.redirect(w, "ip network", addrOrCIDR) {
		return
	}

	if _, _, err := net.ParseCIDR(addrOrCIDR); err != nil && net.ParseIP(addrOrCIDR) == nil {
		s.writeError(w, http.StatusBadRequest, 400, "Bad Request", "invalid address or CIDR")
		return
	}

	obj, ok := s.Store.IPNetwork(addrOrCIDR)
	if !ok {
		s.writeError(w, http.StatusNotFound, 404, "Not Found", "ip network not found")
		return
	}
	s.writeObject(w, obj)
}

func (s *Server) handleHelp(w http.ResponseWriter) {
	obj, ok := s.Store.Help()
	if !ok {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(helpBody())
		return
	}
	s.writeObject(w, obj)
}

type searchFunc func(s *Server, query url.Values) ([]byte, bool)

func searchDomainsByName(s *Server, query url.Values) ([]byte, bool) {
	if !s.EnableDomainSearchByName {
		return nil, false
	}
	name := query.Get("name")
	if name == "" {
		return nil, false
	}
	body, err := renderDomainSearchResults(s.Store.SearchDomainsByName(name), s.JSContactConversion)
	if err != nil {
		return nil, false
	}
	return body, true
}

func searchNameservers(s *Server, query url.Values) ([]byte, bool) {
	var results []*rdap.Nameserver
	switch {
	case s.EnableNameserverSearchByName && query.Get("name") != "":
		results = s.Store.SearchNameserversByName(query.Get("name"))
	case s.EnableNameserverSearchByIP && query.Get("ip") != "":
		results = s.Store.SearchNameserversByIP(query.Get("ip"))
	default:
		return nil, false
	}
	body, err := renderNameserverSearchResults(results, s.JSContactConversion)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, search searchFunc) {
	body, ok := search(s, r.URL.Query())
	if !ok {
		s.writeError(w, http.StatusBadRequest, 400, "Bad Request", "unsupported or disabled search")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// redirect writes a 307 response and returns true if the store has a
// redirect template registered for class+id.
func (s *Server) redirect(w http.ResponseWriter, class, id string) bool {
	target, ok := s.Store.RedirectFor(store.RedirectKey(class, id))
	if !ok {
		return false
	}
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusTemporaryRedirect)
	return true
}

const contentType = "application/rdap+json; charset=utf-8"

func (s *Server) writeObject(w http.ResponseWriter, obj interface{}) {
	body, err := renderObject(obj, s.JSContactConversion)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, 500, "Internal Server Error", err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code uint32, title, description string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(errorBody(code, title, description))
}
