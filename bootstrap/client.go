// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package bootstrap implements Registration Data Access Protocol (RDAP) bootstrapping.
//
// All RDAP queries are handled by an RDAP server. To help clients discover
// RDAP servers, IANA publishes Service Registry files
// (https://data.iana.org/rdap) for several query types: Domain names, IP
// addresses, Autonomous Systems, and object tags.
//
// Given an RDAP query, this package finds the list of RDAP server URLs which
// can answer it. This includes downloading & parsing the Service Registry
// files.
//
// Basic usage:
//
//	b := bootstrap.NewClient()
//	result, err := b.Lookup(bootstrap.DNS, "google.cz") // Downloads https://data.iana.org/rdap/dns.json automatically.
//
//	if err == nil {
//	  for _, url := range result.URLs {
//	    fmt.Println(url)
//	  }
//	}
//
// A bootstrap.Client caches the Service Registry files in memory for both
// performance, and courtesy to data.iana.org:
//
//   - Download()    - download one Service Registry file unconditionally.
//   - DownloadAll() - download all five Service Registry files.
//   - Lookup()      - download a Service Registry file if missing, or if the
//     cached file is over (by default) 24 hours old.
//
// As well as the default memory cache, bootstrap.Client also supports caching
// the Service Registry files on disk. The default cache location is
// $HOME/.openrdap/. A disk cache that implements cache.ETagCache (DiskCache
// does) lets Download issue a conditional GET, avoiding the cost of
// re-parsing an unchanged registry.
//
// RDAP bootstrapping is defined in RFC 7484 and RFC 9224.
package bootstrap

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/openrdap/rdap/bootstrap/cache"
)

// RegistryType identifies one of the five IANA RDAP bootstrap registries.
type RegistryType int

const (
	DNS RegistryType = iota
	IPv4
	IPv6
	ASN
	ObjectTag
)

const (
	// DefaultBaseURL is the default location of the Service Registry files.
	DefaultBaseURL = "https://data.iana.org/rdap/"

	// DefaultCacheTimeout is the default cache timeout of Service Registries.
	DefaultCacheTimeout = time.Hour * 24
)

// Client implements an RDAP bootstrap client.
//
// Create a Client using NewClient().
type Client struct {
	HTTP    *http.Client        // HTTP client.
	BaseURL *url.URL            // Base URL of the Service Registry files. Default is DefaultBaseURL.
	Cache   cache.RegistryCache // Service Registry cache. Default is a MemoryCache.

	mu         sync.RWMutex
	registries map[RegistryType]Registry
}

// Registry implements bootstrap lookups for a single registry kind.
type Registry interface {
	Lookup(input string) (*Result, error)
}

// Result represents the result of bootstrapping a single query.
type Result struct {
	// Query looked up in the registry.
	//
	// This includes any canonicalisation performed to match the Service
	// Registry's data format, e.g. lowercasing and IDNA-encoding of domain
	// names, and removal of "AS" from AS numbers.
	Query string

	// Matching service entry. Empty string if no match.
	Entry string

	// List of RDAP base URLs.
	URLs []*url.URL
}

// NewClient creates a new bootstrap.Client.
func NewClient() *Client {
	c := &Client{
		HTTP:       &http.Client{},
		Cache:      cache.NewMemoryCache(),
		registries: make(map[RegistryType]Registry),
	}

	c.BaseURL, _ = url.Parse(DefaultBaseURL)
	c.Cache.SetTimeout(DefaultCacheTimeout)

	return c
}

// Download downloads a single bootstrap registry file unconditionally.
//
// On success, the relevant Registry is refreshed; use Lookup, or one of the
// typed accessors, to read it.
func (c *Client) Download(registry RegistryType) error {
	json, reg, err := c.download(registry)
	if err != nil {
		return err
	}

	if err := c.Cache.Save(registry.Filename(), json); err != nil {
		return err
	}

	c.mu.Lock()
	c.registries[registry] = reg
	c.mu.Unlock()

	return nil
}

func (c *Client) download(registry RegistryType) ([]byte, Registry, error) {
	u, err := url.Parse(registry.Filename())
	if err != nil {
		return nil, nil, err
	}

	fetchURL := c.BaseURL.ResolveReference(u)

	req, err := http.NewRequest("GET", fetchURL.String(), nil)
	if err != nil {
		return nil, nil, err
	}

	if etagCache, ok := c.Cache.(cache.ETagCache); ok {
		if etag := etagCache.ETag(registry.Filename()); etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		cached, err := c.Cache.Load(registry.Filename())
		if err != nil {
			return nil, nil, fmt.Errorf("server returned 304 but no cached copy of %s exists: %s", registry.Filename(), err)
		}

		reg, err := newRegistry(registry, cached)
		return cached, reg, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected HTTP status fetching %s: %s", fetchURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	reg, err := newRegistry(registry, body)
	if err != nil {
		return body, nil, err
	}

	if etagCache, ok := c.Cache.(cache.ETagCache); ok {
		_ = etagCache.SaveETag(registry.Filename(), resp.Header.Get("ETag"))
	}

	return body, reg, nil
}

func (c *Client) freshenFromCache(registry RegistryType) {
	if c.Cache.State(registry.Filename()) == cache.ShouldReload {
		_ = c.reloadFromCache(registry)
	}
}

func (c *Client) reloadFromCache(registry RegistryType) error {
	json, err := c.Cache.Load(registry.Filename())
	if err != nil {
		return err
	}

	reg, err := newRegistry(registry, json)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.registries[registry] = reg
	c.mu.Unlock()

	return nil
}

func newRegistry(registry RegistryType, json []byte) (Registry, error) {
	switch registry {
	case ASN:
		return NewASNRegistry(json)
	case DNS:
		return NewDNSRegistry(json)
	case IPv4:
		return NewNetRegistry(json, 4)
	case IPv6:
		return NewNetRegistry(json, 6)
	case ObjectTag:
		return NewObjectTagRegistry(json)
	default:
		return nil, fmt.Errorf("unknown registry type %d", registry)
	}
}

// DownloadAll downloads all five bootstrap registry files
// ({asn,dns,ipv4,ipv6,object-tags}.json).
func (c *Client) DownloadAll() error {
	for _, registryType := range []RegistryType{ASN, DNS, IPv4, IPv6, ObjectTag} {
		if err := c.Download(registryType); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the RDAP base URLs for the query input in the given
// registry.
//
// This downloads the relevant Service Registry file if missing or if the
// cached copy has expired, or reloads it from the cache if a fresher copy
// exists there (see c.Cache.SetTimeout).
func (c *Client) Lookup(registry RegistryType, input string) (*Result, error) {
	forceDownload := false
	if c.Cache.State(registry.Filename()) == cache.ShouldReload {
		if err := c.reloadFromCache(registry); err != nil {
			forceDownload = true
		}
	}

	c.mu.RLock()
	reg := c.registries[registry]
	c.mu.RUnlock()

	if reg == nil || forceDownload || c.Cache.State(registry.Filename()) == cache.Expired {
		if err := c.Download(registry); err != nil {
			return nil, err
		}

		c.mu.RLock()
		reg = c.registries[registry]
		c.mu.RUnlock()
	}

	return reg.Lookup(input)
}

func (c *Client) registryOf(registry RegistryType) Registry {
	c.freshenFromCache(registry)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registries[registry]
}

// ASN returns the current ASN Registry, or nil if it hasn't been
// downloaded yet. This function never initiates a network transfer.
func (c *Client) ASN() *ASNRegistry {
	s, _ := c.registryOf(ASN).(*ASNRegistry)
	return s
}

// DNS returns the current DNS Registry, or nil if it hasn't been
// downloaded yet. This function never initiates a network transfer.
func (c *Client) DNS() *DNSRegistry {
	s, _ := c.registryOf(DNS).(*DNSRegistry)
	return s
}

// IPv4 returns the current IPv4 Registry, or nil if it hasn't been
// downloaded yet. This function never initiates a network transfer.
func (c *Client) IPv4() *NetRegistry {
	s, _ := c.registryOf(IPv4).(*NetRegistry)
	return s
}

// IPv6 returns the current IPv6 Registry, or nil if it hasn't been
// downloaded yet. This function never initiates a network transfer.
func (c *Client) IPv6() *NetRegistry {
	s, _ := c.registryOf(IPv6).(*NetRegistry)
	return s
}

// ObjectTagRegistry returns the current object tag Registry, or nil if it
// hasn't been downloaded yet. This function never initiates a network
// transfer.
func (c *Client) ObjectTagRegistry() *ObjectTagRegistry {
	s, _ := c.registryOf(ObjectTag).(*ObjectTagRegistry)
	return s
}

// Filename returns the JSON document filename, one of
// {asn,dns,ipv4,ipv6,object-tags}.json.
func (r RegistryType) Filename() string {
	switch r {
	case ASN:
		return "asn.json"
	case DNS:
		return "dns.json"
	case IPv4:
		return "ipv4.json"
	case IPv6:
		return "ipv6.json"
	case ObjectTag:
		return "object-tags.json"
	default:
		return "unknown.json"
	}
}
