// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import "errors"

// ClientErrorType discriminates the different ways Client.Do can fail
// before/instead of returning a decoded RDAP response.
type ClientErrorType int

const (
	// OtherError is returned for failures with no more specific type below
	// (malformed requests, context errors, etc).
	OtherError ClientErrorType = iota

	// BootstrapNotSupported is returned when a request has no Server set,
	// and its RequestType cannot be resolved via IANA bootstrapping.
	BootstrapNotSupported

	// NoBootstrapMatch names the case where bootstrapping ran but no
	// registry entry matched the query. Client.Do does not return it: every
	// bootstrap resolution failure, including no match, is reported as
	// BootstrapNotSupported.
	NoBootstrapMatch

	// ObjectDoesNotExist is returned when a candidate server answers with
	// RDAP's "not found" status (HTTP 404); the remaining candidates are
	// not tried.
	ObjectDoesNotExist

	// WrongResponseType is returned by the QueryDomain/QueryAutnum/QueryIP
	// convenience methods when the server's response decodes to a
	// different RDAP object type than requested.
	WrongResponseType

	// MalformedResponse is returned when a server's response body isn't
	// valid RDAP JSON.
	MalformedResponse

	// ServersExhausted is returned when every candidate server in the
	// resolution plan failed, and none of the failures were a definitive
	// 404.
	ServersExhausted
)

// ClientError is returned by Client.Do and its convenience wrappers.
type ClientError struct {
	Type ClientErrorType
	Text string

	// Err is the underlying error, if any (a *transport.Error, a decode
	// error, etc).
	Err error
}

func (c *ClientError) Error() string {
	return c.Text
}

func (c *ClientError) Unwrap() error {
	return c.Err
}

// isClientError reports whether err is a *ClientError of the given type.
func isClientError(t ClientErrorType, err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}
