// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

// Help is an RFC 9083 §5.6 help response.
type Help struct {
	Conformance []string `rdap:"rdapConformance"`
	Notices     []Notice

	DecodeData *DecodeData
}

// Error is an RFC 9083 §6 error response.
type Error struct {
	ErrorCode   uint32
	Title       string
	Description []string
	Conformance []string `rdap:"rdapConformance"`
	Notices     []Notice

	DecodeData *DecodeData
}

func (e *Error) Error() string {
	if e.Title != "" {
		return e.Title
	}
	return "rdap: server returned an error response"
}
