// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import "testing"

type registryTest struct {
	Query string

	Error bool

	Entry string
	URLs  []string
}

func runRegistryTests(t *testing.T, tests []registryTest, reg Registry) {
	for _, tc := range tests {
		r, err := reg.Lookup(tc.Query)

		if tc.Error && err == nil {
			t.Errorf("Query: %s, expected error, didn't get one\n", tc.Query)
			continue
		} else if !tc.Error && err != nil {
			t.Errorf("Query: %s, unexpected error: %s\n", tc.Query, err)
			continue
		}

		if tc.Error {
			continue
		}

		if r == nil {
			t.Errorf("Query: %s, unexpected nil Result, err=%v\n", tc.Query, err)
			continue
		}

		if r.Entry != tc.Entry {
			t.Errorf("Query: %s, expected Entry %s, got %s\n", tc.Query, tc.Entry, r.Entry)
			continue
		}

		if len(r.URLs) != len(tc.URLs) {
			t.Errorf("Query: %s, expected %d urls, got %d\n", tc.Query, len(tc.URLs), len(r.URLs))
			continue
		}

		for i, u := range tc.URLs {
			if r.URLs[i].String() != u {
				t.Errorf("Query %s, URL #%d, expected %s, got %s\n", tc.Query, i, u, r.URLs[i])
				continue
			}
		}
	}
}
