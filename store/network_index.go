// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package store

import (
	"math/big"
	"net"
	"sort"

	"github.com/openrdap/rdap"
)

// networkIndex finds the most specific (narrowest-range) IPNetwork
// containing a queried address or CIDR. Ranges are stored as plain
// start/end addresses rather than net.IPNet, since a template's networkId
// may be given as an explicit {startAddress,endAddress} pair that doesn't
// fall on a CIDR boundary.
type networkIndex struct {
	entries []networkEntry
}

type networkEntry struct {
	start, end net.IP
	obj        *rdap.IPNetwork
}

func newNetworkIndex() *networkIndex {
	return &networkIndex{}
}

func (n *networkIndex) add(start, end net.IP, obj *rdap.IPNetwork) {
	n.entries = append(n.entries, networkEntry{start: start, end: end, obj: obj})
}

// sort orders entries by range width ascending, so lookup's first
// containing match is always the narrowest.
func (n *networkIndex) sort() {
	sort.SliceStable(n.entries, func(i, j int) bool {
		return rangeWidth(n.entries[i].start, n.entries[i].end).Cmp(rangeWidth(n.entries[j].start, n.entries[j].end)) < 0
	})
}

func rangeWidth(start, end net.IP) *big.Int {
	s := new(big.Int).SetBytes(start.To16())
	e := new(big.Int).SetBytes(end.To16())
	return new(big.Int).Sub(e, s)
}

func (n *networkIndex) lookup(addrOrCIDR string) (*rdap.IPNetwork, bool) {
	lo, hi, err := parseAddrOrCIDRRange(addrOrCIDR)
	if err != nil {
		return nil, false
	}

	for _, e := range n.entries {
		if sameFamily(e.start, lo) && ipCompare(e.start, lo) <= 0 && ipCompare(hi, e.end) <= 0 {
			return e.obj, true
		}
	}
	return nil, false
}

func sameFamily(a, b net.IP) bool {
	return (a.To4() == nil) == (b.To4() == nil)
}

func ipCompare(a, b net.IP) int {
	a16, b16 := a.To16(), b.To16()
	for i := range a16 {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// parseAddrOrCIDRRange accepts a bare IP address (a single-address range)
// or a CIDR (its network/broadcast bounds), per §4.7's "input is parsed to
// an address or CIDR" lookup rule.
func parseAddrOrCIDRRange(s string) (lo, hi net.IP, err error) {
	if ip := net.ParseIP(s); ip != nil {
		return ip, ip, nil
	}

	ip, ipNet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, nil, err
	}
	return cidrBounds(ip, ipNet)
}

func cidrBounds(ip net.IP, ipNet *net.IPNet) (lo, hi net.IP, err error) {
	bits := 32
	base := ipNet.IP.To4()
	if base == nil {
		bits = 128
		base = ipNet.IP.To16()
	}

	ones, size := ipNet.Mask.Size()
	hostBits := size - ones

	start := new(big.Int).SetBytes(base)
	mask := new(big.Int).Lsh(big.NewInt(1), uint(hostBits))
	mask.Sub(mask, big.NewInt(1))
	end := new(big.Int).Or(start, mask)

	return bigToIP(start, bits), bigToIP(end, bits), nil
}

func bigToIP(n *big.Int, bits int) net.IP {
	width := bits / 8
	out := n.Bytes()
	padded := make([]byte, width)
	copy(padded[width-len(out):], out)
	return net.IP(padded)
}
