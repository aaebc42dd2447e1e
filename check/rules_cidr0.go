// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package check

import (
	"fmt"
	"math/big"
	"net"

	"github.com/openrdap/rdap"
)

// checkCidr0 verifies that ipnet.Cidr0Cidrs, the CIDR0 extension's
// prefix/length array, covers exactly the same address range as
// StartAddress/EndAddress (draft-ietf-regext-rdap-cidr0).
func checkCidr0(findings *[]Finding, path string, ipnet *rdap.IPNetwork) {
	if len(ipnet.Cidr0Cidrs) == 0 {
		return
	}
	if ipnet.StartAddress == "" || ipnet.EndAddress == "" {
		return
	}

	start := net.ParseIP(ipnet.StartAddress)
	end := net.ParseIP(ipnet.EndAddress)
	if start == nil || end == nil {
		return
	}

	var cidrStart, cidrEnd net.IP

	for i, c := range ipnet.Cidr0Cidrs {
		prefix := c.V4Prefix
		if prefix == "" {
			prefix = c.V6Prefix
		}
		if prefix == "" || c.Length == nil {
			add(findings, Cidr0Error, "CIDR0_ENTRY_INCOMPLETE", fmt.Sprintf("%s.cidr0_cidrs[%d]", path, i), "cidr0_cidrs entry is missing its prefix or length")
			continue
		}

		ip := net.ParseIP(prefix)
		if ip == nil {
			add(findings, Cidr0Error, "CIDR0_PREFIX_INVALID", fmt.Sprintf("%s.cidr0_cidrs[%d]", path, i), "cidr0_cidrs prefix %q is not a valid IP", prefix)
			continue
		}

		bits := 32
		if ip.To4() == nil {
			bits = 128
		}

		_, ipNet, err := net.ParseCIDR(fmt.Sprintf("%s/%d", prefix, *c.Length))
		if err != nil {
			add(findings, Cidr0Error, "CIDR0_PREFIX_INVALID", fmt.Sprintf("%s.cidr0_cidrs[%d]", path, i), "cidr0_cidrs entry %s/%d is not valid", prefix, *c.Length)
			continue
		}

		rangeStart := ipNet.IP
		rangeEnd := lastAddress(ipNet, bits)

		if cidrStart == nil || compareIPs(rangeStart, cidrStart) < 0 {
			cidrStart = rangeStart
		}
		if cidrEnd == nil || compareIPs(rangeEnd, cidrEnd) > 0 {
			cidrEnd = rangeEnd
		}
	}

	if cidrStart == nil || cidrEnd == nil {
		return
	}

	if compareIPs(cidrStart, start) != 0 || compareIPs(cidrEnd, end) != 0 {
		add(findings, Cidr0Error, "CIDR0_RANGE_MISMATCH", path+".cidr0_cidrs",
			"cidr0_cidrs range [%s,%s] does not match [startAddress,endAddress] [%s,%s]",
			cidrStart, cidrEnd, start, end)
	}
}

func lastAddress(n *net.IPNet, bits int) net.IP {
	ip := new(big.Int).SetBytes(n.IP.To16())
	if bits == 32 {
		ip = new(big.Int).SetBytes(n.IP.To4())
	}

	ones, size := n.Mask.Size()
	hostBits := size - ones

	mask := new(big.Int).Lsh(big.NewInt(1), uint(hostBits))
	mask.Sub(mask, big.NewInt(1))

	last := new(big.Int).Or(ip, mask)

	out := last.Bytes()
	width := size / 8
	padded := make([]byte, width)
	copy(padded[width-len(out):], out)

	return net.IP(padded)
}

func compareIPs(a, b net.IP) int {
	a4, b4 := a.To16(), b.To16()
	if a4 == nil || b4 == nil {
		return 0
	}
	for i := range a4 {
		if a4[i] != b4[i] {
			if a4[i] < b4[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func compareIPStrings(a, b string) int {
	aIP, bIP := net.ParseIP(a), net.ParseIP(b)
	if aIP == nil || bIP == nil {
		if a == b {
			return 0
		}
		if a < b {
			return -1
		}
		return 1
	}
	return compareIPs(aIP, bIP)
}
