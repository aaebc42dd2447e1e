// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package check implements the RDAP conformance checker: a composition of
// independent, pure rules run over a decoded response, producing a
// ChecksTree of Findings grouped by class.
package check

import (
	"fmt"
	"unicode"

	"github.com/openrdap/rdap"
)

// Class discriminates the severity/kind of a Finding, per the rule catalog.
type Class int

const (
	// Informational notes the presence of a useful optional field.
	Informational Class = iota
	// SpecificationNote flags a recommended-but-absent field.
	SpecificationNote
	// StandardsWarning flags something malformed but recoverable.
	StandardsWarning
	// StandardsError flags an RFC 9083 MUST violation.
	StandardsError
	// Cidr0Error flags a CIDR0 extension inconsistency.
	Cidr0Error
	// IcannExtensionError flags an ICANN RDAP profile violation.
	IcannExtensionError
)

func (c Class) String() string {
	switch c {
	case Informational:
		return "informational"
	case SpecificationNote:
		return "specification-note"
	case StandardsWarning:
		return "standards-warning"
	case StandardsError:
		return "standards-error"
	case Cidr0Error:
		return "cidr0-error"
	case IcannExtensionError:
		return "icann-extension-error"
	}
	return "unknown"
}

// Finding is one rule result.
type Finding struct {
	Class   Class
	Code    string
	Message string
	Path    string
}

// ChecksTree is the full, unfiltered result of running the catalog over a
// response. Output selection by class is left to callers (Filter).
type ChecksTree struct {
	Findings []Finding
}

// Filter returns the Findings whose Class is in classes.
func (t *ChecksTree) Filter(classes ...Class) []Finding {
	allowed := make(map[Class]bool, len(classes))
	for _, c := range classes {
		allowed[c] = true
	}

	var out []Finding
	for _, f := range t.Findings {
		if allowed[f.Class] {
			out = append(out, f)
		}
	}
	return out
}

// HasAny reports whether t contains a Finding of any of classes, for
// implementing an --error-on-checks style policy.
func (t *ChecksTree) HasAny(classes ...Class) bool {
	return len(t.Filter(classes...)) > 0
}

// Context carries policy inputs that rules consult: expected extension ids,
// expected RDAP profile group, and redaction-handling flags.
type Context struct {
	// RequiredExtensions must all appear in rdapConformance, or a
	// StandardsError is raised per missing extension.
	RequiredExtensions []string

	// RegisteredExtensions is the full catalog of known IANA extension
	// identifiers; an rdapConformance entry outside this set is flagged
	// unless AllowUnregisteredExtensions is set.
	RegisteredExtensions []string

	// ProfileGroup selects ICANN-extension rules: "gtld", "nro", "nro-asn",
	// or "" to skip them.
	ProfileGroup string

	AllowUnregisteredExtensions bool

	Redaction RedactionFlags
}

func (ctx *Context) isRegistered(ext string) bool {
	if ctx == nil {
		return true
	}
	for _, e := range ctx.RegisteredExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func add(findings *[]Finding, class Class, code, path, format string, args ...interface{}) {
	*findings = append(*findings, Finding{
		Class:   class,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	})
}

// Check runs the full rule catalog over obj and returns the unfiltered tree.
func Check(obj rdap.RDAPObject, ctx *Context) *ChecksTree {
	if ctx == nil {
		ctx = &Context{}
	}

	var findings []Finding

	switch v := obj.(type) {
	case *rdap.Domain:
		checkConformance(&findings, "$", v.Conformance, ctx)
		checkCommonObject(&findings, "$", v.Handle, v.Notices, v.Remarks, v.Links, v.Port43, v.Entities)
		checkLDHName(&findings, "$", v.LDHName, v.UnicodeName)
		if v.SecureDNS != nil {
			checkSecureDNS(&findings, "$.secureDNS", v.SecureDNS)
		}
		for i := range v.Entities {
			checkEntity(&findings, fmt.Sprintf("$.entities[%d]", i), &v.Entities[i], ctx)
		}
		for i := range v.Nameservers {
			checkNameserver(&findings, fmt.Sprintf("$.nameservers[%d]", i), &v.Nameservers[i], ctx)
		}
		if v.Network != nil {
			checkIPNetwork(&findings, "$.network", v.Network, ctx)
		}
		checkRedacted(&findings, "$", v.Redacted, ctx)
		checkIcannProfile(&findings, "$", v.Notices, v.Entities, v.Redacted, ctx)

	case *rdap.Entity:
		checkConformance(&findings, "$", v.Conformance, ctx)
		checkCommonObject(&findings, "$", v.Handle, v.Notices, v.Remarks, v.Links, v.Port43, v.Entities)
		checkEntity(&findings, "$", v, ctx)
		checkIcannProfile(&findings, "$", v.Notices, []rdap.Entity{*v}, nil, ctx)

	case *rdap.Nameserver:
		checkConformance(&findings, "$", v.Conformance, ctx)
		checkCommonObject(&findings, "$", v.Handle, v.Notices, v.Remarks, v.Links, v.Port43, v.Entities)
		checkNameserver(&findings, "$", v, ctx)
		checkIcannProfile(&findings, "$", v.Notices, v.Entities, nil, ctx)

	case *rdap.Autnum:
		checkConformance(&findings, "$", v.Conformance, ctx)
		checkCommonObject(&findings, "$", v.Handle, v.Notices, v.Remarks, v.Links, v.Port43, v.Entities)
		checkIcannProfile(&findings, "$", v.Notices, v.Entities, nil, ctx)

	case *rdap.IPNetwork:
		checkConformance(&findings, "$", v.Conformance, ctx)
		checkCommonObject(&findings, "$", v.Handle, v.Notices, v.Remarks, v.Links, v.Port43, v.Entities)
		checkIPNetwork(&findings, "$", v, ctx)
		checkIcannProfile(&findings, "$", v.Notices, v.Entities, nil, ctx)

	case *rdap.Help:
		checkConformance(&findings, "$", v.Conformance, ctx)

	case *rdap.Error:
		checkConformance(&findings, "$", v.Conformance, ctx)
		if v.ErrorCode == 0 {
			add(&findings, StandardsError, "ERROR_CODE_MISSING", "$.errorCode", "error response is missing errorCode")
		}
	}

	return &ChecksTree{Findings: findings}
}

func checkConformance(findings *[]Finding, path string, conformance []string, ctx *Context) {
	if len(conformance) == 0 {
		add(findings, StandardsError, "CONFORMANCE_EMPTY", path+".rdapConformance", "rdapConformance is empty or absent")
		return
	}

	seen := map[string]bool{}
	for _, c := range conformance {
		if seen[c] {
			add(findings, StandardsWarning, "CONFORMANCE_DUPLICATE", path+".rdapConformance", "rdapConformance lists %q more than once", c)
		}
		seen[c] = true

		if !ctx.AllowUnregisteredExtensions && len(ctx.RegisteredExtensions) > 0 && !ctx.isRegistered(c) {
			add(findings, StandardsWarning, "CONFORMANCE_UNREGISTERED", path+".rdapConformance", "rdapConformance lists unregistered extension %q", c)
		}
	}

	for _, required := range ctx.RequiredExtensions {
		if !seen[required] {
			add(findings, StandardsError, "CONFORMANCE_MISSING_REQUIRED", path+".rdapConformance", "rdapConformance is missing required extension %q", required)
		}
	}
}

func checkCommonObject(findings *[]Finding, path, handle string, notices []rdap.Notice, remarks []rdap.Remark, links []rdap.Link, port43 string, entities []rdap.Entity) {
	hasSelf := false
	for _, l := range links {
		if l.Rel == "self" {
			hasSelf = true
		}
	}
	if !hasSelf {
		add(findings, SpecificationNote, "SELF_LINK_MISSING", path+".links", "object has no self link")
	}

	if port43 != "" {
		add(findings, Informational, "PORT43_PRESENT", path+".port43", "port43 present: %s", port43)
	}

	for _, e := range entities {
		if len(e.Roles) > 0 {
			add(findings, Informational, "ENTITY_ROLES_PRESENT", path+".entities", "entity %s has roles %v", e.Handle, e.Roles)
		}
	}

	for i, n := range notices {
		if n.Title == "" {
			add(findings, StandardsWarning, "NOTICE_TITLE_MISSING", fmt.Sprintf("%s.notices[%d]", path, i), "notice is missing a title")
		}
	}
	for i, r := range remarks {
		if r.Title == "" {
			add(findings, StandardsWarning, "REMARK_TITLE_MISSING", fmt.Sprintf("%s.remarks[%d]", path, i), "remark is missing a title")
		}
	}
}

func checkLDHName(findings *[]Finding, path, ldhName, unicodeName string) {
	if ldhName == "" {
		return
	}

	if !isASCII(ldhName) {
		add(findings, StandardsError, "LDHNAME_NON_ASCII", path+".ldhName", "ldhName %q contains non-ASCII characters", ldhName)
		if unicodeName == "" {
			add(findings, StandardsWarning, "UNICODENAME_MISSING", path+".unicodeName", "ldhName is non-ASCII but unicodeName is absent")
		}
	}
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func checkEntity(findings *[]Finding, path string, e *rdap.Entity, ctx *Context) {
	if e.VCard == nil {
		return
	}

	if len(e.VCard.Get("fn")) == 0 {
		add(findings, StandardsError, "JCARD_FN_MISSING", path+".vcardArray", "vcardArray is missing a fn property")
	}
	if len(e.VCard.Get("version")) == 0 {
		add(findings, StandardsError, "JCARD_VERSION_MISSING", path+".vcardArray", "vcardArray is missing a version property")
	}

	for _, p := range e.VCard.Properties {
		if p.Name != lower(p.Name) {
			add(findings, StandardsWarning, "JCARD_PROPERTY_NOT_LOWERCASE", path+".vcardArray", "jCard property %q is not lowercased", p.Name)
		}
	}
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return string(out)
}

func checkNameserver(findings *[]Finding, path string, ns *rdap.Nameserver, ctx *Context) {
	checkLDHName(findings, path, ns.LDHName, ns.UnicodeName)
}

func checkSecureDNS(findings *[]Finding, path string, sdns *rdap.SecureDNS) {
	for i, ds := range sdns.DS {
		if ds.Digest == "" {
			add(findings, StandardsWarning, "DSDATA_DIGEST_MISSING", fmt.Sprintf("%s.dsData[%d]", path, i), "dsData entry is missing its digest")
		}
	}
}

func checkRedacted(findings *[]Finding, path string, redacted []rdap.Redacted, ctx *Context) {
	for i, r := range redacted {
		if r.Name.Description == "" && r.Name.Type == "" {
			add(findings, StandardsWarning, "REDACTED_NAME_MISSING", fmt.Sprintf("%s.redacted[%d]", path, i), "redacted entry has no name description/type")
		}
	}
}

func checkIPNetwork(findings *[]Finding, path string, ipnet *rdap.IPNetwork, ctx *Context) {
	if ipnet.StartAddress != "" && ipnet.EndAddress != "" {
		if compareIPStrings(ipnet.EndAddress, ipnet.StartAddress) < 0 {
			add(findings, StandardsError, "IP_RANGE_INVERTED", path, "endAddress %s is less than startAddress %s", ipnet.EndAddress, ipnet.StartAddress)
		}
	}

	checkCidr0(findings, path, ipnet)
}
