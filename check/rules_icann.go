// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package check

import (
	"fmt"

	"github.com/openrdap/rdap"
)

// icannRequiredNotices are the notice titles the ICANN gTLD RDAP Response
// Profile requires on every registration data response.
var icannRequiredNotices = []string{
	"Terms of Use",
	"Status Codes",
	"RDDS Inaccuracy Complaint Form",
}

// checkIcannProfile applies the ICANN-extension rule set (Class X): the
// gTLD profile's required notices and registrar publicIds, and the
// redaction rules that apply to every profile group. A ctx.ProfileGroup of
// "" skips these entirely; they're opt-in, since only gTLD/NRO operators
// are bound by the ICANN RDAP profile.
func checkIcannProfile(findings *[]Finding, path string, notices []rdap.Notice, entities []rdap.Entity, redacted []rdap.Redacted, ctx *Context) {
	if ctx.ProfileGroup == "" {
		return
	}

	if ctx.ProfileGroup == "gtld" {
		checkIcannNotices(findings, path, notices)
		checkIcannRegistrarPublicID(findings, path, entities)
	}

	checkIcannRedaction(findings, path, entities, redacted)
}

func checkIcannNotices(findings *[]Finding, path string, notices []rdap.Notice) {
	seen := map[string]bool{}
	for _, n := range notices {
		seen[n.Title] = true
	}

	for _, want := range icannRequiredNotices {
		if !seen[want] {
			add(findings, IcannExtensionError, "ICANN_NOTICE_MISSING", path+".notices",
				"ICANN RDAP profile requires a %q notice", want)
		}
	}
}

func checkIcannRegistrarPublicID(findings *[]Finding, path string, entities []rdap.Entity) {
	for i, e := range entities {
		if !hasRole(e.Roles, "registrar") {
			continue
		}

		entPath := fmt.Sprintf("%s.entities[%d]", path, i)
		hasIanaID := false
		for _, pid := range e.PublicIDs {
			if pid.Type == "IANA Registrar ID" {
				hasIanaID = true
			}
		}
		if !hasIanaID {
			add(findings, IcannExtensionError, "ICANN_REGISTRAR_PUBLICID_MISSING", entPath+".publicIds",
				"registrar entity %s is missing a publicIds entry of type \"IANA Registrar ID\"", e.Handle)
		}
	}
}

// checkIcannRedaction flags registrant/admin/tech contacts that expose an
// email or tel property in the clear without a matching RFC 9537
// redacted[] entry, per the ICANN profile's mandatory contact-redaction
// rules (Temporary Specification / RDAP Response Profile §2.6). redacted is
// the response's top-level redacted[] array; entity-level redaction isn't
// addressable any other way in this object model, so a property is taken
// as covered if any redacted[] entry's path mentions both the entity's
// handle and the property name.
func checkIcannRedaction(findings *[]Finding, path string, entities []rdap.Entity, redacted []rdap.Redacted) {
	for i, e := range entities {
		if e.VCard == nil {
			continue
		}
		if !hasAnyRole(e.Roles, "registrant", "admin", "tech") {
			continue
		}

		entPath := fmt.Sprintf("%s.entities[%d]", path, i)

		if len(e.VCard.Get("email")) > 0 && !redactionCovers(redacted, e.Handle, "email") {
			add(findings, IcannExtensionError, "ICANN_CONTACT_EMAIL_NOT_REDACTED", entPath+".vcardArray",
				"contact entity %s exposes email in the clear; ICANN profile requires redaction", e.Handle)
		}
		if len(e.VCard.Get("tel")) > 0 && !redactionCovers(redacted, e.Handle, "tel") {
			add(findings, IcannExtensionError, "ICANN_CONTACT_TEL_NOT_REDACTED", entPath+".vcardArray",
				"contact entity %s exposes phone number in the clear; ICANN profile requires redaction", e.Handle)
		}
	}
}

func redactionCovers(redacted []rdap.Redacted, handle, property string) bool {
	for _, r := range redacted {
		path := r.PrePath + r.PostPath + r.ReplacementPath
		if containsSubstr(path, property) && (handle == "" || containsSubstr(path, handle)) {
			return true
		}
	}
	return false
}

func containsSubstr(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func hasRole(roles []string, want string) bool {
	return hasAnyRole(roles, want)
}

func hasAnyRole(roles []string, want ...string) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}
