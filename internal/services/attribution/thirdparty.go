// Package attribution decides whether a cookie issue is first or third party.
package attribution

import (
	"net/url"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// IsThirdParty reports whether the cookie at cookieURL is third party relative
// to the top frame's registrable domain.
//
// An unknown top frame (invalid topFrameDomain) counts as third party so that
// issues do not flip from first to third party once the frame loads. An empty
// registrable domain means an IP literal or localhost and counts as first party.
func IsThirdParty(topFrameDomain null.String, cookieURL null.String) bool {
	if !topFrameDomain.Valid {
		return true
	}
	if !cookieURL.Valid || topFrameDomain.String == "" {
		return false
	}
	u, err := url.Parse(cookieURL.String)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return !IsSubdomainOf(u.Hostname(), topFrameDomain.String)
}

// IsSubdomainOf reports whether sub equals sup or is a dot-separated subdomain of it.
func IsSubdomainOf(sub, sup string) bool {
	if len(sub) <= len(sup) {
		return sub == sup
	}
	if !strings.HasSuffix(sub, sup) {
		return false
	}
	return sub[len(sub)-len(sup)-1] == '.'
}
