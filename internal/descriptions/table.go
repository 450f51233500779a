// Package descriptions holds the static table of human-readable text for
// every same-site cookie issue code.
package descriptions

import (
	"strings"

	"cookieaudit/internal/domain"
)

// Link points to documentation for an issue.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Description is the display metadata for one issue code.
type Description struct {
	Code  string      `json:"code"`
	Title string      `json:"title"`
	Kind  domain.Kind `json:"kind"`
	Links []Link      `json:"links"`
}

var (
	samesiteExplained = Link{URL: "https://web.dev/samesite-cookies-explained/", Title: "SameSite cookies explained"}
	schemefulSameSite = Link{URL: "https://web.dev/schemeful-samesite/", Title: "How Schemeful Same-Site Works"}
	firstPartySets    = Link{URL: "https://developer.chrome.com/docs/privacy-sandbox/first-party-sets/", Title: "First-Party Sets and the SameParty attribute"}
)

var operations = []domain.Operation{domain.ReadCookie, domain.SetCookie}

var table = build()

func verb(op domain.Operation) string {
	if op == domain.SetCookie {
		return "setting"
	}
	return "sending"
}

func scheme(secure string) string {
	if secure == "Secure" {
		return "secure"
	}
	return "insecure"
}

func build() map[string]Description {
	t := make(map[string]Description)
	add := func(title string, links []Link, parts ...string) {
		c := "SameSiteCookieIssue::" + strings.Join(parts, "::")
		t[c] = Description{Code: c, Title: title, Kind: KindOf(c), Links: links}
	}

	for _, secure := range []string{"Secure", "Insecure"} {
		add("Migrate entirely to HTTPS to continue having cookies sent on same-site requests ("+scheme(secure)+" context)",
			[]Link{schemefulSameSite}, "ExcludeNavigationContextDowngrade", secure)
		add("Migrate entirely to HTTPS to have cookies sent on same-site requests ("+scheme(secure)+" context)",
			[]Link{schemefulSameSite}, string(domain.WarnSameSiteStrictLaxDowngradeStrict), secure)
		for _, op := range operations {
			add("Migrate entirely to HTTPS to allow "+verb(op)+" cookies on same-site requests ("+scheme(secure)+" context)",
				[]Link{schemefulSameSite}, "ExcludeContextDowngrade", string(op), secure)
			add("Migrate entirely to HTTPS to continue "+verb(op)+" cookies on same-site requests ("+scheme(secure)+" context)",
				[]Link{schemefulSameSite}, "WarnCrossDowngrade", string(op), secure)
		}
	}

	for _, op := range operations {
		add("Mark cross-site cookies as Secure to allow "+verb(op)+" them in cross-site contexts",
			[]Link{samesiteExplained}, string(domain.ExcludeSameSiteNoneInsecure), string(op))
		add("Mark cross-site cookies as Secure to allow "+verb(op)+" them in cross-site contexts in the future",
			[]Link{samesiteExplained}, string(domain.WarnSameSiteNoneInsecure), string(op))
		add("Indicate whether to send a cookie in a cross-site request by specifying its SameSite attribute",
			[]Link{samesiteExplained}, string(domain.ExcludeSameSiteUnspecifiedTreatedAsLax), string(op))
		add("Indicate whether a cookie is intended to be "+verb(op)+" in a cross-site context by specifying its SameSite attribute",
			[]Link{samesiteExplained}, string(domain.WarnSameSiteUnspecifiedCrossSiteContext), string(op))
		add("Indicate whether a cookie is intended to be "+verb(op)+" in cross-site top-level navigations by specifying its SameSite attribute",
			[]Link{samesiteExplained}, string(domain.WarnSameSiteUnspecifiedLaxAllowUnsafe), string(op))
		add("Mark SameParty cookies as Secure and do not use SameSite=Strict for SameParty cookies",
			[]Link{firstPartySets}, string(domain.ExcludeInvalidSameParty), string(op))
		add("Cookie with the SameParty attribute was blocked in a cross-party context",
			[]Link{firstPartySets}, string(domain.ExcludeSamePartyCrossPartyContext), string(op))
	}
	return t
}

// KindOf classifies a code: exclusions break the page now, warnings later.
func KindOf(code string) domain.Kind {
	if strings.Contains(code, "::Exclude") {
		return domain.KindPageError
	}
	return domain.KindBreakingChange
}

// Lookup returns the description registered for code.
func Lookup(code string) (Description, bool) {
	d, ok := table[code]
	return d, ok
}

// For returns the description for code, or a generic one when code is not in the table.
func For(code string) Description {
	if d, ok := table[code]; ok {
		return d
	}
	return Description{
		Code:  code,
		Title: "Cookie blocked or flagged by SameSite policy (" + strings.TrimPrefix(code, "SameSiteCookieIssue::") + ")",
		Kind:  KindOf(code),
		Links: []Link{samesiteExplained},
	}
}

// Codes returns the number of registered codes.
func Codes() int { return len(table) }
