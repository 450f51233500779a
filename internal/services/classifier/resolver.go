package classifier

import (
	"strings"

	"gopkg.in/guregu/null.v3"

	"cookieaudit/internal/domain"
)

const codePrefix = "SameSiteCookieIssue"

func code(parts ...string) string {
	return codePrefix + "::" + strings.Join(parts, "::")
}

// secureLabel is "Secure" for https:// and wss:// cookie URLs, else "Insecure".
func secureLabel(cookieURL null.String) string {
	if cookieURL.Valid && (strings.HasPrefix(cookieURL.String, "https://") || strings.HasPrefix(cookieURL.String, "wss://")) {
		return "Secure"
	}
	return "Insecure"
}

// ResolveCode maps one reason to its issue code. The second return value is
// false when the reason is not actionable on its own and must be dropped.
//
// warnings is the full warning set of the report and only matters for
// Strict/Lax exclusions; callers resolving a warning pass nil.
func ResolveCode(reason domain.Reason, warnings []domain.WarningReason, op domain.Operation, cookieURL null.String) (string, bool) {
	secure := secureLabel(cookieURL)

	switch r := reason.(type) {
	case domain.ExclusionReason:
		switch r {
		case domain.ExcludeSameSiteStrict, domain.ExcludeSameSiteLax, domain.ExcludeSameSiteUnspecifiedTreatedAsLax:
			if c, ok := downgradeCode(warnings, op, secure); ok {
				return c, true
			}
			if r == domain.ExcludeSameSiteUnspecifiedTreatedAsLax {
				return code(r.String(), string(op)), true
			}
			// Strict and Lax exclusions are only reported when a downgrade warning explains them.
			return "", false
		}
	case domain.WarningReason:
		if r == domain.WarnSameSiteStrictLaxDowngradeStrict {
			return code(r.String(), secure), true
		}
		if r.IsCrossDowngrade() {
			return code("WarnCrossDowngrade", string(op), secure), true
		}
	}
	return code(reason.String(), string(op)), true
}

func downgradeCode(warnings []domain.WarningReason, op domain.Operation, secure string) (string, bool) {
	if len(warnings) == 0 {
		return "", false
	}
	for _, w := range warnings {
		if w == domain.WarnSameSiteStrictLaxDowngradeStrict {
			return code("ExcludeNavigationContextDowngrade", secure), true
		}
	}
	for _, w := range warnings {
		if w.IsCrossDowngrade() {
			return code("ExcludeContextDowngrade", string(op), secure), true
		}
	}
	return "", false
}
