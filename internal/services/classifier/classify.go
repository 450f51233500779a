// Package classifier turns same-site cookie reports into issue codes.
package classifier

import "cookieaudit/internal/domain"

// Classify returns one issue per actionable reason of r, in input order.
//
// Exclusion reasons take priority: when r has any, warnings are never
// examined, even if every exclusion was dropped for lack of a corroborating
// downgrade warning.
func Classify(r domain.Report) []domain.Issue {
	var issues []domain.Issue
	if len(r.ExclusionReasons) > 0 {
		for _, reason := range r.ExclusionReasons {
			if c, ok := ResolveCode(reason, r.WarningReasons, r.Operation, r.CookieURL); ok {
				issues = append(issues, domain.Issue{Code: c, Report: r})
			}
		}
		return issues
	}
	for _, reason := range r.WarningReasons {
		if c, ok := ResolveCode(reason, nil, r.Operation, r.CookieURL); ok {
			issues = append(issues, domain.Issue{Code: c, Report: r})
		}
	}
	return issues
}
