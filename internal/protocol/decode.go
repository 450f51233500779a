// Package protocol decodes remote debugging protocol audit notifications.
package protocol

import (
	"errors"

	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"

	"cookieaudit/internal/domain"
)

// IssueAddedMethod is the protocol event carrying inspector issues.
const IssueAddedMethod = "Audits.issueAdded"

var (
	ErrMalformed       = errors.New("malformed notification")
	ErrNoCookieDetails = errors.New("notification carries no same-site cookie details")
)

// detailKeys lists the detail payload names in lookup order; newer browsers
// send the same structure as cookieIssueDetails.
var detailKeys = []string{"details.sameSiteCookieIssueDetails", "details.cookieIssueDetails"}

// Decode extracts the same-site cookie report from raw. raw may be a full
// notification ({"method", "params": {"issue"}}), its params, or the bare
// issue object.
func Decode(raw []byte) (domain.Report, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Report{}, ErrMalformed
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return domain.Report{}, ErrMalformed
	}
	if m := root.Get("method"); m.Exists() && m.String() != IssueAddedMethod {
		return domain.Report{}, ErrNoCookieDetails
	}

	issue := root.Get("params.issue")
	if !issue.Exists() {
		issue = root.Get("issue")
	}
	if !issue.Exists() {
		issue = root
	}

	var details gjson.Result
	for _, k := range detailKeys {
		if details = issue.Get(k); details.Exists() {
			break
		}
	}
	if !details.IsObject() {
		return domain.Report{}, ErrNoCookieDetails
	}
	return reportFrom(details), nil
}

func reportFrom(d gjson.Result) domain.Report {
	r := domain.Report{
		RawCookieLine: optString(d.Get("rawCookieLine")),
		CookieURL:     optString(d.Get("cookieUrl")),
		Operation:     domain.Operation(d.Get("operation").String()),
	}
	if c := d.Get("cookie"); c.IsObject() {
		r.Cookie = &domain.CookieIdentity{
			Domain: c.Get("domain").String(),
			Path:   c.Get("path").String(),
			Name:   c.Get("name").String(),
		}
	}
	if req := d.Get("request"); req.IsObject() {
		r.Request = &domain.AffectedRequest{
			RequestID: req.Get("requestId").String(),
			URL:       optString(req.Get("url")),
		}
	}
	for _, v := range d.Get("cookieExclusionReasons").Array() {
		r.ExclusionReasons = append(r.ExclusionReasons, domain.ExclusionReason(v.String()))
	}
	for _, v := range d.Get("cookieWarningReasons").Array() {
		r.WarningReasons = append(r.WarningReasons, domain.WarningReason(v.String()))
	}
	return r
}

func optString(v gjson.Result) null.String {
	if !v.Exists() || v.Type == gjson.Null {
		return null.String{}
	}
	return null.StringFrom(v.String())
}
