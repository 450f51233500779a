package domain

import (
	"fmt"
	"time"

	"gopkg.in/guregu/null.v3"
)

// Core domain models used internally. Wire shapes live in internal/protocol
// and internal/adapters/http; keep these decoupled where helpful.

// Operation is the cookie access that triggered the issue.
type Operation string

const (
	ReadCookie Operation = "ReadCookie"
	SetCookie  Operation = "SetCookie"
)

// CookieIdentity identifies a cookie by its domain, path and name.
type CookieIdentity struct {
	Domain string `json:"domain"`
	Path   string `json:"path"`
	Name   string `json:"name"`
}

// AffectedRequest references the network request the issue occurred on.
type AffectedRequest struct {
	RequestID string      `json:"requestId"`
	URL       null.String `json:"url"`
}

// Report is a single same-site cookie issue as reported by the browser.
// Cookie and Request are nil when the browser did not send them; RawCookieLine
// is the fallback identity when the cookie could not be parsed.
type Report struct {
	Cookie           *CookieIdentity   `json:"cookie,omitempty"`
	RawCookieLine    null.String       `json:"rawCookieLine"`
	Request          *AffectedRequest  `json:"request,omitempty"`
	CookieURL        null.String       `json:"cookieUrl"`
	Operation        Operation         `json:"operation"`
	ExclusionReasons []ExclusionReason `json:"cookieExclusionReasons"`
	WarningReasons   []WarningReason   `json:"cookieWarningReasons"`
}

// CookieID is the cookie half of an issue's primary key.
func (r Report) CookieID() string {
	if r.Cookie != nil {
		return fmt.Sprintf("%s;%s;%s", r.Cookie.Domain, r.Cookie.Path, r.Cookie.Name)
	}
	return r.RawCookieLine.String
}

// RequestID returns the affected request id or "no-request".
func (r Report) RequestID() string {
	if r.Request != nil {
		return r.Request.RequestID
	}
	return "no-request"
}

// Issue is one classified violation derived from a Report.
type Issue struct {
	Code   string `json:"code"`
	Report Report `json:"report"`
}

// PrimaryKey is the deduplication key: code, cookie identity and request.
func (i Issue) PrimaryKey() string {
	return fmt.Sprintf("%s-(%s)-(%s)", i.Code, i.Report.CookieID(), i.Report.RequestID())
}

// Kind is the severity class of an issue.
type Kind string

const (
	KindPageError      Kind = "PageError"
	KindBreakingChange Kind = "BreakingChange"
	KindImprovement    Kind = "Improvement"
)

// IssueRecord is an aggregated issue as kept by a repository.
type IssueRecord struct {
	ID          string
	SessionID   string
	PrimaryKey  string
	Code        string
	Kind        Kind
	ThirdParty  bool
	Report      Report
	Occurrences int
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// Job statuses, mirroring the ingest_jobs.status column.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job is a queued protocol notification awaiting classification.
type Job struct {
	ID        string
	SessionID string
	Payload   []byte
	Status    string // queued|running|completed|failed
	Issues    int
	Error     string
	QueuedAt  time.Time
}
