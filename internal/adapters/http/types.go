package httpadapter

import (
	"time"

	"cookieaudit/internal/descriptions"
	"cookieaudit/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type jobAccepted struct {
	JobID string `json:"jobId"`
}

type jobResponse struct {
	ID      string `json:"id"`
	Session string `json:"session"`
	Status  string `json:"status"`
	Issues  int    `json:"issues"`
	Error   string `json:"error,omitempty"`
}

type topFrameRequest struct {
	URL string `json:"url"`
}

type topFrameResponse struct {
	Session           string `json:"session"`
	URL               string `json:"url"`
	RegistrableDomain string `json:"registrableDomain"`
}

type issue struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Kind        domain.Kind         `json:"kind"`
	ThirdParty  bool                `json:"thirdParty"`
	Occurrences int                 `json:"occurrences"`
	Report      domain.Report       `json:"report"`
	Links       []descriptions.Link `json:"links"`
	FirstSeenAt time.Time           `json:"firstSeenAt"`
	LastSeenAt  time.Time           `json:"lastSeenAt"`
}

type issuesResponse struct {
	JobID  string  `json:"jobId,omitempty"`
	Issues []issue `json:"issues"`
}
