package ports

import (
	"context"
	"errors"

	"cookieaudit/internal/domain"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// IssueFilter narrows List results. Zero values match everything.
type IssueFilter struct {
	Kind       domain.Kind
	Code       string
	ThirdParty *bool
}

// IssueRepository stores aggregated issues keyed by session and primary key.
type IssueRepository interface {
	// Upsert inserts rec or, when its primary key is already known for the
	// session, bumps the occurrence count and last-seen time. It returns the
	// stored record; inserted reports which of the two happened.
	Upsert(ctx context.Context, rec domain.IssueRecord) (stored domain.IssueRecord, inserted bool, err error)
	List(ctx context.Context, sessionID string, filter IssueFilter) ([]domain.IssueRecord, error)
}
