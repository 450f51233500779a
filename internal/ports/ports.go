package ports

import (
	"context"

	"gopkg.in/guregu/null.v3"

	"cookieaudit/internal/domain"
)

// Ingester classifies notifications and aggregates the resulting issues.
type Ingester interface {
	Ingest(ctx context.Context, sessionID string, payload []byte) ([]domain.IssueRecord, error)
	List(ctx context.Context, sessionID string, filter IssueFilter) ([]domain.IssueRecord, error)
}

// TopFrameProvider exposes the registrable domain of each session's top frame.
type TopFrameProvider interface {
	Set(sessionID, topFrameURL string) (registrable string, err error)
	Lookup(sessionID string) null.String
	Forget(sessionID string)
}
