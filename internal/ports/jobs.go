package ports

import (
	"context"

	"cookieaudit/internal/domain"
)

// JobRepository queues raw notifications and tracks their processing.
type JobRepository interface {
	Enqueue(ctx context.Context, sessionID string, payload []byte) (jobID string, err error)
	ClaimNext(ctx context.Context) (job domain.Job, found bool, err error)
	// Claim marks a specific queued job running, for inline processing.
	Claim(ctx context.Context, jobID string) (domain.Job, error)
	MarkCompleted(ctx context.Context, jobID string, issues int) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
	Get(ctx context.Context, jobID string) (domain.Job, error)
}
