package ingestrunner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

// Processor does the classification work for a claimed job.
type Processor interface {
	Process(ctx context.Context, job domain.Job) (issues []domain.IssueRecord, err error)
}

// IngestProcessor feeds job payloads to an Ingester.
type IngestProcessor struct{ Ingester ports.Ingester }

func (p IngestProcessor) Process(ctx context.Context, job domain.Job) ([]domain.IssueRecord, error) {
	return p.Ingester.Ingest(ctx, job.SessionID, job.Payload)
}

// Run starts worker goroutines that claim jobs and process them. It returns
// once ctx is cancelled and all workers have drained.
func Run(ctx context.Context, repo ports.JobRepository, processor Processor, concurrency int, pollInterval time.Duration, log logrus.FieldLogger) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan domain.Job, concurrency)

	// dispatcher loop
	go func() {
		defer close(jobsCh)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						if ctx.Err() == nil {
							log.WithError(err).Warn("job claim error")
						}
						break
					}
					if !found {
						break
					}
					select {
					case jobsCh <- job:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	done := make(chan struct{})
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			defer func() { done <- struct{}{} }()
			wlog := log.WithField("worker", idx)
			for job := range jobsCh {
				if err := finish(ctx, repo, processor, job); err != nil {
					wlog.WithError(err).WithField("job", job.ID).Warn("job failed")
				}
			}
		}(i)
	}
	for i := 0; i < concurrency; i++ {
		<-done
	}
}

// ProcessInline claims and processes a specific job synchronously using the
// same processor logic as the background workers.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor Processor, jobID string) ([]domain.IssueRecord, error) {
	job, err := repo.Claim(ctx, jobID)
	if err != nil {
		return nil, err
	}
	issues, err := processor.Process(ctx, job)
	if err != nil {
		_ = repo.MarkFailed(context.WithoutCancel(ctx), job.ID, err.Error())
		return nil, err
	}
	return issues, repo.MarkCompleted(ctx, job.ID, len(issues))
}

func finish(ctx context.Context, repo ports.JobRepository, processor Processor, job domain.Job) error {
	issues, err := processor.Process(ctx, job)
	if err != nil {
		_ = repo.MarkFailed(context.WithoutCancel(ctx), job.ID, err.Error())
		return err
	}
	return repo.MarkCompleted(ctx, job.ID, len(issues))
}
