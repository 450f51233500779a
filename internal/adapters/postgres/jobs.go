package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

func (db *DB) Enqueue(ctx context.Context, sessionID string, payload []byte) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO ingest_jobs (session_id, payload) VALUES ($1, $2) RETURNING id
	`, sessionID, payload).Scan(&id)
	return id, err
}

// ClaimNext selects the next queued job using SKIP LOCKED and marks it running.
func (db *DB) ClaimNext(ctx context.Context) (job domain.Job, found bool, err error) {
	err = pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id, session_id, payload, queued_at FROM ingest_jobs
			WHERE status = 'queued'
			ORDER BY queued_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		`).Scan(&job.ID, &job.SessionID, &job.Payload, &job.QueuedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE ingest_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
		`, job.ID)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Job{}, false, nil
	}
	if err != nil {
		return domain.Job{}, false, err
	}
	job.Status = domain.JobRunning
	return job, true, nil
}

// Claim marks the given job running if it is still queued.
func (db *DB) Claim(ctx context.Context, jobID string) (domain.Job, error) {
	var job domain.Job
	err := db.Pool.QueryRow(ctx, `
		UPDATE ingest_jobs SET status='running', started_at=now(), attempts=attempts+1
		WHERE id=$1 AND status='queued'
		RETURNING id, session_id, payload, queued_at
	`, jobID).Scan(&job.ID, &job.SessionID, &job.Payload, &job.QueuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Job{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Job{}, err
	}
	job.Status = domain.JobRunning
	return job, nil
}

func (db *DB) MarkCompleted(ctx context.Context, jobID string, issues int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.finish(ctx, `
		UPDATE ingest_jobs SET status='completed', issues=$2, finished_at=now() WHERE id=$1
	`, jobID, issues)
}

func (db *DB) MarkFailed(ctx context.Context, jobID string, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.finish(ctx, `
		UPDATE ingest_jobs SET status='failed', error=$2, finished_at=now() WHERE id=$1
	`, jobID, reason)
}

func (db *DB) finish(ctx context.Context, sql string, args ...any) error {
	tag, err := db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (db *DB) Get(ctx context.Context, jobID string) (domain.Job, error) {
	var job domain.Job
	var errText *string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, session_id, payload, status, issues, error, queued_at FROM ingest_jobs WHERE id = $1
	`, jobID).Scan(&job.ID, &job.SessionID, &job.Payload, &job.Status, &job.Issues, &errText, &job.QueuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Job{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Job{}, err
	}
	if errText != nil {
		job.Error = *errText
	}
	return job, nil
}
