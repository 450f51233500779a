// Package memory implements the repositories in process, for local runs
// without Postgres and for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

var (
	_ ports.IssueRepository = (*Store)(nil)
	_ ports.JobRepository   = (*Store)(nil)
)

type issueKey struct{ session, primaryKey string }

type Store struct {
	mu     sync.RWMutex
	issues map[issueKey]*domain.IssueRecord
	order  []issueKey
	jobs   map[string]*domain.Job
	queue  []string
	now    func() time.Time
}

func New() *Store {
	return &Store{
		issues: make(map[issueKey]*domain.IssueRecord),
		jobs:   make(map[string]*domain.Job),
		now:    time.Now,
	}
}

func (s *Store) Upsert(_ context.Context, rec domain.IssueRecord) (domain.IssueRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := issueKey{rec.SessionID, rec.PrimaryKey}
	if cur, ok := s.issues[k]; ok {
		cur.Occurrences++
		cur.LastSeenAt = rec.LastSeenAt
		cur.ThirdParty = rec.ThirdParty
		return *cur, false, nil
	}
	rec.ID = uuid.NewString()
	if rec.Occurrences < 1 {
		rec.Occurrences = 1
	}
	s.issues[k] = &rec
	s.order = append(s.order, k)
	return rec, true, nil
}

func (s *Store) List(_ context.Context, sessionID string, filter ports.IssueFilter) ([]domain.IssueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.IssueRecord
	for _, k := range s.order {
		if k.session != sessionID {
			continue
		}
		rec := s.issues[k]
		if filter.Kind != "" && rec.Kind != filter.Kind {
			continue
		}
		if filter.Code != "" && rec.Code != filter.Code {
			continue
		}
		if filter.ThirdParty != nil && rec.ThirdParty != *filter.ThirdParty {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *Store) Enqueue(_ context.Context, sessionID string, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.jobs[id] = &domain.Job{
		ID:        id,
		SessionID: sessionID,
		Payload:   append([]byte(nil), payload...),
		Status:    domain.JobQueued,
		QueuedAt:  s.now().UTC(),
	}
	s.queue = append(s.queue, id)
	return id, nil
}

// ClaimNext hands out queued jobs oldest first.
func (s *Store) ClaimNext(_ context.Context) (domain.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]
		j := s.jobs[id]
		if j.Status != domain.JobQueued {
			continue
		}
		j.Status = domain.JobRunning
		return *j, true, nil
	}
	return domain.Job{}, false, nil
}

func (s *Store) Claim(_ context.Context, jobID string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok || j.Status != domain.JobQueued {
		return domain.Job{}, ports.ErrNotFound
	}
	j.Status = domain.JobRunning
	return *j, nil
}

func (s *Store) MarkCompleted(_ context.Context, jobID string, issues int) error {
	return s.finish(jobID, domain.JobCompleted, issues, "")
}

func (s *Store) MarkFailed(_ context.Context, jobID string, reason string) error {
	return s.finish(jobID, domain.JobFailed, 0, reason)
}

func (s *Store) finish(jobID, status string, issues int, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return ports.ErrNotFound
	}
	j.Status = status
	j.Issues = issues
	j.Error = reason
	return nil
}

func (s *Store) Get(_ context.Context, jobID string) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return domain.Job{}, ports.ErrNotFound
	}
	return *j, nil
}

// Jobs returns all jobs ordered by queue time, for inspection in tests.
func (s *Store) Jobs() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].QueuedAt.Before(out[k].QueuedAt) })
	return out
}
