// Package issues classifies incoming notifications and aggregates the
// resulting cookie issues per debugging session.
package issues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"cookieaudit/internal/descriptions"
	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
	"cookieaudit/internal/protocol"
	"cookieaudit/internal/services/attribution"
	"cookieaudit/internal/services/classifier"
)

type Service struct {
	issues ports.IssueRepository
	frames ports.TopFrameProvider
	log    logrus.FieldLogger
	now    func() time.Time
}

func New(issues ports.IssueRepository, frames ports.TopFrameProvider, log logrus.FieldLogger) *Service {
	return &Service{issues: issues, frames: frames, log: log, now: time.Now}
}

// Ingest decodes one notification, classifies it and stores the issues. A
// notification without same-site cookie details yields no issues and no error.
func (s *Service) Ingest(ctx context.Context, sessionID string, payload []byte) ([]domain.IssueRecord, error) {
	report, err := protocol.Decode(payload)
	if errors.Is(err, protocol.ErrNoCookieDetails) {
		s.log.WithField("session", sessionID).Debug("skipping notification without same-site cookie details")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	classified := classifier.Classify(report)
	if len(classified) == 0 {
		return nil, nil
	}
	thirdParty := attribution.IsThirdParty(s.frames.Lookup(sessionID), report.CookieURL)

	now := s.now().UTC()
	out := make([]domain.IssueRecord, 0, len(classified))
	for _, issue := range classified {
		rec := domain.IssueRecord{
			SessionID:   sessionID,
			PrimaryKey:  issue.PrimaryKey(),
			Code:        issue.Code,
			Kind:        descriptions.KindOf(issue.Code),
			ThirdParty:  thirdParty,
			Report:      issue.Report,
			Occurrences: 1,
			FirstSeenAt: now,
			LastSeenAt:  now,
		}
		stored, inserted, err := s.issues.Upsert(ctx, rec)
		if err != nil {
			return out, fmt.Errorf("store issue %s: %w", issue.Code, err)
		}
		s.log.WithFields(logrus.Fields{
			"session":     sessionID,
			"code":        stored.Code,
			"third_party": stored.ThirdParty,
			"occurrences": stored.Occurrences,
			"new":         inserted,
		}).Debug("cookie issue recorded")
		out = append(out, stored)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, sessionID string, filter ports.IssueFilter) ([]domain.IssueRecord, error) {
	return s.issues.List(ctx, sessionID, filter)
}
