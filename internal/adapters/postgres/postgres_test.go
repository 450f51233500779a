package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

// These tests need a scratch database: TEST_DATABASE_URL=postgres://...
func connect(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, url))
	db, err := Connect(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestIssueUpsertAndList(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	session := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	rec := domain.IssueRecord{
		SessionID:  session,
		PrimaryKey: "SameSiteCookieIssue::ExcludeSameSiteNoneInsecure::SetCookie-(a.com;/;sid)-(1)",
		Code:       "SameSiteCookieIssue::ExcludeSameSiteNoneInsecure::SetCookie",
		Kind:       domain.KindPageError,
		ThirdParty: true,
		Report: domain.Report{
			Cookie:           &domain.CookieIdentity{Domain: "a.com", Path: "/", Name: "sid"},
			CookieURL:        null.StringFrom("http://a.com"),
			Operation:        domain.SetCookie,
			ExclusionReasons: []domain.ExclusionReason{domain.ExcludeSameSiteNoneInsecure},
		},
		FirstSeenAt: now,
		LastSeenAt:  now,
	}

	first, inserted, err := db.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 1, first.Occurrences)

	rec.ThirdParty = false
	second, inserted, err := db.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Occurrences)
	assert.False(t, second.ThirdParty)
	assert.Equal(t, rec.Report, second.Report)

	got, err := db.List(ctx, session, ports.IssueFilter{Kind: domain.KindPageError})
	require.NoError(t, err)
	require.Len(t, got, 1)

	thirdParty := true
	got, err = db.List(ctx, session, ports.IssueFilter{ThirdParty: &thirdParty})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJobLifecycle(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	id, err := db.Enqueue(ctx, uuid.NewString(), []byte(`{"method":"Audits.issueAdded"}`))
	require.NoError(t, err)

	job, err := db.Claim(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, job.Status)
	_, err = db.Claim(ctx, id)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, db.MarkFailed(ctx, id, "decode notification: malformed notification"))
	got, err := db.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Equal(t, "decode notification: malformed notification", got.Error)

	_, err = db.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
