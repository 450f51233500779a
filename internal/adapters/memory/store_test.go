package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

func TestUpsertDeduplicatesPerSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	rec := domain.IssueRecord{SessionID: "s1", PrimaryKey: "k", Code: "c", Kind: domain.KindPageError, ThirdParty: true}
	first, inserted, err := s.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 1, first.Occurrences)

	rec.ThirdParty = false
	second, inserted, err := s.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Occurrences)
	assert.False(t, second.ThirdParty)

	other, inserted, err := s.Upsert(ctx, domain.IssueRecord{SessionID: "s2", PrimaryKey: "k", Code: "c"})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	for _, r := range []domain.IssueRecord{
		{SessionID: "s", PrimaryKey: "a", Code: "A", Kind: domain.KindPageError, ThirdParty: true},
		{SessionID: "s", PrimaryKey: "b", Code: "B", Kind: domain.KindBreakingChange, ThirdParty: false},
		{SessionID: "s", PrimaryKey: "c", Code: "A", Kind: domain.KindPageError, ThirdParty: false},
		{SessionID: "x", PrimaryKey: "d", Code: "A", Kind: domain.KindPageError},
	} {
		_, _, err := s.Upsert(ctx, r)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, "s", ports.IssueFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[0].PrimaryKey)

	firstParty := false
	got, err := s.List(ctx, "s", ports.IssueFilter{Code: "A", ThirdParty: &firstParty})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].PrimaryKey)

	got, err = s.List(ctx, "s", ports.IssueFilter{Kind: domain.KindBreakingChange})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Code)
}

func TestJobLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	id, err := s.Enqueue(ctx, "s", []byte(`{}`))
	require.NoError(t, err)
	id2, err := s.Enqueue(ctx, "s", []byte(`{}`))
	require.NoError(t, err)

	j, err := s.Claim(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, j.Status)
	_, err = s.Claim(ctx, id2)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	next, found, err := s.ClaimNext(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, next.ID)

	_, found, err = s.ClaimNext(ctx)
	require.NoError(t, err)
	assert.False(t, found, "claimed job must not be handed out twice")

	require.NoError(t, s.MarkCompleted(ctx, id, 3))
	require.NoError(t, s.MarkFailed(ctx, id2, "boom"))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	assert.Equal(t, 3, got.Issues)

	got, err = s.Get(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Equal(t, "boom", got.Error)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, s.MarkCompleted(ctx, "missing", 0), ports.ErrNotFound)
	assert.Len(t, s.Jobs(), 2)
}
