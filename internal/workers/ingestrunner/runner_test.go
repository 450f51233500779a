package ingestrunner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookieaudit/internal/adapters/memory"
	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

type fakeProcessor struct{}

func (fakeProcessor) Process(_ context.Context, job domain.Job) ([]domain.IssueRecord, error) {
	if string(job.Payload) == "bad" {
		return nil, errors.New("bad payload")
	}
	return []domain.IssueRecord{{Code: "a"}, {Code: "b"}}, nil
}

func TestRunProcessesQueuedJobs(t *testing.T) {
	t.Parallel()

	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, err := store.Enqueue(ctx, "s", []byte("good"))
	require.NoError(t, err)
	bad, err := store.Enqueue(ctx, "s", []byte("bad"))
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	stopped := make(chan struct{})
	go func() {
		Run(ctx, store, fakeProcessor{}, 2, 5*time.Millisecond, logger)
		close(stopped)
	}()

	require.Eventually(t, func() bool {
		for _, j := range store.Jobs() {
			if j.Status == domain.JobQueued || j.Status == domain.JobRunning {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)

	j, err := store.Get(ctx, good)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, j.Status)
	assert.Equal(t, 2, j.Issues)

	j, err = store.Get(ctx, bad)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, j.Status)
	assert.Equal(t, "bad payload", j.Error)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithoutWorkersReturns(t *testing.T) {
	t.Parallel()
	logger, _ := test.NewNullLogger()
	Run(context.Background(), memory.New(), fakeProcessor{}, 0, time.Millisecond, logger)
}

func TestProcessInline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	id, err := store.Enqueue(ctx, "s", []byte("good"))
	require.NoError(t, err)
	issues, err := ProcessInline(ctx, store, fakeProcessor{}, id)
	require.NoError(t, err)
	assert.Len(t, issues, 2)

	_, err = ProcessInline(ctx, store, fakeProcessor{}, id)
	assert.ErrorIs(t, err, ports.ErrNotFound, "completed job cannot be claimed again")

	id, err = store.Enqueue(ctx, "s", []byte("bad"))
	require.NoError(t, err)
	_, err = ProcessInline(ctx, store, fakeProcessor{}, id)
	require.Error(t, err)
	j, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, j.Status)
}
