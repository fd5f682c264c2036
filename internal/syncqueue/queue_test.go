package syncqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueueCoalescesPendingJobs(t *testing.T) {
	q := New("favorites", Options{}, zap.NewNop())
	defer q.Close()

	started := make(chan struct{})
	release := make(chan struct{})

	var (
		mu   sync.Mutex
		sent []string
	)
	push := func(state string, block bool) Job {
		return func(context.Context) error {
			if block {
				close(started)
				<-release
			}
			mu.Lock()
			sent = append(sent, state)
			mu.Unlock()
			return nil
		}
	}

	q.Submit(push("v1", true))
	<-started
	q.Submit(push("v2", false))
	q.Submit(push("v3", false))
	q.Submit(push("v4", false))
	close(release)

	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, []string{"v1", "v4"}, sent)
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	q := New("profile", Options{MaxRetries: 3}, zap.NewNop())
	defer q.Close()

	var calls atomic.Int32
	q.Submit(func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("503")
		}
		return nil
	})

	require.NoError(t, q.Flush(context.Background()))
	assert.EqualValues(t, 3, calls.Load())
	assert.Zero(t, q.Failed())
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	q := New("comparison", Options{MaxRetries: 2}, zap.New(core))
	defer q.Close()

	var calls atomic.Int32
	q.Submit(func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	require.NoError(t, q.Flush(context.Background()))
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, 1, q.Failed())
	assert.Equal(t, 3, logs.FilterMessage("sync attempt failed").Len())

	failed := logs.FilterMessage("sync failed, local state kept").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "comparison", failed[0].ContextMap()["resource"])
}

func TestQueueFlushHonoursContext(t *testing.T) {
	q := New("applications", Options{}, zap.NewNop())

	release := make(chan struct{})
	q.Submit(func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Flush(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, q.Flush(context.Background()))
	q.Close()
}

func TestQueueCloseCancelsAndDrops(t *testing.T) {
	q := New("favorites", Options{MaxRetries: 5, RetryDelay: time.Hour}, zap.NewNop())

	var calls atomic.Int32
	q.Submit(func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("offline")
	})

	// The first attempt fails and the queue parks on the retry delay.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	done := make(chan struct{})
	go func() {
		q.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Close did not interrupt the retry delay")
	}

	q.Submit(func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, q.Flush(context.Background()))
	assert.EqualValues(t, 1, calls.Load())
}

func TestGroupFlushesEveryResource(t *testing.T) {
	g := NewGroup(Options{}, zap.NewNop())
	defer g.Close()

	var calls atomic.Int32
	for _, name := range []string{"profile", "favorites", "comparison"} {
		g.Submit(name, func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			calls.Add(1)
			return nil
		})
	}

	require.NoError(t, g.Flush(context.Background()))
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []string{"comparison", "favorites", "profile"}, g.Resources())
	assert.Same(t, g.Queue("profile"), g.Queue("profile"))
}
