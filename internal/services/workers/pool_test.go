package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// createTestLogger creates a logger for testing
func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(context.Background(), 4, createTestLogger())
	pool.Start()

	var counter int64
	for i := 0; i < 50; i++ {
		err := pool.Submit(Task{
			Label: "task",
			Run: func(ctx context.Context) error {
				atomic.AddInt64(&counter, 1)
				return nil
			},
		})
		require.NoError(t, err)
	}

	pool.Wait()

	assert.Equal(t, int64(50), atomic.LoadInt64(&counter))
	assert.Empty(t, pool.Failures())
}

func TestPool_CollectsLabeledFailures(t *testing.T) {
	pool := NewPool(context.Background(), 2, createTestLogger())
	pool.Start()

	boom := errors.New("boom")
	require.NoError(t, pool.Submit(Task{Label: "good", Run: func(ctx context.Context) error { return nil }}))
	require.NoError(t, pool.Submit(Task{Label: "bad", Run: func(ctx context.Context) error { return boom }}))

	pool.Wait()

	failures := pool.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "bad", failures[0].Label)
	assert.ErrorIs(t, failures[0].Err, boom)
	assert.Contains(t, failures[0].Error(), "bad")
}

func TestPool_DefaultsWorkerCount(t *testing.T) {
	pool := NewPool(context.Background(), 0, createTestLogger())
	assert.Greater(t, pool.maxWorkers, 0)
}

func TestPool_SubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1, createTestLogger())
	pool.Start()

	cancel()

	// Submissions eventually fail once workers observe cancellation and the
	// buffered channel fills
	err := error(nil)
	for i := 0; i < 100 && err == nil; i++ {
		err = pool.Submit(Task{Label: "late", Run: func(ctx context.Context) error { return nil }})
	}
	assert.Error(t, err)
}

func TestPool_TasksSeePoolContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	pool := NewPool(ctx, 1, createTestLogger())
	pool.Start()

	var mu sync.Mutex
	var seen string
	require.NoError(t, pool.Submit(Task{
		Label: "ctx",
		Run: func(taskCtx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			if v, ok := taskCtx.Value(key{}).(string); ok {
				seen = v
			}
			return nil
		},
	}))

	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "marker", seen)
}
