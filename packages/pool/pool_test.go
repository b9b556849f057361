package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ProcessesEveryPath(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	var mu sync.Mutex
	seen := make(map[string]int)

	Run(context.Background(), 4, paths, func() Handler {
		return func(ctx context.Context, path string) {
			mu.Lock()
			seen[path]++
			mu.Unlock()
		}
	})

	require.Len(t, seen, len(paths))
	for _, p := range paths {
		assert.Equal(t, 1, seen[p], "path %s", p)
	}
}

func TestRun_OneHandlerPerWorker(t *testing.T) {
	var handlers atomic.Int32

	Run(context.Background(), 4, []string{"a", "b"}, func() Handler {
		handlers.Add(1)
		return func(ctx context.Context, path string) {}
	})

	assert.Equal(t, int32(4), handlers.Load())
}

func TestRun_ClampsWorkerCount(t *testing.T) {
	var calls atomic.Int32

	Run(context.Background(), 0, []string{"a", "b", "c"}, func() Handler {
		return func(ctx context.Context, path string) {
			calls.Add(1)
		}
	})

	assert.Equal(t, int32(3), calls.Load())
}

func TestTally_CountsUnderConcurrency(t *testing.T) {
	tally := NewTally()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tally.IncTotal()
			switch i % 3 {
			case 0:
				tally.IncPass()
			case 1:
				tally.IncFail()
			case 2:
				tally.IncInvalid()
			}
		}(i)
	}
	wg.Wait()

	counts := tally.Snapshot()
	assert.Equal(t, 100, counts.Total)
	assert.Equal(t, counts.Total, counts.Pass+counts.Fail+counts.Invalid)
	assert.False(t, counts.Clean())
}

func TestCounts_Clean(t *testing.T) {
	assert.True(t, Counts{Total: 3, Pass: 3}.Clean())
	assert.False(t, Counts{Total: 3, Pass: 2, Fail: 1}.Clean())
	assert.False(t, Counts{Total: 3, Pass: 2, Invalid: 1}.Clean())
}
