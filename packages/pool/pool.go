package pool

import (
	"context"
	"sync"
)

// Handler runs one test file.
type Handler func(ctx context.Context, path string)

// Run drains paths through a fixed set of max(1, workers) goroutines
// and returns once every item has completed. If ctx is cancelled,
// paths not yet handed to a worker are skipped. newHandler is invoked
// once per worker, so each worker owns its own handler state (in
// particular its own HTTP client).
//
// Files are unordered relative to each other; ordering inside a file
// is the handler's business.
func Run(ctx context.Context, workers int, paths []string, newHandler func() Handler) {
	if workers < 1 {
		workers = 1
	}

	work := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		handler := newHandler()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				handler(ctx, path)
			}
		}()
	}

	for _, path := range paths {
		select {
		case work <- path:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return
		}
	}

	close(work)
	wg.Wait()
}
