// Package stats aggregates request latencies for the end-of-run report.
package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records request durations from all workers.
type Collector struct {
	mu sync.Mutex
	// 1us to 60s range, 3 significant digits
	histogram *hdrhistogram.Histogram
}

func NewCollector() *Collector {
	return &Collector{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Record adds one request duration, clamped to the histogram range.
func (c *Collector) Record(d time.Duration) {
	latencyUs := d.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > 60_000_000 {
		latencyUs = 60_000_000
	}

	c.mu.Lock()
	_ = c.histogram.RecordValue(latencyUs)
	c.mu.Unlock()
}

// Summary is the final latency distribution across all requests.
type Summary struct {
	Count int64
	Min   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.histogram
	return Summary{
		Count: h.TotalCount(),
		Min:   time.Duration(h.Min()) * time.Microsecond,
		Mean:  time.Duration(h.Mean()) * time.Microsecond,
		P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
		Max:   time.Duration(h.Max()) * time.Microsecond,
	}
}
