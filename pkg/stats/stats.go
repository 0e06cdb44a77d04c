// Package stats accumulates in-memory counters for a watch session.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/logsieve/logsieve/pkg/sieve"
)

// Snapshot is a point-in-time copy of the session counters.
type Snapshot struct {
	Uptime       time.Duration
	Files        int64 // Files processed successfully.
	Failures     int64 // Files whose processing failed.
	Lines        int64 // Lines read from raw files.
	Kept         int64 // Lines retained by the filter.
	Discarded    int64 // Lines dropped by the filter.
	BytesWritten int64
}

// Collector consumes sieve events and keeps running totals. All methods are
// safe for concurrent use.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	files     int64
	failures  int64
	lines     int64
	kept      int64
	bytes     int64
}

func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
	}
}

// Run consumes events until ctx is cancelled or the channel closes.
func (c *Collector) Run(ctx context.Context, events <-chan sieve.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}

			c.Record(evt)
		}
	}
}

// Record adds one file event to the totals.
func (c *Collector) Record(evt sieve.FileEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if evt.Err != nil {
		c.failures++
	} else {
		c.files++
	}

	c.lines += int64(evt.Result.Lines)
	c.kept += int64(evt.Result.Kept)
	c.bytes += evt.Result.Bytes
}

// Snapshot returns the current totals.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Uptime:       time.Since(c.startTime).Truncate(time.Second),
		Files:        c.files,
		Failures:     c.failures,
		Lines:        c.lines,
		Kept:         c.kept,
		Discarded:    c.lines - c.kept,
		BytesWritten: c.bytes,
	}
}
