package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsieve/logsieve/pkg/sieve"
	"github.com/logsieve/logsieve/pkg/stats"
)

func TestCollector_Record(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector()

	c.Record(sieve.FileEvent{
		Name:   "a.log",
		Result: sieve.Result{Lines: 10, Kept: 3, Bytes: 120},
	})
	c.Record(sieve.FileEvent{
		Name:   "b.log",
		Result: sieve.Result{Lines: 5, Kept: 5, Bytes: 80},
	})
	c.Record(sieve.FileEvent{
		Name:   "broken.log",
		Result: sieve.Result{Lines: 2, Kept: 1, Bytes: 10},
		Err:    errors.New("read failure"),
	})

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.Files)
	assert.Equal(t, int64(1), snap.Failures)
	assert.Equal(t, int64(17), snap.Lines)
	assert.Equal(t, int64(9), snap.Kept)
	assert.Equal(t, int64(8), snap.Discarded)
	assert.Equal(t, int64(210), snap.BytesWritten)
}

func TestCollector_Run(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector()
	events := make(chan sieve.FileEvent, 4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(context.Background(), events)
	}()

	events <- sieve.FileEvent{Result: sieve.Result{Lines: 1, Kept: 1}}
	events <- sieve.FileEvent{Result: sieve.Result{Lines: 4, Kept: 0}}
	close(events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop on channel close")
	}

	snap := c.Snapshot()
	require.Equal(t, int64(2), snap.Files)
	assert.Equal(t, int64(5), snap.Lines)
	assert.Equal(t, int64(1), snap.Kept)
}

func TestCollector_RunCancel(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector()
	events := make(chan sieve.FileEvent)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, events)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop on cancellation")
	}
}
