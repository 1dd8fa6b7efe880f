package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	promoted int
	err      error
	calls    int
}

func (f *fakeProcessor) ProcessPendingOrders(ctx context.Context) (int, error) {
	f.calls++
	return f.promoted, f.err
}

func newJob(svc PendingOrderProcessor, interval time.Duration) *PendingOrderJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPendingOrderJob(logger, svc, interval)
}

func TestPendingOrderJob_Run(t *testing.T) {
	t.Run("invokes processor", func(t *testing.T) {
		proc := &fakeProcessor{promoted: 3}
		job := newJob(proc, time.Minute)

		job.run()

		assert.Equal(t, 1, proc.calls)
	})

	t.Run("processor failure does not panic", func(t *testing.T) {
		proc := &fakeProcessor{err: errors.New("db is down")}
		job := newJob(proc, time.Minute)

		assert.NotPanics(t, job.run)
		assert.Equal(t, 1, proc.calls)
	})
}

func TestPendingOrderJob_StartStop(t *testing.T) {
	proc := &fakeProcessor{}
	job := newJob(proc, time.Hour)

	require.NoError(t, job.Start())
	job.Stop()
}
