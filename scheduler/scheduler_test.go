package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/pkg/logger"
)

func TestSchedulerRunsRebuildOnEverySecondSchedule(t *testing.T) {
	var calls int32
	s := New(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, logger.New(logger.Config{Level: "error"}))

	require.NoError(t, s.Start("@every 10ms"))
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := New(func(ctx context.Context) error { return nil }, logger.New(logger.Config{Level: "error"}))
	s.Stop()
	s.Stop()
}
