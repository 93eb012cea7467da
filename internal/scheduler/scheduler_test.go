package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

func startScheduler(t *testing.T, workers int, opts ...Option) *Scheduler {
	t.Helper()
	s := New(opts...)
	require.NoError(t, s.Initialize(testContext(), workers))
	t.Cleanup(s.Shutdown)
	return s
}

func TestDispatch_ConcurrentProducers(t *testing.T) {
	s := startScheduler(t, 4)

	var counter atomic.Int64
	var g errgroup.Group
	for p := 0; p < 4; p++ {
		g.Go(func() error {
			for i := 0; i < 10000; i++ {
				s.Dispatch(func() { counter.Add(1) })
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	s.WaitForAll()

	assert.Equal(t, int64(40000), counter.Load())
	st := s.Stats()
	assert.Equal(t, int64(0), st.Outstanding)
	assert.Equal(t, uint64(40000), st.Completed)
}

func TestWaitForAll_IncludesTransitiveFanOut(t *testing.T) {
	s := startScheduler(t, 3)

	var leaves atomic.Int64
	var spawn func(depth int)
	spawn = func(depth int) {
		if depth == 0 {
			leaves.Add(1)
			return
		}
		for i := 0; i < 3; i++ {
			s.Dispatch(func() { spawn(depth - 1) })
		}
	}
	s.Dispatch(func() { spawn(4) })
	s.WaitForAll()

	assert.Equal(t, int64(81), leaves.Load())
}

func TestWaitForAll_NoWork(t *testing.T) {
	s := startScheduler(t, 1)
	done := make(chan struct{})
	go func() {
		s.WaitForAll()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForAll blocked with nothing outstanding")
	}
}

func TestDispatch_QueuePressureNeverDropsWork(t *testing.T) {
	s := startScheduler(t, 2, WithQueueCapacity(4))

	gate := make(chan struct{})
	var ran atomic.Int64
	// Park both workers so everything else piles up in the queue.
	for i := 0; i < 2; i++ {
		s.Dispatch(func() { <-gate })
	}
	for i := 0; i < 1000; i++ {
		s.Dispatch(func() { ran.Add(1) })
	}
	close(gate)
	s.WaitForAll()

	assert.Equal(t, int64(1000), ran.Load())
	st := s.Stats()
	assert.Greater(t, st.OverflowPushes, uint64(0))
	assert.GreaterOrEqual(t, st.QueueHighWater, 1000)
}

func TestDispatch_RecoversPanics(t *testing.T) {
	s := startScheduler(t, 2)

	var after atomic.Bool
	s.Dispatch(func() { panic("boom") })
	s.Dispatch(func() { after.Store(true) })
	s.WaitForAll()

	assert.True(t, after.Load())
	assert.Equal(t, uint64(1), s.Stats().Panics)
}

func TestLifecycle_ContractViolations(t *testing.T) {
	s := New()
	assert.PanicsWithValue(t, ErrNotInitialized, func() { s.Dispatch(func() {}) })
	assert.PanicsWithValue(t, ErrNotInitialized, func() { s.WaitForAll() })

	require.NoError(t, s.Initialize(testContext(), 2))
	assert.ErrorIs(t, s.Initialize(testContext(), 2), ErrAlreadyInitialized)
	assert.True(t, s.Running())
	assert.Equal(t, 2, s.Workers())

	s.Shutdown()
	assert.False(t, s.Running())
	assert.PanicsWithValue(t, ErrNotInitialized, func() { s.Dispatch(func() {}) })
	assert.NotPanics(t, s.Shutdown)

	// The window can be reopened.
	require.NoError(t, s.Initialize(testContext(), 1))
	var ran atomic.Bool
	s.Dispatch(func() { ran.Store(true) })
	s.WaitForAll()
	s.Shutdown()
	assert.True(t, ran.Load())
}

func TestShutdown_DrainsOutstandingWork(t *testing.T) {
	s := New()
	require.NoError(t, s.Initialize(testContext(), 2))

	var ran atomic.Int64
	for i := 0; i < 200; i++ {
		s.Dispatch(func() {
			time.Sleep(100 * time.Microsecond)
			ran.Add(1)
		})
	}
	s.Shutdown()
	assert.Equal(t, int64(200), ran.Load())
}

func TestInitialize_DefaultWorkerCount(t *testing.T) {
	s := startScheduler(t, 0)
	assert.Positive(t, s.Workers())
}

func TestWaitForAll_ManyWaiters(t *testing.T) {
	s := startScheduler(t, 2)
	var ran atomic.Int64
	for i := 0; i < 500; i++ {
		s.Dispatch(func() { ran.Add(1) })
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.WaitForAll()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(500), ran.Load())
}
