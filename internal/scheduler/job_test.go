package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payload counts how many times it was destroyed.
type payload struct {
	destroyed atomic.Int64
}

func (p *payload) Destroy() { p.destroyed.Add(1) }

func TestJob_DroppedWithoutDispatch(t *testing.T) {
	p := &payload{}
	var ran atomic.Bool

	j := NewJob("never", func(jc *JobContext) { ran.Store(true) }).OnDestroy(p.Destroy)
	require.False(t, j.Empty())
	assert.NotEqual(t, uuid.Nil, j.ID())
	assert.Equal(t, Created, j.State())

	j.Release()
	j.Release()

	assert.False(t, ran.Load(), "body must never run")
	assert.Equal(t, int64(1), p.destroyed.Load(), "frame destroyed exactly once")
	assert.True(t, j.Empty())
}

func TestJob_CollectedHandleDestroysFrame(t *testing.T) {
	p := &payload{}
	var ran atomic.Bool

	func() {
		j := NewJob("dropped", func(jc *JobContext) { ran.Store(true) }).OnDestroy(p.Destroy)
		require.False(t, j.Empty())
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return p.destroyed.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, ran.Load(), "body must never run")
}

func TestDispatchJob_OutsideLifetimeKeepsHandle(t *testing.T) {
	s := New()
	p := &payload{}
	j := NewJob("early", func(jc *JobContext) {}).OnDestroy(p.Destroy)

	assert.PanicsWithValue(t, ErrNotInitialized, func() { s.DispatchJob(j) })
	require.False(t, j.Empty(), "failed dispatch leaves the job with its owner")
	assert.Equal(t, Created, j.State())

	j.Release()
	assert.Equal(t, int64(1), p.destroyed.Load())
}

func TestJob_MoveLeavesSourceEmpty(t *testing.T) {
	p := &payload{}
	j := NewJob("moved", func(jc *JobContext) {}).OnDestroy(p.Destroy)
	id := j.ID()

	k := j.Move()
	assert.True(t, j.Empty())
	assert.Equal(t, uuid.Nil, j.ID())
	assert.Equal(t, id, k.ID())
	assert.Equal(t, "moved", k.Name())

	j.Release()
	assert.Equal(t, int64(0), p.destroyed.Load(), "releasing a moved-from handle does nothing")

	k.Release()
	assert.Equal(t, int64(1), p.destroyed.Load())

	assert.True(t, j.Move().Empty())
}

func TestDispatchJob_EmptyHandlePanics(t *testing.T) {
	s := startScheduler(t, 1)
	j := NewJob("x", func(jc *JobContext) {})
	_ = j.Move()
	assert.PanicsWithValue(t, ErrEmptyJob, func() { s.DispatchJob(j) })
}

func TestDispatchJob_RunsToCompletionThroughYields(t *testing.T) {
	s := startScheduler(t, 4)
	p := &payload{}

	var steps []int
	var inBody atomic.Int32
	j := NewJob("yielder", func(jc *JobContext) {
		for i := 0; i < 5; i++ {
			assert.Equal(t, int32(1), inBody.Add(1), "job ran concurrently with itself")
			steps = append(steps, i)
			inBody.Add(-1)
			jc.Yield()
		}
	}).OnDestroy(p.Destroy)

	s.DispatchJob(j)
	assert.True(t, j.Empty(), "dispatch moves the job into the scheduler")
	s.WaitForAll()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, steps)
	assert.Equal(t, int64(1), p.destroyed.Load())

	st := s.Stats()
	assert.Equal(t, uint64(5), st.Yields)
	assert.Equal(t, uint64(1), st.JobsCompleted)
}

func TestYield_FreesTheWorker(t *testing.T) {
	s := New()
	require.NoError(t, s.Initialize(testContext(), 1))

	var mu sync.Mutex
	var order []string
	record := func(v string) {
		mu.Lock()
		order = append(order, v)
		mu.Unlock()
	}
	body := func(name string) JobFunc {
		return func(jc *JobContext) {
			record(name + "1")
			jc.Yield()
			record(name + "2")
		}
	}

	// Hold the only worker until both jobs are queued.
	gate := make(chan struct{})
	s.Dispatch(func() { <-gate })
	s.DispatchJob(NewJob("a", body("a")))
	s.DispatchJob(NewJob("b", body("b")))
	close(gate)
	s.Shutdown()

	assert.Equal(t, []string{"a1", "b1", "a2", "b2"}, order)
}

func TestJob_StateNames(t *testing.T) {
	var empty *Job
	assert.True(t, empty.Empty())
	assert.Equal(t, Created, empty.State())
	assert.Equal(t, "", empty.Name())

	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "scheduled", Scheduled.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "suspended", Suspended.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestJob_PanicIsRecoveredAndFrameDestroyed(t *testing.T) {
	s := startScheduler(t, 2)
	p := &payload{}

	s.DispatchJob(NewJob("panicky", func(jc *JobContext) {
		jc.Yield()
		panic("job failed")
	}).OnDestroy(p.Destroy))
	s.WaitForAll()

	assert.Equal(t, int64(1), p.destroyed.Load())
	assert.Equal(t, uint64(1), s.Stats().Panics)
}

func TestJobContext_FanOut(t *testing.T) {
	s := startScheduler(t, 2)
	var children atomic.Int64

	s.DispatchJob(NewJob("parent", func(jc *JobContext) {
		for i := 0; i < 10; i++ {
			jc.Scheduler().Dispatch(func() { children.Add(1) })
		}
		jc.Yield()
		assert.Equal(t, "parent", jc.Name())
		assert.NotEqual(t, uuid.Nil, jc.ID())
	}))
	s.WaitForAll()
	assert.Equal(t, int64(10), children.Load())
}
