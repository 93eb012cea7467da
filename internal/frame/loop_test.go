package frame

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/framecore/internal/arena"
	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	velocity  struct{}
	transform struct{}
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

// diamond registers input -> {physics, ai} -> render_prep and counts runs.
func diamond(runs *atomic.Int64) RegisterFunc {
	body := func(context.Context) { runs.Add(1) }
	return func(_ context.Context, g *framegraph.Graph) error {
		g.AddPass("input", func(b *framegraph.Builder) { framegraph.Write[velocity](b) }, body)
		g.AddPass("physics", func(b *framegraph.Builder) {
			framegraph.Read[velocity](b)
			b.WriteResource(framegraph.Named("t1"))
		}, body)
		g.AddPass("ai", func(b *framegraph.Builder) {
			framegraph.Read[velocity](b)
			b.WriteResource(framegraph.Named("t2"))
		}, body)
		g.AddPass("render_prep", func(b *framegraph.Builder) {
			b.ReadResource(framegraph.Named("t1")).ReadResource(framegraph.Named("t2"))
			framegraph.Write[transform](b)
		}, body)
		return nil
	}
}

func TestLoop_RunFrameReportsLayers(t *testing.T) {
	sched := scheduler.New()
	require.NoError(t, sched.Initialize(testContext(), 2))
	defer sched.Shutdown()

	var published []*Report
	l := New(sched, WithSink(SinkFunc(func(_ context.Context, r *Report) error {
		published = append(published, r)
		return nil
	})))
	defer l.Close()

	var runs atomic.Int64
	r, err := l.RunFrame(testContext(), diamond(&runs))
	require.NoError(t, err)

	assert.Equal(t, int64(4), runs.Load())
	assert.Equal(t, uint64(1), r.Frame)
	assert.Equal(t, l.RunID(), r.RunID)
	assert.True(t, r.Executed)
	assert.Equal(t, [][]string{{"input"}, {"physics", "ai"}, {"render_prep"}}, r.Layers)
	assert.Equal(t, 1, r.Passes[2].Layer)
	assert.Len(t, r.Edges, 4)
	assert.Equal(t, 2, r.Scheduler.Workers)
	assert.Positive(t, r.Arena.Used)
	require.Len(t, published, 1)
	assert.Same(t, r, published[0])
}

func TestLoop_ArenaIsResetBetweenFrames(t *testing.T) {
	l := New(nil, WithArenaBudget(4096))
	defer l.Close()

	var cleaned []uint64
	register := func(ctx context.Context, g *framegraph.Graph) error {
		g.AddPass("scratch", func(b *framegraph.Builder) {
			buf := arena.MakeSlice[byte](b.Arena(), 128)
			frame := uint64(len(cleaned)) + 1
			b.Defer(func() { cleaned = append(cleaned, frame) })
			_ = buf
		}, func(context.Context) {})
		return nil
	}

	for i := 0; i < 3; i++ {
		r, err := l.RunFrame(testContext(), register)
		require.NoError(t, err)
		assert.Equal(t, 4096, r.Arena.Budget)
		assert.Equal(t, 1, r.Arena.Pending, "frame %d", i+1)
		assert.Equal(t, i, r.Arena.Resets)
	}
	assert.Equal(t, []uint64{1, 2, 3}, cleaned)
	assert.Equal(t, uint64(3), l.Frames())
}

func TestLoop_PlanDoesNotExecute(t *testing.T) {
	l := New(nil)
	defer l.Close()

	var runs atomic.Int64
	r, err := l.Plan(testContext(), diamond(&runs))
	require.NoError(t, err)
	assert.Zero(t, runs.Load())
	assert.False(t, r.Executed)
	assert.Len(t, r.Layers, 3)
	assert.Zero(t, r.Execute)
	for _, p := range r.Passes {
		assert.Zero(t, p.Duration)
	}
}

func TestLoop_RegisterAndCompileErrors(t *testing.T) {
	l := New(nil, WithGraphOptions(framegraph.WithStrictLabels()))
	defer l.Close()

	boom := errors.New("boom")
	_, err := l.RunFrame(testContext(), func(context.Context, *framegraph.Graph) error { return boom })
	require.ErrorIs(t, err, boom)

	_, err = l.RunFrame(testContext(), func(_ context.Context, g *framegraph.Graph) error {
		g.AddPass("waiter", func(b *framegraph.Builder) { b.WaitFor("ghost") }, nil)
		return nil
	})
	require.ErrorIs(t, err, framegraph.ErrUnsignalledLabel)

	// The failed frames were cleaned up; the next one starts empty.
	var runs atomic.Int64
	r, err := l.RunFrame(testContext(), diamond(&runs))
	require.NoError(t, err)
	assert.Len(t, r.Passes, 4)
	assert.Equal(t, uint64(3), r.Frame)
}

func TestLoop_SinkErrorDoesNotFailFrame(t *testing.T) {
	l := New(nil, WithSink(SinkFunc(func(context.Context, *Report) error {
		return errors.New("unreachable")
	})))
	defer l.Close()

	var runs atomic.Int64
	_, err := l.RunFrame(testContext(), diamond(&runs))
	assert.NoError(t, err)
}

func TestLoop_RunStopsAfterFrames(t *testing.T) {
	sched := scheduler.New()
	require.NoError(t, sched.Initialize(testContext(), 3))
	defer sched.Shutdown()

	l := New(sched, WithInterval(time.Millisecond))
	defer l.Close()

	var runs atomic.Int64
	require.NoError(t, l.Run(testContext(), 5, diamond(&runs)))
	assert.Equal(t, int64(20), runs.Load())
	assert.Equal(t, uint64(5), l.Frames())
}

func TestLoop_RunHonoursCancellation(t *testing.T) {
	l := New(nil)
	defer l.Close()

	ctx, cancel := context.WithCancel(testContext())
	frames := 0
	err := l.Run(ctx, 0, func(_ context.Context, g *framegraph.Graph) error {
		frames++
		if frames == 3 {
			cancel()
		}
		g.AddPass("tick", nil, func(context.Context) {})
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, frames)
}

func TestReport_CriticalAndSummary(t *testing.T) {
	r := &Report{
		Frame:  7,
		Layers: [][]string{{"a"}, {"b", "c"}},
		Passes: []PassReport{
			{Ordinal: 0, Name: "a", Layer: 0, Duration: 2 * time.Millisecond},
			{Ordinal: 1, Name: "b", Layer: 1, Duration: 5 * time.Millisecond},
			{Ordinal: 2, Name: "c", Layer: 1, Duration: 3 * time.Millisecond},
		},
		Executed: true,
	}
	assert.Equal(t, 7*time.Millisecond, r.Critical())

	s := r.Summary()
	assert.Equal(t, uint64(7), s["frame"])
	assert.Equal(t, int64(7000), s["critical_us"])
	assert.Len(t, s["passes"], 3)
}
