package xlifetime_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xlifetime"
	"github.com/omeyang/xactor/pkg/context/xframe"
)

func newTestRegistry(t *testing.T, opts ...xlifetime.Option) (*xlifetime.Registry, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r, err := xlifetime.New(tp.Tracer("xlifetime-test"), opts...)
	require.NoError(t, err)
	return r, rec
}

func TestNewValidation(t *testing.T) {
	_, err := xlifetime.New(nil)
	assert.ErrorIs(t, err, xlifetime.ErrNilTracer)

	tracer := sdktrace.NewTracerProvider().Tracer("x")
	for _, n := range []int{0, -1, 3, 1 << 13} {
		_, err = xlifetime.New(tracer, xlifetime.WithShardCount(n))
		assert.ErrorIs(t, err, xlifetime.ErrInvalidShardCount, "shard count %d", n)
	}
	_, err = xlifetime.New(tracer, xlifetime.WithShardCount(1), nil)
	assert.NoError(t, err)
}

func TestBeginEnd(t *testing.T) {
	r, rec := newTestRegistry(t)
	ctx := context.Background()
	id := xactor.NewIdentity("Hello", "0")

	l, err := r.Begin(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, l.Identity())
	assert.Equal(t, xlifetime.StateActivating, l.State())
	assert.True(t, l.SpanContext().IsValid())
	assert.False(t, l.Started().IsZero())

	got, ok := r.Active(id)
	require.True(t, ok)
	assert.Same(t, l, got)
	assert.Equal(t, 1, r.Len())

	_, err = r.Begin(ctx, id)
	assert.ErrorIs(t, err, xlifetime.ErrLifetimeExists)

	assert.True(t, r.End(ctx, id))
	assert.Equal(t, xlifetime.StateInactive, l.State())
	_, ok = r.Active(id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	assert.False(t, r.End(ctx, id), "second End is a no-op")

	ended := rec.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "Actor.Hello.0", s.Name())
	assert.False(t, s.Parent().IsValid())
	assert.Contains(t, s.Attributes(), attribute.String("actor.kind", "Orbit Actor"))
	assert.Contains(t, s.Attributes(), attribute.String("actor.id", "0"))
}

func TestBeginIsNewRoot(t *testing.T) {
	r, rec := newTestRegistry(t, xlifetime.WithKind("Test Actor"), xlifetime.WithKind(""))
	tp := sdktrace.NewTracerProvider()
	ctx, parent := tp.Tracer("caller").Start(context.Background(), "caller")
	defer parent.End()

	id := xactor.NewIdentity("Hello", "1")
	l, err := r.Begin(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, parent.SpanContext().TraceID(), l.SpanContext().TraceID())
	r.End(ctx, id)

	require.Len(t, rec.Ended(), 1)
	assert.Contains(t, rec.Ended()[0].Attributes(), attribute.String("actor.kind", "Test Actor"))
}

func TestRecreateAfterEnd(t *testing.T) {
	r, rec := newTestRegistry(t)
	ctx := context.Background()
	id := xactor.NewIdentity("Hello", "0")

	first, err := r.Begin(ctx, id)
	require.NoError(t, err)
	r.End(ctx, id)

	second, err := r.Begin(ctx, id)
	require.NoError(t, err)
	r.End(ctx, id)

	assert.NotEqual(t, first.SpanContext().SpanID(), second.SpanContext().SpanID())
	assert.Len(t, rec.Ended(), 2)
}

func TestFrameHandoff(t *testing.T) {
	r, _ := newTestRegistry(t)
	l, err := r.Begin(context.Background(), xactor.NewIdentity("Hello", "0"))
	require.NoError(t, err)

	assert.Nil(t, l.Frame())

	f := xframe.NewStack(nil).PushNew()
	l.SetFrame(f)
	assert.Same(t, f, l.Frame())
	assert.Same(t, f, l.TakeFrame())
	assert.Nil(t, l.TakeFrame(), "frame is handed out once")
}

func TestIdentitiesSorted(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	for _, id := range []xactor.Identity{
		xactor.NewIdentity("World", "1"),
		xactor.NewIdentity("Hello", "2"),
		xactor.NewIdentity("Hello", "10"),
	} {
		_, err := r.Begin(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, []xactor.Identity{
		xactor.NewIdentity("Hello", "10"),
		xactor.NewIdentity("Hello", "2"),
		xactor.NewIdentity("World", "1"),
	}, r.Identities())
}

func TestConcurrentIdentities(t *testing.T) {
	r, rec := newTestRegistry(t, xlifetime.WithShardCount(4))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := xactor.NewIdentity("Hello", strconv.Itoa(i))
			l, err := r.Begin(ctx, id)
			assert.NoError(t, err)
			got, ok := r.Active(id)
			assert.True(t, ok)
			assert.Same(t, l, got)
			assert.True(t, r.End(ctx, id))
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
	spans := rec.Ended()
	assert.Len(t, spans, 64)
	seen := make(map[trace.SpanID]struct{}, len(spans))
	for _, s := range spans {
		seen[s.SpanContext().SpanID()] = struct{}{}
	}
	assert.Len(t, seen, 64)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "inactive", xlifetime.StateInactive.String())
	assert.Equal(t, "activating", xlifetime.StateActivating.String())
	assert.Equal(t, "active", xlifetime.StateActive.String())
	assert.Equal(t, "deactivating", xlifetime.StateDeactivating.String())
	assert.Equal(t, "unknown", xlifetime.State(42).String())
}
