//go:build e2e

package e2e

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xhook"
	"github.com/omeyang/xactor/pkg/actor/xstage"
)

// actorFunc 把函数适配为 xactor.Actor。
type actorFunc func(ctx context.Context, inv *xactor.Invocation) (any, error)

func (f actorFunc) Invoke(ctx context.Context, inv *xactor.Invocation) (any, error) { return f(ctx, inv) }

type env struct {
	stage *xstage.Stage
	hooks *xhook.Hooks
	sr    *tracetest.SpanRecorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	stage, err := xstage.New(xstage.WithName("e2e"), xstage.WithCallTimeout(5*time.Second))
	require.NoError(t, err)
	hooks, err := xhook.Enable(stage, xhook.WithTracerProvider(tp))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hooks.Shutdown()
		_ = stage.Stop(ctx)
		_ = tp.Shutdown(ctx)
	})
	return &env{stage: stage, hooks: hooks, sr: sr}
}

func (e *env) start(t *testing.T) {
	t.Helper()
	require.NoError(t, e.stage.Start(context.Background()))
}

func named(spans []sdktrace.ReadOnlySpan, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

// descendsFrom 沿父链向上查找 ancestor。
func descendsFrom(spans []sdktrace.ReadOnlySpan, s sdktrace.ReadOnlySpan, ancestor trace.SpanID) bool {
	byID := make(map[trace.SpanID]sdktrace.ReadOnlySpan, len(spans))
	for _, sp := range spans {
		byID[sp.SpanContext().SpanID()] = sp
	}
	for cur := s; cur != nil; {
		pid := cur.Parent().SpanID()
		if pid == ancestor {
			return true
		}
		cur = byID[pid]
	}
	return false
}

func TestNestedCallsStayInLifetimeTree(t *testing.T) {
	e := newEnv(t)
	outer := xactor.NewIdentity("Outer", "o")
	inner := xactor.NewIdentity("Inner", "i")

	require.NoError(t, e.stage.Register("Inner", func(string) xactor.Actor {
		return actorFunc(func(context.Context, *xactor.Invocation) (any, error) { return "pong", nil })
	}))
	require.NoError(t, e.stage.Register("Outer", func(string) xactor.Actor {
		return actorFunc(func(ctx context.Context, _ *xactor.Invocation) (any, error) {
			for range 3 {
				if _, err := e.stage.Call(ctx, inner, "Ping"); err != nil {
					return nil, err
				}
			}
			return "done", nil
		})
	}))
	e.start(t)

	v, err := e.stage.Call(context.Background(), outer, "Run")
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	require.NoError(t, e.stage.Deactivate(context.Background(), outer))

	spans := e.sr.Ended()
	lifetimes := named(spans, "Actor.Outer.o")
	require.Len(t, lifetimes, 1)
	lifetime := lifetimes[0].SpanContext()

	outerCalls := named(spans, "Outer.o")
	require.Len(t, outerCalls, 1)
	assert.Equal(t, lifetime.SpanID(), outerCalls[0].Parent().SpanID())

	innerCalls := named(spans, "Inner.i")
	require.Len(t, innerCalls, 3)
	for _, c := range innerCalls {
		assert.Equal(t, outerCalls[0].SpanContext().SpanID(), c.Parent().SpanID())
		assert.Equal(t, lifetime.TraceID(), c.SpanContext().TraceID())
		assert.True(t, descendsFrom(spans, c, lifetime.SpanID()))
	}
}

func TestConcurrentIdentitiesAreIsolated(t *testing.T) {
	e := newEnv(t)

	type seen struct {
		caller   trace.SpanContext
		own      trace.SpanContext
		lifetime trace.SpanContext
	}
	var (
		mu       sync.Mutex
		observed = map[string][]seen{}
		arrived  atomic.Int32
		both     = make(chan struct{})
	)
	require.NoError(t, e.stage.Register("Worker", func(id string) xactor.Actor {
		return actorFunc(func(ctx context.Context, _ *xactor.Invocation) (any, error) {
			if arrived.Add(1) == 2 {
				close(both)
			}
			select {
			case <-both:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			caller, _ := xhook.CallerSpanContext(ctx)
			lt, _ := xhook.LifetimeSpanContext(ctx)
			mu.Lock()
			observed[id] = append(observed[id], seen{
				caller:   caller.SpanContext,
				own:      trace.SpanContextFromContext(ctx),
				lifetime: lt.SpanContext,
			})
			mu.Unlock()
			return id, nil
		})
	}))
	e.start(t)

	ids := []string{"a", "b"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Go(func() {
			_, err := e.stage.Call(context.Background(), xactor.NewIdentity("Worker", id), "Work")
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	for _, id := range ids {
		got := observed[id]
		require.Len(t, got, 1, id)
		lt, ok := e.hooks.Registry().Active(xactor.NewIdentity("Worker", id))
		require.True(t, ok, id)
		assert.Equal(t, got[0].own, got[0].caller, "%s sees its own call span", id)
		assert.Equal(t, lt.SpanContext(), got[0].lifetime, "%s sees its own lifetime", id)
	}
	assert.NotEqual(t, observed["a"][0].lifetime, observed["b"][0].lifetime)
	assert.NotEqual(t, observed["a"][0].own.TraceID(), observed["b"][0].own.TraceID())
}

func TestShutdownRejectsButFinishesInFlight(t *testing.T) {
	e := newEnv(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, e.stage.Register("Slow", func(string) xactor.Actor {
		return actorFunc(func(ctx context.Context, _ *xactor.Invocation) (any, error) {
			close(entered)
			select {
			case <-release:
				return "late", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
	}))
	require.NoError(t, e.stage.Register("Fast", func(string) xactor.Actor {
		return actorFunc(func(context.Context, *xactor.Invocation) (any, error) { return "ok", nil })
	}))
	e.start(t)

	errc := make(chan error, 1)
	go func() {
		_, err := e.stage.Call(context.Background(), xactor.NewIdentity("Slow", "s"), "Wait")
		errc <- err
	}()
	<-entered
	e.hooks.Shutdown()

	_, err := e.stage.Call(context.Background(), xactor.NewIdentity("Fast", "f"), "Go")
	assert.True(t, errors.Is(err, xactor.ErrNotAcceptingCalls), "got %v", err)

	close(release)
	require.NoError(t, <-errc)

	spans := e.sr.Ended()
	assert.Len(t, named(spans, "Slow.s"), 1, "in-flight call span ended")
	assert.Empty(t, named(spans, "Fast.f"), "rejected call opens no span")
}
