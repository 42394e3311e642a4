package xstage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xactor/mock_xactor"
	"github.com/omeyang/xactor/pkg/actor/xstage"
	"github.com/omeyang/xactor/pkg/context/xctx"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// helpers
// =============================================================================

func seqIDs() func(context.Context) (string, error) {
	var n atomic.Int64
	return func(context.Context) (string, error) {
		return fmt.Sprintf("inv-%d", n.Add(1)), nil
	}
}

func newStage(t *testing.T, opts ...xstage.Option) *xstage.Stage {
	t.Helper()
	s, err := xstage.New(append([]xstage.Option{xstage.WithIDGenerator(seqIDs())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func echo(id string) xactor.Actor {
	return xactor.ActorFunc(func(_ context.Context, inv *xactor.Invocation) (any, error) {
		if inv.Method != "Echo" {
			return nil, xstage.ErrUnknownMethod
		}
		return fmt.Sprintf("%s:%v", id, inv.Params[0]), nil
	})
}

func startEcho(t *testing.T, opts ...xstage.Option) *xstage.Stage {
	t.Helper()
	s := newStage(t, opts...)
	require.NoError(t, s.Register("Echo", echo))
	require.NoError(t, s.Start(context.Background()))
	return s
}

// recorder 记录 AfterInvoke 收到的错误。
type recorder struct {
	errs chan error
}

func newRecorder() *recorder { return &recorder{errs: make(chan error, 16)} }

func (r *recorder) Name() string { return "test.recorder" }
func (r *recorder) BeforeInvoke(ctx context.Context, _ *xactor.Invocation) (context.Context, error) {
	return ctx, nil
}
func (r *recorder) AfterInvoke(_ context.Context, _ *xactor.Invocation, err error) { r.errs <- err }
func (r *recorder) AfterInvokeChain(context.Context, *xactor.Invocation)         {}

// =============================================================================
// construction
// =============================================================================

func TestNew_InvalidOptions(t *testing.T) {
	for name, opt := range map[string]xstage.Option{
		"call timeout":  xstage.WithCallTimeout(0),
		"idle timeout":  xstage.WithIdleTimeout(-time.Second),
		"reap interval": xstage.WithReapInterval(0),
		"stop timeout":  xstage.WithStopTimeout(-1),
		"mailbox size":  xstage.WithMailboxSize(-1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := xstage.New(opt)
			assert.ErrorIs(t, err, xstage.ErrInvalidOption)
		})
	}
}

func TestRegister(t *testing.T) {
	s := newStage(t, xstage.WithName("unit"))
	assert.Equal(t, "unit", s.Name())

	assert.ErrorIs(t, s.Register("", echo), xstage.ErrInvalidIdentity)
	assert.ErrorIs(t, s.Register("Echo", nil), xstage.ErrNilFactory)
	require.NoError(t, s.Register("Echo", echo))
	assert.ErrorIs(t, s.Register("Echo", echo), xstage.ErrDuplicateInterface)
}

func TestStartStop(t *testing.T) {
	s := newStage(t)
	require.NoError(t, s.Register("Echo", echo))

	_, err := s.Call(context.Background(), xactor.NewIdentity("Echo", "a"), "Echo", 1)
	assert.ErrorIs(t, err, xstage.ErrStageNotStarted)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), xstage.ErrStageStarted)

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), xstage.ErrStageStopped)

	_, err = s.Call(context.Background(), xactor.NewIdentity("Echo", "a"), "Echo", 1)
	assert.ErrorIs(t, err, xstage.ErrStageStopped)
}

// =============================================================================
// Call
// =============================================================================

func TestCall_Errors(t *testing.T) {
	s := newStage(t)
	require.NoError(t, s.Register("Strict", echo, xstage.WithMethods("Echo")))
	require.NoError(t, s.Register("Echo", echo))
	require.NoError(t, s.Start(context.Background()))
	ctx := context.Background()

	//nolint:staticcheck // 校验 nil ctx 分支
	_, err := s.Call(nil, xactor.NewIdentity("Echo", "a"), "Echo")
	assert.ErrorIs(t, err, xstage.ErrNilContext)

	_, err = s.Call(ctx, xactor.Identity{Interface: "Echo"}, "Echo", 1)
	assert.ErrorIs(t, err, xstage.ErrInvalidIdentity)

	_, err = s.Call(ctx, xactor.NewIdentity("Nope", "a"), "Echo", 1)
	assert.ErrorIs(t, err, xstage.ErrUnknownInterface)

	_, err = s.Ref("Strict", "a").Call(ctx, "Shout", 1)
	assert.ErrorIs(t, err, xstage.ErrUnknownMethod)
	assert.False(t, s.IsActive(xactor.NewIdentity("Strict", "a")))

	// 未声明方法集时由 actor 自己拒绝。
	_, err = s.Ref("Echo", "a").Call(ctx, "Shout", 1)
	assert.ErrorIs(t, err, xstage.ErrUnknownMethod)

	var ce *xstage.CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, xactor.NewIdentity("Echo", "a"), ce.Target)
	assert.Equal(t, "Shout", ce.Method)
	assert.NotEmpty(t, ce.InvocationID)
	assert.Contains(t, ce.Error(), "Echo.a.Shout")
}

func TestCall_Echo(t *testing.T) {
	s := startEcho(t)
	ref := s.Ref("Echo", "a")
	assert.Equal(t, xactor.NewIdentity("Echo", "a"), ref.Identity())

	out, err := ref.Call(context.Background(), "Echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "a:hi", out)
	assert.Equal(t, []xactor.Identity{ref.Identity()}, s.Active())
}

func TestCall_IDGenerator(t *testing.T) {
	type key struct{}
	genErr := errors.New("clock moved backwards")
	var seen atomic.Value
	s := newStage(t, xstage.WithIDGenerator(func(ctx context.Context) (string, error) {
		seen.Store(ctx.Value(key{}))
		if ctx.Value(key{}) == "fail" {
			return "", genErr
		}
		return "id-1", nil
	}))
	require.NoError(t, s.Register("Echo", echo))
	require.NoError(t, s.Start(context.Background()))

	ctx := context.WithValue(context.Background(), key{}, "caller")
	_, err := s.Ref("Echo", "a").Call(ctx, "Echo", 1)
	require.NoError(t, err)
	assert.Equal(t, "caller", seen.Load())

	_, err = s.Ref("Echo", "a").Call(context.WithValue(ctx, key{}, "fail"), "Echo", 1)
	assert.ErrorIs(t, err, genErr)
	var ce *xstage.CallError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, ce.InvocationID)
}

func TestCall_Panic(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetFormat(xlog.FormatJSON).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	s := newStage(t, xstage.WithLogger(logger))
	require.NoError(t, s.Register("Boom", func(string) xactor.Actor {
		return xactor.ActorFunc(func(context.Context, *xactor.Invocation) (any, error) {
			panic("kaboom")
		})
	}))
	require.NoError(t, s.Start(context.Background()))

	_, err = s.Ref("Boom", "a").Call(context.Background(), "Any")
	assert.ErrorIs(t, err, xstage.ErrActorPanic)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Contains(t, buf.String(), "xstage: actor panicked")
	assert.Contains(t, buf.String(), `"`+xlog.KeyStack+`"`)

	// 实例在 panic 后仍可继续服务。
	_, err = s.Ref("Boom", "a").Call(context.Background(), "Any")
	assert.ErrorIs(t, err, xstage.ErrActorPanic)
}

func TestCall_MethodTimeout(t *testing.T) {
	rec := newRecorder()
	s := newStage(t)
	require.NoError(t, s.Register("Slow", func(string) xactor.Actor {
		return xactor.ActorFunc(func(ctx context.Context, inv *xactor.Invocation) (any, error) {
			if inv.Timeout != 30*time.Millisecond {
				return nil, fmt.Errorf("unexpected timeout %s", inv.Timeout)
			}
			<-ctx.Done()
			return nil, ctx.Err()
		})
	}, xstage.WithMethodTimeout("Wait", 30*time.Millisecond)))
	s.AddExtension(rec)
	require.NoError(t, s.Start(context.Background()))

	start := time.Now()
	_, err := s.Ref("Slow", "a").Call(context.Background(), "Wait")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case got := <-rec.errs:
		assert.ErrorIs(t, got, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("AfterInvoke not called after timeout")
	}
}

func TestCall_CallerCancel(t *testing.T) {
	started := make(chan struct{})
	rec := newRecorder()
	s := newStage(t)
	require.NoError(t, s.Register("Slow", func(string) xactor.Actor {
		return xactor.ActorFunc(func(ctx context.Context, _ *xactor.Invocation) (any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
	}))
	s.AddExtension(rec)
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	_, err := s.Ref("Slow", "a").Call(ctx, "Wait")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, <-rec.errs, context.Canceled)
}

func TestCall_StickyHeaders(t *testing.T) {
	s := newStage(t)
	type seen struct {
		headers map[string]any
		lookup  any
		hidden  bool
		method  string
	}
	got := make(chan seen, 1)
	require.NoError(t, s.Register("Inspector", func(string) xactor.Actor {
		return xactor.ActorFunc(func(ctx context.Context, inv *xactor.Invocation) (any, error) {
			v, _ := xframe.Lookup(ctx, "Tenant")
			_, hidden := xframe.Lookup(ctx, "Local")
			got <- seen{headers: inv.Headers, lookup: v, hidden: !hidden, method: xctx.ActorMethod(ctx)}
			return nil, nil
		})
	}))
	s.AddStickyHeaders("Tenant", "")
	assert.Equal(t, []string{"Tenant"}, s.StickyHeaders())
	require.NoError(t, s.Start(context.Background()))

	ctx, stack := xframe.Ensure(context.Background())
	f := stack.PushNew()
	require.NoError(t, f.SetProperty("Tenant", "acme"))
	require.NoError(t, f.SetProperty("Local", "x"))

	_, err := s.Ref("Inspector", "a").Call(ctx, "Look")
	require.NoError(t, err)
	g := <-got
	assert.Equal(t, map[string]any{"Tenant": "acme"}, g.headers)
	assert.Equal(t, "acme", g.lookup)
	assert.True(t, g.hidden)
	assert.Equal(t, "Look", g.method)
	stack.Pop(f)
}

func TestCall_SerialPerIdentity(t *testing.T) {
	var inside, overlaps atomic.Int32
	s := newStage(t)
	require.NoError(t, s.Register("Counter", func(string) xactor.Actor {
		return xactor.ActorFunc(func(context.Context, *xactor.Invocation) (any, error) {
			if inside.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(200 * time.Microsecond)
			inside.Add(-1)
			return nil, nil
		})
	}))
	require.NoError(t, s.Start(context.Background()))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Ref("Counter", "a").Call(context.Background(), "Inc")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Zero(t, overlaps.Load())
}

func TestCall_ConcurrentAcrossIdentities(t *testing.T) {
	bCalled := make(chan struct{})
	s := newStage(t, xstage.WithCallTimeout(5*time.Second))
	require.NoError(t, s.Register("Pair", func(id string) xactor.Actor {
		return xactor.ActorFunc(func(ctx context.Context, _ *xactor.Invocation) (any, error) {
			if id == "b" {
				close(bCalled)
				return "b", nil
			}
			select {
			case <-bCalled:
				return "a", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
	}))
	require.NoError(t, s.Start(context.Background()))

	errc := make(chan error, 1)
	go func() {
		_, err := s.Ref("Pair", "a").Call(context.Background(), "Wait")
		errc <- err
	}()
	_, err := s.Ref("Pair", "b").Call(context.Background(), "Go")
	require.NoError(t, err)
	assert.NoError(t, <-errc)
}

// 字符串形式相同的两个身份不共享激活锁。
func TestActivation_DistinctIdentitiesSameString(t *testing.T) {
	otherBuilt := make(chan struct{})
	s := newStage(t, xstage.WithCallTimeout(5*time.Second))
	require.NoError(t, s.Register("A.b", func(string) xactor.Actor {
		// 工厂在激活锁内执行。
		select {
		case <-otherBuilt:
		case <-time.After(2 * time.Second):
			t.Error("activation of A/b.c blocked behind A.b/c")
		}
		return echo("c")
	}))
	require.NoError(t, s.Register("A", func(id string) xactor.Actor {
		close(otherBuilt)
		return echo(id)
	}))
	require.NoError(t, s.Start(context.Background()))

	first := xactor.NewIdentity("A.b", "c")
	second := xactor.NewIdentity("A", "b.c")
	require.Equal(t, first.String(), second.String())

	errc := make(chan error, 1)
	go func() {
		_, err := s.Call(context.Background(), first, "Echo", 1)
		errc <- err
	}()
	out, err := s.Call(context.Background(), second, "Echo", 2)
	require.NoError(t, err)
	assert.Equal(t, "b.c:2", out)
	assert.NoError(t, <-errc)
	assert.Len(t, s.Active(), 2)
}

// =============================================================================
// extensions
// =============================================================================

func TestLifetimeExtension_Order(t *testing.T) {
	ctrl := gomock.NewController(t)
	lt := mock_xactor.NewMockLifetimeExtension(ctrl)
	lt.EXPECT().Name().Return("mock.lifetime").AnyTimes()

	id := xactor.NewIdentity("Echo", "a")
	checkCtx := func(ctx context.Context, got xactor.Identity) {
		_, ok := xframe.FromContext(ctx)
		assert.True(t, ok, "activation ctx carries a frame stack")
		assert.Equal(t, got.Interface, xctx.ActorType(ctx))
		assert.Equal(t, got.ID, xctx.ActorID(ctx))
	}
	gomock.InOrder(
		lt.EXPECT().PreActivation(gomock.Any(), id).Do(checkCtx),
		lt.EXPECT().PostActivation(gomock.Any(), id).Do(checkCtx),
		lt.EXPECT().PreDeactivation(gomock.Any(), id).Do(checkCtx),
		lt.EXPECT().PostDeactivation(gomock.Any(), id).Do(checkCtx),
	)

	s := newStage(t)
	require.NoError(t, s.Register("Echo", echo))
	s.AddExtension(lt)
	require.NoError(t, s.Start(context.Background()))

	for i := range 3 {
		out, err := s.Call(context.Background(), id, "Echo", i)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("a:%d", i), out)
	}
	require.NoError(t, s.Deactivate(context.Background(), id))
	assert.False(t, s.IsActive(id))
	assert.NoError(t, s.Deactivate(context.Background(), id))
}

func TestInvocationExtension_Order(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mock_xactor.NewMockInvocationExtension(ctrl)
	b := mock_xactor.NewMockInvocationExtension(ctrl)
	a.EXPECT().Name().Return("a").AnyTimes()
	b.EXPECT().Name().Return("b").AnyTimes()

	type key struct{}
	gomock.InOrder(
		a.EXPECT().BeforeInvoke(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, inv *xactor.Invocation) (context.Context, error) {
				assert.Equal(t, "Echo", inv.Method)
				assert.Equal(t, "inv-1", inv.ID)
				assert.Equal(t, xstage.DefaultCallTimeout, inv.Timeout)
				return context.WithValue(ctx, key{}, "from-a"), nil
			}),
		b.EXPECT().BeforeInvoke(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ *xactor.Invocation) (context.Context, error) {
				assert.Equal(t, "from-a", ctx.Value(key{}))
				return ctx, nil
			}),
		b.EXPECT().AfterInvoke(gomock.Any(), gomock.Any(), gomock.Nil()),
		a.EXPECT().AfterInvoke(gomock.Any(), gomock.Any(), gomock.Nil()),
		a.EXPECT().AfterInvokeChain(gomock.Any(), gomock.Any()),
		b.EXPECT().AfterInvokeChain(gomock.Any(), gomock.Any()),
	)

	s := newStage(t)
	require.NoError(t, s.Register("Echo", echo))
	s.AddExtension(a)
	s.AddExtension(b)
	require.NoError(t, s.Start(context.Background()))

	out, err := s.Ref("Echo", "x").Call(context.Background(), "Echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "x:hi", out)
}

func TestInvocationExtension_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mock_xactor.NewMockInvocationExtension(ctrl)
	b := mock_xactor.NewMockInvocationExtension(ctrl)
	actor := mock_xactor.NewMockActor(ctrl)
	a.EXPECT().Name().Return("a").AnyTimes()
	b.EXPECT().Name().Return("b").AnyTimes()

	gomock.InOrder(
		a.EXPECT().BeforeInvoke(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ *xactor.Invocation) (context.Context, error) { return ctx, nil }),
		b.EXPECT().BeforeInvoke(gomock.Any(), gomock.Any()).Return(nil, xactor.ErrNotAcceptingCalls),
		a.EXPECT().AfterInvoke(gomock.Any(), gomock.Any(), xactor.ErrNotAcceptingCalls),
		a.EXPECT().AfterInvokeChain(gomock.Any(), gomock.Any()),
	)

	s := newStage(t)
	require.NoError(t, s.Register("Mock", func(string) xactor.Actor { return actor }))
	s.AddExtension(a)
	s.AddExtension(b)
	require.NoError(t, s.Start(context.Background()))

	_, err := s.Ref("Mock", "a").Call(context.Background(), "Any")
	assert.ErrorIs(t, err, xactor.ErrNotAcceptingCalls)
}

func TestAddExtension_NoHookSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	ext := mock_xactor.NewMockExtension(ctrl)
	ext.EXPECT().Name().Return("plain")

	s := newStage(t)
	s.AddExtension(ext)
	s.AddExtension(nil)
}

// activationProps 在激活帧栈上压入一帧，失活时弹出。
type activationProps struct {
	mu     sync.Mutex
	frames map[xactor.Identity]*xframe.Frame
}

func (p *activationProps) Name() string { return "test.props" }
func (p *activationProps) PreActivation(ctx context.Context, id xactor.Identity) {
	f, err := xframe.Push(ctx)
	if err != nil {
		panic(err)
	}
	_ = f.SetProperty("Owner", id.String())
	p.mu.Lock()
	p.frames[id] = f
	p.mu.Unlock()
}
func (p *activationProps) PostActivation(context.Context, xactor.Identity)  {}
func (p *activationProps) PreDeactivation(context.Context, xactor.Identity) {}
func (p *activationProps) PostDeactivation(ctx context.Context, id xactor.Identity) {
	p.mu.Lock()
	f := p.frames[id]
	delete(p.frames, id)
	p.mu.Unlock()
	if err := xframe.Pop(ctx, f); err != nil {
		panic(err)
	}
}

func TestActivationProperties_OverrideHeaders(t *testing.T) {
	props := &activationProps{frames: make(map[xactor.Identity]*xframe.Frame)}
	s := newStage(t)
	require.NoError(t, s.Register("Inspector", func(string) xactor.Actor {
		return xactor.ActorFunc(func(ctx context.Context, _ *xactor.Invocation) (any, error) {
			v, _ := xframe.Lookup(ctx, "Owner")
			return v, nil
		})
	}))
	s.AddExtension(props)
	s.AddStickyHeaders("Owner")
	require.NoError(t, s.Start(context.Background()))

	ctx, stack := xframe.Ensure(context.Background())
	f := stack.PushNew()
	require.NoError(t, f.SetProperty("Owner", "caller"))

	out, err := s.Ref("Inspector", "a").Call(ctx, "Owner")
	require.NoError(t, err)
	assert.Equal(t, "Inspector.a", out)
	stack.Pop(f)

	require.NoError(t, s.Stop(context.Background()))
	props.mu.Lock()
	assert.Empty(t, props.frames)
	props.mu.Unlock()
}

// =============================================================================
// deactivation
// =============================================================================

func TestDeactivate_Reactivates(t *testing.T) {
	var created atomic.Int32
	s := newStage(t)
	require.NoError(t, s.Register("Echo", func(id string) xactor.Actor {
		created.Add(1)
		return echo(id)
	}))
	require.NoError(t, s.Start(context.Background()))
	id := xactor.NewIdentity("Echo", "a")

	_, err := s.Call(context.Background(), id, "Echo", 1)
	require.NoError(t, err)
	require.NoError(t, s.Deactivate(context.Background(), id))

	_, err = s.Call(context.Background(), id, "Echo", 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), created.Load())
	assert.True(t, s.IsActive(id))
}

func TestRun_ReapsIdleActors(t *testing.T) {
	s := newStage(t,
		xstage.WithIdleTimeout(20*time.Millisecond),
		xstage.WithReapInterval(5*time.Millisecond),
	)
	require.NoError(t, s.Register("Echo", echo))

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()
	require.Eventually(t, func() bool {
		_, err := s.Ref("Echo", "a").Call(context.Background(), "Echo", 1)
		return err == nil
	}, time.Second, time.Millisecond)

	id := xactor.NewIdentity("Echo", "a")
	require.Eventually(t, func() bool { return !s.IsActive(id) }, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-runErr)
	_, err := s.Call(context.Background(), id, "Echo", 1)
	assert.ErrorIs(t, err, xstage.ErrStageStopped)
}

func TestStop_DeactivatesAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	lt := mock_xactor.NewMockLifetimeExtension(ctrl)
	lt.EXPECT().Name().Return("mock.lifetime").AnyTimes()
	lt.EXPECT().PreActivation(gomock.Any(), gomock.Any()).Times(3)
	lt.EXPECT().PostActivation(gomock.Any(), gomock.Any()).Times(3)
	lt.EXPECT().PreDeactivation(gomock.Any(), gomock.Any()).Times(3)
	lt.EXPECT().PostDeactivation(gomock.Any(), gomock.Any()).Times(3)

	s := newStage(t)
	require.NoError(t, s.Register("Echo", echo))
	s.AddExtension(lt)
	require.NoError(t, s.Start(context.Background()))

	for _, id := range []string{"c", "a", "b"} {
		_, err := s.Ref("Echo", id).Call(context.Background(), "Echo", id)
		require.NoError(t, err)
	}
	assert.Equal(t, []xactor.Identity{
		xactor.NewIdentity("Echo", "a"),
		xactor.NewIdentity("Echo", "b"),
		xactor.NewIdentity("Echo", "c"),
	}, s.Active())

	require.NoError(t, s.Stop(context.Background()))
	assert.Empty(t, s.Active())
}

func TestStop_ContextExpired(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := newStage(t)
	require.NoError(t, s.Register("Block", func(string) xactor.Actor {
		return xactor.ActorFunc(func(context.Context, *xactor.Invocation) (any, error) {
			close(started)
			<-release
			return nil, nil
		})
	}))
	require.NoError(t, s.Start(context.Background()))

	errc := make(chan error, 1)
	go func() {
		_, err := s.Ref("Block", "a").Call(context.Background(), "Hold")
		errc <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Stop(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(release)
	assert.NoError(t, <-errc)
	assert.NoError(t, s.Stop(context.Background()))
}
