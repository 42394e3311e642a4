package xhook

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/context/xctx"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xmetrics"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

// Invocation 为每次方法调用创建调用 span。
//
// 父 span 选择顺序：入站 SpanContext 头 → 目标 actor 的生命周期 span → 新根。
// 入站头胜出且目标处于激活状态时，调用 span 额外链接到生命周期 span。
//
// Shutdown 只关闭准入：BeforeInvoke 开始拒绝，已进入的调用仍由 AfterInvoke
// 结束 span 并弹出帧。
type Invocation struct {
	*core
	accepting atomic.Bool
}

var _ xactor.InvocationExtension = (*Invocation)(nil)

// callKey 按 Invocation 实例区分，同一 stage 上装了多个实例时各取各的 call。
type callKey struct{ owner *Invocation }

// call 在 BeforeInvoke 与 AfterInvoke 之间传递。
type call struct {
	span  trace.Span
	frame *xframe.Frame
	start time.Time
	done  atomic.Bool
}

func newInvocation(c *core) *Invocation {
	inv := &Invocation{core: c}
	inv.accepting.Store(true)
	return inv
}

// Name 实现 xactor.Extension。
func (h *Invocation) Name() string { return "xhook.invocation" }

// Shutdown 停止接受新调用。幂等。
func (h *Invocation) Shutdown() {
	if h.accepting.CompareAndSwap(true, false) {
		h.logger.Info(context.Background(), "xhook: invocation tracing shut down")
	}
}

// Accepting 报告是否仍接受新调用。
func (h *Invocation) Accepting() bool {
	return h.accepting.Load()
}

// BeforeInvoke 创建调用 span，压入携带其编码的帧，并把 span 设为返回 ctx 的活动 span。
func (h *Invocation) BeforeInvoke(ctx context.Context, inv *xactor.Invocation) (context.Context, error) {
	if !h.accepting.Load() {
		h.recorder.Invocation(ctx, inv.Target.Interface, inv.Method, xmetrics.OutcomeRejected, 0)
		return ctx, xactor.ErrNotAcceptingCalls
	}

	startCtx, startOpts := h.parent(ctx, inv)
	startOpts = append(startOpts,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			AttrKind.String(h.kind),
			AttrMethod.String(inv.Method),
			AttrInvocationID.String(inv.ID),
		),
	)
	ctx, span := h.tracer.Start(startCtx, inv.Target.String(), startOpts...)

	ctx, stack := xframe.Ensure(ctx)
	f := stack.PushNew()
	enc := h.codec.Inject(xtrace.SpanContext{SpanContext: span.SpanContext(), Baggage: baggage.FromContext(ctx)})
	if err := f.SetProperty(HeaderSpanContext, enc); err != nil {
		h.logger.Warn(ctx, "xhook: set call header failed", xlog.Err(err))
	}

	ctx = xtrace.SyncToContext(ctx, span.SpanContext())
	if actx, err := xctx.WithActor(ctx, xctx.Actor{
		Type:         inv.Target.Interface,
		ID:           inv.Target.ID,
		Method:       inv.Method,
		InvocationID: inv.ID,
	}); err == nil {
		ctx = actx
	}
	return context.WithValue(ctx, callKey{h}, &call{span: span, frame: f, start: time.Now()}), nil
}

// parent 按优先级选出父 span。
func (h *Invocation) parent(ctx context.Context, inv *xactor.Invocation) (context.Context, []trace.SpanStartOption) {
	lt, active := h.registry.Active(inv.Target)

	if v, ok := inv.Header(HeaderSpanContext); ok {
		if sc, ok := xtrace.Decode(h.codec, v); ok {
			var opts []trace.SpanStartOption
			if active {
				opts = append(opts, trace.WithLinks(trace.Link{
					SpanContext: lt.SpanContext(),
					Attributes:  []attribute.KeyValue{AttrLinkType.String("actor.lifetime")},
				}))
			}
			return xtrace.ContextWithRemote(ctx, sc), opts
		}
		h.logger.Debug(ctx, "xhook: malformed inbound span context, falling back",
			xlog.Actor(inv.Target.String()))
	}
	if active {
		return trace.ContextWithSpan(ctx, lt.Span()), nil
	}
	return ctx, []trace.SpanStartOption{trace.WithNewRoot()}
}

// AfterInvoke 结束调用 span 并弹出帧，无论结果如何、是否已 Shutdown。
//
// 同一次调用重复执行时只生效一次。
func (h *Invocation) AfterInvoke(ctx context.Context, inv *xactor.Invocation, err error) {
	c, ok := ctx.Value(callKey{h}).(*call)
	if !ok {
		h.logger.Debug(ctx, "xhook: after invoke without call span", xlog.Method(inv.Method))
		return
	}
	if !c.done.CompareAndSwap(false, true) {
		return
	}

	if err != nil {
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			c.span.SetAttributes(AttrTimeout.Bool(true))
		}
	}
	c.span.End()

	if s, ok := xframe.FromContext(ctx); ok {
		s.Pop(c.frame)
	}

	h.recorder.Invocation(ctx, inv.Target.Interface, inv.Method, xmetrics.OutcomeOf(err), time.Since(c.start))
	if !h.accepting.Load() {
		h.logger.Debug(ctx, "xhook: in-flight call completed after shutdown",
			xlog.Actor(inv.Target.String()), xlog.Method(inv.Method))
	}
}

// AfterInvokeChain 实现 xactor.InvocationExtension，不做任何事，也不受 Shutdown 影响。
func (h *Invocation) AfterInvokeChain(context.Context, *xactor.Invocation) {}
