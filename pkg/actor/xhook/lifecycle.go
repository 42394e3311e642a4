package xhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xlifetime"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

// 生命周期 span 上的事件名。
const (
	EventPreActivation    = "preActivation"
	EventPostActivation   = "postActivation"
	EventPreDeactivation  = "preDeactivation"
	EventPostDeactivation = "postDeactivation"
)

// Lifecycle 为每个激活周期维护一个生命周期 span。
//
// 状态机：Inactive → Activating → Active → Deactivating → Inactive。
// 重复或乱序的通知只记录日志，不返回错误。
type Lifecycle struct {
	*core
	sticky func(names ...string)
}

var _ xactor.LifetimeExtension = (*Lifecycle)(nil)

// Name 实现 xactor.Extension。
func (l *Lifecycle) Name() string { return "xhook.lifecycle" }

// PreActivation 开始生命周期 span，并在 actor 帧栈上压入携带其编码的帧。
func (l *Lifecycle) PreActivation(ctx context.Context, id xactor.Identity) {
	lt, err := l.registry.Begin(ctx, id)
	if err != nil {
		if errors.Is(err, xlifetime.ErrLifetimeExists) {
			l.logger.Warn(ctx, "xhook: duplicate activation", xlog.Actor(id.String()))
			return
		}
		l.logger.Error(ctx, "xhook: begin lifetime failed", xlog.Actor(id.String()), xlog.Err(err))
		return
	}
	l.recorder.LifetimeStarted(ctx, id.Interface)

	enc := l.codec.Inject(xtrace.SpanContext{SpanContext: lt.SpanContext()})
	if s, ok := xframe.FromContext(ctx); ok {
		f := s.PushNew()
		if err := f.SetProperty(HeaderLifetimeSpanContext, enc); err != nil {
			l.logger.Warn(ctx, "xhook: set lifetime header failed", xlog.Actor(id.String()), xlog.Err(err))
		}
		lt.SetFrame(f)
	} else {
		l.logger.Warn(ctx, "xhook: activation without frame stack", xlog.Actor(id.String()))
	}
	if l.sticky != nil {
		l.sticky(HeaderLifetimeSpanContext)
	}

	lt.Span().AddEvent(EventPreActivation)
	l.logger.Debug(ctx, "xhook: lifetime started",
		xlog.Actor(id.String()),
		slog.String("span_id", lt.SpanContext().SpanID().String()))
}

// PostActivation 记录 postActivation 事件，状态进入 Active。
func (l *Lifecycle) PostActivation(ctx context.Context, id xactor.Identity) {
	lt, ok := l.active(ctx, id, EventPostActivation)
	if !ok {
		return
	}
	lt.Span().AddEvent(EventPostActivation)
	lt.SetState(xlifetime.StateActive)
}

// PreDeactivation 记录 preDeactivation 事件，状态进入 Deactivating。
func (l *Lifecycle) PreDeactivation(ctx context.Context, id xactor.Identity) {
	lt, ok := l.active(ctx, id, EventPreDeactivation)
	if !ok {
		return
	}
	lt.Span().AddEvent(EventPreDeactivation)
	lt.SetState(xlifetime.StateDeactivating)
}

// PostDeactivation 记录 postDeactivation 事件，结束生命周期 span 并弹出激活帧。
//
// 返回前 span 已结束、帧已弹出。激活帧不在栈顶时 panic(*xframe.MismatchError)。
func (l *Lifecycle) PostDeactivation(ctx context.Context, id xactor.Identity) {
	lt, ok := l.active(ctx, id, EventPostDeactivation)
	if !ok {
		return
	}
	lt.Span().AddEvent(EventPostDeactivation)
	l.registry.End(ctx, id)
	l.recorder.LifetimeEnded(ctx, id.Interface)

	if f := lt.TakeFrame(); f != nil {
		if s, ok := xframe.FromContext(ctx); ok {
			s.Pop(f)
		} else {
			l.logger.Warn(ctx, "xhook: deactivation without frame stack", xlog.Actor(id.String()))
		}
	}
	l.logger.Debug(ctx, "xhook: lifetime ended", xlog.Actor(id.String()))
}

func (l *Lifecycle) active(ctx context.Context, id xactor.Identity, event string) (*xlifetime.Lifetime, bool) {
	lt, ok := l.registry.Active(id)
	if !ok {
		l.logger.Debug(ctx, "xhook: no active lifetime",
			xlog.Actor(id.String()), slog.String("event", event))
	}
	return lt, ok
}
