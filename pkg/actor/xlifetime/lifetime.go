package xlifetime

import (
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/context/xframe"
)

// State actor 实例的生命周期状态。
type State int32

const (
	StateInactive State = iota
	StateActivating
	StateActive
	StateDeactivating
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	case StateDeactivating:
		return "deactivating"
	default:
		return "unknown"
	}
}

// Lifetime 一个激活周期的追踪记录。
//
// span 在 Begin 时创建，在 End 时结束；frame 是激活时压入 actor 帧栈的帧，
// 由生命周期钩子在失活时弹出。
type Lifetime struct {
	id      xactor.Identity
	span    trace.Span
	started time.Time
	state   atomic.Int32
	frame   atomic.Pointer[xframe.Frame]
}

// Identity 返回所属 actor。
func (l *Lifetime) Identity() xactor.Identity { return l.id }

// Span 返回生命周期 span。
func (l *Lifetime) Span() trace.Span { return l.span }

// SpanContext 返回生命周期 span 的身份。
func (l *Lifetime) SpanContext() trace.SpanContext { return l.span.SpanContext() }

// Started 返回 Begin 的时间。
func (l *Lifetime) Started() time.Time { return l.started }

// State 返回当前状态。
func (l *Lifetime) State() State { return State(l.state.Load()) }

// SetState 设置状态。
func (l *Lifetime) SetState(s State) { l.state.Store(int32(s)) }

// Frame 返回激活帧，未设置时为 nil。
func (l *Lifetime) Frame() *xframe.Frame { return l.frame.Load() }

// SetFrame 记录激活帧。
func (l *Lifetime) SetFrame(f *xframe.Frame) { l.frame.Store(f) }

// TakeFrame 取出并清空激活帧，保证同一帧只被弹出一次。
func (l *Lifetime) TakeFrame() *xframe.Frame { return l.frame.Swap(nil) }
