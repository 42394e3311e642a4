package xmetrics

import (
	"context"
	"time"
)

// Outcome 一次调用的结果分类。
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeError    Outcome = "error"
	OutcomeRejected Outcome = "rejected"
)

// OutcomeOf 按错误归类：nil 为 ok，其余为 error。拒绝由调用方显式传 OutcomeRejected。
func OutcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// Recorder 记录 actor 追踪钩子的指标。
//
// 所有方法必须并发安全且不返回错误：指标失败不能影响调用本身。
type Recorder interface {
	// LifetimeStarted 一个生命周期 span 开始。
	LifetimeStarted(ctx context.Context, iface string)

	// LifetimeEnded 一个生命周期 span 结束。
	LifetimeEnded(ctx context.Context, iface string)

	// Invocation 一次调用结束（或被拒绝）。
	Invocation(ctx context.Context, iface, method string, outcome Outcome, elapsed time.Duration)
}

// NoopRecorder 不记录任何指标。
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

// LifetimeStarted 实现 Recorder。
func (NoopRecorder) LifetimeStarted(context.Context, string) {}

// LifetimeEnded 实现 Recorder。
func (NoopRecorder) LifetimeEnded(context.Context, string) {}

// Invocation 实现 Recorder。
func (NoopRecorder) Invocation(context.Context, string, string, Outcome, time.Duration) {}
