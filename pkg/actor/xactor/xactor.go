package xactor

//go:generate mockgen -source=xactor.go -destination=mock_xactor/xactor_mock.go -package=mock_xactor

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrNotAcceptingCalls 追踪扩展已关闭，拒绝新的调用。调用方不应重试。
var ErrNotAcceptingCalls = errors.New("xactor: not accepting calls")

// =============================================================================
// Identity
// =============================================================================

// Identity 可寻址 actor 的稳定标识。
type Identity struct {
	// Interface actor 接口名，如 "Hello"。
	Interface string
	// ID 实例 ID，如 "0"。
	ID string
}

// NewIdentity 创建 Identity。
func NewIdentity(iface, id string) Identity {
	return Identity{Interface: iface, ID: id}
}

// String 返回 "<Interface>.<ID>"，用于 span 名与日志。
// 接口名或 ID 自身含 "." 时不同身份可能得到相同的字符串，分片与加锁用 Key。
func (id Identity) String() string {
	return id.Interface + "." + id.ID
}

// Key 返回 "<len(Interface)>:<Interface><ID>"，不同身份的 Key 一定不同。
func (id Identity) Key() string {
	return strconv.Itoa(len(id.Interface)) + ":" + id.Interface + id.ID
}

// Valid 报告 Interface 与 ID 是否都非空。
func (id Identity) Valid() bool {
	return id.Interface != "" && id.ID != ""
}

// =============================================================================
// Invocation
// =============================================================================

// Invocation 一次 actor 方法调用的记录，只在调用期间存在。
type Invocation struct {
	// Target 目标 actor。
	Target Identity
	// Method 方法名。
	Method string
	// Params 参数，由目标 actor 自行解释。
	Params []any
	// Headers 入站的粘性头，由运行时在发送端收集。
	Headers map[string]any
	// ID 调用 ID。
	ID string
	// Timeout 本次调用的超时，0 表示使用运行时默认值。
	Timeout time.Duration
}

// Header 读取入站头。
func (inv *Invocation) Header(name string) (any, bool) {
	if inv == nil {
		return nil, false
	}
	v, ok := inv.Headers[name]
	return v, ok
}

// =============================================================================
// Actor
// =============================================================================

// Actor 运行时调度的 actor 实例。
//
// 同一实例的 Invoke 按到达顺序逐个执行，实现无需加锁。
type Actor interface {
	Invoke(ctx context.Context, inv *Invocation) (any, error)
}

// ActorFunc 函数适配器。
type ActorFunc func(ctx context.Context, inv *Invocation) (any, error)

// Invoke 实现 Actor。
func (f ActorFunc) Invoke(ctx context.Context, inv *Invocation) (any, error) {
	return f(ctx, inv)
}

// Factory 按 ID 创建 actor 实例，每次激活调用一次。
type Factory func(id string) Actor

// =============================================================================
// 扩展点
// =============================================================================

// Extension 运行时扩展的公共部分。
type Extension interface {
	// Name 扩展名，用于日志。
	Name() string
}

// LifetimeExtension 观察 actor 的激活与失活。
//
// ctx 携带该 actor 激活期间使用的帧栈（xframe），四个钩子共享同一个栈。
// 钩子不返回错误：追踪失败只记录日志，不影响 actor 生命周期。
type LifetimeExtension interface {
	Extension
	PreActivation(ctx context.Context, id Identity)
	PostActivation(ctx context.Context, id Identity)
	PreDeactivation(ctx context.Context, id Identity)
	PostDeactivation(ctx context.Context, id Identity)
}

// InvocationExtension 包裹每一次方法调用。
type InvocationExtension interface {
	Extension

	// BeforeInvoke 在目标方法之前执行，返回的 ctx 用于方法本身与 AfterInvoke。
	// 返回错误时调用被拒绝，方法与 AfterInvoke 都不会执行。
	BeforeInvoke(ctx context.Context, inv *Invocation) (context.Context, error)

	// AfterInvoke 在目标方法返回后执行，err 为方法的错误（含超时）。
	AfterInvoke(ctx context.Context, inv *Invocation, err error)

	// AfterInvokeChain 在所有 AfterInvoke 之后执行。
	AfterInvokeChain(ctx context.Context, inv *Invocation)
}

// Host 可安装扩展的运行时。
type Host interface {
	AddExtension(ext Extension)
	AddStickyHeaders(names ...string)
}
