// Package xhook 实现 actor 的自动链路追踪扩展。
//
// # 组成
//
//   - Lifecycle：每个激活周期一个生命周期 span（"Actor.<Interface>.<ID>"），
//     激活时把它的编码以 ActorLifeTimeSpanContext 放入 actor 帧栈，失活时结束并弹出。
//   - Invocation：每次调用一个调用 span（"<Interface>.<ID>"），
//     调用期间把它的编码以 SpanContext 放入调用帧栈，调用返回后结束并弹出。
//
// 两个头都注册为粘性头，运行时在每次出站调用时把它们从调用方帧栈复制到
// Invocation.Headers，于是多跳调用链共享同一条 trace。
//
// # 父 span 选择
//
//  1. 入站 SpanContext 头可解码：以调用方 span 为父；目标已激活时附加一条指向生命周期 span 的 link
//  2. 目标已激活：以生命周期 span 为父
//  3. 否则：新的根 span
//
// # 关闭
//
// Shutdown 之后 BeforeInvoke 返回 xactor.ErrNotAcceptingCalls，不做任何追踪工作；
// AfterInvoke 与 AfterInvokeChain 不受影响，已进入的调用照常结束 span。
//
// # 使用
//
//	hooks, err := xhook.Enable(stage, xhook.WithTracerProvider(tp))
//	...
//	ctx, span := tracer.Start(ctx, "action")
//	ctx, f := xhook.PushSpanContext(ctx, span)
//	_, err = stage.Call(ctx, id, "SayHello", "hi")
//	xhook.PopSpanContext(ctx, f)
//	span.End()
package xhook
