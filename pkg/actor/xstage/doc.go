// Package xstage 是进程内的 actor 运行时，实现 xactor.Host。
//
// # 模型
//
//   - 每个 Identity（"Interface.ID"）首次被调用时激活，由注册的 Factory 创建实例
//   - 同一 Identity 的调用进入它的邮箱，由一个 goroutine 按到达顺序逐个执行
//   - 不同 Identity 之间并发执行
//   - 空闲超过 WithIdleTimeout、显式 Deactivate 或 Stop 时失活；失活前邮箱先排空
//
// # 上下文
//
// 每个激活有一个激活 ctx，携带独立的 xframe 帧栈；生命周期扩展的四个钩子都收到它。
// 每次调用有一个调用 ctx，携带新的帧栈，底座为入站粘性头加上激活帧栈的可见属性。
// 调用 ctx 的截止时间与调用方一致，调用方放弃时随之取消。
//
// # 使用
//
//	stage, err := xstage.New(xstage.WithCallTimeout(5*time.Second))
//	err = stage.Register("Hello", newHello, xstage.WithMethodTimeout("SayHello", 4*time.Second))
//	_, err = xhook.Enable(stage)
//	err = stage.Start(ctx)
//	out, err := stage.Ref("Hello", "0").Call(ctx, "SayHello", "hi")
//	err = stage.Stop(ctx)
package xstage
