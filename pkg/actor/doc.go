// Package actor 提供进程内 actor 运行时与分布式追踪钩子。
//
// 子包列表：
//   - xactor: 身份、调用、扩展接口等运行时契约
//   - xstage: 每个身份一个邮箱的 actor 运行时
//   - xsticky: 粘性头名称表，决定哪些帧属性随调用传播
//   - xlifetime: 每个激活周期一个生命周期 span 的分片注册表
//   - xhook: 生命周期与调用钩子，把 span 上下文接到调用链上
//
// 典型用法：
//
//	stage, _ := xstage.New(xstage.WithName("hello"))
//	hooks, _ := xhook.Enable(stage, xhook.WithTracerProvider(tp))
//	_ = stage.Register("Hello", factory)
//	_ = stage.Start(ctx)
//	defer func() { hooks.Shutdown(); _ = stage.Stop(ctx) }()
package actor
