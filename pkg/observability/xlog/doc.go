// Package xlog 基于 log/slog 的结构化日志。
//
// # 创建
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString(cfg.Level).
//		SetFormat(cfg.Format).
//		SetRotation(cfg.File).
//		Build()
//	defer cleanup()
//
// Builder 只记录第一个配置错误，Build 时返回。
//
// # ctx 字段
//
// 默认启用 [EnrichHandler]：ctx 上的 otel span 与 xctx actor 信息以
// trace_id、span_id、trace_flags、actor_type、actor_id、actor_method、
// invocation_id 出现在每条日志上。actor 方法里直接用收到的 ctx 记录即可。
//
// # 级别
//
// Build 返回的 [LoggerWithLevel] 支持运行时 SetLevel，派生 logger 共享级别。
//
// # 全局 Logger
//
// [Default] 惰性创建，[SetDefault] 替换。xstage、xhook 等组件未注入 logger 时使用它。
package xlog
