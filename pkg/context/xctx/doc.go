// Package xctx 提供日志可见的请求上下文字段。
//
// 追踪信息（Trace）：
//   - trace_id    : 追踪标识（W3C，128-bit，32 位十六进制）
//   - span_id     : 跨度标识（W3C，64-bit，16 位十六进制）
//   - trace_flags : 采样标志（可选）
//
// Actor 信息（Actor）：
//   - actor_type    : actor 接口类型名
//   - actor_id      : actor 实例 ID
//   - actor_method  : 当前调用的方法
//   - invocation_id : 调用 ID
//
// xctx 只保存字符串形式的字段，用于日志 enrich。真正的 span 由 OpenTelemetry
// 的 context 值承载，传播帧由 xframe 承载；xtrace.SyncToContext 负责把 span
// 身份同步到这里。
//
// # 命名约定
//
//	WithXxx(ctx, value)    - 注入
//	Xxx(ctx)               - 读取，缺失时返回零值
//	RequireXxx(ctx)        - 强制读取，缺失时返回哨兵错误
//	GetXxx(ctx)            - 批量读取，返回结构体
//
// 所有 WithXxx 在 ctx 为 nil 时返回 ErrNilContext，读取函数对 nil ctx 返回零值。
package xctx
