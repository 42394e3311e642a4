// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog，自动附加 xctx 中的追踪与 actor 字段
//   - xrotate: 日志文件轮转（lumberjack）
//   - xtrace: span 上下文编解码（W3C traceparent + baggage）与日志导出器
//   - xmetrics: actor 生命周期与调用的 OpenTelemetry 指标
package observability
