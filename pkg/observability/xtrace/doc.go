// Package xtrace 提供 span 身份在调用边界上的编解码。
//
// # 设计理念
//
// actor 调用可能跨 goroutine、跨进程，唯一允许跨越边界的是一个扁平的
// 字符串映射（TextMap）。xtrace 负责把 span 的身份（trace id、span id、
// trace flags、tracestate、baggage）编码进 TextMap，并在对端还原。
//
// 默认实现 OTelCodec 使用 W3C Trace Context + Baggage 组合 Propagator：
//
//	traceparent: 00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01
//	tracestate:  vendor=value
//	baggage:     k1=v1,k2=v2
//
// # 容错
//
// Extract 对 nil、空 map、缺失或格式错误的 traceparent 返回 false，从不 panic。
// 调用方据此回退到其他父 span 候选，而不是阻断调用。
//
// # 日志联动
//
// SyncToContext 把 span 身份写入 xctx，xlog 的 EnrichHandler 会自动把它们
// 加到每条日志上。LogExporter 把结束的 span 写成日志，供本地演示使用。
package xtrace
