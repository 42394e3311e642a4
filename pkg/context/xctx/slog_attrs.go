package xctx

import (
	"context"
	"log/slog"
)

// =============================================================================
// Trace slog 集成
// =============================================================================

// AppendTraceAttrs 将 context 中的追踪信息追加到现有切片。
// 传入预分配的切片，只追加非空字段。
func AppendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}

	if v := TraceID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceID, v))
	}
	if v := SpanID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeySpanID, v))
	}
	if v := TraceFlags(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceFlags, v))
	}

	return attrs
}

// TraceAttrs 从 context 提取追踪信息，全部为空时返回 nil。
// 每次调用会分配新切片，热路径使用 AppendTraceAttrs。
func TraceAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := AppendTraceAttrs(make([]slog.Attr, 0, traceFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// =============================================================================
// Actor slog 集成
// =============================================================================

// AppendActorAttrs 将 context 中的 actor 信息追加到现有切片。
func AppendActorAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}

	if v := ActorType(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyActorType, v))
	}
	if v := ActorID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyActorID, v))
	}
	if v := ActorMethod(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyActorMethod, v))
	}
	if v := InvocationID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyInvocationID, v))
	}

	return attrs
}

// ActorAttrs 从 context 提取 actor 信息，全部为空时返回 nil。
func ActorAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := AppendActorAttrs(make([]slog.Attr, 0, actorFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// LogAttrs 合并追踪与 actor 信息，只返回非空字段。
func LogAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, traceFieldCount+actorFieldCount)
	attrs = AppendTraceAttrs(attrs, ctx)
	attrs = AppendActorAttrs(attrs, ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
