package xctx

import "context"

// =============================================================================
// Trace 日志属性 Key 常量
// =============================================================================

// Trace Key 常量，遵循 OpenTelemetry 语义约定（下划线分隔）
const (
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyTraceFlags = "trace_flags"

	// traceFieldCount 追踪字段数量（用于 slog 属性预分配）
	traceFieldCount = 3
)

const (
	keyTraceID    = contextKey("xctx:trace_id")
	keySpanID     = contextKey("xctx:span_id")
	keyTraceFlags = contextKey("xctx:trace_flags")
)

// WithTraceID 将 trace ID 注入 context。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTraceID(ctx context.Context, traceID string) (context.Context, error) {
	return withString(ctx, keyTraceID, traceID)
}

// TraceID 从 context 提取 trace ID，不存在返回空字符串
func TraceID(ctx context.Context) string {
	return stringValue(ctx, keyTraceID)
}

// WithSpanID 将 span ID 注入 context。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithSpanID(ctx context.Context, spanID string) (context.Context, error) {
	return withString(ctx, keySpanID, spanID)
}

// SpanID 从 context 提取 span ID，不存在返回空字符串
func SpanID(ctx context.Context) string {
	return stringValue(ctx, keySpanID)
}

// WithTraceFlags 将 W3C trace-flags 注入 context。
//
// 格式: 2 位十六进制字符串（"01" 已采样，"00" 未采样）。
func WithTraceFlags(ctx context.Context, flags string) (context.Context, error) {
	return withString(ctx, keyTraceFlags, flags)
}

// TraceFlags 从 context 提取 trace flags，不存在返回空字符串
func TraceFlags(ctx context.Context) string {
	return stringValue(ctx, keyTraceFlags)
}

// RequireTraceID 从 context 获取 trace ID，不存在则返回 ErrMissingTraceID。
func RequireTraceID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := TraceID(ctx)
	if v == "" {
		return "", ErrMissingTraceID
	}
	return v, nil
}

// RequireSpanID 从 context 获取 span ID，不存在则返回 ErrMissingSpanID。
func RequireSpanID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := SpanID(ctx)
	if v == "" {
		return "", ErrMissingSpanID
	}
	return v, nil
}

// =============================================================================
// Trace 结构体
// =============================================================================

// Trace 追踪信息结构体，用于批量读写。
type Trace struct {
	TraceID    string
	SpanID     string
	TraceFlags string
}

// GetTrace 从 context 批量获取追踪信息，字段可能为空字符串。
func GetTrace(ctx context.Context) Trace {
	return Trace{
		TraceID:    TraceID(ctx),
		SpanID:     SpanID(ctx),
		TraceFlags: TraceFlags(ctx),
	}
}

// IsComplete TraceID 与 SpanID 均非空时返回 true。
// TraceFlags 为可选的采样决策字段，不参与检查。
func (t Trace) IsComplete() bool {
	return t.TraceID != "" && t.SpanID != ""
}

// WithTrace 将 Trace 中的非空字段批量注入 context。
//
// 空字符串字段会被跳过，父 context 中已有的值得以保留。
func WithTrace(ctx context.Context, tr Trace) (context.Context, error) {
	return applyOptionalFields(ctx, []contextFieldSetter{
		{value: tr.TraceID, set: WithTraceID},
		{value: tr.SpanID, set: WithSpanID},
		{value: tr.TraceFlags, set: WithTraceFlags},
	})
}

// =============================================================================
// 内部辅助
// =============================================================================

type contextFieldSetter struct {
	value string
	set   func(context.Context, string) (context.Context, error)
}

func applyOptionalFields(ctx context.Context, fields []contextFieldSetter) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	var err error
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if ctx, err = field.set(ctx, field.value); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}
