package xtrace

import (
	"context"
	"maps"

	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// 数据类型
// =============================================================================

// TextMap 跨调用边界传输的扁平字符串映射。
type TextMap map[string]string

// Clone 返回副本，nil 返回 nil。
func (m TextMap) Clone() TextMap {
	return maps.Clone(m)
}

// SpanContext span 的可传输身份：OTel span context 加 baggage。
type SpanContext struct {
	trace.SpanContext
	Baggage baggage.Baggage
}

// IsValid 报告 trace id 与 span id 是否都有效。
func (sc SpanContext) IsValid() bool {
	return sc.SpanContext.IsValid()
}

// =============================================================================
// Codec
// =============================================================================

// Codec 在 SpanContext 与 TextMap 之间编解码。
//
// 对有效的 c，Extract(Inject(c)) 在 trace id、span id、baggage 上与 c 相等。
type Codec interface {
	// Inject 编码 sc。sc 无效时返回空 map。
	Inject(sc SpanContext) TextMap

	// Extract 解码 m。m 为 nil、空或缺少有效 traceparent 时返回 false，从不 panic。
	Extract(m TextMap) (SpanContext, bool)
}

type codecOptions struct {
	propagator propagation.TextMapPropagator
}

// CodecOption 配置 OTelCodec。
type CodecOption func(*codecOptions)

// WithPropagator 设置自定义 Propagator，nil 被忽略。
func WithPropagator(p propagation.TextMapPropagator) CodecOption {
	return func(o *codecOptions) {
		if p != nil {
			o.propagator = p
		}
	}
}

// OTelCodec 基于 OpenTelemetry TextMapPropagator 的 Codec。
//
// 默认使用 W3C TraceContext + Baggage 组合，键为 traceparent、tracestate、baggage。
type OTelCodec struct {
	propagator propagation.TextMapPropagator
}

var _ Codec = OTelCodec{}

// NewOTelCodec 创建 OTelCodec。
func NewOTelCodec(opts ...CodecOption) OTelCodec {
	o := &codecOptions{
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(o)
	}
	return OTelCodec{propagator: o.propagator}
}

// Inject 实现 Codec。
func (c OTelCodec) Inject(sc SpanContext) TextMap {
	m := make(TextMap, 3)
	if !sc.IsValid() {
		return m
	}
	ctx := trace.ContextWithSpanContext(context.Background(), sc.SpanContext)
	if sc.Baggage.Len() > 0 {
		ctx = baggage.ContextWithBaggage(ctx, sc.Baggage)
	}
	c.propagator.Inject(ctx, propagation.MapCarrier(m))
	return m
}

// Extract 实现 Codec。
//
// 格式错误的 baggage 会被丢弃，有效的 span 身份仍然返回。
func (c OTelCodec) Extract(m TextMap) (SpanContext, bool) {
	if len(m) == 0 {
		return SpanContext{}, false
	}
	ctx := c.propagator.Extract(context.Background(), propagation.MapCarrier(m))
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return SpanContext{}, false
	}
	return SpanContext{SpanContext: sc, Baggage: baggage.FromContext(ctx)}, true
}

// =============================================================================
// 便捷函数
// =============================================================================

// Encode 编码 ctx 中活动 span 的身份与 baggage。
func Encode(c Codec, ctx context.Context) TextMap {
	return c.Inject(SpanContextFromContext(ctx))
}

// EncodeSpan 编码 span 的身份，baggage 取自 ctx（ctx 可为 nil）。
func EncodeSpan(c Codec, ctx context.Context, span trace.Span) TextMap {
	sc := SpanContext{SpanContext: span.SpanContext()}
	if ctx != nil {
		sc.Baggage = baggage.FromContext(ctx)
	}
	return c.Inject(sc)
}

// Decode 把 v 解码为 SpanContext。v 可以是 TextMap 或 map[string]string，
// 其他类型返回 false。
func Decode(c Codec, v any) (SpanContext, bool) {
	switch m := v.(type) {
	case TextMap:
		return c.Extract(m)
	case map[string]string:
		return c.Extract(TextMap(m))
	default:
		return SpanContext{}, false
	}
}
