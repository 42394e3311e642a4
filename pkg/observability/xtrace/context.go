package xtrace

import (
	"context"

	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/context/xctx"
)

// SpanContextFromContext 读取 ctx 中活动 span 的身份与 baggage。
func SpanContextFromContext(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	return SpanContext{
		SpanContext: trace.SpanContextFromContext(ctx),
		Baggage:     baggage.FromContext(ctx),
	}
}

// ContextWithRemote 把 sc 作为远端父 span 放入 ctx，后续 tracer.Start 以其为父。
// sc 无效时原样返回 ctx。
func ContextWithRemote(ctx context.Context, sc SpanContext) context.Context {
	if !sc.IsValid() {
		return ctx
	}
	ctx = trace.ContextWithRemoteSpanContext(ctx, sc.SpanContext)
	if sc.Baggage.Len() > 0 {
		ctx = baggage.ContextWithBaggage(ctx, sc.Baggage)
	}
	return ctx
}

// SyncToContext 把 span 身份同步到 xctx，使日志带上 trace_id/span_id/trace_flags。
func SyncToContext(ctx context.Context, sc trace.SpanContext) context.Context {
	if ctx == nil || !sc.IsValid() {
		return ctx
	}
	flags := "00"
	if sc.IsSampled() {
		flags = "01"
	}
	out, err := xctx.WithTrace(ctx, xctx.Trace{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		TraceFlags: flags,
	})
	if err != nil {
		return ctx
	}
	return out
}
