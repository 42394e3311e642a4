package xhook

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

var defaultCodec xtrace.Codec = xtrace.NewOTelCodec()

// PushSpanContext 在调用方帧栈上压入一帧，携带 span 的编码作为 SpanContext 头。
// 此后从该 ctx 发出的调用都以 span 为父。ctx 没有帧栈时会新建一个。
//
// 返回的帧必须用 PopSpanContext 弹出。
//
//	ctx, span := tracer.Start(ctx, "action")
//	ctx, f := xhook.PushSpanContext(ctx, span)
//	defer xhook.PopSpanContext(ctx, f)
func PushSpanContext(ctx context.Context, span trace.Span) (context.Context, *xframe.Frame) {
	return PushSpanContextWith(ctx, defaultCodec, span)
}

// PushSpanContextWith 同 PushSpanContext，使用指定的 codec。
func PushSpanContextWith(ctx context.Context, codec xtrace.Codec, span trace.Span) (context.Context, *xframe.Frame) {
	ctx, s := xframe.Ensure(ctx)
	f := s.PushNew()
	// 新压入的帧必然在栈顶，SetProperty 不会失败。
	_ = f.SetProperty(HeaderSpanContext, xtrace.EncodeSpan(codec, ctx, span))
	return ctx, f
}

// PopSpanContext 弹出 PushSpanContext 压入的帧。
// 帧不在栈顶时 panic(*xframe.MismatchError)。
func PopSpanContext(ctx context.Context, f *xframe.Frame) {
	if err := xframe.Pop(ctx, f); err != nil {
		panic(&xframe.MismatchError{Foreign: true})
	}
}

// LifetimeSpanContext 从 ctx 的帧栈解码当前 actor 的生命周期 span 身份。
func LifetimeSpanContext(ctx context.Context) (xtrace.SpanContext, bool) {
	return lookupSpanContext(ctx, HeaderLifetimeSpanContext)
}

// CallerSpanContext 从 ctx 的帧栈解码当前的 SpanContext 头。
func CallerSpanContext(ctx context.Context) (xtrace.SpanContext, bool) {
	return lookupSpanContext(ctx, HeaderSpanContext)
}

func lookupSpanContext(ctx context.Context, header string) (xtrace.SpanContext, bool) {
	v, ok := xframe.Lookup(ctx, header)
	if !ok {
		return xtrace.SpanContext{}, false
	}
	return xtrace.Decode(defaultCodec, v)
}
