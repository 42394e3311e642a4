package xhook

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xlifetime"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xmetrics"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

const defaultInstrumentationName = "github.com/omeyang/xactor/xhook"

// Option 配置 Hooks。
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
	codec          xtrace.Codec
	logger         xlog.Logger
	recorder       xmetrics.Recorder
	registry       *xlifetime.Registry
	kind           string
	shardCount     int
}

func defaultOptions() options {
	return options{
		tracerProvider: otel.GetTracerProvider(),
		codec:          xtrace.NewOTelCodec(),
		logger:         xlog.Default(),
		recorder:       xmetrics.NoopRecorder{},
		kind:           xlifetime.DefaultKind,
	}
}

// WithTracerProvider 设置 TracerProvider，默认使用全局 provider。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithCodec 设置 span 身份编解码器，默认 W3C TraceContext + Baggage。
func WithCodec(c xtrace.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger 设置 logger。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder 设置指标记录器，默认不记录。
func WithRecorder(r xmetrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithRegistry 使用外部的生命周期 Registry，便于诊断或在多个 Hooks 间共享。
// 设置后 WithShardCount 与 WithKind 对 Registry 不再生效。
func WithRegistry(r *xlifetime.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithKind 设置 span 的 actor.kind 属性值。
func WithKind(kind string) Option {
	return func(o *options) {
		if kind != "" {
			o.kind = kind
		}
	}
}

// WithShardCount 设置内部 Registry 的分片数。
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}
