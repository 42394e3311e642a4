package xmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xactor/xmetrics"

	MetricLifetimeActive     = "xactor.lifetime.active"
	MetricInvocationTotal    = "xactor.invocation.total"
	MetricInvocationDuration = "xactor.invocation.duration"
)

// 指标属性键。
const (
	AttrInterface = attribute.Key("actor.interface")
	AttrMethod    = attribute.Key("actor.method")
	AttrOutcome   = attribute.Key("outcome")
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Recorder 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用全局 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

type otelRecorder struct {
	active   metric.Int64UpDownCounter
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder。
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	active, err := meter.Int64UpDownCounter(
		MetricLifetimeActive,
		metric.WithDescription("active actor lifetime spans"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInstrument, MetricLifetimeActive, err)
	}

	total, err := meter.Int64Counter(
		MetricInvocationTotal,
		metric.WithDescription("total actor invocations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInstrument, MetricInvocationTotal, err)
	}

	duration, err := meter.Float64Histogram(
		MetricInvocationDuration,
		metric.WithDescription("actor invocation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInstrument, MetricInvocationDuration, err)
	}

	return &otelRecorder{active: active, total: total, duration: duration}, nil
}

func (r *otelRecorder) LifetimeStarted(ctx context.Context, iface string) {
	r.active.Add(metricsContext(ctx), 1, metric.WithAttributes(AttrInterface.String(iface)))
}

func (r *otelRecorder) LifetimeEnded(ctx context.Context, iface string) {
	r.active.Add(metricsContext(ctx), -1, metric.WithAttributes(AttrInterface.String(iface)))
}

func (r *otelRecorder) Invocation(ctx context.Context, iface, method string, outcome Outcome, elapsed time.Duration) {
	ctx = metricsContext(ctx)
	attrs := metric.WithAttributes(
		AttrInterface.String(iface),
		AttrMethod.String(method),
		AttrOutcome.String(string(outcome)),
	)
	r.total.Add(ctx, 1, attrs)
	if outcome != OutcomeRejected {
		r.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// metricsContext 调用可能已超时或取消，指标仍需记录。
func metricsContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
