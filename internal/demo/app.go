package demo

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xhook"
	"github.com/omeyang/xactor/pkg/actor/xstage"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xmetrics"
)

const instrumentationName = "github.com/omeyang/xactor/internal/demo"

// App 把 stage、追踪扩展、Hello actor 与场景 Runner 组装在一起。
type App struct {
	Stage  *xstage.Stage
	Hooks  *xhook.Hooks
	Runner *Runner
	logger xlog.Logger
}

// AppOption 配置 NewApp。
type AppOption func(*appOptions)

type appOptions struct {
	meterProvider metric.MeterProvider
	stageOpts     []xstage.Option
}

// WithMeterProvider 记录 xhook 的调用与生命周期指标。
func WithMeterProvider(mp metric.MeterProvider) AppOption {
	return func(o *appOptions) { o.meterProvider = mp }
}

// WithStageOptions 追加 xstage 选项，排在配置项之后。
func WithStageOptions(opts ...xstage.Option) AppOption {
	return func(o *appOptions) { o.stageOpts = append(o.stageOpts, opts...) }
}

// NewApp 创建尚未启动的 App。
func NewApp(cfg Config, tp trace.TracerProvider, logger xlog.Logger, opts ...AppOption) (*App, error) {
	if logger == nil {
		logger = xlog.Default()
	}
	var o appOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	stageOpts := []xstage.Option{
		xstage.WithName(cfg.Stage.Name),
		xstage.WithLogger(logger),
		xstage.WithCallTimeout(cfg.Stage.CallTimeout),
		xstage.WithMailboxSize(cfg.Stage.MailboxSize),
		xstage.WithIdleTimeout(cfg.Stage.IdleTimeout),
	}
	if cfg.Stage.ReapInterval > 0 {
		stageOpts = append(stageOpts, xstage.WithReapInterval(cfg.Stage.ReapInterval))
	}
	stage, err := xstage.New(append(stageOpts, o.stageOpts...)...)
	if err != nil {
		return nil, err
	}

	hookOpts := []xhook.Option{xhook.WithTracerProvider(tp), xhook.WithLogger(logger)}
	if o.meterProvider != nil {
		rec, err := xmetrics.NewOTelRecorder(xmetrics.WithMeterProvider(o.meterProvider))
		if err != nil {
			return nil, fmt.Errorf("demo: metrics: %w", err)
		}
		hookOpts = append(hookOpts, xhook.WithRecorder(rec))
	}
	hooks, err := xhook.Enable(stage, hookOpts...)
	if err != nil {
		return nil, err
	}

	tracer := tp.Tracer(instrumentationName)
	regOpts := []xstage.RegisterOption{xstage.WithMethods(HelloMethods()...)}
	if cfg.Stage.MethodTimeout > 0 {
		regOpts = append(regOpts,
			xstage.WithMethodTimeout(MethodSayHello, cfg.Stage.MethodTimeout),
			xstage.WithMethodTimeout(MethodSayHelloWithTrace, cfg.Stage.MethodTimeout))
	}
	if err := stage.Register(HelloInterface, HelloFactory(tracer, logger, cfg.Demo), regOpts...); err != nil {
		return nil, err
	}

	return &App{
		Stage:  stage,
		Hooks:  hooks,
		Runner: NewRunner(stage, tracer, logger, cfg.Demo.Messages),
		logger: logger,
	}, nil
}

// Shutdown 先让追踪扩展拒绝新调用，再停止 stage；失活钩子照常结束生命周期 span。
func (a *App) Shutdown(ctx context.Context) error {
	a.Hooks.Shutdown()
	if err := a.Stage.Stop(ctx); err != nil {
		return err
	}
	a.logger.Info(ctx, "demo: app stopped")
	return nil
}
