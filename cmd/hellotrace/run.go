package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/omeyang/xactor/internal/demo"
	"github.com/omeyang/xactor/pkg/config/xconf"
	"github.com/omeyang/xactor/pkg/lifecycle/xrun"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

const shutdownTimeout = 10 * time.Second

// overrides 命令行对配置的覆盖，零值表示不覆盖。
type overrides struct {
	scenario string
	messages int
	logLevel string
}

func (o overrides) apply(cfg *demo.Config) {
	if o.scenario != "" {
		cfg.Demo.Scenario = o.scenario
	}
	if o.messages > 0 {
		cfg.Demo.Messages = o.messages
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}

// loadConfig 读取配置文件（path 为空时只用默认值），叠加命令行覆盖后校验。
// 返回的 xconf.Config 在 path 为空时为 nil。
func loadConfig(path string, o overrides) (demo.Config, xconf.Config, error) {
	cfg := demo.DefaultConfig()
	var src xconf.Config
	if path != "" {
		c, err := xconf.New(path)
		if err != nil {
			return demo.Config{}, nil, err
		}
		if err := c.Unmarshal("", &cfg); err != nil {
			return demo.Config{}, nil, err
		}
		src = c
	}
	o.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return demo.Config{}, nil, err
	}
	return cfg, src, nil
}

// buildLogger 按 log 段构建 logger；File 非空时写入滚动文件。
func buildLogger(cfg demo.LogConfig, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format).
		SetAttrs(xlog.Component("hellotrace"))
	if cfg.File != "" {
		b = b.SetRotation(cfg.File)
	}
	return b.Build()
}

// providers 演示用的 tracer/meter provider，span 同步写入日志。
type providers struct {
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
}

func newProviders(cfg demo.TraceConfig, logger xlog.Logger) *providers {
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	reader := sdkmetric.NewManualReader()
	return &providers{
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
			sdktrace.WithSyncer(xtrace.NewLogExporter(logger)),
		),
		mp:     sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader)),
		reader: reader,
	}
}

func (p *providers) shutdown(ctx context.Context) error {
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}

// runDemo 启动 stage，执行一个场景后退出；收到信号时提前结束。
func runDemo(ctx context.Context, cfg demo.Config, src xconf.Config, stdout, stderr io.Writer) (err error) {
	logger, closeLog, err := buildLogger(cfg.Log, stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	defer func() { err = errors.Join(err, closeLog()) }()
	xlog.SetDefault(logger)
	defer xlog.ResetDefault()

	p := newProviders(cfg.Trace, logger)
	app, err := demo.NewApp(cfg, p.tp, logger, demo.WithMeterProvider(p.mp))
	if err != nil {
		return err
	}
	if err := app.Stage.Start(ctx); err != nil {
		return err
	}

	g, _ := xrun.NewGroup(ctx, xrun.WithName("hellotrace"), xrun.WithLogger(logger))
	g.HandleSignals()
	g.GoWithName("stage", app.Stage.Run)
	if src != nil {
		w, werr := xconf.NewWatcher(src, levelReloader(logger))
		if werr != nil {
			logger.Warn(ctx, "config watch disabled", xlog.Err(werr))
		} else {
			g.GoWithName("config-watcher", w.Run)
		}
	}

	var report demo.Report
	g.GoWithName("scenario", func(ctx context.Context) error {
		r, err := app.Runner.Run(ctx, cfg.Demo.Scenario)
		if err != nil {
			return err
		}
		report = r
		g.Cancel(nil)
		return nil
	})
	runErr := g.Wait()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(stopCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	logMetrics(stopCtx, logger, p.reader)
	if err := p.shutdown(stopCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		if errors.Is(runErr, xrun.ErrSignal) {
			return nil
		}
		return runErr
	}

	printReport(stdout, report)
	if report.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d", errCallsFailed, report.Failed(), len(report.Outcomes))
	}
	return nil
}

// levelReloader 在配置文件变化时应用新的 log.level。
func levelReloader(logger xlog.LoggerWithLevel) xconf.WatchCallback {
	return func(src xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			logger.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		cfg, err := demo.LoadConfig(src)
		if err != nil {
			logger.Warn(ctx, "config reload rejected", xlog.Err(err))
			return
		}
		level, err := xlog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return
		}
		if level != logger.GetLevel() {
			logger.SetLevel(level)
			logger.Info(ctx, "log level changed", slog.String("level", level.String()))
		}
	}
}

func printReport(w io.Writer, r demo.Report) {
	fmt.Fprintf(w, "scenario %s trace %s\n", r.Scenario, r.TraceID)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "  %s.%s(%q) failed: %v\n", o.Target, o.Method, o.Message, o.Err)
			continue
		}
		fmt.Fprintf(w, "  %s.%s: %s\n", o.Target, o.Method, o.Reply)
	}
	fmt.Fprintf(w, "%d calls, %d failed\n", len(r.Outcomes), r.Failed())
}

// logMetrics 收集一次指标并逐个写日志。
func logMetrics(ctx context.Context, logger xlog.Logger, reader *sdkmetric.ManualReader) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		logger.Warn(ctx, "collect metrics failed", xlog.Err(err))
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			logger.Info(ctx, "metric", append([]slog.Attr{slog.String("name", m.Name)}, metricAttrs(m.Data)...)...)
		}
	}
}

func metricAttrs(data metricdata.Aggregation) []slog.Attr {
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		var total int64
		for _, dp := range d.DataPoints {
			total += dp.Value
		}
		return []slog.Attr{slog.Int64("sum", total), slog.Int("series", len(d.DataPoints))}
	case metricdata.Histogram[float64]:
		var (
			count uint64
			sum   float64
		)
		for _, dp := range d.DataPoints {
			count += dp.Count
			sum += dp.Sum
		}
		return []slog.Attr{xlog.Count(int64(count)), slog.Float64("sum", sum)}
	default:
		return nil
	}
}
