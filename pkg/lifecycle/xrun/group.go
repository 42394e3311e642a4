package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xactor/pkg/observability/xlog"
)

// Option 配置 Group。
type Option func(*Group)

// WithLogger 设置记录服务启停与信号的日志器，默认 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(g *Group) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithName 设置 Group 名称，出现在日志的 group 属性中。
func WithName(name string) Option {
	return func(g *Group) {
		if name != "" {
			g.name = name
		}
	}
}

// Group 并发运行一组服务并协调关闭。
//
// 任一服务返回错误、Cancel 被调用、收到 HandleSignals 监听的信号
// 或父 ctx 取消时，所有服务的 ctx 一起取消。
// Go、GoWithName、Cancel、HandleSignals 可并发调用；Wait 只调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	name     string
	logger   xlog.Logger
}

// NewGroup 创建 Group，返回的 ctx 即各服务收到的 ctx。
// nil ctx 视为 context.Background()。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	g := &Group{eg: eg, ctx: egCtx, causeCtx: causeCtx, cancel: cancel, name: "xrun"}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.logger == nil {
		g.logger = xlog.Default()
	}
	return g, egCtx
}

// Go 启动一个服务。fn 返回非 nil 错误时取消其他服务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 同 Go，并记录服务的启停。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.Go(func(ctx context.Context) error {
		if fn == nil {
			return ErrNilFunc
		}
		attrs := []slog.Attr{slog.String("group", g.name), slog.String("service", name)}
		g.logger.Debug(ctx, "service starting", attrs...)
		err := fn(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Warn(ctx, "service exited with error", append(attrs, xlog.Err(err))...)
		} else {
			g.logger.Debug(ctx, "service stopped", attrs...)
		}
		return err
	})
}

// Wait 等待所有服务结束，返回第一个错误。
//
// 因取消而产生的 context.Canceled 被过滤；Cancel(cause) 设置的原因
// （如 *SignalError）始终返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	g.logger.Debug(g.ctx, "all services stopped", slog.String("group", g.name))

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if g.causeCtx.Err() == nil {
		return err
	}
	if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// Cancel 以 cause 为原因取消所有服务。nil 表示正常结束，Wait 返回 nil。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回各服务收到的 ctx。
func (g *Group) Context() context.Context {
	return g.ctx
}

// HandleSignals 启动一个等待信号的服务，收到信号时以 *SignalError 取消整组。
// signals 为空时使用 DefaultSignals。
func (g *Group) HandleSignals(signals ...os.Signal) {
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	g.Go(func(ctx context.Context) error {
		return g.waitSignal(ctx, signals)
	})
}

func (g *Group) waitSignal(ctx context.Context, signals []os.Signal) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testSigChan(ctx):
	case sig = <-sigCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	g.logger.Info(ctx, "received signal", slog.String("group", g.name), slog.String("signal", sig.String()))
	g.cancel(&SignalError{Signal: sig})
	return nil
}
