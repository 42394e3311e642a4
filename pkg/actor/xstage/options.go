package xstage

import (
	"context"
	"fmt"
	"time"

	"github.com/omeyang/xactor/pkg/observability/xlog"
)

const (
	// DefaultCallTimeout 未指定方法超时时的调用超时。
	DefaultCallTimeout = 30 * time.Second

	// DefaultIdleTimeout 空闲多久后失活。
	DefaultIdleTimeout = 10 * time.Minute

	// DefaultReapInterval 空闲扫描间隔。
	DefaultReapInterval = 30 * time.Second

	// DefaultStopTimeout Run 结束时等待所有 actor 失活的时间。
	DefaultStopTimeout = 10 * time.Second
)

type options struct {
	name         string
	logger       xlog.Logger
	callTimeout  time.Duration
	idleTimeout  time.Duration
	reapInterval time.Duration
	stopTimeout  time.Duration
	mailboxSize  int
	newID        func(context.Context) (string, error)
}

func defaultOptions() options {
	return options{
		name:         "stage",
		callTimeout:  DefaultCallTimeout,
		idleTimeout:  DefaultIdleTimeout,
		reapInterval: DefaultReapInterval,
		stopTimeout:  DefaultStopTimeout,
	}
}

func (o *options) validate() error {
	switch {
	case o.callTimeout <= 0:
		return fmt.Errorf("%w: call timeout must be positive, got %s", ErrInvalidOption, o.callTimeout)
	case o.idleTimeout < 0:
		return fmt.Errorf("%w: idle timeout must be non-negative, got %s", ErrInvalidOption, o.idleTimeout)
	case o.reapInterval <= 0:
		return fmt.Errorf("%w: reap interval must be positive, got %s", ErrInvalidOption, o.reapInterval)
	case o.stopTimeout <= 0:
		return fmt.Errorf("%w: stop timeout must be positive, got %s", ErrInvalidOption, o.stopTimeout)
	case o.mailboxSize < 0:
		return fmt.Errorf("%w: mailbox size must be non-negative, got %d", ErrInvalidOption, o.mailboxSize)
	}
	return nil
}

// Option 配置 Stage。
type Option func(*options)

// WithName 设置 stage 名称（集群名），出现在日志中。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger 设置日志器，默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCallTimeout 设置默认调用超时。
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		o.callTimeout = d
	}
}

// WithIdleTimeout 设置空闲失活时间，0 表示不自动失活。
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) {
		o.idleTimeout = d
	}
}

// WithReapInterval 设置空闲扫描间隔。
func WithReapInterval(d time.Duration) Option {
	return func(o *options) {
		o.reapInterval = d
	}
}

// WithStopTimeout 设置 Run 退出时等待失活的时间。
func WithStopTimeout(d time.Duration) Option {
	return func(o *options) {
		o.stopTimeout = d
	}
}

// WithMailboxSize 限制每个 actor 排队的调用数，0 表示不限制。
func WithMailboxSize(n int) Option {
	return func(o *options) {
		o.mailboxSize = n
	}
}

// WithIDGenerator 设置调用 ID 生成函数，默认使用 xid，时钟回拨时在调用方 ctx 内重试。
func WithIDGenerator(fn func(ctx context.Context) (string, error)) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// RegisterOption 配置一个 actor 接口。
type RegisterOption func(*registration)

// WithMethodTimeout 为单个方法设置调用超时，覆盖 stage 默认值。
func WithMethodTimeout(method string, d time.Duration) RegisterOption {
	return func(r *registration) {
		if d > 0 {
			r.timeouts[method] = d
		}
	}
}

// WithMethods 声明接口的方法集，调用集合外的方法返回 ErrUnknownMethod。
// 不声明时任何方法名都会交给 actor。
func WithMethods(methods ...string) RegisterOption {
	return func(r *registration) {
		if r.methods == nil {
			r.methods = make(map[string]struct{}, len(methods))
		}
		for _, m := range methods {
			r.methods[m] = struct{}{}
		}
	}
}
