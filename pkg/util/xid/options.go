package xid

import (
	"fmt"
	"time"
)

type options struct {
	machineID       func() (uint16, error)
	fallback        *uint16
	checkMachineID  func(uint16) bool
	maxWaitDuration time.Duration
	retryInterval   time.Duration
}

// Option 配置生成器。
type Option func(*options)

// WithMachineID 设置机器 ID 来源，替代 DefaultMachineID。
func WithMachineID(fn func() (uint16, error)) Option {
	return func(o *options) {
		o.machineID = fn
	}
}

// WithFallbackMachineID 在机器 ID 来源失败时使用固定值。
// 单进程 actor 运行时只需要进程内唯一，笔记本或 CI 上常常没有私有 IP。
func WithFallbackMachineID(id uint16) Option {
	return func(o *options) {
		o.fallback = &id
	}
}

// WithCheckMachineID 设置机器 ID 校验函数，返回 false 时 NewGenerator 失败。
func WithCheckMachineID(fn func(uint16) bool) Option {
	return func(o *options) {
		o.checkMachineID = fn
	}
}

// WithMaxWaitDuration 设置时钟回拨时的最大等待时间。0 表示不等待。
func WithMaxWaitDuration(d time.Duration) Option {
	return func(o *options) {
		o.maxWaitDuration = d
	}
}

// WithRetryInterval 设置重试间隔。0 表示不间隔。
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		o.retryInterval = d
	}
}

func (o *options) resolveMachineID() (uint16, error) {
	fn := o.machineID
	if fn == nil {
		fn = DefaultMachineID
	}
	id, err := fn()
	if err == nil {
		return id, nil
	}
	if o.fallback != nil {
		return *o.fallback, nil
	}
	return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
