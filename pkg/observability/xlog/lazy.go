package xlog

import (
	"log/slog"
	"time"
)

// 延迟求值：值实现 slog.LogValuer，只有记录真正输出时才调用 fn。
// 适合 Debug 日志里需要序列化或遍历的参数。

type lazyFunc[T any] func() T

func (f lazyFunc[T]) LogValue() slog.Value {
	return slog.AnyValue(f())
}

// Lazy 返回延迟求值的任意类型属性。
//
//	logger.Debug(ctx, "headers", xlog.Lazy("headers", func() any { return inv.Headers }))
func Lazy(key string, fn func() any) slog.Attr {
	return slog.Any(key, lazyFunc[any](fn))
}

func LazyString(key string, fn func() string) slog.Attr {
	return slog.Any(key, lazyFunc[string](fn))
}

func LazyDuration(key string, fn func() time.Duration) slog.Attr {
	return slog.Any(key, lazyFunc[time.Duration](fn))
}

type lazyErr func() error

func (f lazyErr) LogValue() slog.Value {
	if err := f(); err != nil {
		return slog.StringValue(err.Error())
	}
	return slog.StringValue("<nil>")
}

// LazyErr 以 KeyError 记录延迟求值的错误。
func LazyErr(fn func() error) slog.Attr {
	return slog.Any(KeyError, lazyErr(fn))
}
