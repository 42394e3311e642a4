package xlog

import (
	"log/slog"
	"time"
)

// 常用字段名。trace 与 actor 字段名见 xctx。
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyActor     = "actor"
	KeyMethod    = "method"
)

// Err 返回 error 属性；err 为 nil 时返回空属性，slog 会忽略它。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Actor 记录 actor 身份的字符串形式，例如 "Hello.0"。
func Actor(identity string) slog.Attr {
	return slog.String(KeyActor, identity)
}

func Method(name string) slog.Attr {
	return slog.String(KeyMethod, name)
}
