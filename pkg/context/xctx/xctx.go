package xctx

import (
	"context"
	"errors"
)

// contextKey 包私有，值带 "xctx:" 前缀便于调试时识别来源。
type contextKey string

var ErrNilContext = errors.New("xctx: nil context")

// WithTrace / WithActor 校验必填字段时返回。
var (
	ErrMissingTraceID   = errors.New("xctx: missing trace_id")
	ErrMissingSpanID    = errors.New("xctx: missing span_id")
	ErrMissingActorType = errors.New("xctx: missing actor_type")
	ErrMissingActorID   = errors.New("xctx: missing actor_id")
)

func withString(ctx context.Context, key contextKey, v string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, key, v), nil
}

// stringValue 读取字符串值，ctx 为 nil 或值不存在时返回空字符串。
func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
