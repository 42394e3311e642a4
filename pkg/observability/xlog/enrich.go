package xlog

import (
	"context"
	"log/slog"

	"github.com/omeyang/xactor/pkg/context/xctx"
)

// EnrichHandler 包装一个 slog.Handler，在每条记录上追加 ctx 中的
// trace_id、span_id、trace_flags 以及 actor_type、actor_id、actor_method、invocation_id。
//
// ctx 缺少的字段直接跳过。对派生 logger 调用 WithGroup 后，这些字段也会落在分组下。
type EnrichHandler struct {
	base slog.Handler
}

var _ slog.Handler = (*EnrichHandler)(nil)

// NewEnrichHandler 创建 EnrichHandler。base 为 nil 时返回 ErrNilHandler。
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// trace 3 + actor 4
const maxEnrichAttrs = 7

// Handle 按 slog 的约定先 Clone 再追加属性。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [maxEnrichAttrs]slog.Attr
	attrs := xctx.AppendTraceAttrs(buf[:0], ctx)
	attrs = xctx.AppendActorAttrs(attrs, ctx)
	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{base: h.base.WithAttrs(attrs)}
}

func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{base: h.base.WithGroup(name)}
}
