package xtrace

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/omeyang/xactor/pkg/context/xctx"
	"github.com/omeyang/xactor/pkg/observability/xlog"
)

// LogExporter 把结束的 span 写成结构化日志。
//
// 用于本地运行和演示，生产环境应使用 OTLP 等导出器。
type LogExporter struct {
	logger  xlog.Logger
	stopped atomic.Bool
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter 创建 LogExporter，logger 为 nil 时使用 xlog.Default()。
func NewLogExporter(logger xlog.Logger) *LogExporter {
	if logger == nil {
		logger = xlog.Default()
	}
	return &LogExporter{logger: logger}
}

// ExportSpans 实现 sdktrace.SpanExporter。Shutdown 之后调用是 no-op。
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.stopped.Load() {
		return nil
	}
	for _, s := range spans {
		e.logger.Info(ctx, "span finished", spanAttrs(s)...)
	}
	return nil
}

// Shutdown 实现 sdktrace.SpanExporter。
func (e *LogExporter) Shutdown(context.Context) error {
	e.stopped.Store(true)
	return nil
}

func spanAttrs(s sdktrace.ReadOnlySpan) []slog.Attr {
	sc := s.SpanContext()
	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("span", s.Name()),
		slog.String(xctx.KeyTraceID, sc.TraceID().String()),
		slog.String(xctx.KeySpanID, sc.SpanID().String()),
	)
	if p := s.Parent(); p.IsValid() {
		attrs = append(attrs, slog.String("parent_span_id", p.SpanID().String()))
	}
	attrs = append(attrs, xlog.Duration(s.EndTime().Sub(s.StartTime())))
	if st := s.Status(); st.Code != codes.Unset {
		attrs = append(attrs, slog.String("status", st.Code.String()))
		if st.Description != "" {
			attrs = append(attrs, slog.String("status_description", st.Description))
		}
	}
	if kv := s.Attributes(); len(kv) > 0 {
		tags := make([]any, 0, len(kv))
		for _, a := range kv {
			tags = append(tags, slog.String(string(a.Key), a.Value.Emit()))
		}
		attrs = append(attrs, slog.Group("tags", tags...))
	}
	if ev := s.Events(); len(ev) > 0 {
		names := make([]string, 0, len(ev))
		for _, e := range ev {
			names = append(names, e.Name)
		}
		attrs = append(attrs, slog.Any("events", names))
	}
	if links := s.Links(); len(links) > 0 {
		attrs = append(attrs, slog.Int("links", len(links)))
	}
	return attrs
}
