package xhook

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xlifetime"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xmetrics"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

// 粘性头名称。值为 xtrace.TextMap。
const (
	// HeaderSpanContext 调用方当前 span 的编码。
	HeaderSpanContext = "SpanContext"
	// HeaderLifetimeSpanContext actor 生命周期 span 的编码。
	HeaderLifetimeSpanContext = "ActorLifeTimeSpanContext"
)

// 调用 span 的属性键。
const (
	AttrKind         = xlifetime.AttrKind
	AttrMethod       = attribute.Key("actor.method")
	AttrInvocationID = attribute.Key("invocation.id")
	AttrTimeout      = attribute.Key("actor.timeout")
	AttrLinkType     = attribute.Key("link.type")
)

// StickyHeaders 返回追踪需要逐跳转发的头。
func StickyHeaders() []string {
	return []string{HeaderSpanContext, HeaderLifetimeSpanContext}
}

// Hooks 一组共享状态的追踪扩展：Lifecycle 与 Invocation 共用同一个生命周期 Registry。
type Hooks struct {
	lifecycle  *Lifecycle
	invocation *Invocation
	registry   *xlifetime.Registry
}

type core struct {
	tracer   trace.Tracer
	codec    xtrace.Codec
	logger   xlog.Logger
	recorder xmetrics.Recorder
	registry *xlifetime.Registry
	kind     string
}

// New 创建 Hooks。
func New(opts ...Option) (*Hooks, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	tracer := o.tracerProvider.Tracer(defaultInstrumentationName)

	reg := o.registry
	if reg == nil {
		regOpts := []xlifetime.Option{xlifetime.WithKind(o.kind), xlifetime.WithLogger(o.logger)}
		if o.shardCount != 0 {
			regOpts = append(regOpts, xlifetime.WithShardCount(o.shardCount))
		}
		var err error
		if reg, err = xlifetime.New(tracer, regOpts...); err != nil {
			return nil, fmt.Errorf("xhook: create registry: %w", err)
		}
	}

	c := &core{
		tracer:   tracer,
		codec:    o.codec,
		logger:   o.logger,
		recorder: o.recorder,
		registry: reg,
		kind:     o.kind,
	}
	h := &Hooks{
		lifecycle:  &Lifecycle{core: c},
		invocation: newInvocation(c),
		registry:   reg,
	}
	return h, nil
}

// Enable 创建 Hooks，安装到 host，并注册两个粘性头。
func Enable(host xactor.Host, opts ...Option) (*Hooks, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	h, err := New(opts...)
	if err != nil {
		return nil, err
	}
	h.lifecycle.sticky = host.AddStickyHeaders
	host.AddStickyHeaders(StickyHeaders()...)
	host.AddExtension(h.lifecycle)
	host.AddExtension(h.invocation)
	return h, nil
}

// Lifecycle 返回生命周期扩展。
func (h *Hooks) Lifecycle() *Lifecycle { return h.lifecycle }

// Invocation 返回调用扩展。
func (h *Hooks) Invocation() *Invocation { return h.invocation }

// Registry 返回生命周期 Registry。
func (h *Hooks) Registry() *xlifetime.Registry { return h.registry }

// Shutdown 停止接受新调用，等价于 Invocation().Shutdown()。
func (h *Hooks) Shutdown() { h.invocation.Shutdown() }
