package xlifetime

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/observability/xlog"
)

// 生命周期 span 的属性键。
const (
	AttrKind      = attribute.Key("actor.kind")
	AttrInterface = attribute.Key("actor.interface")
	AttrID        = attribute.Key("actor.id")

	// DefaultKind actor.kind 的默认值。
	DefaultKind = "Orbit Actor"
)

// SpanName 返回生命周期 span 名 "Actor.<Interface>.<ID>"。
func SpanName(id xactor.Identity) string {
	return "Actor." + id.Interface + "." + id.ID
}

// Registry 按 actor 身份保存活动的生命周期 span。并发安全。
type Registry struct {
	tracer trace.Tracer
	opts   options
	shards []shard
	mask   uint64
	count  atomic.Int64
}

type shard struct {
	mu      sync.Mutex
	entries map[xactor.Identity]*Lifetime
}

// New 创建 Registry。分片数不是 2 的幂时返回错误。
func New(tracer trace.Tracer, opts ...Option) (*Registry, error) {
	if tracer == nil {
		return nil, ErrNilTracer
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		tracer: tracer,
		opts:   o,
		shards: make([]shard, o.shardCount),
		mask:   uint64(o.shardCount - 1),
	}
	for i := range r.shards {
		r.shards[i].entries = make(map[xactor.Identity]*Lifetime)
	}
	return r, nil
}

func (r *Registry) getShard(id xactor.Identity) *shard {
	h := xxhash.Sum64String(id.Key())
	return &r.shards[h&r.mask]
}

// Begin 为 id 开始一个生命周期 span（新的根 span）。
//
// id 已有活动条目时返回 ErrLifetimeExists，原条目不受影响。
func (r *Registry) Begin(ctx context.Context, id xactor.Identity) (*Lifetime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := r.getShard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		return nil, ErrLifetimeExists
	}
	_, span := r.tracer.Start(ctx, SpanName(id),
		trace.WithNewRoot(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrKind.String(r.opts.kind),
			AttrInterface.String(id.Interface),
			AttrID.String(id.ID),
		),
	)
	l := &Lifetime{id: id, span: span, started: time.Now()}
	l.SetState(StateActivating)
	s.entries[id] = l
	r.count.Add(1)
	return l, nil
}

// Active 返回 id 的活动条目。
func (r *Registry) Active(id xactor.Identity) (*Lifetime, bool) {
	s := r.getShard(id)
	s.mu.Lock()
	l, ok := s.entries[id]
	s.mu.Unlock()
	return l, ok
}

// End 结束 id 的生命周期 span 并移除条目。
//
// 条目不存在时记录日志并返回 false。
func (r *Registry) End(ctx context.Context, id xactor.Identity) bool {
	s := r.getShard(id)
	s.mu.Lock()
	l, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
		r.count.Add(-1)
	}
	s.mu.Unlock()

	if !ok {
		r.opts.logger.Debug(ctx, "xlifetime: end without active lifetime",
			xlog.Actor(id.String()))
		return false
	}
	l.SetState(StateInactive)
	l.span.End()
	return true
}

// Len 返回活动条目数。
func (r *Registry) Len() int {
	return int(max(r.count.Load(), 0))
}

// Identities 返回活动 actor 的有序快照，仅用于诊断。
func (r *Registry) Identities() []xactor.Identity {
	ids := make([]xactor.Identity, 0, r.Len())
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		for id := range s.entries {
			ids = append(ids, id)
		}
		s.mu.Unlock()
	}
	slices.SortFunc(ids, func(a, b xactor.Identity) int {
		return cmp.Or(cmp.Compare(a.Interface, b.Interface), cmp.Compare(a.ID, b.ID))
	})
	return ids
}

// Logger 返回 Registry 使用的 logger。
func (r *Registry) Logger() xlog.Logger {
	return r.opts.logger
}
