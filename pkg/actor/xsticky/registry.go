// Package xsticky 维护需要在调用链上逐跳转发的上下文键（粘性头）。
//
// 集合只增不减：一旦注册，后续每次出站调用都会转发该键。
// 读路径无锁（atomic.Pointer 指向不可变快照），写路径串行并整体替换快照。
package xsticky

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Registry 粘性头集合。零值不可用，使用 New 创建。
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	set   map[string]struct{}
	names []string // 有序
}

var emptySnapshot = &snapshot{set: map[string]struct{}{}}

// New 创建 Registry，可附带初始名称。
func New(names ...string) *Registry {
	r := &Registry{}
	r.snap.Store(emptySnapshot)
	r.Register(names...)
	return r
}

// Register 注册名称。幂等，空字符串被忽略。
func (r *Registry) Register(names ...string) {
	if len(names) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	var added []string
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := cur.set[n]; ok || slices.Contains(added, n) {
			continue
		}
		added = append(added, n)
	}
	if len(added) == 0 {
		return
	}

	next := &snapshot{
		set:   make(map[string]struct{}, len(cur.set)+len(added)),
		names: make([]string, 0, len(cur.names)+len(added)),
	}
	for _, n := range cur.names {
		next.set[n] = struct{}{}
	}
	next.names = append(next.names, cur.names...)
	for _, n := range added {
		next.set[n] = struct{}{}
		next.names = append(next.names, n)
	}
	slices.Sort(next.names)
	r.snap.Store(next)
}

// Contains 报告 name 是否已注册。
func (r *Registry) Contains(name string) bool {
	_, ok := r.snap.Load().set[name]
	return ok
}

// Names 返回已注册名称的有序副本。
func (r *Registry) Names() []string {
	return slices.Clone(r.snap.Load().names)
}

// Len 返回已注册名称数量。
func (r *Registry) Len() int {
	return len(r.snap.Load().names)
}

// Collect 用 lookup 查询每个粘性头，返回存在的条目。没有任何条目时返回 nil。
//
// 运行时在每次出站调用时调用一次，lookup 通常是调用方帧栈的 Lookup。
func (r *Registry) Collect(lookup func(string) (any, bool)) map[string]any {
	if lookup == nil {
		return nil
	}
	snap := r.snap.Load()
	var out map[string]any
	for _, n := range snap.names {
		v, ok := lookup(n)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(snap.names))
		}
		out[n] = v
	}
	return out
}
