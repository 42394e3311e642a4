package xkeylock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultShardCount = 32
	maxShardCount     = 1 << 16
)

// Option 配置 Locker。
type Option func(*Locker)

// WithShardCount 设置分片数，必须是 2 的幂且不超过 65536。默认 32。
func WithShardCount(n int) Option {
	return func(l *Locker) { l.mask = uint64(n - 1) }
}

// Locker 按 key 互斥，方法并发安全。零值不可用，用 New 创建。
//
// 锁不可重入：同一 goroutine 对同一 key 重复 Acquire 会一直等到 ctx 结束。
type Locker struct {
	shards []shard
	mask   uint64
	keys   atomic.Int64
	closed atomic.Bool
	done   chan struct{}
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry 用容量为 1 的 channel 作互斥量：发送即加锁，接收即解锁。
// refs 是持有者加等待者数量，归零时从分片删除。
type entry struct {
	ch   chan struct{}
	refs int
}

// New 创建 Locker。分片数无效时返回 ErrInvalidShardCount。
func New(opts ...Option) (*Locker, error) {
	l := &Locker{mask: defaultShardCount - 1, done: make(chan struct{})}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	n := l.mask + 1
	if l.mask >= maxShardCount || n&l.mask != 0 {
		return nil, fmt.Errorf("%w: must be a positive power of 2 (max %d), got %d",
			ErrInvalidShardCount, maxShardCount, int64(l.mask)+1)
	}
	l.shards = make([]shard, n)
	for i := range l.shards {
		l.shards[i].entries = make(map[string]*entry)
	}
	return l, nil
}

func (l *Locker) shard(key string) *shard {
	return &l.shards[xxhash.Sum64String(key)&l.mask]
}

// Acquire 阻塞直到取得 key 的锁、ctx 结束或 Locker 关闭。
func (l *Locker) Acquire(ctx context.Context, key string) (*Handle, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if key == "" {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := l.shard(key)
	s.mu.Lock()
	if l.closed.Load() {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e, ok := s.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		s.entries[key] = e
		l.keys.Add(1)
	}
	e.refs++
	s.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return &Handle{l: l, key: key, e: e}, nil
	case <-ctx.Done():
		l.release(s, key, e)
		return nil, ctx.Err()
	case <-l.done:
		l.release(s, key, e)
		return nil, ErrClosed
	}
}

func (l *Locker) release(s *shard, key string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(s.entries, key)
		l.keys.Add(-1)
	}
}

// Len 返回持有或等待中的 key 数量的瞬时值。
func (l *Locker) Len() int {
	return int(max(l.keys.Load(), 0))
}

// Close 拒绝新请求并唤醒等待者，已持有的锁不受影响。重复调用返回 ErrClosed。
func (l *Locker) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	close(l.done)
	return nil
}

// Handle 是一次成功的加锁。
type Handle struct {
	l    *Locker
	key  string
	e    *entry
	done atomic.Bool
}

// Unlock 释放锁。第一次返回 nil，之后返回 ErrLockNotHeld。
func (h *Handle) Unlock() error {
	if !h.done.CompareAndSwap(false, true) {
		return ErrLockNotHeld
	}
	<-h.e.ch
	h.l.release(h.l.shard(h.key), h.key, h.e)
	return nil
}

// Key 返回加锁的 key。
func (h *Handle) Key() string { return h.key }
