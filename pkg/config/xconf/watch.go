package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 合并编辑器一次保存产生的多次事件。
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 在每次重载后调用，err 非 nil 时 cfg 仍是旧配置。
// 监视本身的错误也通过它上报。
type WatchCallback func(cfg Config, err error)

// WatchOption 配置 NewWatcher。
type WatchOption func(*Watcher)

// WithDebounce 设置防抖间隔，<= 0 时忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监视配置文件所在目录，文件变化时重载 Config 并回调。
//
// 监视的是目录而不是文件本身：编辑器常以写临时文件再 rename 的方式保存，
// 文件的 inode 会变。
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	pending sync.WaitGroup
}

// NewWatcher 开始监听文件系统事件；事件在 Run 中处理。
func NewWatcher(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if callback == nil {
		return nil, ErrNilCallback
	}
	if cfg.Path() == "" {
		return nil, ErrNotReloadable
	}

	w := &Watcher{cfg: cfg, callback: callback, debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.Path())
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch %s: %w", dir, err), fsw.Close())
	}
	w.fsw = fsw
	return w, nil
}

// Run 处理事件直到 ctx 结束，返回前关闭 fsnotify 并等待进行中的回调。
// 可以直接交给 xrun.Group.Go。
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	name := filepath.Base(w.cfg.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) == name && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.callback(w.cfg, fmt.Errorf("xconf: watch: %w", err))
		}
	}
}

// Close 释放 fsnotify 资源，用于从未调用 Run 的 Watcher。
func (w *Watcher) Close() error {
	return w.close()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.pending.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		w.mu.Lock()
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		w.callback(w.cfg, w.cfg.Reload())
	})
}

func (w *Watcher) close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.pending.Wait()
	return err
}
