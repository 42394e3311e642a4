package xstage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xsticky"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/lifecycle/xrun"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/util/xid"
	"github.com/omeyang/xactor/pkg/util/xkeylock"
)

const (
	stateNew int32 = iota
	stateStarted
	stateStopped
)

// registration 是一个已注册的 actor 接口。
type registration struct {
	iface    string
	factory  xactor.Factory
	timeouts map[string]time.Duration
	methods  map[string]struct{}
}

func (r *registration) timeout(method string, def time.Duration) time.Duration {
	if d, ok := r.timeouts[method]; ok {
		return d
	}
	return def
}

func (r *registration) accepts(method string) bool {
	if r.methods == nil {
		return true
	}
	_, ok := r.methods[method]
	return ok
}

// Stage 是进程内的 actor 运行时。
//
// 每个 Identity 首次被调用时激活：由 Factory 创建实例，依次执行 PreActivation
// 与 PostActivation，然后启动该实例的邮箱 goroutine。同一 Identity 的调用
// 严格按到达顺序逐个执行，不同 Identity 之间并发。失活时邮箱先排空，再执行
// PreDeactivation 与 PostDeactivation。
//
// 出站调用会把调用方 ctx 帧栈上的粘性头复制到 Invocation.Headers。
type Stage struct {
	opts   options
	logger xlog.Logger
	sticky *xsticky.Registry
	locks  *xkeylock.Locker

	state atomic.Int32
	base  context.Context

	mu          sync.RWMutex
	regs        map[string]*registration
	lifetimes   []xactor.LifetimeExtension
	invocations []xactor.InvocationExtension
	activations map[xactor.Identity]*activation

	wg sync.WaitGroup
}

var _ xactor.Host = (*Stage)(nil)

// New 创建 Stage。
func New(opts ...Option) (*Stage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = xlog.Default()
	}
	if o.newID == nil {
		gen, err := xid.NewGenerator(xid.WithMachineID(xid.MachineIDFor(o.name)), xid.WithFallbackMachineID(0))
		if err != nil {
			return nil, fmt.Errorf("xstage: create id generator: %w", err)
		}
		o.newID = gen.NewStringWithRetry
		o.logger.Debug(context.Background(), "xstage: invocation id generator ready",
			slog.String("stage", o.name), slog.Int("machine_id", int(gen.MachineID())))
	}
	locks, err := xkeylock.New()
	if err != nil {
		return nil, err
	}
	return &Stage{
		opts:        o,
		logger:      o.logger.With(slog.String("stage", o.name)),
		sticky:      xsticky.New(),
		locks:       locks,
		regs:        make(map[string]*registration),
		activations: make(map[xactor.Identity]*activation),
	}, nil
}

// Name 返回 stage 名称。
func (s *Stage) Name() string { return s.opts.name }

// Register 注册 actor 接口。
func (s *Stage) Register(iface string, factory xactor.Factory, opts ...RegisterOption) error {
	if iface == "" {
		return fmt.Errorf("%w: empty interface", ErrInvalidIdentity)
	}
	if factory == nil {
		return ErrNilFactory
	}
	r := &registration{iface: iface, factory: factory, timeouts: make(map[string]time.Duration)}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.regs[iface]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateInterface, iface)
	}
	s.regs[iface] = r
	return nil
}

// AddExtension 安装扩展。同时实现两种扩展接口的值会同时加入两条链。
// 调用扩展按安装顺序执行 BeforeInvoke，按相反顺序执行 AfterInvoke。
func (s *Stage) AddExtension(ext xactor.Extension) {
	if ext == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var kinds []string
	if l, ok := ext.(xactor.LifetimeExtension); ok {
		s.lifetimes = append(s.lifetimes, l)
		kinds = append(kinds, "lifetime")
	}
	if i, ok := ext.(xactor.InvocationExtension); ok {
		s.invocations = append(s.invocations, i)
		kinds = append(kinds, "invocation")
	}
	if len(kinds) == 0 {
		s.logger.Warn(context.Background(), "xstage: extension implements no hook set",
			slog.String("extension", ext.Name()))
		return
	}
	s.logger.Debug(context.Background(), "xstage: extension added",
		slog.String("extension", ext.Name()), slog.Any("kinds", kinds))
}

// AddStickyHeaders 注册粘性头名称。
func (s *Stage) AddStickyHeaders(names ...string) {
	s.sticky.Register(names...)
}

// StickyHeaders 返回已注册的粘性头，已排序。
func (s *Stage) StickyHeaders() []string {
	return s.sticky.Names()
}

// Start 使 stage 可以接受调用。ctx 的值（不含取消）会被所有激活上下文继承。
func (s *Stage) Start(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.Load() {
	case stateStarted:
		return ErrStageStarted
	case stateStopped:
		return ErrStageStopped
	}
	s.base = context.WithoutCancel(ctx)
	s.state.Store(stateStarted)
	s.logger.Info(ctx, "xstage: started", slog.Int("interfaces", len(s.regs)))
	return nil
}

// Run 启动 stage 并周期性失活空闲 actor，直到 ctx 结束，随后执行 Stop。
// 可直接作为 xrun 服务使用。
func (s *Stage) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil && !errors.Is(err, ErrStageStarted) {
		return err
	}
	err := xrun.Ticker(s.opts.reapInterval, false, func(ctx context.Context) error {
		s.reap(ctx)
		return nil
	})(ctx)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.stopTimeout)
	defer cancel()
	if stopErr := s.Stop(stopCtx); stopErr != nil {
		return stopErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop 拒绝新的调用，失活所有 actor 并等待邮箱 goroutine 退出。
// 已排队的调用会先执行完。重复调用等待同一组 actor。
func (s *Stage) Stop(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	s.mu.Lock()
	prev := s.state.Swap(stateStopped)
	acts := make([]*activation, 0, len(s.activations))
	for _, a := range s.activations {
		acts = append(acts, a)
	}
	s.mu.Unlock()

	if prev == stateStarted {
		s.logger.Info(ctx, "xstage: stopping", slog.Int("active", len(acts)))
	}
	for _, a := range acts {
		a.close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("xstage: stop: %w", ctx.Err())
	}
	if err := s.locks.Close(); err != nil && !errors.Is(err, xkeylock.ErrClosed) {
		return err
	}
	if prev == stateStarted {
		s.logger.Info(ctx, "xstage: stopped")
	}
	return nil
}

// Deactivate 失活指定 actor 并等待其失活钩子执行完毕。未激活时直接返回 nil。
func (s *Stage) Deactivate(ctx context.Context, id xactor.Identity) error {
	if ctx == nil {
		return ErrNilContext
	}
	a := s.lookup(id)
	if a == nil {
		return nil
	}
	a.close()
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Active 返回当前已激活的 actor，按字符串形式排序。
func (s *Stage) Active() []xactor.Identity {
	s.mu.RLock()
	ids := make([]xactor.Identity, 0, len(s.activations))
	for id := range s.activations {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.SortFunc(ids, func(a, b xactor.Identity) int {
		switch x, y := a.String(), b.String(); {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	})
	return ids
}

// IsActive 报告 id 是否处于激活状态。
func (s *Stage) IsActive(id xactor.Identity) bool {
	return s.lookup(id) != nil
}

func (s *Stage) lookup(id xactor.Identity) *activation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activations[id]
}

func (s *Stage) registration(iface string) (*registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regs[iface]
	return r, ok
}

func (s *Stage) extensions() ([]xactor.LifetimeExtension, []xactor.InvocationExtension) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lifetimes, s.invocations
}

// reap 失活超过 idleTimeout 未被调用且邮箱为空的 actor。
func (s *Stage) reap(ctx context.Context) {
	if s.opts.idleTimeout <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.opts.idleTimeout)
	s.mu.RLock()
	var idle []*activation
	for _, a := range s.activations {
		if a.idleSince(cutoff) {
			idle = append(idle, a)
		}
	}
	s.mu.RUnlock()

	for _, a := range idle {
		s.logger.Debug(ctx, "xstage: deactivating idle actor", xlog.Actor(a.id.String()))
		a.close()
	}
}

// lookupStack 在调用方 ctx 的帧栈上查找粘性头。
func lookupStack(ctx context.Context) func(string) (any, bool) {
	return func(key string) (any, bool) {
		return xframe.Lookup(ctx, key)
	}
}
