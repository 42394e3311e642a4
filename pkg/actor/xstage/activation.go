package xstage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/context/xctx"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/util/xkeylock"
)

// activation 是一个已激活的 actor 实例及其邮箱。
type activation struct {
	stage *Stage
	id    xactor.Identity
	reg   *registration
	actor xactor.Actor
	// lifetimes 是激活时生效的生命周期扩展，失活时按相反顺序回放。
	lifetimes []xactor.LifetimeExtension

	// ctx 携带激活期间的帧栈，生命周期扩展的四个钩子共享它。
	ctx    context.Context
	cancel context.CancelFunc
	// props 是激活完成时帧栈的可见属性，作为每次调用帧栈的底座。
	props map[string]any

	mu      sync.Mutex
	mailbox *queue.Queue
	closing bool
	signal  chan struct{}
	done    chan struct{}

	pending  atomic.Int64
	lastUsed atomic.Int64
}

type envelope struct {
	ctx      context.Context
	inv      *xactor.Invocation
	deadline time.Time
	reply    chan result
}

type result struct {
	value any
	err   error
}

// activate 返回 id 的激活实例，必要时创建。
//
// 同一 id 的激活在 keylock 下串行执行，生命周期钩子在调用方 goroutine 中同步运行。
func (s *Stage) activate(ctx context.Context, id xactor.Identity) (*activation, error) {
	if a := s.lookup(id); a != nil {
		return a, nil
	}
	if err := s.acceptErr(); err != nil {
		return nil, err
	}
	reg, ok := s.registration(id.Interface)
	if !ok {
		return nil, ErrUnknownInterface
	}

	h, err := s.locks.Acquire(ctx, id.Key())
	if err != nil {
		if errors.Is(err, xkeylock.ErrClosed) {
			return nil, ErrStageStopped
		}
		return nil, err
	}
	defer func() { _ = h.Unlock() }()

	if a := s.lookup(id); a != nil {
		return a, nil
	}
	actor := reg.factory(id.ID)
	if actor == nil {
		return nil, ErrNilFactory
	}

	actx, cancel := context.WithCancel(s.base)
	if c, err := xctx.WithActor(actx, xctx.Actor{Type: id.Interface, ID: id.ID}); err == nil {
		actx = c
	}
	stack := xframe.NewStack(nil)
	actx = xframe.WithStack(actx, stack)

	lifetimes, _ := s.extensions()
	for _, ext := range lifetimes {
		ext.PreActivation(actx, id)
	}
	for _, ext := range lifetimes {
		ext.PostActivation(actx, id)
	}

	a := &activation{
		stage:     s,
		id:        id,
		reg:       reg,
		actor:     actor,
		lifetimes: lifetimes,
		ctx:       actx,
		cancel:    cancel,
		props:     stack.Snapshot(),
		mailbox:   queue.New(),
		signal:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	a.lastUsed.Store(time.Now().UnixNano())

	s.mu.Lock()
	if s.state.Load() != stateStarted {
		s.mu.Unlock()
		a.deactivationHooks()
		a.cancel()
		close(a.done)
		return nil, ErrStageStopped
	}
	s.activations[id] = a
	s.wg.Add(1)
	s.mu.Unlock()

	go a.run()
	s.logger.Debug(ctx, "xstage: actor activated", xlog.Actor(id.String()))
	return a, nil
}

func (s *Stage) acceptErr() error {
	switch s.state.Load() {
	case stateNew:
		return ErrStageNotStarted
	case stateStopped:
		return ErrStageStopped
	}
	return nil
}

// enqueue 把调用放入邮箱。邮箱已关闭时返回 errDeactivating。
func (a *activation) enqueue(env *envelope) error {
	a.mu.Lock()
	if a.closing {
		a.mu.Unlock()
		return errDeactivating
	}
	if size := a.stage.opts.mailboxSize; size > 0 && a.mailbox.Length() >= size {
		a.mu.Unlock()
		return ErrMailboxFull
	}
	a.mailbox.Add(env)
	a.pending.Add(1)
	a.mu.Unlock()
	a.wake()
	return nil
}

// close 关闭邮箱。已排队的调用仍会执行，随后运行失活钩子。幂等。
func (a *activation) close() {
	a.mu.Lock()
	a.closing = true
	a.mu.Unlock()
	a.wake()
}

func (a *activation) wake() {
	select {
	case a.signal <- struct{}{}:
	default:
	}
}

// next 取出下一个调用，邮箱关闭且为空时返回 false。
func (a *activation) next() (*envelope, bool) {
	for {
		a.mu.Lock()
		if a.mailbox.Length() > 0 {
			env, _ := a.mailbox.Remove().(*envelope)
			a.mu.Unlock()
			return env, true
		}
		closing := a.closing
		a.mu.Unlock()
		if closing {
			return nil, false
		}
		<-a.signal
	}
}

// idleSince 报告邮箱为空且自 cutoff 以来没有调用。
func (a *activation) idleSince(cutoff time.Time) bool {
	a.mu.Lock()
	closing := a.closing
	a.mu.Unlock()
	return !closing && a.pending.Load() == 0 && a.lastUsed.Load() < cutoff.UnixNano()
}

// run 是邮箱 goroutine：逐个执行调用，邮箱关闭并排空后失活。
func (a *activation) run() {
	defer a.stage.wg.Done()
	for {
		env, ok := a.next()
		if !ok {
			break
		}
		a.stage.dispatch(a, env)
		a.lastUsed.Store(time.Now().UnixNano())
		a.pending.Add(-1)
	}
	a.stage.deactivate(a)
}

// deactivate 在 keylock 下运行失活钩子，然后把实例移出激活表。
func (s *Stage) deactivate(a *activation) {
	h, err := s.locks.Acquire(context.Background(), a.id.Key())
	if err != nil {
		s.logger.Warn(a.ctx, "xstage: deactivate without identity lock",
			xlog.Actor(a.id.String()), xlog.Err(err))
	} else {
		defer func() { _ = h.Unlock() }()
	}

	a.deactivationHooks()

	s.mu.Lock()
	if s.activations[a.id] == a {
		delete(s.activations, a.id)
	}
	s.mu.Unlock()
	a.cancel()
	close(a.done)
	s.logger.Debug(a.ctx, "xstage: actor deactivated", xlog.Actor(a.id.String()))
}

// deactivationHooks 按安装的相反顺序运行失活钩子，后压入的帧先弹出。
func (a *activation) deactivationHooks() {
	for i := len(a.lifetimes) - 1; i >= 0; i-- {
		a.lifetimes[i].PreDeactivation(a.ctx, a.id)
	}
	for i := len(a.lifetimes) - 1; i >= 0; i-- {
		a.lifetimes[i].PostDeactivation(a.ctx, a.id)
	}
}
