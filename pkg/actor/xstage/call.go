package xstage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/context/xctx"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xlog"
)

// Ref 是指向一个 actor 的轻量引用。
type Ref struct {
	stage *Stage
	id    xactor.Identity
}

// Ref 返回 iface/id 的引用，不会触发激活。
func (s *Stage) Ref(iface, id string) Ref {
	return Ref{stage: s, id: xactor.NewIdentity(iface, id)}
}

// Identity 返回引用的目标。
func (r Ref) Identity() xactor.Identity { return r.id }

// Call 等同于 Stage.Call。
func (r Ref) Call(ctx context.Context, method string, params ...any) (any, error) {
	return r.stage.Call(ctx, r.id, method, params...)
}

// Call 调用目标 actor 的方法并等待结果，必要时先激活目标。
//
// 调用方 ctx 帧栈上的粘性头被复制到 Invocation.Headers。超时取方法超时
// （WithMethodTimeout）、stage 默认超时与 ctx deadline 中最早的一个。
// 失败时返回 *CallError；超时时其 Err 为 context.DeadlineExceeded，
// actor 方法的 ctx 同时被取消，AfterInvoke 仍会执行。
//
// actor 在自身方法中同步调用自己会等到超时。
func (s *Stage) Call(ctx context.Context, target xactor.Identity, method string, params ...any) (any, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	fail := func(id string, err error) error {
		return &CallError{Target: target, Method: method, InvocationID: id, Err: err}
	}
	if !target.Valid() {
		return nil, fail("", ErrInvalidIdentity)
	}
	if err := s.acceptErr(); err != nil {
		return nil, fail("", err)
	}
	reg, ok := s.registration(target.Interface)
	if !ok {
		return nil, fail("", ErrUnknownInterface)
	}
	if !reg.accepts(method) {
		return nil, fail("", ErrUnknownMethod)
	}
	invID, err := s.opts.newID(ctx)
	if err != nil {
		return nil, fail("", fmt.Errorf("xstage: invocation id: %w", err))
	}

	timeout := reg.timeout(method, s.opts.callTimeout)
	inv := &xactor.Invocation{
		Target:  target,
		Method:  method,
		Params:  params,
		Headers: s.sticky.Collect(lookupStack(ctx)),
		ID:      invID,
		Timeout: timeout,
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	callCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	env := &envelope{ctx: callCtx, inv: inv, deadline: deadline, reply: make(chan result, 1)}
	if err := s.send(callCtx, env); err != nil {
		return nil, fail(invID, err)
	}

	select {
	case r := <-env.reply:
		if r.err != nil {
			return r.value, fail(invID, r.err)
		}
		return r.value, nil
	case <-callCtx.Done():
		s.logger.Debug(ctx, "xstage: call abandoned",
			xlog.Actor(target.String()),
			xlog.Method(method),
			slog.String("invocation_id", invID),
			xlog.Err(callCtx.Err()))
		return nil, fail(invID, callCtx.Err())
	}
}

// send 把调用投递到目标邮箱；目标正在失活时等待其完成后重新激活。
func (s *Stage) send(ctx context.Context, env *envelope) error {
	for {
		a, err := s.activate(ctx, env.inv.Target)
		if err != nil {
			return err
		}
		err = a.enqueue(env)
		if !errors.Is(err, errDeactivating) {
			return err
		}
		select {
		case <-a.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch 在邮箱 goroutine 中执行一次调用。
//
// 调用 ctx 派生自激活 ctx，截止时间与调用方一致，调用方放弃时随之取消。
// 它携带一个新的帧栈，底座为入站头加上 actor 自身的激活属性（后者优先）。
func (s *Stage) dispatch(a *activation, env *envelope) {
	if err := env.ctx.Err(); err != nil {
		env.reply <- result{err: err}
		return
	}

	ctx, cancel := context.WithDeadline(a.ctx, env.deadline)
	defer cancel()
	// 截止时间相同，超时由调用 ctx 自己报告 DeadlineExceeded。
	stop := context.AfterFunc(env.ctx, func() {
		if !errors.Is(env.ctx.Err(), context.DeadlineExceeded) {
			cancel()
		}
	})
	defer stop()

	base := maps.Clone(env.inv.Headers)
	if base == nil {
		base = make(map[string]any, len(a.props))
	}
	maps.Copy(base, a.props)
	ctx = xframe.WithStack(ctx, xframe.NewStack(base))
	if c, err := xctx.WithActor(ctx, xctx.Actor{Method: env.inv.Method, InvocationID: env.inv.ID}); err == nil {
		ctx = c
	}

	_, exts := s.extensions()
	value, err := s.invoke(ctx, a.actor, env.inv, exts)
	env.reply <- result{value: value, err: err}
}

// invoke 按顺序执行 BeforeInvoke，调用 actor，再逆序执行 AfterInvoke。
//
// 每个扩展的 AfterInvoke 与 AfterInvokeChain 收到的是它自己的 BeforeInvoke 返回的 ctx。
// 某个扩展拒绝调用时，actor 不会被调用，已通过的扩展仍会收到 AfterInvoke。
func (s *Stage) invoke(ctx context.Context, actor xactor.Actor, inv *xactor.Invocation, exts []xactor.InvocationExtension) (any, error) {
	var err error
	ctxs := make([]context.Context, 0, len(exts))
	for _, ext := range exts {
		var next context.Context
		next, err = ext.BeforeInvoke(ctx, inv)
		if err != nil {
			s.logger.Debug(ctx, "xstage: invocation rejected",
				slog.String("extension", ext.Name()),
				xlog.Actor(inv.Target.String()),
				xlog.Method(inv.Method),
				xlog.Err(err))
			break
		}
		if next != nil {
			ctx = next
		}
		ctxs = append(ctxs, ctx)
	}

	var value any
	if err == nil {
		value, err = s.callActor(ctx, actor, inv)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
	}

	for i := len(ctxs) - 1; i >= 0; i-- {
		exts[i].AfterInvoke(ctxs[i], inv, err)
	}
	for i, c := range ctxs {
		exts[i].AfterInvokeChain(c, inv)
	}
	return value, err
}

// callActor 把 actor 的 panic 转为 ErrActorPanic 并记录堆栈，帧栈错配除外。
func (s *Stage) callActor(ctx context.Context, actor xactor.Actor, inv *xactor.Invocation) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			var mismatch *xframe.MismatchError
			if e, ok := r.(error); ok && errors.As(e, &mismatch) {
				panic(r)
			}
			err = fmt.Errorf("%w: %v", ErrActorPanic, r)
			s.logger.Stack(ctx, "xstage: actor panicked",
				xlog.Actor(inv.Target.String()),
				xlog.Method(inv.Method),
				slog.Any("panic", r))
		}
	}()
	return actor.Invoke(ctx, inv)
}
