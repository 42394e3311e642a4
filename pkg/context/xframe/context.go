package xframe

import "context"

type stackKey struct{}

// WithStack 把 s 绑定到 ctx。
func WithStack(ctx context.Context, s *Stack) context.Context {
	return context.WithValue(ctx, stackKey{}, s)
}

// FromContext 取出 ctx 绑定的 Stack。
func FromContext(ctx context.Context) (*Stack, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(stackKey{}).(*Stack)
	return s, ok && s != nil
}

// Ensure 返回 ctx 已绑定的 Stack；没有时新建一个空栈并绑定。
func Ensure(ctx context.Context) (context.Context, *Stack) {
	if s, ok := FromContext(ctx); ok {
		return ctx, s
	}
	s := NewStack(nil)
	return WithStack(ctx, s), s
}

// Fork 为子任务创建新 Stack，底座是父任务当前可见属性的快照。
// ctx 中没有 Stack 时子任务得到空栈。
func Fork(ctx context.Context) context.Context {
	var base map[string]any
	if s, ok := FromContext(ctx); ok {
		base = s.Snapshot()
	}
	return WithStack(ctx, NewStack(base))
}

// Push 在 ctx 绑定的 Stack 上压入新帧。
func Push(ctx context.Context) (*Frame, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoStack
	}
	return s.PushNew(), nil
}

// Current 返回 ctx 绑定 Stack 的栈顶帧；没有 Stack 或空栈时返回 nil。
func Current(ctx context.Context) *Frame {
	s, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return s.Current()
}

// Lookup 在 ctx 绑定的 Stack 上查找属性。
func Lookup(ctx context.Context, key string) (any, bool) {
	s, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return s.Lookup(key)
}

// Pop 弹出 ctx 绑定 Stack 的栈顶帧 f，语义同 Stack.Pop。
func Pop(ctx context.Context, f *Frame) error {
	s, ok := FromContext(ctx)
	if !ok {
		return ErrNoStack
	}
	s.Pop(f)
	return nil
}
