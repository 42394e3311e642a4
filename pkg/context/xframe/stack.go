package xframe

import "maps"

// Frame 栈上的一个属性帧。
type Frame struct {
	stack  *Stack
	index  int
	props  map[string]any
	popped bool
}

// SetProperty 设置属性。只有栈顶帧可写。
func (f *Frame) SetProperty(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	if f.popped {
		return ErrFramePopped
	}
	if f.stack.top() != f {
		return ErrFrameNotTop
	}
	if f.props == nil {
		f.props = make(map[string]any, 2)
	}
	f.props[key] = value
	return nil
}

// Property 读取本帧自身的属性，不查找下层帧。
func (f *Frame) Property(key string) (any, bool) {
	v, ok := f.props[key]
	return v, ok
}

// Properties 返回本帧属性的副本。
func (f *Frame) Properties() map[string]any {
	return maps.Clone(f.props)
}

// Popped 报告帧是否已出栈。
func (f *Frame) Popped() bool {
	return f.popped
}

// Stack 单个逻辑任务的帧栈。
type Stack struct {
	base   map[string]any
	frames []*Frame
}

// NewStack 创建空栈。base 作为只读底座，Lookup 在所有帧之后查找它。
func NewStack(base map[string]any) *Stack {
	return &Stack{base: maps.Clone(base)}
}

// PushNew 压入一个空帧并返回其句柄。
func (s *Stack) PushNew() *Frame {
	f := &Frame{stack: s, index: len(s.frames)}
	s.frames = append(s.frames, f)
	return f
}

// Current 返回栈顶帧，空栈返回 nil。
func (s *Stack) Current() *Frame {
	return s.top()
}

// Depth 返回已压入的帧数，不含底座。
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Lookup 从栈顶向下查找属性，最后查找底座。
func (s *Stack) Lookup(key string) (any, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].props[key]; ok {
			return v, true
		}
	}
	v, ok := s.base[key]
	return v, ok
}

// Pop 弹出栈顶帧 f。
//
// f 不是栈顶、已出栈或属于其他 Stack 时 panic(*MismatchError)。
func (s *Stack) Pop(f *Frame) {
	if f == nil || f.stack != s {
		panic(&MismatchError{Depth: len(s.frames), Foreign: true})
	}
	if f.popped {
		panic(&MismatchError{Depth: len(s.frames), Popped: true})
	}
	if s.top() != f {
		panic(&MismatchError{Depth: len(s.frames)})
	}
	f.popped = true
	s.frames[f.index] = nil
	s.frames = s.frames[:f.index]
}

// Snapshot 返回当前可见属性的扁平副本，上层覆盖下层。
func (s *Stack) Snapshot() map[string]any {
	out := maps.Clone(s.base)
	if out == nil {
		out = make(map[string]any)
	}
	for _, f := range s.frames {
		maps.Copy(out, f.props)
	}
	return out
}

func (s *Stack) top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}
