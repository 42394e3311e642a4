package xframe

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStack context 中没有 Stack。
	ErrNoStack = errors.New("xframe: no stack in context")

	// ErrFrameNotTop 只能修改栈顶帧的属性。
	ErrFrameNotTop = errors.New("xframe: frame is not on top of stack")

	// ErrFramePopped 帧已出栈。
	ErrFramePopped = errors.New("xframe: frame already popped")

	// ErrMismatchedPop 出栈的帧不是栈顶帧。
	ErrMismatchedPop = errors.New("xframe: mismatched pop")

	// ErrEmptyKey 属性 key 为空。
	ErrEmptyKey = errors.New("xframe: empty property key")
)

// MismatchError 描述一次错配的出栈。
//
// Pop 以该类型 panic；recover 后可用 errors.Is(err, ErrMismatchedPop) 判断。
type MismatchError struct {
	// Depth 出栈时的栈深度。
	Depth int
	// Popped 被弹出的帧是否早已出栈。
	Popped bool
	// Foreign 被弹出的帧是否属于其他 Stack。
	Foreign bool
}

func (e *MismatchError) Error() string {
	switch {
	case e.Foreign:
		return fmt.Sprintf("%s: frame belongs to another stack (depth %d)", ErrMismatchedPop, e.Depth)
	case e.Popped:
		return fmt.Sprintf("%s: frame popped twice (depth %d)", ErrMismatchedPop, e.Depth)
	default:
		return fmt.Sprintf("%s: frame is not on top (depth %d)", ErrMismatchedPop, e.Depth)
	}
}

// Unwrap 返回 ErrMismatchedPop。
func (e *MismatchError) Unwrap() error {
	return ErrMismatchedPop
}
