package xstage

import (
	"errors"
	"fmt"

	"github.com/omeyang/xactor/pkg/actor/xactor"
)

var (
	// ErrStageNotStarted Start 之前发起调用。
	ErrStageNotStarted = errors.New("xstage: stage not started")

	// ErrStageStopped Stop 之后发起调用，或调用在关闭过程中被拒绝。
	ErrStageStopped = errors.New("xstage: stage stopped")

	// ErrStageStarted 重复 Start。
	ErrStageStarted = errors.New("xstage: stage already started")

	// ErrUnknownInterface 目标接口未注册。
	ErrUnknownInterface = errors.New("xstage: unknown interface")

	// ErrUnknownMethod 目标方法不在接口声明的方法集中。
	// actor 自身也可以返回它表示不支持的方法。
	ErrUnknownMethod = errors.New("xstage: unknown method")

	// ErrMailboxFull 邮箱已达 WithMailboxSize 上限。
	ErrMailboxFull = errors.New("xstage: mailbox full")

	// ErrActorPanic actor 方法发生 panic。
	ErrActorPanic = errors.New("xstage: actor panicked")

	// ErrInvalidIdentity Interface 或 ID 为空。
	ErrInvalidIdentity = errors.New("xstage: invalid identity")

	// ErrDuplicateInterface 同一接口重复注册。
	ErrDuplicateInterface = errors.New("xstage: interface already registered")

	// ErrNilFactory Register 的 factory 为 nil。
	ErrNilFactory = errors.New("xstage: nil factory")

	// ErrNilContext ctx 为 nil。
	ErrNilContext = errors.New("xstage: nil context")

	// ErrInvalidOption 选项值无效。
	ErrInvalidOption = errors.New("xstage: invalid option")

	// errDeactivating 邮箱已关闭，调用方等待失活完成后重新激活。
	errDeactivating = errors.New("xstage: actor deactivating")
)

// CallError 描述一次失败的调用。
//
// 超时表现为 Err 为 context.DeadlineExceeded，可用 errors.Is 判断。
type CallError struct {
	Target       xactor.Identity
	Method       string
	InvocationID string
	Err          error
}

func (e *CallError) Error() string {
	if e.InvocationID == "" {
		return fmt.Sprintf("xstage: call %s.%s: %v", e.Target, e.Method, e.Err)
	}
	return fmt.Sprintf("xstage: call %s.%s [%s]: %v", e.Target, e.Method, e.InvocationID, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
