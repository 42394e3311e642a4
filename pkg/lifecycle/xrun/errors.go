package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 因系统信号退出，用 errors.Is 判断。
	ErrSignal          = errors.New("xrun: received signal")
	ErrInvalidInterval = errors.New("xrun: interval must be positive")
	ErrNilFunc         = errors.New("xrun: nil func")
)

// SignalError 记录触发退出的信号。
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "xrun: received signal <nil>"
	}
	return fmt.Sprintf("xrun: received signal %s", e.Signal)
}

// Unwrap 返回 ErrSignal。
func (e *SignalError) Unwrap() error { return ErrSignal }
