package xkeylock

import "errors"

var (
	ErrLockNotHeld       = errors.New("xkeylock: lock not held")
	ErrClosed            = errors.New("xkeylock: closed")
	ErrInvalidKey        = errors.New("xkeylock: empty key")
	ErrNilContext        = errors.New("xkeylock: nil context")
	ErrInvalidShardCount = errors.New("xkeylock: invalid shard count")
)
