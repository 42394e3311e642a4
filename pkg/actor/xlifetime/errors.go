package xlifetime

import "errors"

var (
	// ErrLifetimeExists 该 actor 已有活动的生命周期 span。
	ErrLifetimeExists = errors.New("xlifetime: lifetime already exists")

	// ErrNilTracer tracer 为 nil。
	ErrNilTracer = errors.New("xlifetime: nil tracer")

	// ErrInvalidShardCount 分片数不是 2 的幂或超出上限。
	ErrInvalidShardCount = errors.New("xlifetime: invalid shard count")
)
