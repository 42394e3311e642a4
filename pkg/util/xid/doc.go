// Package xid 基于 Sonyflake v2 生成调用 ID。
//
// actor 运行时为每次 Invocation 分配一个 ID，写入调用 span 的 invocation.id 属性，
// 用于在日志和 trace 之间关联同一次调用。
//
//	gen, err := xid.NewGenerator(xid.WithFallbackMachineID(1))
//	id, err := gen.NewStringWithRetry(ctx) // "3kd9x2m4a1b0c"
//
// ID 布局为 39 位时间（10ms）+ 8 位序列 + 16 位机器，base36 编码后按时间大致有序。
// 时钟回拨时 NewStringWithRetry 在 ctx 内按间隔重试，最长等待 WithMaxWaitDuration。
package xid
