// Package xkeylock 提供按 key 互斥的进程内锁。
//
// actor 运行时用它串行化同一身份的激活与失活：同一个 "Interface.ID" 在任意时刻
// 最多只有一个 goroutine 在执行 PreActivation 或 PostDeactivation 钩子，
// 不同身份之间互不阻塞。
//
// 条目按 xxhash 分片，没有持有者和等待者的 key 立即回收。
// Close 唤醒所有等待者并让它们返回 ErrClosed。
package xkeylock
