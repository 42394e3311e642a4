// Package util 提供 actor 运行时用到的通用工具。
//
// 子包列表：
//   - xid: 基于 Sonyflake 的调用 ID
//   - xkeylock: 按 key 互斥的进程内锁，串行化同一身份的激活与失活
package util
