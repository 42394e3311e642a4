// Package context 提供在 context.Context 上携带调用信息的子包。
//
// 子包列表：
//   - xctx: 追踪字段（trace_id、span_id、trace_flags）与 actor 字段（类型、ID、方法、调用 ID）
//   - xframe: 每个任务一个的属性帧栈，粘性头和当前 span 的编码都放在这里
//
// 所有信息随 ctx 传递，不使用全局变量；actor 方法挂起再恢复后帧栈仍然可见。
package context
