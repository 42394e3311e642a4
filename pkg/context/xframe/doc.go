// Package xframe 提供任务级的上下文帧栈。
//
// 一个逻辑任务（一次 actor 调用、一次激活、一个调用方 goroutine）拥有一个 Stack，
// Stack 随 context.Context 显式传递，跨越 sleep、channel 等待等挂起点时不会丢失。
// 每个 Frame 是一个 string → any 的属性包，按 LIFO 入栈出栈。
//
// # 可见性
//
// Lookup 从栈顶向下查找，下层帧的属性对上层可见（继承）。
// Fork 为子任务创建新 Stack，其底座是父任务当前可见属性的快照，
// 之后父子双方的 push/pop 互不影响。
//
// # 出栈约束
//
// Pop 只能弹出栈顶帧。弹出非栈顶帧意味着调用方的 push/pop 配对已经错乱，
// 此时 Pop 以 *MismatchError panic，该错误不可恢复。
//
// # 并发
//
// Stack 不是并发安全的，属于单个任务。需要把上下文交给另一个 goroutine 时，
// 先 Fork 再传递。
package xframe
