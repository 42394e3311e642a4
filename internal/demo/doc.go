// Package demo 是 hellotrace 的演示程序：一个 Hello actor、几种发送消息的场景，
// 以及把 xstage、xhook 与配置组装起来的 App。
//
// 场景名见 [Scenarios]。每个场景在一个根 span 之下运行，调用方通过
// xhook.PushSpanContext 把 "action i" span 放进帧栈，actor 侧的调用 span 以它为父。
package demo
