// Package xactor 定义 actor 运行时与追踪扩展之间的契约。
//
// 运行时（xstage）负责调度、放置与超时；扩展（xhook）通过
// LifetimeExtension 与 InvocationExtension 观察 actor 生命周期和方法调用。
// 两者只通过本包的类型交互，互不依赖。
//
// 调用链上需要逐跳转发的上下文键称为粘性头（sticky header），
// 由 Host.AddStickyHeaders 注册。
package xactor
