// Package xmetrics 记录 actor 追踪钩子的指标。
//
// # 设计理念
//
// 钩子只依赖 Recorder 接口；默认实现基于 OpenTelemetry metric，
// 未配置 MeterProvider 时使用全局 provider（默认为 noop）。
//
// # 指标命名
//
//   - xactor.lifetime.active     UpDownCounter，属性 actor.interface
//   - xactor.invocation.total    Counter，属性 actor.interface / actor.method / outcome
//   - xactor.invocation.duration Histogram（秒），属性同上，不含被拒绝的调用
//
// outcome 取值 ok / error / rejected。
package xmetrics
