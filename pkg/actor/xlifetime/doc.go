// Package xlifetime 保存每个活动 actor 的生命周期 span。
//
// 一次激活对应一个 span，名为 "Actor.<Interface>.<ID>"，从激活开始到失活结束。
// 该 span 是一个新的根 span：actor 的生命周期独立于触发激活的那次调用。
//
// Registry 按 actor 身份分片（xxhash 取模，分片数为 2 的幂），
// 不同 actor 的 Begin/End 互不阻塞。
package xlifetime
