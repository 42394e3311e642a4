package xmetrics

import "errors"

// ErrInstrument 创建某个 OTel 仪表失败，错误信息中带有指标名。
var ErrInstrument = errors.New("xmetrics: create instrument")
