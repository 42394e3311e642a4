package xlog

import "errors"

var (
	// ErrNilHandler NewEnrichHandler 的 base 为 nil。
	ErrNilHandler = errors.New("xlog: base handler is nil")

	// ErrUnknownLevel 无法识别的级别字符串。
	ErrUnknownLevel = errors.New("xlog: unknown level")

	// ErrUnknownFormat 格式既不是 text 也不是 json。
	ErrUnknownFormat = errors.New("xlog: unknown format")

	// ErrNilOutput SetOutput 传入 nil。
	ErrNilOutput = errors.New("xlog: output is nil")
)
