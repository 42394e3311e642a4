package xhook

import "errors"

// ErrNilHost Enable 的 host 为 nil。
var ErrNilHost = errors.New("xhook: nil host")
