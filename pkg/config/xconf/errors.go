package xconf

import "errors"

var (
	ErrEmptyPath         = errors.New("xconf: empty config path")
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")
	ErrLoadFailed        = errors.New("xconf: load config")
	ErrParseFailed       = errors.New("xconf: parse config")
	ErrUnmarshalFailed   = errors.New("xconf: unmarshal config")

	// ErrNotReloadable Config 来自字节数据，没有可重读或监视的文件。
	ErrNotReloadable = errors.New("xconf: config has no backing file")

	ErrNilConfig   = errors.New("xconf: nil config")
	ErrNilCallback = errors.New("xconf: nil watch callback")
)
