package xrotate

import "io"

// Rotator 是可手动轮转的日志文件写入器，所有方法并发安全。
type Rotator interface {
	io.WriteCloser

	// Rotate 关闭当前文件、改名为备份并打开新文件。
	Rotate() error
}
