// Package xrotate 为 xlog 的文件输出提供按大小轮转，基于 lumberjack v2。
//
//	r, err := xrotate.NewLumberjack("/var/log/hellotrace/app.log", xrotate.WithMaxSize(50))
//	logger, cleanup, err := xlog.New().SetOutput(r).Build()
//
// 通常直接用 xlog.Builder.SetRotation，cleanup 会关闭文件。
package xrotate
