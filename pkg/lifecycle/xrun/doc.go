// Package xrun 基于 errgroup 管理进程内长期运行的服务。
//
//	g, _ := xrun.NewGroup(ctx, xrun.WithName("hellotrace"))
//	g.HandleSignals()
//	g.GoWithName("stage", stage.Run)
//	g.GoWithName("config-watcher", watcher.Run)
//	if err := g.Wait(); errors.Is(err, xrun.ErrSignal) {
//	    // 正常退出
//	}
//
// actor 运行时用 Ticker 定期回收空闲 actor。
package xrun
