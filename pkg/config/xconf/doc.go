// Package xconf 基于 koanf 加载 YAML/JSON 配置并支持热重载。
//
//	cfg, err := xconf.New("hellotrace.yaml")
//	var c demo.Config = demo.DefaultConfig()
//	err = cfg.Unmarshal("", &c)
//
// 热重载：
//
//	w, err := xconf.NewWatcher(cfg, func(c xconf.Config, err error) {
//		if err == nil {
//			logger.SetLevel(...)
//		}
//	})
//	g.Go(w.Run)
//
// xconf 只负责加载、解码与重载，默认值与校验由使用方处理。
package xconf
