package xconf

import "github.com/knadh/koanf/v2"

// Format 配置文件格式。
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 是并发安全的配置快照，Reload 原子地替换底层数据。
type Config interface {
	// Client 返回当前的 koanf 实例。Reload 之后需要重新获取。
	Client() *koanf.Koanf

	// Unmarshal 把 path 下的配置解到 target，path 为空表示整个文档。
	// 未出现的键保留 target 原值，所以可以先填默认值再 Unmarshal。
	Unmarshal(path string, target any) error

	// Reload 重新读取文件。从字节创建的 Config 返回 ErrNotReloadable。
	Reload() error

	// Path 返回文件路径，从字节创建时为空。
	Path() string

	Format() Format
}
