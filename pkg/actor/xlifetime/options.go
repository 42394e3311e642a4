package xlifetime

import (
	"fmt"

	"github.com/omeyang/xactor/pkg/observability/xlog"
)

const (
	defaultShardCount = 16
	maxShardCount     = 1 << 12
)

// Option 配置 Registry。
type Option func(*options)

type options struct {
	shardCount int
	kind       string
	logger     xlog.Logger
}

func defaultOptions() options {
	return options{
		shardCount: defaultShardCount,
		kind:       DefaultKind,
		logger:     xlog.Default(),
	}
}

// WithShardCount 设置分片数，必须是 2 的幂，上限 4096。默认 16。
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// WithKind 设置 actor.kind 属性值，空字符串被忽略。
func WithKind(kind string) Option {
	return func(o *options) {
		if kind != "" {
			o.kind = kind
		}
	}
}

// WithLogger 设置 logger，nil 被忽略。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func (o *options) validate() error {
	sc := o.shardCount
	if sc <= 0 || sc > maxShardCount || sc&(sc-1) != 0 {
		return fmt.Errorf("%w: must be a positive power of 2 (max %d), got %d",
			ErrInvalidShardCount, maxShardCount, sc)
	}
	return nil
}
