package xid

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sony/sonyflake/v2"
)

var (
	// ErrClockBackwardTimeout 时钟回拨等待超时。
	ErrClockBackwardTimeout = errors.New("xid: clock backward wait timeout")

	// ErrOverTimeLimit 时间分量溢出，不可恢复。
	ErrOverTimeLimit = errors.New("xid: time component overflow")

	// ErrNoMachineID 所有机器 ID 来源均不可用。
	ErrNoMachineID = errors.New("xid: no machine id available")

	// ErrNilContext context 参数为 nil。
	ErrNilContext = errors.New("xid: nil context")

	// ErrInvalidConfig 配置参数无效，或 sonyflake 初始化失败。
	ErrInvalidConfig = errors.New("xid: invalid config")

	// ErrNilGenerator 生成器为 nil 或未通过 NewGenerator 创建。
	ErrNilGenerator = errors.New("xid: nil generator (use NewGenerator to create)")
)

const (
	// DefaultMaxWaitDuration 时钟回拨时的默认最大等待时间。
	DefaultMaxWaitDuration = 500 * time.Millisecond

	// DefaultRetryInterval 默认重试间隔，与 sonyflake 的 10ms 时间精度一致。
	DefaultRetryInterval = 10 * time.Millisecond
)

// Generator 生成调用 ID。并发安全。
type Generator struct {
	maxWaitDuration time.Duration
	retryInterval   time.Duration
	machineID       uint16
	// generateID 默认为 sonyflake 的 NextID，测试中可替换。
	generateID func() (int64, error)
}

// NewGenerator 创建生成器。
//
// 未指定 WithMachineID 时使用 DefaultMachineID；
// 两者都失败且设置了 WithFallbackMachineID 时使用回退值。
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := &options{
		maxWaitDuration: DefaultMaxWaitDuration,
		retryInterval:   DefaultRetryInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.maxWaitDuration < 0 {
		return nil, fmt.Errorf("%w: max wait duration must be non-negative, got %s", ErrInvalidConfig, cfg.maxWaitDuration)
	}
	if cfg.retryInterval < 0 {
		return nil, fmt.Errorf("%w: retry interval must be non-negative, got %s", ErrInvalidConfig, cfg.retryInterval)
	}

	machineID, err := cfg.resolveMachineID()
	if err != nil {
		return nil, err
	}

	settings := sonyflake.Settings{
		MachineID: func() (int, error) { return int(machineID), nil },
	}
	if cfg.checkMachineID != nil {
		settings.CheckMachineID = func(id int) bool {
			return cfg.checkMachineID(uint16(id))
		}
	}
	sf, err := sonyflake.New(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Generator{
		maxWaitDuration: cfg.maxWaitDuration,
		retryInterval:   cfg.retryInterval,
		machineID:       machineID,
		generateID:      sf.NextID,
	}, nil
}

// MachineID 返回生成器使用的机器 ID。
func (g *Generator) MachineID() uint16 {
	if g == nil {
		return 0
	}
	return g.machineID
}

func (g *Generator) validate() error {
	if g == nil || g.generateID == nil {
		return ErrNilGenerator
	}
	return nil
}

// New 尝试生成一次 int64 ID，不重试。
func (g *Generator) New() (int64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	id, err := g.generateID()
	if err != nil {
		if errors.Is(err, sonyflake.ErrOverTimeLimit) {
			return 0, fmt.Errorf("%w: %w", ErrOverTimeLimit, err)
		}
		return 0, err
	}
	return id, nil
}

// NewWithRetry 生成 ID，遇到可重试错误时按 retryInterval 等待重试，
// 最长等待 maxWaitDuration，随后返回 ErrClockBackwardTimeout。
func (g *Generator) NewWithRetry(ctx context.Context) (int64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	if ctx == nil {
		return 0, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := g.New()
	if err == nil || errors.Is(err, ErrOverTimeLimit) {
		return id, err
	}
	return g.retry(ctx, err)
}

func (g *Generator) retry(ctx context.Context, lastErr error) (int64, error) {

	deadline := time.Now().Add(g.maxWaitDuration)
	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, fmt.Errorf("%w: %w", ErrClockBackwardTimeout, lastErr)
		}
		timer.Reset(min(g.retryInterval, remaining))
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}

		id, err := g.generateID()
		if err == nil {
			return id, nil
		}
		lastErr = err
		if errors.Is(err, sonyflake.ErrOverTimeLimit) {
			return 0, fmt.Errorf("%w: %w", ErrOverTimeLimit, err)
		}
	}
}

// NewStringWithRetry 是 NewWithRetry 的 base36 字符串版本，12-13 个字符。
func (g *Generator) NewStringWithRetry(ctx context.Context) (string, error) {
	id, err := g.NewWithRetry(ctx)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 36), nil
}
