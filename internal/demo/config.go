package demo

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/omeyang/xactor/pkg/config/xconf"
	"github.com/omeyang/xactor/pkg/observability/xlog"
)

// Config 是 hellotrace 的完整配置，对应 YAML 的四个顶层段。
type Config struct {
	Stage StageConfig `koanf:"stage"`
	Trace TraceConfig `koanf:"trace"`
	Log   LogConfig   `koanf:"log"`
	Demo  DemoConfig  `koanf:"demo"`
}

type StageConfig struct {
	Name          string        `koanf:"name"`
	CallTimeout   time.Duration `koanf:"call_timeout"`
	MethodTimeout time.Duration `koanf:"method_timeout"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	ReapInterval  time.Duration `koanf:"reap_interval"`
	MailboxSize   int           `koanf:"mailbox_size"`
}

type TraceConfig struct {
	ServiceName string  `koanf:"service_name"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// File 为空时输出到 stderr。
	File string `koanf:"file"`
}

type DemoConfig struct {
	Scenario string `koanf:"scenario"`
	Messages int    `koanf:"messages"`
	// Delay 是 SayHello 的处理耗时。
	Delay time.Duration `koanf:"delay"`
	// LongDelay 是 SayHelloWithLongTimeToProcess 的最大处理耗时，实际值在 [LongDelay/2, LongDelay) 内随机。
	LongDelay time.Duration `koanf:"long_delay"`
}

var (
	ErrUnknownScenario = errors.New("demo: unknown scenario")
	ErrInvalidConfig   = errors.New("demo: invalid config")
)

// DefaultConfig 返回可以直接运行的配置。
func DefaultConfig() Config {
	return Config{
		Stage: StageConfig{
			Name:          "hello-trace-cluster",
			CallTimeout:   10 * time.Second,
			MethodTimeout: 4 * time.Second,
			IdleTimeout:   time.Minute,
			ReapInterval:  10 * time.Second,
		},
		Trace: TraceConfig{ServiceName: "hellotrace", SampleRatio: 1},
		Log:   LogConfig{Level: "info", Format: xlog.FormatText},
		Demo: DemoConfig{
			Scenario:  ScenarioOneActor,
			Messages:  10,
			Delay:     50 * time.Millisecond,
			LongDelay: 100 * time.Second,
		},
	}
}

// LoadConfig 在默认值之上解码 cfg 并校验。
func LoadConfig(cfg xconf.Config) (Config, error) {
	c := DefaultConfig()
	if cfg != nil {
		if err := cfg.Unmarshal("", &c); err != nil {
			return Config{}, err
		}
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Stage.CallTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stage.call_timeout must be positive, got %s", c.Stage.CallTimeout))
	}
	if c.Stage.MethodTimeout < 0 {
		errs = append(errs, fmt.Errorf("stage.method_timeout must not be negative, got %s", c.Stage.MethodTimeout))
	}
	if c.Stage.MailboxSize < 0 {
		errs = append(errs, fmt.Errorf("stage.mailbox_size must not be negative, got %d", c.Stage.MailboxSize))
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("trace.sample_ratio must be within [0, 1], got %g", c.Trace.SampleRatio))
	}
	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Demo.Messages <= 0 {
		errs = append(errs, fmt.Errorf("demo.messages must be positive, got %d", c.Demo.Messages))
	}
	if c.Demo.Delay < 0 || c.Demo.LongDelay < 0 {
		errs = append(errs, errors.New("demo delays must not be negative"))
	}
	if !slices.Contains(Scenarios(), c.Demo.Scenario) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownScenario, c.Demo.Scenario))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
