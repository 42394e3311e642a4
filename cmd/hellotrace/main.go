// hellotrace 运行带分布式追踪的 actor 演示。
//
// 用法:
//
//	hellotrace [选项]
//	hellotrace scenarios
//
// 选项:
//
//	-c, --config      YAML/JSON 配置文件，运行期间修改 log.level 立即生效
//	-s, --scenario    场景名，覆盖配置中的 demo.scenario
//	-n, --messages    消息数，覆盖配置中的 demo.messages
//	-l, --log-level   日志级别，覆盖配置中的 log.level
//
// 退出码:
//
//	0: 场景执行完毕且没有失败的调用
//	1: 运行失败或有调用失败
//	2: 参数或配置错误
//
// 结束的 span 以日志形式输出，进程退出前打印一次指标汇总。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xactor/internal/demo"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

// 退出码。
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

var (
	errUsage       = errors.New("hellotrace: usage")
	errCallsFailed = errors.New("hellotrace: some calls failed")
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return exitUsage
	default:
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "hellotrace",
		Usage:     "actor 分布式追踪演示",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
			},
			&cli.StringFlag{
				Name:    "scenario",
				Aliases: []string{"s"},
				Usage:   "场景名: " + strings.Join(demo.Scenarios(), ", "),
			},
			&cli.IntFlag{
				Name:    "messages",
				Aliases: []string{"n"},
				Usage:   "发送的消息数",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "日志级别 (debug|info|warn|error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "scenarios",
				Usage: "列出所有场景",
				Action: func(_ context.Context, cmd *cli.Command) error {
					for _, s := range demo.Scenarios() {
						fmt.Fprintln(cmd.Root().Writer, s)
					}
					return nil
				},
			},
		},
		// 退出码由 run 统一映射，不让 urfave/cli 直接 os.Exit。
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, src, err := loadConfig(cmd.String("config"), overrides{
				scenario: cmd.String("scenario"),
				messages: cmd.Int("messages"),
				logLevel: cmd.String("log-level"),
			})
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			return runDemo(ctx, cfg, src, cmd.Root().Writer, cmd.Root().ErrWriter)
		},
	}
}
