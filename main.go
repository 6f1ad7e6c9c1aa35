package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/internal/config"
	"github.com/donutnomad/flowcase/internal/logging"
	"github.com/donutnomad/flowcase/internal/metrics"
	"github.com/donutnomad/flowcase/internal/pipeline"
	"github.com/donutnomad/flowcase/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func init() {
	// 集中注册所有输出格式
	render.RegisterDefaults(render.Global())
}

var (
	verbose    = flag.Bool("v", false, "详细输出")
	help       = flag.Bool("h", false, "显示帮助信息")
	configPath = flag.String("config", "", "配置文件路径（默认读取 ./"+config.DefaultFile+"，不存在则忽略）")
	format     = flag.String("format", "", "输出格式（默认 markdown）")
	output     = flag.String("output", "", "输出路径模式（支持模板变量 $FILE, $DIR, $NAME, $EXT）")
	strict     = flag.Bool("strict", true, "严格模式：遇到第一个错误即停止解析")
	addr       = flag.String("addr", ":8080", "serve 命令的监听地址")
)

// app 各子命令共享的运行环境
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = a.logger.Sync() }()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	// 检查是否是子命令
	var code int
	switch args[0] {
	case "gen":
		code = a.runGen(args[1:], false)
	case "check":
		code = a.runGen(args[1:], true)
	case "validate":
		code = a.runValidate(args[1:])
	case "fmt":
		code = a.runFmt(args[1:])
	case "dev":
		code = a.runDev(args[1:])
	case "serve":
		code = a.runServe()
	default:
		// 不是子命令，当作文件参数处理，执行 gen
		code = a.runGen(args, false)
	}
	os.Exit(code)
}

// newApp 加载配置并用命令行参数覆盖
func newApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "output":
			cfg.Output = *output
		case "strict":
			cfg.Strict = *strict
		}
	})
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(prometheus.DefaultRegisterer),
	}, nil
}

func (a *app) runOptions(input string, check bool) pipeline.Options {
	return pipeline.Options{
		Input:    input,
		Config:   a.cfg,
		Check:    check,
		Verbose:  *verbose,
		Registry: render.Global(),
		Logger:   a.logger,
		Metrics:  a.metrics,
	}
}

// runGen 为每个流程图文件生成测试用例；check 为 true 时只比较不写入
func (a *app) runGen(args []string, check bool) int {
	files, err := collectDiagramFiles(args, a.cfg.Extensions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "错误: 没有找到流程图文件")
		return 1
	}

	ctx := context.Background()
	var failed, outdated, total int
	for _, file := range files {
		stats, err := pipeline.Run(ctx, a.runOptions(file, check))
		switch {
		case errors.Is(err, pipeline.ErrOutdated):
			outdated++
			fmt.Print(stats.Diff)
		case err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		default:
			total += stats.TestCases
			if *verbose {
				fmt.Printf("%s -> %s: %d 条路径, %d 个用例 (耗时: %v)\n",
					stats.Input, stats.Output, stats.Paths, stats.TestCases, stats.TotalDuration)
			}
		}
	}

	if check {
		fmt.Printf("检查 %d 个文件, %d 个需要重新生成\n", len(files), outdated)
	} else {
		fmt.Printf("统计: 处理 %d 个文件, 生成 %d 个用例\n", len(files)-failed, total)
	}
	if failed > 0 || outdated > 0 {
		return 1
	}
	return 0
}

// runValidate 宽松解析并打印全部诊断
func (a *app) runValidate(args []string) int {
	files, err := collectDiagramFiles(args, a.cfg.Extensions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	parser := flowchart.NewParser(a.cfg.ParserOptions()...)
	code := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
			code = 1
			continue
		}
		diags := parser.Validate(string(content))
		for _, d := range diags {
			fmt.Printf("%s:%d:%d: %s %s: %s\n", file, d.Line, d.Column, d.Severity, d.Code, d.Message)
		}
		if diags.HasErrors() {
			code = 1
		} else if *verbose {
			fmt.Printf("%s: ok\n", file)
		}
	}
	return code
}

// runFmt 输出规范化的 Mermaid 文本
func (a *app) runFmt(args []string) int {
	files, err := collectDiagramFiles(args, a.cfg.Extensions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	code := 0
	for i, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
			code = 1
			continue
		}
		res, err := flowchart.Parse(string(content), a.cfg.ParserOptions()...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			code = 1
			continue
		}
		if len(files) > 1 {
			fmt.Printf("%s%%%% %s\n", lo.Ternary(i > 0, "\n", ""), file)
		}
		fmt.Print(flowchart.ToMermaid(res.Graph))
	}
	return code
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `flowcase - 从 Mermaid 流程图生成测试用例

用法:
  flowcase [选项] <文件|目录>...
  flowcase [选项] gen <文件|目录>...
  flowcase [选项] check <文件|目录>...
  flowcase [选项] validate <文件|目录>...
  flowcase [选项] fmt <文件|目录>...
  flowcase [选项] dev [目录...]
  flowcase [选项] serve

命令:
  gen       生成测试用例（默认）
  check     比较已生成的文件，不一致时输出 diff 并返回 1
  validate  打印全部诊断信息，存在错误时返回 1
  fmt       输出规范化的流程图文本
  dev       启动开发模式，监听文件变动自动生成
  serve     启动 HTTP API

路径:
  dir       目录下的流程图文件
  dir/...   递归扫描目录及子目录

选项:
`)
	flag.PrintDefaults()

	_, _ = fmt.Fprintf(os.Stderr, `
输出格式:
  %s

模板变量:
  $FILE  - 输入文件路径（输出 Go 文件时为蛇形文件名，不含扩展名）
  $DIR   - 输入文件所在目录
  $NAME  - 不含扩展名的文件名
  $EXT   - 输出格式的扩展名

示例:
  flowcase docs/login.mmd                     生成 docs/login.mmd.md
  flowcase -format json ./flows/...           递归生成 JSON
  flowcase -output '$DIR/$NAME.cases$EXT' gen docs
  flowcase check ./...                        检查生成结果是否最新
  flowcase -strict=false validate docs/login.mmd
  flowcase -v dev ./docs/...                  开发模式，详细输出
  flowcase -addr :9090 serve                  启动 HTTP API
`, strings.Join(render.Global().Names(), ", "))
}
