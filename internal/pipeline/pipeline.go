package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/internal/config"
	"github.com/donutnomad/flowcase/internal/logging"
	"github.com/donutnomad/flowcase/internal/metrics"
	"github.com/donutnomad/flowcase/internal/utils"
	"github.com/donutnomad/flowcase/render"
	"github.com/donutnomad/flowcase/testcase"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

var (
	// ErrOutdated 检查模式下生成结果与已有文件不一致
	ErrOutdated = errors.New("generated output is outdated")
	// ErrUnsupportedExtension 输入文件扩展名不在允许列表中
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)

// Options 单个文件的处理选项
type Options struct {
	Input    string         // 流程图文件路径
	Config   *config.Config // nil 时使用默认配置
	Format   string         // 覆盖配置中的输出格式
	Output   string         // 覆盖配置中的输出路径模式
	Check    bool           // 只比较，不写入
	Verbose  bool
	Sink     Sink
	Registry *render.Registry
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// RunStats 运行统计信息
type RunStats struct {
	Input       string
	Output      string
	Format      string
	Nodes       int
	Edges       int
	Paths       int
	TestCases   int
	Diagnostics flowchart.Diagnostics
	Diff        string // 检查模式下的 unified diff

	BuildDuration  time.Duration // 解析与用例生成耗时
	RenderDuration time.Duration // 渲染耗时
	TotalDuration  time.Duration // 总耗时
}

// Build 一次内存中的解析与生成结果
type Build struct {
	Parse    *flowchart.Result
	Paths    []testcase.Path
	Document *render.Document
}

// Generate 解析流程图并生成用例文档，不涉及文件读写
// 严格模式下解析失败时返回的 Build 仍包含诊断
func Generate(source string, content []byte, cfg *config.Config, m *metrics.Metrics) (*Build, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	res, err := flowchart.NewParser(cfg.ParserOptions()...).Parse(string(content))
	m.ObserveParse(res, err)
	b := &Build{Parse: res}
	if err != nil {
		return b, err
	}

	gen := testcase.NewGenerator(cfg.GeneratorOptions()...)
	b.Paths = gen.Paths(res.Graph)
	cases := gen.FromPaths(res.Graph, b.Paths)
	m.ObserveCases(len(b.Paths), cases)

	doc := render.NewDocument(source, content, res.Graph, cases)
	doc.Header = cfg.FileHeader
	doc.Separator = cfg.Separator
	doc.Package = cfg.GoPackage
	b.Document = doc
	return b, nil
}

// Run 处理单个流程图文件：读取、解析、生成、渲染，然后写入或比较
func Run(ctx context.Context, opts Options) (*RunStats, error) {
	totalStart := time.Now()

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	sink := opts.Sink
	if sink == nil {
		sink = FileSink{}
	}
	registry := opts.Registry
	if registry == nil {
		registry = render.NewRegistry()
		render.RegisterDefaults(registry)
	}
	logger := logging.OrNop(opts.Logger).With(zap.String("file", opts.Input))

	format := cfg.Format
	if opts.Format != "" {
		format = opts.Format
	}
	pattern := cfg.Output
	if opts.Output != "" {
		pattern = opts.Output
	}

	stats := &RunStats{Input: opts.Input, Format: format}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if !HasExtension(opts.Input, cfg.Extensions) {
		return stats, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedExtension,
			opts.Input, strings.Join(cfg.Extensions, ", "))
	}
	renderer, err := registry.Lookup(format)
	if err != nil {
		return stats, err
	}

	content, err := sink.ReadFile(opts.Input)
	if err != nil {
		return stats, fmt.Errorf("read %s: %w", opts.Input, err)
	}

	buildStart := time.Now()
	b, err := Generate(opts.Input, content, cfg, opts.Metrics)
	stats.BuildDuration = time.Since(buildStart)
	if b.Parse != nil {
		stats.Diagnostics = b.Parse.Diagnostics
		for _, w := range b.Parse.Diagnostics.Warnings() {
			logger.Warn(w.Message, zap.String("code", string(w.Code)))
		}
	}
	if err != nil {
		return stats, fmt.Errorf("parse %s: %w", opts.Input, err)
	}
	if opts.Verbose {
		logger.Debug("parsed flowchart", zap.String("meta", spew.Sdump(b.Parse.Graph.Meta)))
	}

	stats.Nodes = len(b.Parse.Graph.Nodes)
	stats.Edges = len(b.Parse.Graph.Edges)
	stats.Paths = len(b.Paths)
	stats.TestCases = len(b.Document.TestCases)

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	renderStart := time.Now()
	out, err := renderer.Render(b.Document)
	if err != nil {
		return stats, fmt.Errorf("render %s: %w", format, err)
	}
	stats.RenderDuration = time.Since(renderStart)
	stats.Output = OutputPath(pattern, opts.Input, renderer.Extension())

	if opts.Check {
		err = check(sink, stats, out)
	} else if err = sink.WriteFile(stats.Output, out); err != nil {
		err = fmt.Errorf("write %s: %w", stats.Output, err)
	}
	stats.TotalDuration = time.Since(totalStart)
	if err != nil {
		return stats, err
	}

	logger.Info("generated test cases",
		zap.String("output", stats.Output),
		zap.Int("paths", stats.Paths),
		zap.Int("testCases", stats.TestCases),
		zap.Duration("duration", stats.TotalDuration),
	)
	return stats, nil
}

// check 比较已有文件与生成结果，不一致时记录 diff 并返回 ErrOutdated
func check(sink Sink, stats *RunStats, generated []byte) error {
	existing, err := sink.ReadFile(stats.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", stats.Output, err)
	}
	if err == nil && bytes.Equal(existing, generated) {
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(generated)),
		FromFile: stats.Output,
		ToFile:   stats.Output + " (generated)",
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("diff %s: %w", stats.Output, err)
	}
	stats.Diff = diff
	return fmt.Errorf("%w: %s", ErrOutdated, stats.Output)
}

// HasExtension 文件扩展名是否在允许列表中，忽略大小写
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && slices.ContainsFunc(extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// OutputPath 展开输出路径中的变量
//
//	$FILE 输入文件完整路径
//	$DIR  输入文件所在目录
//	$NAME 不含扩展名的文件名
//	$EXT  输出格式的扩展名
//
// Go 文件输出时 $FILE 和 $NAME 使用蛇形文件名，并去掉流程图扩展名
func OutputPath(pattern, input, ext string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	file := input
	if strings.HasSuffix(ext, ".go") {
		name = utils.ToFileName(name)
		file = filepath.Join(dir, name)
	}

	return strings.NewReplacer(
		"$FILE", file,
		"$DIR", dir,
		"$NAME", name,
		"$EXT", ext,
	).Replace(pattern)
}
