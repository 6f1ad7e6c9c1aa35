package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/testcase"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile 工作目录下的默认配置文件
	DefaultFile = ".flowcase.yaml"
	// DefaultEnvFile 默认 .env 文件
	DefaultEnvFile = ".env"
	// EnvPrefix 环境变量前缀，如 FLOWCASE_ID_PREFIX
	EnvPrefix = "FLOWCASE_"
)

// Config flowcase 运行配置
type Config struct {
	IDPrefix            string              `yaml:"id_prefix" validate:"required,max=32"`
	Format              string              `yaml:"format" validate:"required,oneof=markdown json text mermaid gotest"`
	Output              string              `yaml:"output" validate:"required"`
	Strict              bool                `yaml:"strict"`
	ValidateConnections bool                `yaml:"validate_connections"`
	AllowUndefinedNodes bool                `yaml:"allow_undefined_nodes"`
	VisitBound          int                 `yaml:"visit_bound" validate:"min=1,max=10"`
	FileHeader          string              `yaml:"file_header"`
	Separator           string              `yaml:"separator"`
	GoPackage           string              `yaml:"go_package" validate:"required"`
	Extensions          []string            `yaml:"extensions" validate:"min=1,dive,startswith=."`
	PriorityRules       map[string][]string `yaml:"priority_rules" validate:"dive,keys,oneof=Critical High Medium Low,endkeys"`
	LogLevel            string              `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat           string              `yaml:"log_format" validate:"oneof=console json"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		IDPrefix:            testcase.DefaultIDPrefix,
		Format:              "markdown",
		Output:              "$FILE$EXT",
		Strict:              true,
		ValidateConnections: true,
		VisitBound:          testcase.DefaultVisitBound,
		FileHeader:          "# Test Cases\n\nThis document is generated automatically.",
		Separator:           "---",
		GoPackage:           "flowcases",
		Extensions:          []string{".mmd", ".mermaid"},
		LogLevel:            "info",
		LogFormat:           "console",
	}
}

// Load 依次应用：默认值 -> 配置文件 -> .env -> FLOWCASE_* 环境变量，最后校验
// path 为空时尝试读取工作目录下的 .flowcase.yaml，不存在则跳过
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return c.ApplyYAML(data)
}

// ApplyYAML 把 YAML 文本中出现的键覆盖到配置上
func (c *Config) ApplyYAML(data []byte) error {
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return c.apply(values)
}

// envKeys 可以通过环境变量覆盖的键
var envKeys = []string{
	"id_prefix", "format", "output", "strict", "validate_connections", "allow_undefined_nodes",
	"visit_bound", "file_header", "separator", "go_package", "extensions", "log_level", "log_format",
}

// ApplyEnv 应用 FLOWCASE_* 环境变量
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	values := map[string]any{}
	for _, key := range envKeys {
		if v, ok := lookup(EnvPrefix + strings.ToUpper(key)); ok {
			values[key] = v
		}
	}
	return c.apply(values)
}

func (c *Config) apply(values map[string]any) error {
	// 按键排序，错误信息稳定
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := c.set(key, values[key]); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) set(key string, v any) error {
	var err error
	switch key {
	case "id_prefix":
		c.IDPrefix, err = cast.ToStringE(v)
	case "format":
		c.Format, err = cast.ToStringE(v)
	case "output":
		c.Output, err = cast.ToStringE(v)
	case "strict":
		c.Strict, err = cast.ToBoolE(v)
	case "validate_connections":
		c.ValidateConnections, err = cast.ToBoolE(v)
	case "allow_undefined_nodes":
		c.AllowUndefinedNodes, err = cast.ToBoolE(v)
	case "visit_bound":
		c.VisitBound, err = cast.ToIntE(v)
	case "file_header":
		c.FileHeader, err = cast.ToStringE(v)
	case "separator":
		c.Separator, err = cast.ToStringE(v)
	case "go_package":
		c.GoPackage, err = cast.ToStringE(v)
	case "extensions":
		c.Extensions, err = toStringList(v)
	case "priority_rules":
		c.PriorityRules, err = toRules(v)
	case "log_level":
		c.LogLevel, err = cast.ToStringE(v)
	case "log_format":
		c.LogFormat, err = cast.ToStringE(v)
	default:
		return errors.New("unknown key")
	}
	return err
}

// toStringList 列表或逗号分隔的字符串
func toStringList(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	return cast.ToStringSliceE(v)
}

func toRules(v any) (map[string][]string, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, err
	}
	rules := make(map[string][]string, len(m))
	for tier, keywords := range m {
		list, err := toStringList(keywords)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tier, err)
		}
		rules[tier] = list
	}
	return rules, nil
}

var validate = validator.New()

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParserOptions 转换为解析选项
func (c *Config) ParserOptions() []flowchart.Option {
	return []flowchart.Option{
		flowchart.WithStrict(c.Strict),
		flowchart.WithConnectionValidation(c.ValidateConnections),
		flowchart.WithUndefinedNodes(c.AllowUndefinedNodes),
	}
}

// Rules 优先级关键字表：配置中出现的级别替换默认关键字，其余沿用默认
func (c *Config) Rules() testcase.PriorityRules {
	rules := testcase.DefaultPriorityRules()
	for tier, keywords := range c.PriorityRules {
		rules[testcase.Priority(tier)] = keywords
	}
	return rules
}

// GeneratorOptions 转换为用例生成选项
func (c *Config) GeneratorOptions() []testcase.Option {
	return []testcase.Option{
		testcase.WithIDPrefix(c.IDPrefix),
		testcase.WithVisitBound(c.VisitBound),
		testcase.WithPriorityRules(c.Rules()),
	}
}
