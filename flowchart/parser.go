package flowchart

import (
	"errors"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Options 解析选项
type Options struct {
	Strict              bool      // 严格模式：第一个错误即终止
	ValidateConnections bool      // 扫描结束后校验连线引用
	AllowUndefinedNodes bool      // 连线中未声明的端点自动创建为默认形状节点
	DefaultDirection    Direction // 声明方向非法且处于宽松模式时使用
	DefaultShape        Shape     // 只有 ID 的节点声明使用的形状
	DefaultNodeStyle    NodeStyle
	DefaultEdgeStyle    EdgeStyle
}

// DefaultOptions 默认解析选项
func DefaultOptions() Options {
	return Options{
		Strict:              true,
		ValidateConnections: true,
		DefaultDirection:    DirectionTD,
		DefaultShape:        ShapeSquare,
	}
}

// Option 解析选项函数
type Option func(*Options)

// WithStrict 设置严格模式
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = strict
	}
}

// WithConnectionValidation 设置是否校验连线引用
func WithConnectionValidation(v bool) Option {
	return func(o *Options) {
		o.ValidateConnections = v
	}
}

// WithUndefinedNodes 允许连线引用未声明的节点
func WithUndefinedNodes(allow bool) Option {
	return func(o *Options) {
		o.AllowUndefinedNodes = allow
	}
}

// WithDefaultDirection 设置默认方向
func WithDefaultDirection(d Direction) Option {
	return func(o *Options) {
		o.DefaultDirection = d
	}
}

// WithDefaultShape 设置默认形状
func WithDefaultShape(s Shape) Option {
	return func(o *Options) {
		o.DefaultShape = s
	}
}

// WithDefaultNodeStyle 设置节点基础样式
func WithDefaultNodeStyle(s NodeStyle) Option {
	return func(o *Options) {
		o.DefaultNodeStyle = s
	}
}

// WithDefaultEdgeStyle 设置连线基础样式
func WithDefaultEdgeStyle(s EdgeStyle) Option {
	return func(o *Options) {
		o.DefaultEdgeStyle = s
	}
}

// Result 解析结果
// 严格模式失败时 Graph 为失败前已组装的部分图
type Result struct {
	Graph       *Graph      `json:"graph"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

var (
	commentRegex = regexp.MustCompile(`%%.+$`)
	headerRegex  = regexp.MustCompile(`(?i)^(?:flowchart|graph)\s+([A-Z]{2})`)
)

// Parser 流程图解析器
// 每次 Parse 使用独立的状态，可并发使用
type Parser struct {
	opts Options
}

// NewParser 创建解析器
func NewParser(opts ...Option) *Parser {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o}
}

// Options 返回解析器选项
func (p *Parser) Options() Options {
	return p.opts
}

// Parse 使用给定选项解析流程图文本
func Parse(content string, opts ...Option) (*Result, error) {
	return NewParser(opts...).Parse(content)
}

// errAbort 严格模式下终止扫描
var errAbort = errors.New("abort")

// parseState 单次解析的可变状态
type parseState struct {
	opts        Options
	nodes       *orderedmap.OrderedMap[string, Node]
	edges       []Edge
	direction   Direction
	headerFound bool
	diagnostics Diagnostics
	fatal       *Diagnostic
}

func newParseState(opts Options) *parseState {
	return &parseState{
		opts:      opts,
		nodes:     orderedmap.New[string, Node](),
		direction: opts.DefaultDirection,
	}
}

// report 记录诊断；严格模式下遇到错误返回 errAbort
func (s *parseState) report(d *Diagnostic) error {
	s.diagnostics = append(s.diagnostics, d)
	if s.opts.Strict && d.IsError() {
		s.fatal = d
		return errAbort
	}
	return nil
}

// Parse 解析流程图文本
// 严格模式下返回第一个错误诊断；宽松模式下 error 恒为 nil，诊断随结果返回
func (p *Parser) Parse(content string) (*Result, error) {
	s := newParseState(p.opts)
	err := s.run(content)
	res := &Result{Graph: s.graph(), Diagnostics: s.diagnostics}
	if errors.Is(err, errAbort) {
		return res, s.fatal
	}
	return res, nil
}

// Validate 以宽松模式解析并返回完整的诊断列表
func (p *Parser) Validate(content string) Diagnostics {
	opts := p.opts
	opts.Strict = false
	s := newParseState(opts)
	_ = s.run(content) // 非严格模式下 run 不会中止，错误都已记录在 diagnostics 中
	return s.diagnostics
}

func (s *parseState) run(content string) error {
	if err := validateNodeStyle(s.opts.DefaultNodeStyle); err != nil {
		if e := s.report(err.(*Diagnostic)); e != nil {
			return e
		}
	}
	if err := validateEdgeStyle(s.opts.DefaultEdgeStyle); err != nil {
		if e := s.report(err.(*Diagnostic)); e != nil {
			return e
		}
	}

	for i, raw := range strings.Split(content, "\n") {
		lineNo := i + 1
		line, column := preprocessLine(raw)
		if line == "" {
			continue
		}

		var d *Diagnostic
		switch {
		case !s.headerFound:
			// 声明之前的行直接跳过
			if !headerRegex.MatchString(line) {
				continue
			}
			d = s.parseHeader(line, lineNo, column)
		default:
			if m, err := MatchEdge(line, lineNo, column); err == nil {
				s.addEdge(m, lineNo)
				continue
			}
			d = s.parseNodeLine(line, lineNo, column)
		}

		if d != nil {
			if err := s.report(d); err != nil {
				return err
			}
		}
	}

	if !s.headerFound {
		return s.report(newError(1, 1, CodeInvalidSyntax, "Flowchart definition not found"))
	}

	if s.opts.ValidateConnections {
		if err := s.validate(); err != nil {
			return err
		}
	}
	return nil
}

// preprocessLine 去掉 %% 注释和首尾空白，返回内容及其起始列（从 1 开始）
func preprocessLine(raw string) (string, int) {
	withoutComment := commentRegex.ReplaceAllString(raw, "")
	trimmed := strings.TrimSpace(withoutComment)
	if trimmed == "" {
		return "", 0
	}
	return trimmed, strings.Index(withoutComment, trimmed) + 1
}

func (s *parseState) parseHeader(line string, lineNo, column int) *Diagnostic {
	m := headerRegex.FindStringSubmatchIndex(line)
	dir := strings.ToUpper(line[m[2]:m[3]])

	// 无论方向是否合法，声明都视为已找到，宽松模式下继续解析
	s.headerFound = true
	d, err := ValidateDirection(dir, lineNo, column+m[2])
	if err != nil {
		return err.(*Diagnostic)
	}
	s.direction = d
	return nil
}

func (s *parseState) parseNodeLine(line string, lineNo, column int) *Diagnostic {
	id := nodeIDRegex.FindString(line)
	if id == "" {
		return newError(lineNo, column, CodeInvalidSyntax, "Invalid node definition: missing ID")
	}

	rest := strings.TrimSpace(line[len(id):])
	if rest == "" {
		// 只有 ID 的行不覆盖已有声明
		if !s.declared(id) {
			s.upsert(NewNode(id, s.opts.DefaultShape, id, s.opts.DefaultNodeStyle))
		}
		return nil
	}

	sm, err := MatchShape(rest, lineNo, column+len(id))
	if err != nil {
		return err.(*Diagnostic)
	}
	s.upsert(NewNode(id, sm.Shape, sm.Label, s.opts.DefaultNodeStyle))
	return nil
}

func (s *parseState) addEdge(m *EdgeMatch, lineNo int) {
	for _, ep := range []Endpoint{m.From, m.To} {
		switch {
		case ep.Node != nil:
			s.upsert(NewNode(ep.ID, ep.Node.Shape, ep.Node.Label, s.opts.DefaultNodeStyle))
		case s.opts.AllowUndefinedNodes && !s.declared(ep.ID):
			s.upsert(NewNode(ep.ID, s.opts.DefaultShape, ep.ID, s.opts.DefaultNodeStyle))
		}
	}

	s.edges = append(s.edges, Edge{
		From:     m.From.ID,
		To:       m.To.ID,
		Label:    m.Label,
		LineType: m.LineType,
		Style:    EdgeStyleFor(m.Label, s.opts.DefaultEdgeStyle),
		Line:     lineNo,
	})
}

// upsert 新增或覆盖节点，覆盖时保留原有位置
func (s *parseState) upsert(n Node) {
	s.nodes.Set(n.ID, n)
}

func (s *parseState) declared(id string) bool {
	_, ok := s.nodes.Get(id)
	return ok
}

func (s *parseState) validate() error {
	for _, d := range ValidateReferences(s.nodeList(), s.edges) {
		if err := s.report(d); err != nil {
			return err
		}
	}

	var hasStart, hasEnd bool
	for pair := s.nodes.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.Type {
		case NodeTypeStart:
			hasStart = true
		case NodeTypeEnd:
			hasEnd = true
		}
	}
	if !hasStart {
		_ = s.report(newWarning(0, 0, CodeInvalidSyntax, "Flowchart must have a start node"))
	}
	if !hasEnd {
		_ = s.report(newWarning(0, 0, CodeInvalidSyntax, "Flowchart must have an end node"))
	}
	return nil
}

func (s *parseState) nodeList() []Node {
	nodes := make([]Node, 0, s.nodes.Len())
	for pair := s.nodes.Oldest(); pair != nil; pair = pair.Next() {
		nodes = append(nodes, pair.Value)
	}
	return nodes
}

func (s *parseState) graph() *Graph {
	nodes := s.nodeList()
	counts := make(map[NodeType]int)
	for _, n := range nodes {
		counts[n.Type]++
	}
	edges := make([]Edge, len(s.edges))
	copy(edges, s.edges)
	return &Graph{
		Nodes:     nodes,
		Edges:     edges,
		Direction: s.direction,
		Meta: Meta{
			Type:      "flowchart",
			NodeTypes: counts,
		},
	}
}
