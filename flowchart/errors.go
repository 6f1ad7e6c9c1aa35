package flowchart

import (
	"fmt"
	"strings"
)

// Code 诊断代码
type Code string

const (
	CodeInvalidSyntax    Code = "E001" // 无法解析的行或缺少流程图声明
	CodeUndefinedNode    Code = "E002" // 连线引用了未声明的节点
	CodeInvalidEdge      Code = "E003" // 非法连线类型
	CodeInvalidShape     Code = "E004" // 非法节点形状
	CodeInvalidStyle     Code = "E005" // 非法颜色值
	CodeInvalidDirection Code = "E006" // 非法方向
)

// Severity 诊断级别
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText 以字符串形式输出级别
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic 解析诊断信息，同时实现 error 接口
type Diagnostic struct {
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func newError(line, column int, code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Line:     line,
		Column:   column,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

func newWarning(line, column int, code Code, message string) *Diagnostic {
	return &Diagnostic{
		Line:     line,
		Column:   column,
		Code:     code,
		Message:  message,
		Severity: SeverityWarning,
	}
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s %s: %s at line %d, column %d",
		strings.ToUpper(d.Severity.String()), d.Code, d.Message, d.Line, d.Column)
}

// IsError 是否为错误级别
func (d *Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Diagnostics 诊断列表
type Diagnostics []*Diagnostic

// HasErrors 是否包含错误级别的诊断
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors 返回错误级别的诊断
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings 返回警告级别的诊断
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// FirstError 返回第一个错误级别的诊断，没有则返回 nil
func (ds Diagnostics) FirstError() *Diagnostic {
	for _, d := range ds {
		if d.IsError() {
			return d
		}
	}
	return nil
}

func (ds Diagnostics) String() string {
	lines := make([]string, 0, len(ds))
	for _, d := range ds {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}
