package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// initialisms 文件名中按一个单词处理的缩写
var initialisms = []string{
	"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
	"ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP",
	"SSH", "TLS", "TTL", "UID", "UI", "UUID", "URI", "URL", "UTF8", "VM",
	"XML", "XSRF", "XSS",
}

// initialismReplacer HTTP -> Http
var initialismReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(initialisms)*2)
	for _, w := range initialisms {
		pairs = append(pairs, w, w[:1]+strings.ToLower(w[1:]))
	}
	return strings.NewReplacer(pairs...)
}()

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ToSnakeCase 驼峰转蛇形，连续大写视为一个单词
//
//	"UserSignup"  -> "user_signup"
//	"HTTPRequest" -> "http_request"
//
// 只处理 ASCII，ToFileName 用它生成 Go 测试文件名
func ToSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	value := initialismReplacer.Replace(name)
	last := len(value) - 1

	var buf strings.Builder
	buf.Grow(len(value) + 4)
	prevUpper, curUpper := false, isUpper(value[0])
	for i := 0; i < last; i++ {
		c, next := value[i], value[i+1]
		nextUpper := isUpper(next)

		switch {
		case !curUpper:
			buf.WriteByte(c)
		case prevUpper && (nextUpper || isDigit(next)):
			// 缩写中间的字母
			buf.WriteByte(c + 'a' - 'A')
		default:
			if i > 0 && value[i-1] != '_' && next != '_' {
				buf.WriteByte('_')
			}
			buf.WriteByte(c + 'a' - 'A')
		}
		prevUpper, curUpper = curUpper, nextUpper
	}

	if curUpper {
		if !prevUpper && last > 0 {
			buf.WriteByte('_')
		}
		buf.WriteByte(value[last] + 'a' - 'A')
	} else {
		buf.WriteByte(value[last])
	}
	return buf.String()
}

// ToPascalIdent 把任意文本转换为合法的 Go 导出标识符
// 非字母数字字符作为分隔符，每段首字母大写，以数字开头时加前缀 X
//
//	"FLOW-001"            -> "Flow001"
//	"Start to End flow"   -> "StartToEndFlow"
//	"ログイン to 完了"      -> "ログインTo完了"
func ToPascalIdent(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var buf strings.Builder
	for _, w := range words {
		// 全大写的片段视为缩写，按首字母大写处理
		if strings.ToUpper(w) == w {
			w = strings.ToLower(w)
		}
		r, size := utf8.DecodeRuneInString(w)
		buf.WriteRune(unicode.ToUpper(r))
		buf.WriteString(w[size:])
	}

	out := buf.String()
	if out == "" {
		return "X"
	}
	if r, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(r) {
		return "X" + out
	}
	return out
}

// ToFileName 把文本转换为蛇形文件名；含非 ASCII 字符时只转小写
func ToFileName(text string) string {
	ident := ToPascalIdent(text)
	for _, r := range ident {
		if r >= utf8.RuneSelf {
			return strings.ToLower(ident)
		}
	}
	return ToSnakeCase(ident)
}
