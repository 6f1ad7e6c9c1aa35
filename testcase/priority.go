package testcase

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// PriorityRules 优先级 -> 触发关键字
type PriorityRules map[Priority][]string

// DefaultPriorityRules 默认关键字表（英文与日文）
func DefaultPriorityRules() PriorityRules {
	return PriorityRules{
		PriorityCritical: {"auth", "login", "security", "database", "payment", "認証", "ログイン", "セキュリティ", "データベース", "決済"},
		PriorityHigh:     {"register", "update", "delete", "upload", "登録", "更新", "削除", "アップロード"},
		PriorityMedium:   {"display", "search", "list", "表示", "検索", "一覧"},
		PriorityLow:      {"settings", "help", "notification", "設定", "ヘルプ", "通知"},
	}
}

// Validate 检查级别名称
func (r PriorityRules) Validate() error {
	for p := range r {
		if !p.IsValid() {
			return fmt.Errorf("unknown priority %q", p)
		}
	}
	return nil
}

// Match 返回标签命中的最高级别
func (r PriorityRules) Match(label string) (Priority, bool) {
	lower := strings.ToLower(label)
	for _, p := range Priorities {
		hit := lo.SomeBy(r[p], func(keyword string) bool {
			return keyword != "" && strings.Contains(lower, strings.ToLower(keyword))
		})
		if hit {
			return p, true
		}
	}
	return "", false
}

// Resolve 按路径顺序逐个检查节点标签，第一个命中的标签决定级别；都未命中为 Medium
func (r PriorityRules) Resolve(labels []string) Priority {
	for _, label := range labels {
		if p, ok := r.Match(label); ok {
			return p
		}
	}
	return PriorityMedium
}
