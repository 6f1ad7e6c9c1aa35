package render

import (
	"fmt"
	"sort"
	"sync"
)

// Renderer 输出格式
type Renderer interface {
	// Name 格式名，如 markdown
	Name() string
	// Extension 输出文件后缀，如 .md
	Extension() string
	// Render 渲染文档
	Render(doc *Document) ([]byte, error)
}

// Registry 输出格式注册表，格式名唯一
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register 注册输出格式，重名时返回错误
func (r *Registry) Register(renderer Renderer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := renderer.Name()
	if _, ok := r.renderers[name]; ok {
		return fmt.Errorf("renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister 注册输出格式，失败时 panic
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Unregister 取消注册
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.renderers[name]; !ok {
		return fmt.Errorf("renderer %q not registered", name)
	}
	delete(r.renderers, name)
	return nil
}

// Get 按名称查找
func (r *Registry) Get(name string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	return renderer, ok
}

// Lookup 按名称查找，未注册时返回带可选列表的错误
func (r *Registry) Lookup(name string) (Renderer, error) {
	if renderer, ok := r.Get(name); ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("unknown format %q (available: %v)", name, r.Names())
}

// Names 已注册的格式名（排序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterDefaults 注册内置的全部格式
func RegisterDefaults(r *Registry) {
	r.MustRegister(NewMarkdownRenderer())
	r.MustRegister(NewJSONRenderer())
	r.MustRegister(NewTextRenderer())
	r.MustRegister(NewMermaidRenderer())
	r.MustRegister(NewGoTestRenderer())
}

// 全局注册表
var globalRegistry = NewRegistry()

// Global 返回全局注册表
func Global() *Registry {
	return globalRegistry
}

// MustRegister 向全局注册表注册，失败时 panic
func MustRegister(renderer Renderer) {
	globalRegistry.MustRegister(renderer)
}
