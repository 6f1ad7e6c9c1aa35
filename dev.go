package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/donutnomad/flowcase/internal/pipeline"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// defaultDebounce 最后一次变动之后等待多久再生成
const defaultDebounce = 500 * time.Millisecond

// watcher 监听流程图文件变动，防抖后批量重新生成
type watcher struct {
	app       *app
	fsw       *fsnotify.Watcher
	debounce  time.Duration
	recursive bool
	pending   map[string]struct{} // 等待生成的文件
}

// runDev 启动开发模式
func (a *app) runDev(args []string) int {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.dev(ctx, patterns); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) dev(ctx context.Context, patterns []string) error {
	dirs, err := collectWatchDirs(patterns)
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}
	if len(dirs) == 0 {
		return fmt.Errorf("没有找到需要监听的目录")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer fsw.Close()

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("添加监听目录失败 %s: %w", dir, err)
		}
		a.logger.Debug("watching", zap.String("dir", dir))
	}

	w := newWatcher(a, fsw, lo.SomeBy(patterns, func(p string) bool {
		return strings.HasSuffix(p, "/...")
	}))

	fmt.Printf("开发模式已启动，监听 %d 个目录\n", len(dirs))
	fmt.Println("按 Ctrl+C 退出")
	return w.loop(ctx)
}

func newWatcher(a *app, fsw *fsnotify.Watcher, recursive bool) *watcher {
	return &watcher{
		app:       a,
		fsw:       fsw,
		debounce:  defaultDebounce,
		recursive: recursive,
		pending:   make(map[string]struct{}),
	}
}

func (w *watcher) loop(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n正在退出...")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.accept(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.app.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// accept 记录需要生成的文件，返回是否需要重置防抖计时
// 递归模式下新建的目录会加入监听
func (w *watcher) accept(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	if event.Has(fsnotify.Create) && w.recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
			if err := w.fsw.Add(event.Name); err != nil {
				w.app.logger.Warn("watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return false
		}
	}

	if !pipeline.HasExtension(event.Name, w.app.cfg.Extensions) || isGeneratedFile(event.Name, w.app.cfg.Extensions) {
		return false
	}
	w.app.logger.Debug("file changed", zap.String("file", event.Name))
	w.pending[event.Name] = struct{}{}
	return true
}

// flush 按文件名顺序重新生成所有待处理文件
func (w *watcher) flush(ctx context.Context) {
	files := lo.Keys(w.pending)
	slices.Sort(files)
	clear(w.pending)

	for _, file := range files {
		stats, err := pipeline.Run(ctx, w.app.runOptions(file, false))
		if err != nil {
			fmt.Printf("生成失败: %v\n", err)
			continue
		}
		fmt.Printf("生成完成: %s -> %s, %d 个用例 (耗时: %v)\n",
			stats.Input, stats.Output, stats.TestCases, stats.TotalDuration)
	}
}

// isGeneratedFile 形如 login.mmd.mmd 的生成文件
func isGeneratedFile(path string, extensions []string) bool {
	return pipeline.HasExtension(strings.TrimSuffix(path, filepath.Ext(path)), extensions)
}
