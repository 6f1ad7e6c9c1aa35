package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/donutnomad/flowcase/internal/pipeline"
)

// splitPattern 拆分 dir/... 形式的参数
func splitPattern(pattern string) (base string, recursive bool) {
	base, recursive = strings.CutSuffix(pattern, "/...")
	if base == "" {
		base = "."
	}
	return base, recursive
}

// skipDir 跳过隐藏目录、vendor 和 testdata
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata"
}

// walkDirs 依次回调 base 本身及（递归时）其下需要处理的子目录
func walkDirs(base string, recursive bool, fn func(dir string) error) error {
	if !recursive {
		return fn(base)
	}
	return filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !d.IsDir():
			return nil
		case path != base && skipDir(d.Name()):
			return filepath.SkipDir
		}
		return fn(path)
	})
}

// collectDiagramFiles 展开参数为流程图文件列表
// 文件原样保留；目录取其中匹配扩展名的文件
func collectDiagramFiles(args []string, extensions []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		base, recursive := splitPattern(arg)
		info, err := os.Stat(base)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, base)
			continue
		}

		err = walkDirs(base, recursive, func(dir string) error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if !e.IsDir() && pipeline.HasExtension(e.Name(), extensions) {
					files = append(files, filepath.Join(dir, e.Name()))
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// collectWatchDirs 收集需要监听的目录（绝对路径），忽略文件参数
func collectWatchDirs(patterns []string) ([]string, error) {
	var dirs []string
	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		err = walkDirs(abs, recursive, func(dir string) error {
			dirs = append(dirs, dir)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}
