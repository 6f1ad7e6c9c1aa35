package pipeline

import (
	"os"
	"path/filepath"
)

//go:generate mockgen -source=sink.go -destination=sink_mock_test.go -package=pipeline

// Sink 流程图输入与生成结果的读写
type Sink interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// FileSink 基于本地文件系统的 Sink
type FileSink struct{}

func (FileSink) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile 写入文件，必要时创建目录
func (FileSink) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
