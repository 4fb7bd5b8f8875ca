// Package logging 提供全局日志器和按组件划分的子日志器
//
// 所有系统通过 For("FarmingSystem") 获取带前缀的日志器，
// 输出格式与旧版 "[FarmingSystem] ..." 日志保持一致。
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.RWMutex
	root = newRoot(os.Stderr, log.InfoLevel)
)

func newRoot(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "farmstead",
		Level:           level,
	})
}

// Setup 重新配置全局日志器
//
// 参数：
//   - w: 输出目标，nil 表示 os.Stderr
//   - verbose: true 时启用 Debug 级别
func Setup(w io.Writer, verbose bool) {
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	mu.Lock()
	root = newRoot(w, level)
	mu.Unlock()
}

// Discard 丢弃所有日志输出（测试和静默模式使用）
func Discard() {
	mu.Lock()
	root = newRoot(io.Discard, log.FatalLevel)
	mu.Unlock()
}

// Root 返回全局日志器
func Root() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// For 返回带组件前缀的子日志器
func For(component string) *log.Logger {
	return Root().WithPrefix(component)
}
