// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，桌面端和移动端入口启动时调用 Init 注入。
//
// 资源路径统一以 "assets/" 开头。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// AssetsDir 资源根目录
const AssetsDir = "assets"

// ErrNotInitialized Init 尚未调用
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

var (
	assetsFS    fs.FS
	initialized bool
)

// Init 注入根目录的嵌入文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(fsys fs.FS) {
	assetsFS = fsys
	initialized = fsys != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 统一路径分隔符并去掉 "./" 前缀，要求以 assets/ 开头
func normalize(path string) (string, error) {
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if path != AssetsDir && !strings.HasPrefix(path, AssetsDir+"/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s/')", path, AssetsDir)
	}
	return path, nil
}

// ReadFile 读取嵌入文件
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(assetsFS, p)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	if !initialized {
		return false
	}
	p, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(assetsFS, p)
	return err == nil
}

// Assets 返回以 assets/ 为根的子文件系统，资源管理器从这里读取清单和图片
func Assets() (fs.FS, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	return fs.Sub(assetsFS, AssetsDir)
}
