//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// PrepareStorage 在 gdata 初始化前创建各对象（saves、settings）的目录并确认可写
//
// gdata 在 Android 上使用 /data/data/{package}/ 作为根目录，但不会预先创建子目录。
func PrepareStorage(objects ...string) error {
	root := StorageRoot()
	if root == "" {
		return fmt.Errorf("failed to detect android package name")
	}
	for _, obj := range objects {
		dir := filepath.Join(root, obj)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
		marker := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(marker, []byte("ok"), 0o644); err != nil {
			return fmt.Errorf("storage dir %s is not writable: %w", dir, err)
		}
		os.Remove(marker)
	}
	return nil
}

// StorageRoot 返回 /data/data/{package}，包名读取失败时返回空串
func StorageRoot() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	// cmdline 以 NUL 分隔，第一段就是包名
	name, _, _ := bytes.Cut(data, []byte{0})
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return ""
	}
	return filepath.Join("/data/data", string(name))
}
