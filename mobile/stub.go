//go:build !mobile

// Package mobile 在桌面构建中只保留 Dummy，让 go build ./... 不需要 mobile 标签和资源副本。
// 绑定入口见 mobile.go（-tags mobile）。
package mobile

// Dummy 空导出函数，ebitenmobile 要求包至少有一个导出符号
func Dummy() {}
