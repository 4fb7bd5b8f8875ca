//go:build !android

package utils

// PrepareStorage 桌面平台由 gdata 自动创建对象目录，这里什么都不做
func PrepareStorage(objects ...string) error {
	return nil
}

// StorageRoot 桌面平台的存储根目录由 gdata 决定，返回空串
func StorageRoot() string {
	return ""
}
