//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设为 1 时桌面端按移动端行为运行（本地调试触屏布局）
const MobileEmulateEnv = "FARMSTEAD_MOBILE_EMULATE"

// IsMobile 桌面端编译时默认返回 false
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
