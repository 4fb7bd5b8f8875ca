//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。手动构建：
//
//	# Android
//	cp -r assets mobile/assets && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.farmstead -o build/android/farmstead.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r assets mobile/assets && ebitenmobile bind -target ios -tags mobile -o build/ios/Farmstead.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/farmstead/pkg/app"
	"github.com/decker502/farmstead/pkg/embedded"
)

func init() {
	// 初始化嵌入资源，assetsFS 在 embed.go 中声明
	embedded.Init(assetsFS)

	// 移动端没有命令行参数：读取上次存档，显示加载场景
	cfg := app.Config{
		Verbose: true,
		Seed:    1,
	}

	gameApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
