// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 当前帧的鼠标状态
type PointerState struct {
	// 左键是否刚刚按下
	JustPressed bool
	// 右键是否刚刚按下
	JustPressedAlt bool
	X, Y           int
}

// GetPointerState 获取当前帧的鼠标状态
func GetPointerState() PointerState {
	x, y := ebiten.CursorPosition()
	return PointerState{
		JustPressed:    inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustPressedAlt: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		X:              x,
		Y:              y,
	}
}
