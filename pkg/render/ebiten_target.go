package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// SpriteSource 按 ID 提供精灵图像，未知 ID 也必须返回可绘制的图像
type SpriteSource interface {
	SpriteImage(id string) *ebiten.Image
}

// EbitenTarget 绘制到 ebiten 图像上，坐标减去摄像机偏移
type EbitenTarget struct {
	screen  *ebiten.Image
	sprites SpriteSource
	CameraX float64
	CameraY float64
}

// NewEbitenTarget 创建 ebiten 渲染目标
func NewEbitenTarget(sprites SpriteSource) *EbitenTarget {
	return &EbitenTarget{sprites: sprites}
}

// Begin 设置本帧的目标图像
func (t *EbitenTarget) Begin(screen *ebiten.Image) {
	t.screen = screen
}

func (t *EbitenTarget) Clear(c color.Color) {
	if t.screen == nil {
		return
	}
	t.screen.Fill(c)
}

func (t *EbitenTarget) DrawSprite(id string, x, y, alpha float64) {
	if t.screen == nil || t.sprites == nil {
		return
	}
	img := t.sprites.SpriteImage(id)
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x-t.CameraX, y-t.CameraY)
	if alpha > 0 && alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(alpha))
	}
	t.screen.DrawImage(img, op)
}

func (t *EbitenTarget) DrawRect(x, y, w, h float64, c color.Color, filled bool) {
	if t.screen == nil {
		return
	}
	sx, sy := float32(x-t.CameraX), float32(y-t.CameraY)
	if filled {
		vector.DrawFilledRect(t.screen, sx, sy, float32(w), float32(h), c, false)
		return
	}
	vector.StrokeRect(t.screen, sx, sy, float32(w), float32(h), 1, c, false)
}

// DrawText 使用调试字体绘制文字（屏幕坐标，不受摄像机影响）
// 调试字体颜色固定，忽略 c
func (t *EbitenTarget) DrawText(text string, x, y float64, c color.Color) {
	if t.screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(t.screen, text, int(x), int(y))
}
