// Package render 渲染命令队列与渲染目标
//
// 游戏逻辑只向 Queue 提交带层级的绘制命令，帧末统一按层从后往前刷新到 Target。
// 同层命令保持提交顺序。生产环境使用 EbitenTarget，测试和无头模拟使用 Recorder。
package render

import (
	"image/color"
	"sort"
)

// 常用渲染层
const (
	LayerGround  = 0
	LayerSoil    = 10
	LayerCrops   = 20
	LayerObjects = 30
	LayerActors  = 40
	LayerEffects = 50
	LayerUI      = 100
	LayerDebug   = 1000
)

// Kind 命令类型
type Kind int

const (
	KindSprite Kind = iota
	KindRect
	KindText
)

// Command 一条绘制命令
type Command struct {
	Kind  Kind
	Layer int

	SpriteID string
	Text     string
	X, Y     float64
	W, H     float64
	Color    color.RGBA
	Filled   bool
	Alpha    float64 // 精灵透明度，0 视为不透明
}

// Target 渲染目标
type Target interface {
	Clear(c color.Color)
	DrawSprite(id string, x, y, alpha float64)
	DrawRect(x, y, w, h float64, c color.Color, filled bool)
	DrawText(text string, x, y float64, c color.Color)
}

// Queue 按层排序的绘制命令队列
type Queue struct {
	cmds []Command
}

// NewQueue 创建队列
func NewQueue() *Queue {
	return &Queue{cmds: make([]Command, 0, 256)}
}

// Push 提交命令
func (q *Queue) Push(cmd Command) {
	q.cmds = append(q.cmds, cmd)
}

// Sprite 提交精灵
func (q *Queue) Sprite(layer int, id string, x, y float64) {
	q.Push(Command{Kind: KindSprite, Layer: layer, SpriteID: id, X: x, Y: y})
}

// Rect 提交矩形
func (q *Queue) Rect(layer int, x, y, w, h float64, c color.RGBA, filled bool) {
	q.Push(Command{Kind: KindRect, Layer: layer, X: x, Y: y, W: w, H: h, Color: c, Filled: filled})
}

// Text 提交文字
func (q *Queue) Text(layer int, text string, x, y float64, c color.RGBA) {
	q.Push(Command{Kind: KindText, Layer: layer, Text: text, X: x, Y: y, Color: c})
}

// Len 待刷新命令数
func (q *Queue) Len() int {
	return len(q.cmds)
}

// Reset 丢弃所有待刷新命令
func (q *Queue) Reset() {
	q.cmds = q.cmds[:0]
}

// Flush 按层从低到高绘制所有命令并清空队列，返回绘制的命令数
func (q *Queue) Flush(t Target) int {
	sort.SliceStable(q.cmds, func(i, j int) bool {
		return q.cmds[i].Layer < q.cmds[j].Layer
	})
	n := len(q.cmds)
	for _, c := range q.cmds {
		Draw(t, c)
	}
	q.Reset()
	return n
}

// Draw 把单条命令交给渲染目标
func Draw(t Target, c Command) {
	switch c.Kind {
	case KindSprite:
		t.DrawSprite(c.SpriteID, c.X, c.Y, c.Alpha)
	case KindRect:
		t.DrawRect(c.X, c.Y, c.W, c.H, c.Color, c.Filled)
	case KindText:
		t.DrawText(c.Text, c.X, c.Y, c.Color)
	}
}
