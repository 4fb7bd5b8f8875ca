package render

import (
	"image/color"
)

// Recorder 记录绘制调用的渲染目标
type Recorder struct {
	Commands []Command
	Clears   int
}

// NewRecorder 创建记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear(c color.Color) {
	r.Clears++
	r.Commands = r.Commands[:0]
}

func (r *Recorder) DrawSprite(id string, x, y, alpha float64) {
	r.Commands = append(r.Commands, Command{Kind: KindSprite, SpriteID: id, X: x, Y: y, Alpha: alpha})
}

func (r *Recorder) DrawRect(x, y, w, h float64, c color.Color, filled bool) {
	r.Commands = append(r.Commands, Command{Kind: KindRect, X: x, Y: y, W: w, H: h, Color: toRGBA(c), Filled: filled})
}

func (r *Recorder) DrawText(text string, x, y float64, c color.Color) {
	r.Commands = append(r.Commands, Command{Kind: KindText, Text: text, X: x, Y: y, Color: toRGBA(c)})
}

// Texts 返回记录到的所有文字（测试断言用）
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Commands {
		if c.Kind == KindText {
			out = append(out, c.Text)
		}
	}
	return out
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
