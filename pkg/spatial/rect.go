// Package spatial 提供轴对齐矩形和均匀网格空间索引
//
// 该包不依赖 ECS 或 ebiten，可以单独测试。
package spatial

// Rect 轴对齐矩形（左上角 + 宽高，单位：像素）
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect 创建矩形
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right 返回右边界 X 坐标
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom 返回下边界 Y 坐标
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Overlaps 判断两个矩形是否重叠
// 使用开区间：仅共享一条边（x1+w1 == x2）不算重叠，结果满足对称性
func (r Rect) Overlaps(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains 判断点 (x, y) 是否在矩形内（左上闭、右下开）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate 返回平移后的矩形
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Center 返回矩形中心点
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}
