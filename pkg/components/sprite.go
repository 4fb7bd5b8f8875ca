package components

// SpriteComponent 存储实体的视觉表现
// SpriteID 由资源管理器解析为图像，未知 ID 会得到占位图
type SpriteComponent struct {
	SpriteID string
	Layer    int     // 渲染层，越大越靠前
	OffsetX  float64 // 相对 PositionComponent 的绘制偏移
	OffsetY  float64
	Hidden   bool
}
