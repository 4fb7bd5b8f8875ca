package components

// PositionComponent 实体在世界中的位置（像素，左上角）
// 移动实体以 MovementComponent 为准，移动系统每帧同步到此组件
type PositionComponent struct {
	X float64
	Y float64
}
