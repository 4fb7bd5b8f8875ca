package components

import "github.com/decker502/farmstead/pkg/types"

// MovementMode 移动模式，在创建组件时确定
type MovementMode int

const (
	// MovementSmooth 平滑模式：每帧按比例逼近目标（指数衰减）
	MovementSmooth MovementMode = iota
	// MovementGrid 网格模式：以恒定速度逐格移动，最多排队一步
	MovementGrid
)

// DefaultSmoothingFactor 平滑模式默认插值系数
const DefaultSmoothingFactor = 0.15

// GridStep 一次排队的网格移动（单位：瓦片）
type GridStep struct {
	DX int
	DY int
}

// MovementComponent 实体移动状态
//
// X/Y 为权威位置；平滑模式下 Target 可随时改写，
// 网格模式下只有在静止且队列为空时才接受新的移动请求。
type MovementComponent struct {
	X       float64
	Y       float64
	TargetX float64
	TargetY float64

	Mode            MovementMode
	Speed           float64 // 网格模式速度（像素/秒）
	SmoothingFactor float64
	TileSize        float64 // 网格模式每步距离

	Moving bool
	Queued *GridStep

	// LastDX/LastDY 最近一次更新实际应用的位移，驱动朝向和动画参数
	LastDX float64
	LastDY float64

	Facing types.Direction
	BodyID types.BodyID // 关联的碰撞体，0 表示不参与碰撞
}

// NewSmoothMovement 创建平滑模式移动组件
func NewSmoothMovement(x, y, smoothing float64) *MovementComponent {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = DefaultSmoothingFactor
	}
	return &MovementComponent{
		X: x, Y: y, TargetX: x, TargetY: y,
		Mode:            MovementSmooth,
		SmoothingFactor: smoothing,
	}
}

// NewGridMovement 创建网格模式移动组件
func NewGridMovement(x, y, speed, tileSize float64) *MovementComponent {
	return &MovementComponent{
		X: x, Y: y, TargetX: x, TargetY: y,
		Mode:     MovementGrid,
		Speed:    speed,
		TileSize: tileSize,
	}
}
