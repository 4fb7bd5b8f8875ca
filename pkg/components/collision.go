package components

import "github.com/decker502/farmstead/pkg/types"

// CollisionComponent 定义实体的碰撞检测边界框
// 由场景在创建实体时注册到碰撞系统，BodyID 为注册后返回的 ID
type CollisionComponent struct {
	Width   float64 // 碰撞盒宽度（像素）
	Height  float64 // 碰撞盒高度（像素）
	OffsetX float64 // 碰撞盒相对于实体位置的X偏移量（像素），正值向右偏移
	OffsetY float64 // 碰撞盒相对于实体位置的Y偏移量（像素），正值向下偏移
	Layer   types.Layer
	Solid   bool
	Trigger bool
	BodyID  types.BodyID
}
