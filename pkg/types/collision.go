package types

// BodyID 碰撞体ID，由碰撞系统从 1 开始单调分配，0 表示"无"
type BodyID uint32

// Layer 碰撞层位掩码
type Layer uint8

const (
	LayerTerrain  Layer = 1 << iota // 地形（水面、悬崖）
	LayerObjects                    // 物体（石头、树桩、篱笆）
	LayerEntities                   // 角色（玩家、NPC）
	LayerTriggers                   // 触发区（门、水边）
)

// LayerBlocking 阻挡移动的层
const LayerBlocking = LayerTerrain | LayerObjects

// LayerAll 所有层
const LayerAll = LayerTerrain | LayerObjects | LayerEntities | LayerTriggers

// Intersects 判断两个掩码是否有交集
func (l Layer) Intersects(mask Layer) bool {
	return l&mask != 0
}
