package components

import "github.com/decker502/farmstead/pkg/types"

// SoilState 土壤状态
type SoilState int

const (
	SoilUntilled SoilState = iota
	SoilTilled
	SoilWatered
	SoilPlanted
	SoilGrowing
)

var soilStateNames = [...]string{"untilled", "tilled", "watered", "planted", "growing"}

func (s SoilState) String() string {
	if int(s) < len(soilStateNames) {
		return soilStateNames[s]
	}
	return "unknown"
}

// HasCrop 该状态是否意味着瓦片上有作物
func (s SoilState) HasCrop() bool {
	return s == SoilPlanted || s == SoilGrowing
}

// DebrisType 瓦片上的杂物
type DebrisType int

const (
	DebrisNone DebrisType = iota
	DebrisWood            // 需要斧头
	DebrisStone           // 需要镐
)

// ClearingTool 返回清除该杂物所需的工具
func (d DebrisType) ClearingTool() types.ToolType {
	if d == DebrisStone {
		return types.ToolPickaxe
	}
	return types.ToolAxe
}

// SoilTile 一块可耕种瓦片
//
// 不变量：
//   - State 为 Planted/Growing 时同坐标必有作物
//   - State 为 Untilled 时 WaterLevel 恒为 0
type SoilTile struct {
	X, Y       int
	State      SoilState
	WaterLevel float64
	Fertility  float64 // 生长倍率，默认 1.0
	Debris     DebrisType
	DebrisBody types.BodyID // 杂物对应的碰撞体
}

// Crop 一株作物
type Crop struct {
	X, Y           int
	Type           types.CropType
	Stage          int
	StageEnteredAt float64   // 进入当前阶段的游戏时间（秒）
	StageProgress  float64   // 当前阶段累计的有效生长进度
	StageDurations []float64 // 各非最终阶段所需进度
	WaterLevel     float64
	Healthy        bool
	WateringEvents int
	PlantedAt      float64
}

// FinalStage 可收获阶段索引
func (c *Crop) FinalStage() int {
	return len(c.StageDurations)
}

// Ready 是否可收获
func (c *Crop) Ready() bool {
	return c.Stage >= c.FinalStage()
}
