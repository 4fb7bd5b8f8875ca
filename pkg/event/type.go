// Package event 提供类型化的领域事件和单线程事件总线
//
// 取代分散的回调钩子（onExhaustion、帧动画回调等），
// 所有事件统一入队，在更新阶段按 FIFO 顺序派发。
package event

import "github.com/decker502/farmstead/pkg/ecs"

// Type 事件类型
type Type int

const (
	TypeNone Type = iota
	ToolUsed
	SoilTilled
	SoilWatered
	SoilDried
	SeedPlanted
	CropGrew
	CropHarvested
	DebrisCleared
	FertilizerApplied
	StaminaExhausted
	TriggerEntered
	AnimationFrame
	AnimationFinished
	DayStarted
	SeasonChanged
	WeatherChanged
	FishBite
	FishCaught
	FishEscaped
	SubsystemFailed
	SceneChanged
	ToolUpgraded
	ToolRepaired
)

var typeNames = map[Type]string{
	TypeNone:          "none",
	ToolUsed:          "tool_used",
	SoilTilled:        "soil_tilled",
	SoilWatered:       "soil_watered",
	SoilDried:         "soil_dried",
	SeedPlanted:       "seed_planted",
	CropGrew:          "crop_grew",
	CropHarvested:     "crop_harvested",
	DebrisCleared:     "debris_cleared",
	FertilizerApplied: "fertilizer_applied",
	StaminaExhausted:  "stamina_exhausted",
	TriggerEntered:    "trigger_entered",
	AnimationFrame:    "animation_frame",
	AnimationFinished: "animation_finished",
	DayStarted:        "day_started",
	SeasonChanged:     "season_changed",
	WeatherChanged:    "weather_changed",
	FishBite:          "fish_bite",
	FishCaught:        "fish_caught",
	FishEscaped:       "fish_escaped",
	SubsystemFailed:   "subsystem_failed",
	SceneChanged:      "scene_changed",
	ToolUpgraded:      "tool_upgraded",
	ToolRepaired:      "tool_repaired",
}

// String 返回事件类型名称
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event 领域事件
//
// 所有事件至少携带执行者（Actor）和受影响的坐标/目标。
// 不适用的字段保持零值。
type Event struct {
	Type  Type
	Actor ecs.EntityID // 执行者实体，0 表示系统本身

	// 受影响的瓦片坐标（农田事件）
	TileX, TileY int

	// 受影响的世界坐标（碰撞、动画事件）
	X, Y float64

	// Target 目标名称，如作物类型、工具类型、动画名、场景名
	Target string

	// Value 数值负载，如阶段、数量、品质倍率
	Value float64

	// Detail 附加文本，如品质等级、失败原因
	Detail string

	// Time 事件发生时的游戏时间（秒）
	Time float64
}
