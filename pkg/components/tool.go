package components

import (
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/types"
)

// Tool 玩家持有的工具
// 升级时原地替换属性，不创建新实体
type Tool struct {
	Type           types.ToolType
	Level          int
	Durability     int
	MaxDurability  int
	Efficiency     float64
	WaterCharge    int // 仅洒水壶
	MaxWaterCharge int
}

// NewTool 按等级定义创建满耐久、满水量的工具
func NewTool(toolType types.ToolType, def config.ToolLevelDef) *Tool {
	t := &Tool{Type: toolType}
	t.Upgrade(def)
	return t
}

// Usable 耐久大于 0 时可用
func (t *Tool) Usable() bool {
	return t != nil && t.Durability > 0
}

// Upgrade 用新等级定义替换属性，耐久与水量重置为新上限
func (t *Tool) Upgrade(def config.ToolLevelDef) {
	t.Level = def.Level
	t.MaxDurability = def.MaxDurability
	t.Durability = def.MaxDurability
	t.Efficiency = def.Efficiency
	if t.Efficiency <= 0 {
		t.Efficiency = 1
	}
	t.MaxWaterCharge = def.MaxWaterCharge
	t.WaterCharge = def.MaxWaterCharge
}
