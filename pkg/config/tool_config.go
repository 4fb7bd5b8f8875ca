package config

import "fmt"

// ToolLevelDef 工具某一等级的属性
type ToolLevelDef struct {
	Level          int     `yaml:"level"`
	MaxDurability  int     `yaml:"maxDurability"`
	Efficiency     float64 `yaml:"efficiency"`
	MaxWaterCharge int     `yaml:"maxWaterCharge"` // 仅洒水壶使用
	UpgradeCost    int     `yaml:"upgradeCost"`    // 从上一级升到本级的花费
	RepairCost     int     `yaml:"repairCost"`     // 本级修复到满耐久的花费
}

// ToolTable 工具等级表
//
// 配置文件位置: data/tools.yaml
// key 为工具类型（hoe / watering_can / axe / pickaxe），value 按等级升序排列。
type ToolTable struct {
	Tools map[string][]ToolLevelDef `yaml:"tools"`
}

// Level 查找指定工具的指定等级
func (t *ToolTable) Level(toolType string, level int) (ToolLevelDef, bool) {
	if t == nil {
		return ToolLevelDef{}, false
	}
	for _, def := range t.Tools[toolType] {
		if def.Level == level {
			return def, true
		}
	}
	return ToolLevelDef{}, false
}

// MaxLevel 返回工具的最高等级，未定义时返回 0
func (t *ToolTable) MaxLevel(toolType string) int {
	if t == nil {
		return 0
	}
	levels := t.Tools[toolType]
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1].Level
}

// Validate 验证配置有效性
func (t *ToolTable) Validate() error {
	if len(t.Tools) == 0 {
		return fmt.Errorf("tool table is empty")
	}
	for name, levels := range t.Tools {
		if len(levels) == 0 {
			return fmt.Errorf("tool '%s' has no levels", name)
		}
		for i, def := range levels {
			if def.Level != i+1 {
				return fmt.Errorf("tool '%s' levels must be 1..n in order, got %d at index %d", name, def.Level, i)
			}
			if def.MaxDurability <= 0 {
				return fmt.Errorf("tool '%s' level %d maxDurability must be > 0", name, def.Level)
			}
			if def.Efficiency <= 0 {
				return fmt.Errorf("tool '%s' level %d efficiency must be > 0", name, def.Level)
			}
			if def.UpgradeCost < 0 || def.RepairCost < 0 {
				return fmt.Errorf("tool '%s' level %d costs must be >= 0", name, def.Level)
			}
		}
	}
	return nil
}
