// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// CropType 作物类型
// 使用字符串作为作物表（data/crops.yaml）的键
type CropType string

const (
	CropTurnip      CropType = "turnip"
	CropPotato      CropType = "potato"
	CropCauliflower CropType = "cauliflower"
	CropTomato      CropType = "tomato"
	CropCorn        CropType = "corn"
	CropPumpkin     CropType = "pumpkin"
	CropEggplant    CropType = "eggplant"
	CropStrawberry  CropType = "strawberry"
)

// SeedItem 返回该作物种子在背包中的物品ID，如 "turnip_seeds"
func (c CropType) SeedItem() string {
	return string(c) + "_seeds"
}

// Quality 收获品质等级
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityNormal    Quality = "normal"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// ValueMultiplier 返回品质对应的价值倍率
func (q Quality) ValueMultiplier() float64 {
	switch q {
	case QualityPoor:
		return 0.5
	case QualityGood:
		return 1.25
	case QualityExcellent:
		return 1.5
	default:
		return 1.0
	}
}
