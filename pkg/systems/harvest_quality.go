package systems

import (
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/types"
)

// HarvestQuality 根据照料情况计算收获品质
//
// 评分 = 0.7 × 浇水充足度 + 0.3 × 生长速度
//   - 浇水充足度 = min(1, 浇水次数 / 作物理想浇水次数)，理想次数为 0 时视为 1
//   - 生长速度 = min(1, 作物总生长时间 / 实际用时)，用时 <= 0 时视为 1
//
// 品质阈值：
//   - >= 0.9  excellent
//   - >= 0.7  good
//   - >= 0.4  normal
//   - 其余    poor
//
// 同样的输入总是得到同样的品质。
func HarvestQuality(def config.CropDef, wateringEvents int, timeToHarvest float64) types.Quality {
	care := 1.0
	if def.IdealWaterings > 0 {
		care = min(1, float64(wateringEvents)/float64(def.IdealWaterings))
	}
	pace := 1.0
	if timeToHarvest > 0 {
		pace = min(1, def.TotalGrowth()/timeToHarvest)
	}
	return qualityFromScore(0.7*care + 0.3*pace)
}

func qualityFromScore(score float64) types.Quality {
	switch {
	case score >= 0.9:
		return types.QualityExcellent
	case score >= 0.7:
		return types.QualityGood
	case score >= 0.4:
		return types.QualityNormal
	default:
		return types.QualityPoor
	}
}

// HarvestQuality 按作物类型计算收获品质，未知作物返回 normal
func (fs *FarmingSystem) HarvestQuality(cropType types.CropType, wateringEvents int, timeToHarvest float64) types.Quality {
	def, ok := fs.table.Get(string(cropType))
	if !ok {
		return types.QualityNormal
	}
	return HarvestQuality(def, wateringEvents, timeToHarvest)
}
