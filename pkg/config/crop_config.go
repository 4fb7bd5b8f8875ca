package config

import (
	"fmt"
	"slices"
)

// CropDef 单种作物的定义
type CropDef struct {
	Name    string   `yaml:"name"`
	Seasons []string `yaml:"seasons"`
	// StageDurations 每个非最终阶段需要累计的生长进度（游戏秒）
	// 最终（可收获）阶段索引等于 len(StageDurations)
	StageDurations []float64 `yaml:"stageDurations"`
	Yield          int       `yaml:"yield"`
	BaseValue      int       `yaml:"baseValue"`
	// IdealWaterings 达到最高品质所需的浇水次数
	IdealWaterings int `yaml:"idealWaterings"`
}

// FinalStage 返回可收获阶段的索引
func (d CropDef) FinalStage() int {
	return len(d.StageDurations)
}

// TotalGrowth 返回从播种到成熟所需的总生长进度
func (d CropDef) TotalGrowth() float64 {
	var total float64
	for _, s := range d.StageDurations {
		total += s
	}
	return total
}

// InSeason 判断作物是否能在指定季节生长
func (d CropDef) InSeason(season string) bool {
	return slices.Contains(d.Seasons, season)
}

// CropTable 作物定义表
//
// 配置文件位置: data/crops.yaml
type CropTable struct {
	Crops map[string]CropDef `yaml:"crops"`
}

// Get 查找作物定义
func (t *CropTable) Get(cropType string) (CropDef, bool) {
	if t == nil {
		return CropDef{}, false
	}
	def, ok := t.Crops[cropType]
	return def, ok
}

// Names 返回排序后的作物名列表
func (t *CropTable) Names() []string {
	names := make([]string, 0, len(t.Crops))
	for name := range t.Crops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate 验证配置有效性
func (t *CropTable) Validate() error {
	if len(t.Crops) == 0 {
		return fmt.Errorf("crop table is empty")
	}
	for name, def := range t.Crops {
		if len(def.StageDurations) == 0 {
			return fmt.Errorf("crop '%s' has no growth stages", name)
		}
		for i, d := range def.StageDurations {
			if d <= 0 {
				return fmt.Errorf("crop '%s' stage %d duration must be > 0, got %.2f", name, i, d)
			}
		}
		if def.Yield <= 0 {
			return fmt.Errorf("crop '%s' yield must be > 0, got %d", name, def.Yield)
		}
		if def.IdealWaterings < 0 {
			return fmt.Errorf("crop '%s' idealWaterings must be >= 0, got %d", name, def.IdealWaterings)
		}
	}
	return nil
}
