package components

import "github.com/decker502/farmstead/pkg/types"

// PlayerComponent 标识玩家实体并保存体力
type PlayerComponent struct {
	Stamina               float64
	MaxStamina            float64
	StaminaRegenPerSecond float64
	Exhausted             bool // 体力耗尽后置位，回满前保持
	Money                 int
}

// InventoryComponent 背包
type InventoryComponent struct {
	Seeds        map[types.CropType]int
	Produce      map[types.CropType]map[types.Quality]int
	Items        map[string]int // 肥料、鱼等
	Tools        map[types.ToolType]*Tool
	SelectedTool types.ToolType
	SelectedSeed types.CropType
}

// NewInventory 创建空背包
func NewInventory() *InventoryComponent {
	return &InventoryComponent{
		Seeds:   make(map[types.CropType]int),
		Produce: make(map[types.CropType]map[types.Quality]int),
		Items:   make(map[string]int),
		Tools:   make(map[types.ToolType]*Tool),
	}
}

// AddProduce 放入收获物
func (inv *InventoryComponent) AddProduce(crop types.CropType, q types.Quality, n int) {
	byQuality, ok := inv.Produce[crop]
	if !ok {
		byQuality = make(map[types.Quality]int)
		inv.Produce[crop] = byQuality
	}
	byQuality[q] += n
}

// ProduceCount 某作物全部品质的数量
func (inv *InventoryComponent) ProduceCount(crop types.CropType) int {
	total := 0
	for _, n := range inv.Produce[crop] {
		total += n
	}
	return total
}

// NPCComponent 简单的巡逻 NPC
type NPCComponent struct {
	Name      string
	Route     []GridStep // 循环执行的移动序列
	RouteStep int
	PauseTime float64 // 每步之间的停顿（秒）
}
