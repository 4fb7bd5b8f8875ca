package scenes

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/spatial"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/types"
)

// DefaultAutopilotCooldown 两次动作之间的间隔（秒）
const DefaultAutopilotCooldown = 0.5

// sleepFraction 体力低于上限的这个比例时去睡觉
const sleepFraction = 0.15

// AutopilotStats 自动驾驶的动作统计
type AutopilotStats struct {
	Actions  map[string]int         // 成功动作，按动作名
	Failures map[systems.Reason]int // 失败动作，按原因
	Sleeps   int
	Idle     int // 无事可做的次数
}

// Autopilot 脚本化的农夫，simulate 命令用它代替键盘
//
// 每次冷却结束做一件事，优先级：睡觉 → 收获 → 修理坏掉的工具 → 浇水 → 播种 → 耕地 → 清理杂物。
// 动作直接调用农田系统，不需要走到瓦片旁边。
type Autopilot struct {
	scene    *FarmScene
	cooldown float64
	timer    float64
	stats    AutopilotStats
	log      *log.Logger
}

// NewAutopilot 为农场场景创建自动驾驶，cooldown <= 0 时使用默认间隔
func NewAutopilot(scene *FarmScene, cooldown float64) *Autopilot {
	if cooldown <= 0 {
		cooldown = DefaultAutopilotCooldown
	}
	return &Autopilot{
		scene:    scene,
		cooldown: cooldown,
		stats: AutopilotStats{
			Actions:  make(map[string]int),
			Failures: make(map[systems.Reason]int),
		},
		log: logging.For("Autopilot"),
	}
}

// Stats 动作统计
func (a *Autopilot) Stats() AutopilotStats { return a.stats }

// Update 冷却结束时执行一次动作，应在场景 Update 之前调用
func (a *Autopilot) Update(deltaTime float64) {
	a.timer -= deltaTime
	if a.timer > 0 {
		return
	}
	a.timer = a.cooldown
	a.step()
}

func (a *Autopilot) step() {
	s := a.scene
	_, p, inv, ok := s.playerParts()
	if !ok {
		return
	}
	if p.Exhausted || p.Stamina < p.MaxStamina*sleepFraction {
		s.clock.NextDay()
		a.stats.Sleeps++
		a.log.Debug("going to sleep", "stamina", p.Stamina, "day", s.clock.Day())
		return
	}

	plot := s.PlotTiles()
	for _, chore := range []func([]spatial.TileKey, *components.InventoryComponent) bool{
		a.harvest,
		a.repair,
		a.water,
		a.plant,
		a.till,
		a.clear,
	} {
		if chore(plot, inv) {
			return
		}
	}
	a.stats.Idle++
}

// record 统计结果，返回是否成功
func (a *Autopilot) record(name string, r systems.ActionResult) bool {
	if r.OK {
		a.stats.Actions[name]++
		return true
	}
	a.stats.Failures[r.Reason]++
	a.log.Debug("action failed", "action", name, "reason", r.Reason)
	return false
}

func (a *Autopilot) harvest(plot []spatial.TileKey, _ *components.InventoryComponent) bool {
	s := a.scene
	for _, key := range plot {
		x, y := key.XY()
		if c, ok := s.farming.CropAt(x, y); ok && c.Ready() {
			a.record("harvest", s.farming.HarvestCrop(s.player, x, y))
			return true
		}
	}
	return false
}

// repair 修理买得起的坏工具
func (a *Autopilot) repair(_ []spatial.TileKey, inv *components.InventoryComponent) bool {
	s := a.scene
	_, p, _, ok := s.playerParts()
	if !ok {
		return false
	}
	for _, tt := range types.AllTools {
		t, ok := inv.Tools[tt]
		if !ok || t.Usable() {
			continue
		}
		def, ok := s.opts.Tools.Level(string(tt), t.Level)
		if !ok || p.Money < def.RepairCost {
			continue
		}
		a.record("repair", s.farming.RepairTool(s.player, tt))
		return true
	}
	return false
}

// water 给缺水的作物浇水，壶空时先加水
func (a *Autopilot) water(plot []spatial.TileKey, inv *components.InventoryComponent) bool {
	s := a.scene
	threshold := s.cfg.Farming.MaxWaterLevel / 2
	for _, key := range plot {
		x, y := key.XY()
		c, ok := s.farming.CropAt(x, y)
		if !ok || c.Ready() || c.WaterLevel >= threshold {
			continue
		}
		if can, ok := inv.Tools[types.ToolWateringCan]; ok && can.WaterCharge <= 0 {
			px, py, _, _ := s.pondRect()
			a.record("refill", s.farming.RefillWateringCan(s.player, px, py))
			return true
		}
		a.record("water", s.farming.WaterSoil(s.player, x, y))
		return true
	}
	return false
}

// plant 在空的耕地上播下当季且有库存的种子（按名称排序取第一种）
func (a *Autopilot) plant(plot []spatial.TileKey, inv *components.InventoryComponent) bool {
	s := a.scene
	seed, ok := a.seasonalSeed(inv)
	if !ok {
		return false
	}
	for _, key := range plot {
		x, y := key.XY()
		t, ok := s.farming.Tile(x, y)
		if !ok || (t.State != components.SoilTilled && t.State != components.SoilWatered) {
			continue
		}
		a.record("plant", s.farming.PlantSeed(s.player, x, y, seed))
		return true
	}
	return false
}

func (a *Autopilot) seasonalSeed(inv *components.InventoryComponent) (types.CropType, bool) {
	season := string(a.scene.clock.Season())
	var names []types.CropType
	for crop, n := range inv.Seeds {
		if n <= 0 {
			continue
		}
		if def, ok := a.scene.opts.Crops.Get(string(crop)); ok && def.InSeason(season) {
			names = append(names, crop)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return slices.Min(names), true
}

func (a *Autopilot) till(plot []spatial.TileKey, _ *components.InventoryComponent) bool {
	s := a.scene
	for _, key := range plot {
		x, y := key.XY()
		t, ok := s.farming.Tile(x, y)
		if ok && t.State != components.SoilUntilled {
			continue
		}
		if ok && t.Debris != components.DebrisNone {
			continue
		}
		a.record("till", s.farming.TillSoil(s.player, x, y))
		return true
	}
	return false
}

// clear 农活做完后清理地图上的杂物，缺少对应工具的杂物跳过
func (a *Autopilot) clear(_ []spatial.TileKey, inv *components.InventoryComponent) bool {
	s := a.scene
	for _, t := range s.farming.Tiles() {
		if t.Debris == components.DebrisNone {
			continue
		}
		if tool, ok := inv.Tools[t.Debris.ClearingTool()]; !ok || !tool.Usable() {
			continue
		}
		a.record("clear", s.farming.ClearDebris(s.player, t.X, t.Y))
		return true
	}
	return false
}
