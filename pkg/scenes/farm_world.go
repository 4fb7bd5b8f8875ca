package scenes

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/entities"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/spatial"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/types"
)

// 池塘（瓦片坐标，相对地图右上角）
const (
	pondW            = 4
	pondH            = 3
	pondMarginRight  = 2
	pondMarginTop    = 2
	pondTriggerTag   = "pond"
	boundsTag        = "fence"
	debrisCount      = 12
	debrisMaxRetries = 200
)

// 巡逻 NPC
const (
	npcName          = "Robin"
	npcStartX        = 2
	npcRowFromBottom = 3
	npcPatrolSteps   = 4
)

func npcRoute() []components.GridStep {
	route := make([]components.GridStep, 0, 2*npcPatrolSteps)
	for i := 0; i < npcPatrolSteps; i++ {
		route = append(route, components.GridStep{DX: 1})
	}
	for i := 0; i < npcPatrolSteps; i++ {
		route = append(route, components.GridStep{DX: -1})
	}
	return route
}

// pondRect 池塘占据的瓦片范围
func (s *FarmScene) pondRect() (x, y, w, h int) {
	return s.cfg.World.Width - pondMarginRight - pondW, pondMarginTop, pondW, pondH
}

// buildBounds 地图四周的围栏
func (s *FarmScene) buildBounds() {
	ts := float64(s.cfg.World.TileSize)
	w := float64(s.cfg.World.Width) * ts
	h := float64(s.cfg.World.Height) * ts
	fence := systems.BodyOptions{Layer: types.LayerTerrain, Solid: true, Tag: boundsTag}
	s.collision.AddBody(-ts, -ts, w+2*ts, ts, fence)
	s.collision.AddBody(-ts, h, w+2*ts, ts, fence)
	s.collision.AddBody(-ts, 0, ts, h, fence)
	s.collision.AddBody(w, 0, ts, h, fence)
}

// buildPond 池塘瓦片不可通行，外围一圈是触发区
func (s *FarmScene) buildPond() {
	ts := float64(s.cfg.World.TileSize)
	px, py, pw, ph := s.pondRect()
	for y := py; y < py+ph; y++ {
		for x := px; x < px+pw; x++ {
			s.control.AddWater(x, y)
			s.collision.AddBody(float64(x)*ts, float64(y)*ts, ts, ts, systems.BodyOptions{
				Layer: types.LayerTerrain,
				Solid: true,
				Tag:   "water",
			})
		}
	}
	s.collision.AddBody(float64(px-1)*ts, float64(py-1)*ts, float64(pw+2)*ts, float64(ph+2)*ts, systems.BodyOptions{
		Layer:   types.LayerTriggers,
		Trigger: true,
		Tag:     pondTriggerTag,
	})
}

// scatterDebris 按种子随机放置木头和石头
// 避开池塘及其外围、玩家出生点周围 3x3 和 NPC 的巡逻行
func (s *FarmScene) scatterDebris() {
	rng := rand.New(rand.NewSource(s.opts.Seed))
	ts := float64(s.cfg.World.TileSize)
	w, h := s.cfg.World.Width, s.cfg.World.Height
	px, py, pw, ph := s.pondRect()
	sx, sy := s.cfg.Player.StartTileX, s.cfg.Player.StartTileY
	npcRow := h - npcRowFromBottom

	blocked := func(x, y int) bool {
		switch {
		case x >= px-1 && x <= px+pw && y >= py-1 && y <= py+ph:
			return true
		case absInt(x-sx) <= 1 && absInt(y-sy) <= 1:
			return true
		case y == npcRow:
			return true
		}
		return s.farmPlot(x, y)
	}

	placed := 0
	for i := 0; i < debrisMaxRetries && placed < debrisCount; i++ {
		x, y := rng.Intn(w), rng.Intn(h)
		if blocked(x, y) {
			continue
		}
		kind := components.DebrisWood
		if rng.Intn(2) == 1 {
			kind = components.DebrisStone
		}
		if s.farming.PlaceDebris(x, y, kind, ts) {
			placed++
		}
	}
}

// farmPlot 玩家出生点正下方预留的 4x2 空地，自动驾驶在这里耕种
func (s *FarmScene) farmPlot(x, y int) bool {
	ox, oy := s.plotOrigin()
	return x >= ox && x < ox+plotW && y >= oy && y < oy+plotH
}

func (s *FarmScene) plotOrigin() (int, int) {
	return s.cfg.Player.StartTileX, s.cfg.Player.StartTileY + 2
}

// PlotTiles 预留耕地的瓦片坐标（行优先）
func (s *FarmScene) PlotTiles() []spatial.TileKey {
	ox, oy := s.plotOrigin()
	out := make([]spatial.TileKey, 0, plotW*plotH)
	for y := oy; y < oy+plotH; y++ {
		for x := ox; x < ox+plotW; x++ {
			out = append(out, spatial.MakeTileKey(x, y))
		}
	}
	return out
}

const (
	plotW = 4
	plotH = 2
)

func (s *FarmScene) countDebris() int {
	n := 0
	for _, t := range s.farming.Tiles() {
		if t.Debris != components.DebrisNone {
			n++
		}
	}
	return n
}

// subscribe 场景级事件处理：统计、HUD 提示、收获账本和闪光特效
func (s *FarmScene) subscribe() {
	s.bus.Subscribe(event.CropHarvested, s.onHarvest)
	s.bus.Subscribe(event.FishCaught, func(e event.Event) {
		s.stats.FishCaught++
		s.say("Caught a " + e.Target + "!")
	})
	s.bus.Subscribe(event.FishEscaped, func(event.Event) {
		s.say("The fish got away")
	})
	s.bus.Subscribe(event.FishBite, func(event.Event) {
		s.say("Bite! Press F")
	})
	s.bus.Subscribe(event.StaminaExhausted, func(event.Event) {
		s.stats.Exhaustions++
		s.say("Too tired. Sleep with Z")
	})
	s.bus.Subscribe(event.DayStarted, func(e event.Event) {
		s.stats.Days++
		s.log.Info("new day", "season", e.Target, "day", int(e.Value), "weather", e.Detail)
	})
	s.bus.Subscribe(event.TriggerEntered, func(e event.Event) {
		if e.Target == pondTriggerTag && e.Actor == s.player {
			s.say("Face the water and press F to fish")
		}
	})
	s.bus.Subscribe(event.ToolUsed, func(event.Event) {
		s.stats.ToolUses++
	})
	s.bus.Subscribe(event.ToolUpgraded, func(e event.Event) {
		s.say(fmt.Sprintf("%s upgraded to level %d", e.Target, int(e.Value)))
	})
	s.bus.Subscribe(event.ToolRepaired, func(e event.Event) {
		s.say(e.Target + " repaired")
	})
}

func (s *FarmScene) onHarvest(e event.Event) {
	amount := int(e.Value)
	value := s.harvestValue(types.CropType(e.Target), types.Quality(e.Detail), amount)
	s.stats.Harvests++
	s.stats.Amount += amount
	s.stats.Value += value
	if p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, s.player); ok {
		p.Money += value
	}

	ts := float64(s.cfg.World.TileSize)
	if _, err := entities.NewHarvestSparkle(s.em, s.animator, s.anims, float64(e.TileX)*ts, float64(e.TileY)*ts); err != nil {
		s.log.Warn("sparkle effect failed", "err", err)
	}
	s.say("Harvested " + e.Detail + " " + e.Target)

	if s.opts.Ledger == nil {
		return
	}
	_, err := s.opts.Ledger.RecordHarvest(storageRecord(e, value, s.clock))
	if err != nil {
		s.stats.LedgerErrors++
		s.log.Warn("failed to record harvest", "crop", e.Target, "err", err)
	}
}

// harvestValue 基础价格 × 品质倍率 × 数量
func (s *FarmScene) harvestValue(crop types.CropType, q types.Quality, amount int) int {
	def, ok := s.opts.Crops.Get(string(crop))
	if !ok {
		return 0
	}
	return int(math.Round(float64(def.BaseValue)*q.ValueMultiplier())) * amount
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
