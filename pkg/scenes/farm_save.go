package scenes

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/game"
	"github.com/decker502/farmstead/pkg/storage"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/types"
)

// errNoSaveManager 场景没有配置存档管理器
var errNoSaveManager = errors.New("save manager not configured")

// Snapshot 导出当前农场的完整存档
func (s *FarmScene) Snapshot() *game.Snapshot {
	snap := &game.Snapshot{Clock: s.clock.Snapshot()}
	snap.SetFarm(s.farming.Snapshot())

	m, p, inv, ok := s.playerParts()
	if !ok {
		return snap
	}
	snap.Player = game.PlayerState{
		X:            m.X,
		Y:            m.Y,
		Facing:       m.Facing,
		Stamina:      p.Stamina,
		MaxStamina:   p.MaxStamina,
		Money:        p.Money,
		Seeds:        maps.Clone(inv.Seeds),
		Produce:      cloneProduce(inv.Produce),
		Items:        maps.Clone(inv.Items),
		SelectedTool: inv.SelectedTool,
		SelectedSeed: inv.SelectedSeed,
	}
	for _, tt := range types.AllTools {
		if t, ok := inv.Tools[tt]; ok {
			snap.Tools = append(snap.Tools, *t)
		}
	}
	return snap
}

// Apply 用存档替换农场状态
//
// 进行中的钓鱼被取消；玩家吸附到最近的瓦片并同步碰撞体。
func (s *FarmScene) Apply(snap *game.Snapshot) {
	ts := float64(s.cfg.World.TileSize)
	s.fishing.Cancel(s.player)
	s.farming.Restore(snap.Farm(), ts)
	s.clock.Restore(snap.Clock)

	m, p, inv, ok := s.playerParts()
	if !ok {
		return
	}
	ps := snap.Player
	x := math.Round(ps.X/ts) * ts
	y := math.Round(ps.Y/ts) * ts
	m.X, m.Y = x, y
	m.TargetX, m.TargetY = x, y
	m.Moving = false
	m.Queued = nil
	m.Facing = ps.Facing
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.player); ok {
		pos.X, pos.Y = x, y
	}
	if col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, s.player); ok && m.BodyID != 0 {
		s.collision.UpdateBody(m.BodyID, x+col.OffsetX, y+col.OffsetY)
	}

	if ps.MaxStamina > 0 {
		p.MaxStamina = ps.MaxStamina
	}
	p.Stamina = math.Max(0, math.Min(ps.Stamina, p.MaxStamina))
	p.Exhausted = false
	p.Money = ps.Money

	restored := components.NewInventory()
	maps.Copy(restored.Seeds, ps.Seeds)
	maps.Copy(restored.Items, ps.Items)
	for crop, byQuality := range ps.Produce {
		for q, n := range byQuality {
			restored.AddProduce(crop, q, n)
		}
	}
	for _, t := range snap.Tools {
		tool := t
		restored.Tools[t.Type] = &tool
	}
	restored.SelectedTool = ps.SelectedTool
	restored.SelectedSeed = ps.SelectedSeed
	*inv = *restored
	s.updateCamera(0)
}

// Save 把当前状态写入存档槽
func (s *FarmScene) Save(slot string) error {
	if s.opts.Saves == nil {
		return errNoSaveManager
	}
	if err := s.opts.Saves.SaveSlot(slot, s.Snapshot()); err != nil {
		return fmt.Errorf("failed to save farm: %w", err)
	}
	s.log.Info("farm saved", "slot", slot)
	return nil
}

// Load 读取存档槽并应用
func (s *FarmScene) Load(slot string) error {
	if s.opts.Saves == nil {
		return errNoSaveManager
	}
	snap, err := s.opts.Saves.LoadSlot(slot)
	if err != nil {
		return fmt.Errorf("failed to load farm: %w", err)
	}
	s.Apply(snap)
	s.log.Info("farm loaded", "slot", slot, "day", snap.Clock.Day, "season", snap.Clock.Season)
	return nil
}

// SaveOnExit 退出时写入自动存档槽
func (s *FarmScene) SaveOnExit() bool {
	if s.opts.Saves == nil {
		return true
	}
	if err := s.Save(AutosaveSlot); err != nil {
		s.log.Error("autosave failed", "err", err)
		return false
	}
	return true
}

func (s *FarmScene) playerParts() (*components.MovementComponent, *components.PlayerComponent, *components.InventoryComponent, bool) {
	m, ok1 := ecs.GetComponent[*components.MovementComponent](s.em, s.player)
	p, ok2 := ecs.GetComponent[*components.PlayerComponent](s.em, s.player)
	inv, ok3 := ecs.GetComponent[*components.InventoryComponent](s.em, s.player)
	return m, p, inv, ok1 && ok2 && ok3
}

func cloneProduce(in map[types.CropType]map[types.Quality]int) map[types.CropType]map[types.Quality]int {
	out := make(map[types.CropType]map[types.Quality]int, len(in))
	for crop, byQuality := range in {
		out[crop] = maps.Clone(byQuality)
	}
	return out
}

// storageRecord 把收获事件转换为账本记录
func storageRecord(e event.Event, value int, clock *systems.TimeSystem) storage.HarvestRecord {
	return storage.HarvestRecord{
		Crop:    e.Target,
		Quality: e.Detail,
		Amount:  int(e.Value),
		Value:   value,
		Day:     clock.Day(),
		Season:  string(clock.Season()),
		Year:    clock.Year(),
	}
}
