package systems

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/spatial"
	"github.com/decker502/farmstead/pkg/types"
	"github.com/decker502/farmstead/pkg/utils"
)

// 动画参数名
const (
	ParamSpeed     = "speed"
	ParamUsingTool = "using_tool"
	ParamMoving    = "moving"
)

// PlayerControlSystem 把输入映射为移动和农田动作
//
// 玩家总是作用于面前的瓦片；鼠标点击相邻瓦片时作用于点击的瓦片。
// 体力随时间恢复，每天开始时回满。
type PlayerControlSystem struct {
	em       *ecs.EntityManager
	cfg      *config.GameConfig
	input    *InputSystem
	movement *MovementSystem
	farming  *FarmingSystem
	bus      *event.Bus

	// 可选协作者
	fishing  *FishingSystem
	clock    *TimeSystem
	animator *AnimationStateMachine

	water          map[spatial.TileKey]bool
	cameraX        float64
	cameraY        float64
	paused         bool
	lastResult     ActionResult
	debugRequested bool

	log *log.Logger
}

// NewPlayerControlSystem 创建玩家控制系统
func NewPlayerControlSystem(em *ecs.EntityManager, cfg *config.GameConfig, input *InputSystem,
	movement *MovementSystem, farming *FarmingSystem, bus *event.Bus) *PlayerControlSystem {
	s := &PlayerControlSystem{
		em:       em,
		cfg:      cfg,
		input:    input,
		movement: movement,
		farming:  farming,
		bus:      bus,
		water:    make(map[spatial.TileKey]bool),
		log:      logging.For("PlayerControlSystem"),
	}
	bus.Subscribe(event.DayStarted, s.onDayStarted)
	return s
}

// SetFishing 启用钓鱼
func (s *PlayerControlSystem) SetFishing(fs *FishingSystem) { s.fishing = fs }

// SetClock 启用睡觉（跳到下一天）
func (s *PlayerControlSystem) SetClock(ts *TimeSystem) { s.clock = ts }

// SetAnimator 设置动画状态机，用于写入 speed / using_tool / 朝向参数
func (s *PlayerControlSystem) SetAnimator(sm *AnimationStateMachine) { s.animator = sm }

// SetCamera 设置摄像机左上角世界坐标（鼠标换算用）
func (s *PlayerControlSystem) SetCamera(x, y float64) {
	s.cameraX, s.cameraY = x, y
}

// AddWater 标记水面瓦片（可以钓鱼、给洒水壶加水）
func (s *PlayerControlSystem) AddWater(x, y int) {
	s.water[spatial.MakeTileKey(x, y)] = true
}

// IsWater 瓦片是否为水面
func (s *PlayerControlSystem) IsWater(x, y int) bool {
	return s.water[spatial.MakeTileKey(x, y)]
}

// Paused 是否暂停
func (s *PlayerControlSystem) Paused() bool { return s.paused }

// LastResult 最近一次动作的结果（HUD 提示用）
func (s *PlayerControlSystem) LastResult() ActionResult { return s.lastResult }

// TakeDebugToggle 读取并清除本帧的调试开关请求
func (s *PlayerControlSystem) TakeDebugToggle() bool {
	v := s.debugRequested
	s.debugRequested = false
	return v
}

func (s *PlayerControlSystem) onDayStarted(event.Event) {
	for _, id := range ecs.GetEntitiesWith1[*components.PlayerComponent](s.em) {
		p, _ := ecs.GetComponent[*components.PlayerComponent](s.em, id)
		p.Stamina = p.MaxStamina
		p.Exhausted = false
	}
}

// Update 处理本帧输入
func (s *PlayerControlSystem) Update(deltaTime float64) {
	if s.input.JustPressed(ActionPause) {
		s.paused = !s.paused
		s.log.Info("pause toggled", "paused", s.paused)
	}
	if s.input.JustPressed(ActionDebug) {
		s.debugRequested = true
	}
	if s.paused {
		return
	}

	ids := ecs.GetEntitiesWith2[*components.PlayerComponent, *components.MovementComponent](s.em)
	for _, id := range ids {
		p, _ := ecs.GetComponent[*components.PlayerComponent](s.em, id)
		m, _ := ecs.GetComponent[*components.MovementComponent](s.em, id)
		s.regen(p, deltaTime)
		s.move(id, m)
		used := s.act(id, m)
		s.animate(id, m, deltaTime, used)
	}
}

// regen 体力恢复，回满时清除力竭标记
func (s *PlayerControlSystem) regen(p *components.PlayerComponent, deltaTime float64) {
	p.Stamina = math.Min(p.MaxStamina, p.Stamina+p.StaminaRegenPerSecond*deltaTime)
	if p.Exhausted && p.Stamina >= p.MaxStamina {
		p.Exhausted = false
	}
}

// move 方向键映射为网格移动，同时按下两轴时水平优先
func (s *PlayerControlSystem) move(id ecs.EntityID, m *components.MovementComponent) {
	dx, dy := s.input.MoveAxis()
	if dx != 0 {
		dy = 0
	}
	if dx == 0 && dy == 0 {
		return
	}
	if !s.movement.RequestGridMove(id, dx, dy) && !m.Moving {
		// 静止且请求被拒绝时原地转向
		m.Facing = facingFor(float64(dx), float64(dy), m.Facing)
	}
}

// FacingTile 返回实体所在瓦片与面前的瓦片
func (s *PlayerControlSystem) FacingTile(m *components.MovementComponent) (fx, fy int) {
	ts := float64(s.cfg.World.TileSize)
	tx, ty := utils.WorldToTile(m.X+ts/2, m.Y+ts/2, ts)
	ddx, ddy := m.Facing.Delta()
	return tx + ddx, ty + ddy
}

// act 处理动作按键，返回本帧是否成功使用了工具
func (s *PlayerControlSystem) act(id ecs.EntityID, m *components.MovementComponent) bool {
	inv, ok := ecs.GetComponent[*components.InventoryComponent](s.em, id)
	if !ok {
		return false
	}
	if s.input.JustPressed(ActionNextTool) {
		s.cycleTool(inv)
	}
	if s.input.JustPressed(ActionNextSeed) {
		s.cycleSeed(inv)
	}
	if s.input.JustPressed(ActionUpgradeTool) {
		s.record(s.farming.UpgradeTool(id, inv.SelectedTool))
	}
	if s.input.JustPressed(ActionRepairTool) {
		s.record(s.farming.RepairTool(id, inv.SelectedTool))
	}
	if s.input.JustPressed(ActionSleep) && s.clock != nil {
		s.log.Info("sleeping until next day")
		s.clock.NextDay()
	}

	fx, fy := s.FacingTile(m)
	if ptr := s.input.Pointer(); ptr.JustPressed {
		ts := float64(s.cfg.World.TileSize)
		tx, ty, valid := utils.ScreenToTile(ptr.X, ptr.Y, s.cameraX, s.cameraY, ts, s.cfg.World.Width, s.cfg.World.Height)
		px, py := utils.WorldToTile(m.X+ts/2, m.Y+ts/2, ts)
		// 只响应相邻瓦片（含斜角）
		if valid && absInt(tx-px) <= 1 && absInt(ty-py) <= 1 && (tx != px || ty != py) {
			return s.useTool(id, inv, tx, ty)
		}
	}

	used := false
	if s.input.JustPressed(ActionUseTool) {
		used = s.useTool(id, inv, fx, fy)
	}
	if s.input.JustPressed(ActionInteract) {
		s.record(s.interact(id, inv, fx, fy))
	}
	if s.input.JustPressed(ActionFish) && s.fishing != nil {
		s.fish(id, fx, fy)
	}
	return used
}

func (s *PlayerControlSystem) useTool(id ecs.EntityID, inv *components.InventoryComponent, x, y int) bool {
	var r ActionResult
	if inv.SelectedTool == types.ToolWateringCan && s.IsWater(x, y) {
		r = s.farming.RefillWateringCan(id, x, y)
	} else {
		r = s.farming.UseSelectedTool(id, x, y)
	}
	s.record(r)
	return r.OK
}

// interact 面前瓦片上：作物成熟则收获；空地则播种；否则施肥
func (s *PlayerControlSystem) interact(id ecs.EntityID, inv *components.InventoryComponent, x, y int) ActionResult {
	if crop, ok := s.farming.CropAt(x, y); ok {
		if crop.Ready() {
			return s.farming.HarvestCrop(id, x, y)
		}
		return s.farming.ApplyFertilizer(id, x, y)
	}
	if inv.SelectedSeed != "" && inv.Seeds[inv.SelectedSeed] > 0 {
		return s.farming.PlantSeed(id, x, y, inv.SelectedSeed)
	}
	return s.farming.ApplyFertilizer(id, x, y)
}

func (s *PlayerControlSystem) fish(id ecs.EntityID, x, y int) {
	if s.fishing.State(id) != FishingIdle {
		s.record(s.fishing.Hook(id))
		return
	}
	if !s.IsWater(x, y) {
		s.record(fail(ReasonInvalidState))
		return
	}
	s.record(s.fishing.Cast(id, x, y))
}

func (s *PlayerControlSystem) record(r ActionResult) {
	s.lastResult = r
	if !r.OK {
		s.log.Debug("action rejected", "reason", r.Reason)
	}
}

// cycleTool 切换到背包中的下一把工具
func (s *PlayerControlSystem) cycleTool(inv *components.InventoryComponent) {
	owned := make([]types.ToolType, 0, len(types.AllTools))
	for _, t := range types.AllTools {
		if _, ok := inv.Tools[t]; ok {
			owned = append(owned, t)
		}
	}
	if len(owned) == 0 {
		return
	}
	i := slices.Index(owned, inv.SelectedTool)
	inv.SelectedTool = owned[(i+1)%len(owned)]
}

// cycleSeed 切换到下一种仍有库存的种子（按名称排序）
func (s *PlayerControlSystem) cycleSeed(inv *components.InventoryComponent) {
	var owned []types.CropType
	for c, n := range inv.Seeds {
		if n > 0 {
			owned = append(owned, c)
		}
	}
	if len(owned) == 0 {
		inv.SelectedSeed = ""
		return
	}
	slices.Sort(owned)
	i := slices.Index(owned, inv.SelectedSeed)
	inv.SelectedSeed = owned[(i+1)%len(owned)]
}

func (s *PlayerControlSystem) animate(id ecs.EntityID, m *components.MovementComponent, deltaTime float64, used bool) {
	if s.animator == nil {
		return
	}
	speed := 0.0
	if deltaTime > 0 {
		speed = math.Hypot(m.LastDX, m.LastDY) / deltaTime
	}
	s.animator.SetFloat(id, ParamSpeed, speed)
	s.animator.SetBool(id, ParamUsingTool, used)
	s.animator.SetFacing(id, m.Facing.String())
}
