package scenes

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/engine"
	"github.com/decker502/farmstead/pkg/entities"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/game"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/storage"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/utils"
)

// 存档槽名
const (
	AutosaveSlot  = "autosave"
	QuickSaveSlot = "quick"
)

const (
	noticeSeconds    = 2.5 // HUD 提示的显示时长（秒）
	cameraFollowRate = 8.0 // 镜头跟随的收敛速度（每秒）
)

// FarmOptions 农场场景的依赖
type FarmOptions struct {
	Config     *config.GameConfig
	Crops      *config.CropTable
	Tools      *config.ToolTable
	Animations *config.AnimationSet

	// Input 由引擎在每帧开头轮询，场景只读取快照
	Input *systems.InputSystem

	Saves  *game.SaveManager // 可为 nil，此时存读档无效
	Ledger HarvestRecorder   // 可为 nil，此时不记录收获账本

	// Now 钓鱼收竿窗口使用的真实时钟，nil 时使用 time.Now
	Now func() time.Time
	// Seed 杂物布局和钓鱼随机数的种子
	Seed int64
	// ResumeSlot 进入场景时读取的存档槽，空串表示新游戏
	ResumeSlot string
	// OnDebug 玩家切换调试叠加层时回调
	OnDebug func(on bool)
	// SnapCamera 关闭摄像机平滑
	SnapCamera bool
}

// HarvestRecorder 收获账本（storage.SlotStore 实现）
type HarvestRecorder interface {
	RecordHarvest(r storage.HarvestRecord) (int64, error)
}

// FarmStats 本局累计数据（HUD 与模拟报告用）
type FarmStats struct {
	Harvests       int
	Amount         int
	Value          int // 按品质折算的收获总价值
	FishCaught     int
	Days           int // 经过的换日次数
	ToolUses       int
	DebrisLeft     int
	Exhaustions    int
	LedgerErrors   int
	SystemFailures int // 被隔离的系统更新失败次数
}

// FarmScene 农场主场景
//
// 场景持有自己的实体管理器和事件总线，所有系统在这里组装。
// 更新顺序：玩家控制 → NPC → 移动 → 碰撞 → 农田 → 时钟 → 钓鱼 → 动画状态机 → 动画 → 生命周期，
// 最后派发本帧事件。
type FarmScene struct {
	opts FarmOptions
	cfg  *config.GameConfig

	em  *ecs.EntityManager
	bus *event.Bus

	collision *systems.CollisionSystem
	movement  *systems.MovementSystem
	farming   *systems.FarmingSystem
	clock     *systems.TimeSystem
	fishing   *systems.FishingSystem
	anims     *systems.AnimationSystem
	animator  *systems.AnimationStateMachine
	control   *systems.PlayerControlSystem
	npcs      *systems.NPCSystem
	lifetime  *systems.LifetimeSystem
	pipeline  []sceneSystem

	player ecs.EntityID
	npc    ecs.EntityID

	cameraX, cameraY float64
	debug            bool
	notice           string
	noticeTTL        float64
	stats            FarmStats

	log *log.Logger
}

// NewFarmScene 组装农场场景
func NewFarmScene(opts FarmOptions) (*FarmScene, error) {
	if opts.Config == nil || opts.Crops == nil || opts.Animations == nil {
		return nil, fmt.Errorf("farm scene requires config, crop table and animation set")
	}
	if opts.Input == nil {
		opts.Input = systems.NewInputSystem(nil, nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cfg := opts.Config
	s := &FarmScene{
		opts:  opts,
		cfg:   cfg,
		em:    ecs.NewEntityManager(),
		bus:   event.NewBus(),
		debug: cfg.Engine.DebugOverlay,
		log:   logging.For("FarmScene"),
	}

	s.collision = systems.NewCollisionSystem(cfg.Collision, s.bus)
	s.movement = systems.NewMovementSystem(s.em, s.collision)
	s.clock = systems.NewTimeSystem(cfg.Time, s.bus)
	s.farming = systems.NewFarmingSystem(s.em, cfg, opts.Crops, s.bus)
	s.farming.SetCollision(s.collision)
	s.farming.SetToolTable(opts.Tools)
	s.farming.SetEnvironment(s.clock)
	s.fishing = systems.NewFishingSystem(s.em, cfg.Fishing, s.bus, opts.Now, opts.Seed)
	s.fishing.SetEnvironment(s.clock)
	s.anims = systems.NewAnimationSystem(s.em, s.bus)
	s.animator = systems.NewAnimationStateMachine(s.em, s.anims, opts.Animations)
	s.control = systems.NewPlayerControlSystem(s.em, cfg, opts.Input, s.movement, s.farming, s.bus)
	s.control.SetFishing(s.fishing)
	s.control.SetClock(s.clock)
	s.control.SetAnimator(s.animator)
	s.npcs = systems.NewNPCSystem(s.em, s.movement, s.animator)
	s.lifetime = systems.NewLifetimeSystem(s.em, s.collision)
	s.pipeline = []sceneSystem{
		{"NPCSystem", s.npcs.Update},
		{"MovementSystem", s.movement.Update},
		{"CollisionSystem", s.collision.Update},
		{"FarmingSystem", s.farming.Update},
		{"TimeSystem", s.clock.Update},
		{"FishingSystem", s.fishing.Update},
		{"AnimationStateMachine", s.animator.Update},
		{"AnimationSystem", s.anims.Update},
		{"LifetimeSystem", s.lifetime.Update},
	}

	if err := s.buildWorld(); err != nil {
		return nil, err
	}
	s.subscribe()
	s.updateCamera(0)
	return s, nil
}

// buildWorld 创建地图边界、池塘、杂物和角色
func (s *FarmScene) buildWorld() error {
	s.buildBounds()
	s.buildPond()

	player, err := entities.NewPlayer(s.em, s.cfg, s.opts.Tools, s.collision)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	s.player = player
	if err := s.animator.Attach(player, "player"); err != nil {
		s.log.Warn("player animation unavailable", "err", err)
	}

	npc, err := entities.NewNPC(s.em, s.cfg, s.collision, npcName, npcStartX, s.cfg.World.Height-npcRowFromBottom, npcRoute())
	if err != nil {
		return fmt.Errorf("failed to create npc: %w", err)
	}
	s.npc = npc
	if err := s.animator.Attach(npc, "npc"); err != nil {
		s.log.Warn("npc animation unavailable", "err", err)
	}

	s.scatterDebris()
	return nil
}

// Enter 场景激活时按需读取存档
func (s *FarmScene) Enter() {
	if s.opts.ResumeSlot == "" || s.opts.Saves == nil {
		return
	}
	if !s.opts.Saves.HasSlot(s.opts.ResumeSlot) {
		s.log.Info("no save to resume, starting a new farm", "slot", s.opts.ResumeSlot)
		return
	}
	if err := s.Load(s.opts.ResumeSlot); err != nil {
		s.log.Error("failed to resume save", "slot", s.opts.ResumeSlot, "err", err)
		s.say("Save could not be loaded")
	}
}

// Exit 场景被替换时自动存档
func (s *FarmScene) Exit() {
	s.SaveOnExit()
}

// sceneSystem 场景内按固定顺序更新的系统
type sceneSystem struct {
	name   string
	update func(deltaTime float64)
}

// Update 推进一帧
// 每个系统在独立的 recover 边界内更新，一个系统失败不影响同帧的其他系统
func (s *FarmScene) Update(deltaTime float64) {
	s.runSystem("PlayerControlSystem", s.control.Update, deltaTime)
	if s.control.TakeDebugToggle() {
		s.debug = !s.debug
		if s.opts.OnDebug != nil {
			s.opts.OnDebug(s.debug)
		}
	}
	s.handleSaveKeys()
	s.tickNotice(deltaTime)

	if !s.control.Paused() {
		for _, sys := range s.pipeline {
			s.runSystem(sys.name, sys.update, deltaTime)
		}
		s.em.RemoveMarkedEntities()
	}

	s.updateCamera(deltaTime)
	s.bus.Dispatch()
}

// runSystem 更新一个系统，panic 记录日志并发布 SubsystemFailed
// 包装了 engine.ErrFatal 的错误继续上抛，由引擎停止主循环
func (s *FarmScene) runSystem(name string, update func(float64), deltaTime float64) {
	err := engine.Guard(func() error {
		update(deltaTime)
		return nil
	})
	if err == nil {
		return
	}
	if errors.Is(err, engine.ErrFatal) {
		panic(err)
	}
	s.stats.SystemFailures++
	s.log.Error("system update failed", "system", name, "err", err)
	s.bus.Publish(event.Event{Type: event.SubsystemFailed, Target: name, Detail: err.Error()})
}

func (s *FarmScene) handleSaveKeys() {
	in := s.opts.Input
	if in.JustPressed(systems.ActionSave) {
		if err := s.Save(QuickSaveSlot); err != nil {
			s.log.Error("quick save failed", "err", err)
			s.say("Save failed")
		} else {
			s.say("Saved")
		}
	}
	if in.JustPressed(systems.ActionLoad) {
		if err := s.Load(QuickSaveSlot); err != nil {
			s.log.Warn("quick load failed", "err", err)
			s.say("No quick save")
		} else {
			s.say("Loaded")
		}
	}
}

// updateCamera 摄像机平滑跟随玩家，限制在地图范围内
// deltaTime <= 0 或 SnapCamera 时直接对准玩家
func (s *FarmScene) updateCamera(deltaTime float64) {
	m, ok := ecs.GetComponent[*components.MovementComponent](s.em, s.player)
	if !ok {
		return
	}
	ts := float64(s.cfg.World.TileSize)
	sw, sh := float64(s.cfg.Engine.ScreenWidth), float64(s.cfg.Engine.ScreenHeight)
	maxX := math.Max(0, float64(s.cfg.World.Width)*ts-sw)
	maxY := math.Max(0, float64(s.cfg.World.Height)*ts-sh)
	tx := clamp(m.X+ts/2-sw/2, 0, maxX)
	ty := clamp(m.Y+ts/2-sh/2, 0, maxY)
	if deltaTime <= 0 || s.opts.SnapCamera {
		s.cameraX, s.cameraY = tx, ty
	} else {
		s.cameraX = utils.Approach(s.cameraX, tx, cameraFollowRate, deltaTime)
		s.cameraY = utils.Approach(s.cameraY, ty, cameraFollowRate, deltaTime)
	}
	s.control.SetCamera(s.cameraX, s.cameraY)
}

func (s *FarmScene) say(msg string) {
	s.notice = msg
	s.noticeTTL = noticeSeconds
}

func (s *FarmScene) tickNotice(deltaTime float64) {
	if s.noticeTTL <= 0 {
		return
	}
	s.noticeTTL -= deltaTime
	if s.noticeTTL <= 0 {
		s.notice = ""
	}
}

// Bus 场景内的事件总线
func (s *FarmScene) Bus() *event.Bus { return s.bus }

// Player 玩家实体
func (s *FarmScene) Player() ecs.EntityID { return s.player }

// EntityManager 场景的实体管理器
func (s *FarmScene) EntityManager() *ecs.EntityManager { return s.em }

// Farming 农田系统
func (s *FarmScene) Farming() *systems.FarmingSystem { return s.farming }

// Clock 时间系统
func (s *FarmScene) Clock() *systems.TimeSystem { return s.clock }

// Collision 碰撞系统
func (s *FarmScene) Collision() *systems.CollisionSystem { return s.collision }

// Control 玩家控制系统
func (s *FarmScene) Control() *systems.PlayerControlSystem { return s.control }

// Stats 本局累计数据
func (s *FarmScene) Stats() FarmStats {
	st := s.stats
	st.DebrisLeft = s.countDebris()
	return st
}

// Notice 当前 HUD 提示
func (s *FarmScene) Notice() string { return s.notice }

// Camera 摄像机左上角世界坐标
func (s *FarmScene) Camera() (x, y float64) { return s.cameraX, s.cameraY }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
