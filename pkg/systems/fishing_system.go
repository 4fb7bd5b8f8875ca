package systems

import (
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/types"
)

// biteTimerName 咬钩计时器名称
const biteTimerName = "fish_bite"

// CatchWindow 收竿窗口 [Start, End)
//
// 窗口以真实时间记录，即使玩家的收竿操作晚了几帧才被处理，
// 过期判断也以收竿时刻的时钟为准。
type CatchWindow struct {
	Start time.Time
	End   time.Time
}

// Contains 时刻是否落在窗口内
func (w CatchWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Expired 时刻是否已超过窗口
func (w CatchWindow) Expired(t time.Time) bool {
	return !t.Before(w.End)
}

// FishingState 钓鱼状态
type FishingState int

const (
	FishingIdle    FishingState = iota
	FishingWaiting              // 已抛竿，等待咬钩
	FishingBiting               // 鱼已咬钩，窗口开放
)

// fallbackFish 当季鱼表为空时钓到的鱼
const fallbackFish = "carp"

type fishingSession struct {
	state        FishingState
	tileX, tileY int
	window       CatchWindow
}

// FishingSystem 钓鱼小游戏
//
// 抛竿后用 TimerComponent 按游戏时间等待咬钩；咬钩后开启真实时间的收竿窗口。
// 时钟通过 now 注入，测试中可以完全控制。
type FishingSystem struct {
	em       *ecs.EntityManager
	cfg      config.FishingConfig
	bus      *event.Bus
	now      func() time.Time
	rng      *rand.Rand
	env      GrowthEnvironment
	elapsed  float64 // 累计游戏秒，事件时间戳用
	sessions map[ecs.EntityID]*fishingSession
	log      *log.Logger
}

// NewFishingSystem 创建钓鱼系统，now 为 nil 时使用 time.Now
func NewFishingSystem(em *ecs.EntityManager, cfg config.FishingConfig, bus *event.Bus, now func() time.Time, seed int64) *FishingSystem {
	if now == nil {
		now = time.Now
	}
	return &FishingSystem{
		em:       em,
		cfg:      cfg,
		bus:      bus,
		now:      now,
		rng:      rand.New(rand.NewSource(seed)),
		sessions: make(map[ecs.EntityID]*fishingSession),
		log:      logging.For("FishingSystem"),
	}
}

// SetEnvironment 设置季节来源（决定鱼的种类）
func (s *FishingSystem) SetEnvironment(env GrowthEnvironment) {
	s.env = env
}

// State 返回执行者当前的钓鱼状态
func (s *FishingSystem) State(actor ecs.EntityID) FishingState {
	if sess, ok := s.sessions[actor]; ok {
		return sess.state
	}
	return FishingIdle
}

// Window 返回当前收竿窗口（仅 FishingBiting 时有效）
func (s *FishingSystem) Window(actor ecs.EntityID) (CatchWindow, bool) {
	sess, ok := s.sessions[actor]
	if !ok || sess.state != FishingBiting {
		return CatchWindow{}, false
	}
	return sess.window, true
}

// Cast 在水面瓦片抛竿
func (s *FishingSystem) Cast(actor ecs.EntityID, x, y int) ActionResult {
	p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	if _, busy := s.sessions[actor]; busy {
		return fail(ReasonBusy)
	}
	if p.Stamina < s.cfg.StaminaCost {
		return fail(ReasonExhausted)
	}

	spendStamina(s.bus, actor, p, s.cfg.StaminaCost, s.elapsed)
	delay := s.cfg.BiteDelayMin
	if span := s.cfg.BiteDelayMax - s.cfg.BiteDelayMin; span > 0 {
		delay += s.rng.Float64() * span
	}
	ecs.AddComponent(s.em, actor, &components.TimerComponent{Name: biteTimerName, TargetTime: delay})
	s.sessions[actor] = &fishingSession{state: FishingWaiting, tileX: x, tileY: y}
	s.log.Debug("line cast", "actor", actor, "tile", [2]int{x, y}, "delay", delay)
	return succeed(s.cfg.StaminaCost)
}

// Update 推进咬钩计时并让过期窗口失效
func (s *FishingSystem) Update(deltaTime float64) {
	s.elapsed += deltaTime
	now := s.now()
	for _, actor := range s.sortedActors() {
		sess := s.sessions[actor]
		switch sess.state {
		case FishingWaiting:
			timer, ok := ecs.GetComponent[*components.TimerComponent](s.em, actor)
			if !ok || timer.Name != biteTimerName {
				// 执行者被移除或计时器被替换，直接结束
				delete(s.sessions, actor)
				continue
			}
			if timer.Tick(deltaTime) {
				sess.state = FishingBiting
				sess.window = CatchWindow{Start: now, End: now.Add(s.cfg.CatchWindow())}
				ecs.RemoveComponent[*components.TimerComponent](s.em, actor)
				s.bus.Publish(event.Event{Type: event.FishBite, Actor: actor, TileX: sess.tileX, TileY: sess.tileY, Time: s.elapsed})
			}
		case FishingBiting:
			if sess.window.Expired(now) {
				s.escape(actor, sess, "expired")
			}
		}
	}
}

// Hook 收竿
// 等待中收竿会吓跑鱼；窗口内收竿钓到鱼；窗口过后收竿失败
func (s *FishingSystem) Hook(actor ecs.EntityID) ActionResult {
	sess, ok := s.sessions[actor]
	if !ok {
		return fail(ReasonInvalidState)
	}
	inv, ok := ecs.GetComponent[*components.InventoryComponent](s.em, actor)
	if !ok {
		return fail(ReasonNoActor)
	}

	switch sess.state {
	case FishingWaiting:
		ecs.RemoveComponent[*components.TimerComponent](s.em, actor)
		s.escape(actor, sess, "too_early")
		return fail(ReasonNotReady)
	case FishingBiting:
		if !sess.window.Contains(s.now()) {
			s.escape(actor, sess, "expired")
			return fail(ReasonExpired)
		}
	}

	fish := s.pickFish()
	inv.Items["fish_"+fish]++
	delete(s.sessions, actor)
	s.bus.Publish(event.Event{Type: event.FishCaught, Actor: actor, TileX: sess.tileX, TileY: sess.tileY, Target: fish, Time: s.elapsed})
	s.log.Info("fish caught", "actor", actor, "fish", fish)
	return ActionResult{OK: true, Reason: ReasonOK, Amount: 1}
}

// Cancel 收起鱼竿，不发布事件
func (s *FishingSystem) Cancel(actor ecs.EntityID) {
	if sess, ok := s.sessions[actor]; ok {
		if sess.state == FishingWaiting {
			ecs.RemoveComponent[*components.TimerComponent](s.em, actor)
		}
		delete(s.sessions, actor)
	}
}

func (s *FishingSystem) escape(actor ecs.EntityID, sess *fishingSession, why string) {
	delete(s.sessions, actor)
	s.bus.Publish(event.Event{Type: event.FishEscaped, Actor: actor, TileX: sess.tileX, TileY: sess.tileY, Detail: why, Time: s.elapsed})
}

func (s *FishingSystem) pickFish() string {
	season := types.SeasonSpring
	if s.env != nil {
		season = s.env.Season()
	}
	pool := s.cfg.Fish[string(season)]
	if len(pool) == 0 {
		return fallbackFish
	}
	return pool[s.rng.Intn(len(pool))]
}

func (s *FishingSystem) sortedActors() []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
