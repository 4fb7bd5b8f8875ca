package game

import (
	"image/color"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/utils"
)

// SceneFactory 场景工厂函数类型
// 每次切换到该场景时调用，返回新的场景实例
type SceneFactory func() Scene

// transitionLayer 转场遮罩位于 UI 之上、调试层之下
const transitionLayer = render.LayerUI + 50

type transitionPhase int

const (
	phaseIdle transitionPhase = iota
	phaseFadeOut
	phaseFadeIn
)

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Render methods are called at any given time.
//
// 场景切换通过 Request 排队：同一时刻只有一个转场在进行，
// 最多保留一个待处理请求，新请求覆盖旧的待处理请求。
// 转场分淡出、淡入两段，各占 TransitionSeconds 的一半，切换发生在中点。
type SceneManager struct {
	factories map[string]SceneFactory

	current     Scene
	currentName string

	phase    transitionPhase
	target   string  // 正在进行的转场目标
	pending  string  // 等待中的请求，空串表示无
	elapsed  float64 // 当前阶段已用时间
	duration float64 // 完整转场时长（秒）

	width, height float64
	bus           *event.Bus
	log           *log.Logger
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use Request to set the initial scene.
//
// 参数：
//   - transitionSeconds: 完整转场时长，0 表示立即切换
//   - width, height: 遮罩覆盖的屏幕尺寸
//   - bus: 事件总线，发布 SceneChanged（可为 nil）
func NewSceneManager(transitionSeconds float64, width, height int, bus *event.Bus) *SceneManager {
	return &SceneManager{
		factories: make(map[string]SceneFactory),
		duration:  max(transitionSeconds, 0),
		width:     float64(width),
		height:    float64(height),
		bus:       bus,
		log:       logging.For("SceneManager"),
	}
}

// Register 注册场景工厂
func (sm *SceneManager) Register(name string, factory SceneFactory) {
	sm.factories[name] = factory
}

// Names 返回已注册的场景名（有序）
func (sm *SceneManager) Names() []string {
	names := make([]string, 0, len(sm.factories))
	for name := range sm.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Request 请求切换到指定场景
//
// 未注册的场景记录警告并返回 false。
// 有转场进行中时请求进入等待，新的请求会覆盖尚未开始的等待请求。
func (sm *SceneManager) Request(name string) bool {
	if _, ok := sm.factories[name]; !ok {
		if hint := utils.Suggest(name, sm.Names()); hint != "" {
			sm.log.Warn("unknown scene", "scene", name, "didYouMean", hint)
		} else {
			sm.log.Warn("unknown scene", "scene", name)
		}
		return false
	}
	if sm.pending != "" && sm.pending != name {
		sm.log.Debug("pending scene request replaced", "old", sm.pending, "new", name)
	}
	sm.pending = name
	return true
}

// Current 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) Current() Scene {
	return sm.current
}

// CurrentName 返回当前场景名
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// Transitioning 是否有转场正在进行
func (sm *SceneManager) Transitioning() bool {
	return sm.phase != phaseIdle
}

// Pending 返回等待中的场景请求
func (sm *SceneManager) Pending() string {
	return sm.pending
}

// Update updates the transition state and then the currently active scene.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	sm.advance(deltaTime)
	if sm.current != nil {
		sm.current.Update(deltaTime)
	}
}

func (sm *SceneManager) advance(deltaTime float64) {
	half := sm.duration / 2

	if sm.phase == phaseIdle {
		if sm.pending == "" {
			return
		}
		sm.target, sm.pending = sm.pending, ""
		sm.elapsed = 0
		// 没有当前场景时无需淡出
		if sm.current == nil || half <= 0 {
			sm.swap()
			sm.phase = phaseFadeIn
		} else {
			sm.phase = phaseFadeOut
			return
		}
	} else {
		sm.elapsed += deltaTime
	}

	if sm.phase == phaseFadeOut && sm.elapsed >= half {
		sm.elapsed -= half
		sm.swap()
		sm.phase = phaseFadeIn
	}
	if sm.phase == phaseFadeIn && sm.elapsed >= half {
		sm.phase = phaseIdle
		sm.elapsed = 0
		sm.target = ""
	}
}

// swap 执行实际切换
func (sm *SceneManager) swap() {
	next := sm.factories[sm.target]()
	if next == nil {
		sm.log.Error("scene factory returned nil", "scene", sm.target)
		return
	}
	if ex, ok := sm.current.(Exiter); ok {
		ex.Exit()
	}
	prev := sm.currentName
	sm.current, sm.currentName = next, sm.target
	if en, ok := next.(Enterer); ok {
		en.Enter()
	}
	sm.log.Info("scene changed", "from", prev, "to", sm.currentName)
	sm.bus.Publish(event.Event{Type: event.SceneChanged, Target: sm.currentName, Detail: prev})
}

// fadeAlpha 返回遮罩不透明度 0..1
func (sm *SceneManager) fadeAlpha() float64 {
	half := sm.duration / 2
	if half <= 0 {
		return 0
	}
	p := min(sm.elapsed/half, 1)
	switch sm.phase {
	case phaseFadeOut:
		return utils.EaseInOutCubic(p)
	case phaseFadeIn:
		return 1 - utils.EaseInOutCubic(p)
	}
	return 0
}

// Render draws the current scene and the transition overlay.
func (sm *SceneManager) Render(q *render.Queue) {
	if sm.current != nil {
		sm.current.Render(q)
	}
	if a := sm.fadeAlpha(); a > 0 {
		q.Rect(transitionLayer, 0, 0, sm.width, sm.height, color.RGBA{A: uint8(a * 255)}, true)
	}
}
