package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/farmstead/pkg/utils"
)

// Action 逻辑输入动作，游戏逻辑只认动作不认按键
type Action int

const (
	ActionMoveUp Action = iota
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionUseTool  // 对面前的格子使用当前工具
	ActionInteract // 播种 / 收获 / 施肥
	ActionNextTool
	ActionNextSeed
	ActionFish
	ActionSleep
	ActionPause
	ActionDebug
	ActionSave // 快速存档
	ActionLoad // 快速读档
	ActionUpgradeTool
	ActionRepairTool
	actionCount
)

// InputSource 输入设备
// 生产环境使用 EbitenInput，测试中注入假的实现
type InputSource interface {
	IsKeyPressed(key ebiten.Key) bool
	IsKeyJustPressed(key ebiten.Key) bool
	Pointer() utils.PointerState
}

// EbitenInput 基于 ebiten 的键盘鼠标输入
type EbitenInput struct{}

func (EbitenInput) IsKeyPressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }
func (EbitenInput) IsKeyJustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }
func (EbitenInput) Pointer() utils.PointerState          { return utils.GetPointerState() }

// DefaultBindings 默认按键绑定（WASD 与方向键均可移动）
func DefaultBindings() map[Action][]ebiten.Key {
	return map[Action][]ebiten.Key{
		ActionMoveUp:    {ebiten.KeyW, ebiten.KeyArrowUp},
		ActionMoveDown:  {ebiten.KeyS, ebiten.KeyArrowDown},
		ActionMoveLeft:  {ebiten.KeyA, ebiten.KeyArrowLeft},
		ActionMoveRight: {ebiten.KeyD, ebiten.KeyArrowRight},
		ActionUseTool:   {ebiten.KeySpace, ebiten.KeyC},
		ActionInteract:  {ebiten.KeyE, ebiten.KeyX},
		ActionNextTool:  {ebiten.KeyQ, ebiten.KeyTab},
		ActionNextSeed:  {ebiten.KeyR},
		ActionFish:      {ebiten.KeyF},
		ActionSleep:     {ebiten.KeyZ},
		ActionPause:     {ebiten.KeyEscape},
		ActionDebug:     {ebiten.KeyF3},
		ActionSave:      {ebiten.KeyF5},
		ActionLoad:      {ebiten.KeyF9},

		ActionUpgradeTool: {ebiten.KeyU},
		ActionRepairTool:  {ebiten.KeyB},
	}
}

// InputSystem 每帧轮询一次输入设备并缓存结果
//
// 引擎保证它在每帧最先更新且只更新一次，之后的系统读取同一份快照。
type InputSystem struct {
	source   InputSource
	bindings map[Action][]ebiten.Key

	held    [actionCount]bool
	just    [actionCount]bool
	pointer utils.PointerState
}

// NewInputSystem 创建输入系统，bindings 为 nil 时使用默认绑定
func NewInputSystem(source InputSource, bindings map[Action][]ebiten.Key) *InputSystem {
	if source == nil {
		source = EbitenInput{}
	}
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &InputSystem{source: source, bindings: bindings}
}

// Update 轮询输入设备
func (s *InputSystem) Update(deltaTime float64) {
	for a := Action(0); a < actionCount; a++ {
		s.held[a] = false
		s.just[a] = false
		for _, key := range s.bindings[a] {
			if s.source.IsKeyPressed(key) {
				s.held[a] = true
			}
			if s.source.IsKeyJustPressed(key) {
				s.just[a] = true
			}
		}
	}
	s.pointer = s.source.Pointer()
}

// Held 动作对应的按键是否处于按下状态
func (s *InputSystem) Held(a Action) bool {
	return a >= 0 && a < actionCount && s.held[a]
}

// JustPressed 动作是否在本帧刚刚触发
func (s *InputSystem) JustPressed(a Action) bool {
	return a >= 0 && a < actionCount && s.just[a]
}

// Pointer 本帧的鼠标状态
func (s *InputSystem) Pointer() utils.PointerState {
	return s.pointer
}

// MoveAxis 返回按住的移动方向，相反方向同时按下时互相抵消
func (s *InputSystem) MoveAxis() (dx, dy int) {
	if s.held[ActionMoveLeft] {
		dx--
	}
	if s.held[ActionMoveRight] {
		dx++
	}
	if s.held[ActionMoveUp] {
		dy--
	}
	if s.held[ActionMoveDown] {
		dy++
	}
	return dx, dy
}
