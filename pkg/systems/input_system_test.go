package systems

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/farmstead/pkg/utils"
)

// fakeInput 可编程的输入源
type fakeInput struct {
	pressed map[ebiten.Key]bool
	just    map[ebiten.Key]bool
	pointer utils.PointerState
}

func newFakeInput() *fakeInput {
	return &fakeInput{pressed: map[ebiten.Key]bool{}, just: map[ebiten.Key]bool{}}
}

func (f *fakeInput) IsKeyPressed(k ebiten.Key) bool     { return f.pressed[k] }
func (f *fakeInput) IsKeyJustPressed(k ebiten.Key) bool { return f.just[k] }
func (f *fakeInput) Pointer() utils.PointerState        { return f.pointer }

// press 模拟按下（本帧刚按下且保持）
func (f *fakeInput) press(k ebiten.Key) {
	f.pressed[k] = true
	f.just[k] = true
}

// release 清空所有按键
func (f *fakeInput) release() {
	f.pressed = map[ebiten.Key]bool{}
	f.just = map[ebiten.Key]bool{}
}

func TestInputSystem_Bindings(t *testing.T) {
	src := newFakeInput()
	s := NewInputSystem(src, nil)

	src.press(ebiten.KeyArrowLeft)
	src.press(ebiten.KeyE)
	s.Update(0)

	if !s.Held(ActionMoveLeft) || !s.JustPressed(ActionInteract) {
		t.Error("expected move-left held and interact just pressed")
	}
	if s.Held(ActionMoveRight) || s.JustPressed(ActionUseTool) {
		t.Error("unbound actions should not be active")
	}

	// 第二帧：按键保持但不再是刚按下
	src.just = map[ebiten.Key]bool{}
	s.Update(0)
	if !s.Held(ActionMoveLeft) || s.JustPressed(ActionInteract) {
		t.Error("held state should persist, just-pressed should clear")
	}

	if s.Held(Action(-1)) || s.JustPressed(actionCount) {
		t.Error("out of range actions should be false")
	}
}

func TestInputSystem_MoveAxis(t *testing.T) {
	tests := []struct {
		name   string
		keys   []ebiten.Key
		dx, dy int
	}{
		{"none", nil, 0, 0},
		{"up", []ebiten.Key{ebiten.KeyW}, 0, -1},
		{"diagonal", []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowDown}, 1, 1},
		{"opposing cancel", []ebiten.Key{ebiten.KeyA, ebiten.KeyD}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeInput()
			s := NewInputSystem(src, nil)
			for _, k := range tt.keys {
				src.press(k)
			}
			s.Update(0)
			dx, dy := s.MoveAxis()
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("MoveAxis() = (%d, %d), want (%d, %d)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestInputSystem_Pointer(t *testing.T) {
	src := newFakeInput()
	src.pointer = utils.PointerState{JustPressed: true, X: 40, Y: 70}
	s := NewInputSystem(src, nil)
	s.Update(0)
	if p := s.Pointer(); !p.JustPressed || p.X != 40 || p.Y != 70 {
		t.Errorf("Pointer() = %+v", p)
	}
}
