package game

import (
	"testing"

	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/render"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	name         string
	updateCalled bool
	renderCalled bool
	deltaTime    float64
	entered      int
	exited       int
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Render(q *render.Queue) {
	m.renderCalled = true
	q.Text(render.LayerUI, m.name, 0, 0, render.White)
}

func (m *MockScene) Enter() { m.entered++ }
func (m *MockScene) Exit()  { m.exited++ }

// newTestSceneManager 注册 a、b、c 三个场景，每次切换创建新实例并记录
func newTestSceneManager(transition float64) (*SceneManager, map[string][]*MockScene, *event.Bus) {
	bus := event.NewBus()
	sm := NewSceneManager(transition, 100, 100, bus)
	created := make(map[string][]*MockScene)
	for _, name := range []string{"a", "b", "c"} {
		name := name
		sm.Register(name, func() Scene {
			s := &MockScene{name: name}
			created[name] = append(created[name], s)
			return s
		})
	}
	return sm, created, bus
}

// TestSceneManagerInitialRequest 没有当前场景时首次请求立即生效
func TestSceneManagerInitialRequest(t *testing.T) {
	sm, created, _ := newTestSceneManager(0)

	if sm.Current() != nil {
		t.Fatal("Expected no scene initially")
	}
	if !sm.Request("a") {
		t.Fatal("Request(a) = false")
	}
	sm.Update(0.016)

	if sm.CurrentName() != "a" {
		t.Fatalf("CurrentName = %q, want a", sm.CurrentName())
	}
	if len(created["a"]) != 1 || created["a"][0].entered != 1 {
		t.Error("Scene a should be created and entered once")
	}
	if !created["a"][0].updateCalled || created["a"][0].deltaTime != 0.016 {
		t.Error("Scene's Update method was not called with the frame delta")
	}
}

// TestSceneManagerUnknownScene 未注册场景返回 false 且不影响当前场景
func TestSceneManagerUnknownScene(t *testing.T) {
	sm, _, _ := newTestSceneManager(0)
	sm.Request("a")
	sm.Update(0.016)

	if sm.Request("farmm") {
		t.Error("Request of unknown scene should return false")
	}
	if sm.Pending() != "" {
		t.Errorf("Pending = %q, want empty", sm.Pending())
	}
	sm.Update(0.016)
	if sm.CurrentName() != "a" {
		t.Errorf("CurrentName = %q, want a", sm.CurrentName())
	}
}

// TestSceneManagerTransitionQueue 转场期间的请求排队，后到的请求覆盖等待中的请求
func TestSceneManagerTransitionQueue(t *testing.T) {
	sm, created, bus := newTestSceneManager(1.0)
	var changes []string
	bus.Subscribe(event.SceneChanged, func(e event.Event) {
		changes = append(changes, e.Detail+">"+e.Target)
	})

	sm.Request("a")
	sm.Update(0)   // a 立即进入并开始淡入
	sm.Update(0.5) // 淡入完成
	bus.Dispatch()
	if sm.Transitioning() {
		t.Fatal("Expected idle after fade-in")
	}

	sm.Request("b")
	sm.Update(0) // 开始淡出
	if !sm.Transitioning() {
		t.Fatal("Expected a transition in flight")
	}

	// 转场进行中的两个请求：c 覆盖 a
	sm.Request("a")
	sm.Request("c")
	if sm.Pending() != "c" {
		t.Fatalf("Pending = %q, want c", sm.Pending())
	}

	sm.Update(0.25)
	if sm.CurrentName() != "a" {
		t.Errorf("Swap should not happen before the midpoint, current = %q", sm.CurrentName())
	}
	sm.Update(0.25) // 到达中点，切到 b
	if sm.CurrentName() != "b" {
		t.Fatalf("CurrentName = %q, want b", sm.CurrentName())
	}
	if created["a"][0].exited != 1 {
		t.Error("Scene a should be exited once")
	}

	sm.Update(0.5) // b 淡入完成
	sm.Update(0)   // 处理等待中的 c，开始淡出
	sm.Update(0.5)
	if sm.CurrentName() != "c" {
		t.Fatalf("CurrentName = %q, want c", sm.CurrentName())
	}
	if len(created["a"]) != 1 {
		t.Errorf("Replaced request for a should never run, created %d", len(created["a"]))
	}

	bus.Dispatch()
	want := []string{">a", "a>b", "b>c"}
	if len(changes) != len(want) {
		t.Fatalf("SceneChanged events = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change[%d] = %q, want %q", i, changes[i], want[i])
		}
	}
}

// TestSceneManagerRenderOverlay 转场中绘制遮罩，空闲时不绘制
func TestSceneManagerRenderOverlay(t *testing.T) {
	sm, _, _ := newTestSceneManager(1.0)
	sm.Request("a")
	sm.Update(0)
	sm.Update(0.5)

	q := render.NewQueue()
	rec := render.NewRecorder()
	sm.Render(q)
	q.Flush(rec)
	for _, c := range rec.Commands {
		if isOverlay(c) {
			t.Fatal("Idle manager should not draw the transition overlay")
		}
	}

	sm.Request("b")
	sm.Update(0)
	sm.Update(0.4)

	q.Reset()
	rec = render.NewRecorder()
	sm.Render(q)
	q.Flush(rec)
	found := false
	for _, c := range rec.Commands {
		if isOverlay(c) {
			found = true
			if c.Color.A == 0 {
				t.Error("Overlay alpha should be > 0 during fade-out")
			}
		}
	}
	if !found {
		t.Error("Expected transition overlay during fade-out")
	}
	if texts := rec.Texts(); len(texts) == 0 || texts[0] != "a" {
		t.Errorf("Scene a should still render during fade-out, got %v", texts)
	}
}

// isOverlay 覆盖全屏的填充矩形即转场遮罩
func isOverlay(c render.Command) bool {
	return c.Kind == render.KindRect && c.Filled && c.W == 100 && c.H == 100
}

// TestSceneManagerNilFactory 工厂返回 nil 时保持当前场景
func TestSceneManagerNilFactory(t *testing.T) {
	sm, _, _ := newTestSceneManager(0)
	sm.Register("broken", func() Scene { return nil })
	sm.Request("a")
	sm.Update(0)

	sm.Request("broken")
	sm.Update(0)
	if sm.CurrentName() != "a" {
		t.Errorf("CurrentName = %q, want a", sm.CurrentName())
	}
	if sm.Transitioning() {
		t.Error("Manager should return to idle")
	}
}
