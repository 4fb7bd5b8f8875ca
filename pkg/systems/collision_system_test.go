package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/spatial"
	"github.com/decker502/farmstead/pkg/types"
)

func newTestCollision(bus *event.Bus) *CollisionSystem {
	return NewCollisionSystem(config.CollisionConfig{CellSize: 32, TriggerCooldown: 1.0}, bus)
}

var wall = BodyOptions{Layer: types.LayerObjects, Solid: true}

// TestCheckRect_AdjacentBodies 相邻（仅共享边）的碰撞体不算重叠
func TestCheckRect_AdjacentBodies(t *testing.T) {
	cs := newTestCollision(nil)
	a := cs.AddBody(0, 0, 32, 32, wall)
	b := cs.AddBody(32, 0, 32, 32, wall)

	got := cs.CheckRect(0, 0, 32, 32, types.LayerAll, 0)
	if len(got) != 1 || got[0].ID != a {
		t.Fatalf("checkRect(0,0,32,32) = %v, want only body %d", ids(got), a)
	}

	got = cs.CheckRect(0, 0, 33, 32, types.LayerAll, 0)
	if len(got) != 2 || got[0].ID != a || got[1].ID != b {
		t.Fatalf("checkRect(0,0,33,32) = %v, want [%d %d]", ids(got), a, b)
	}
}

// TestCheckRect_Dedup 跨越多个单元的碰撞体只返回一次
func TestCheckRect_Dedup(t *testing.T) {
	cs := newTestCollision(nil)
	big := cs.AddBody(10, 10, 100, 100, wall)
	if n := len(cs.CellsOf(big)); n != 16 {
		t.Fatalf("expected body to span 16 cells, got %d", n)
	}

	got := cs.CheckRect(0, 0, 200, 200, types.LayerAll, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 body, got %v", ids(got))
	}
}

func TestCheckRect_MaskAndExclude(t *testing.T) {
	cs := newTestCollision(nil)
	terrain := cs.AddBody(0, 0, 32, 32, BodyOptions{Layer: types.LayerTerrain, Solid: true})
	trigger := cs.AddBody(0, 0, 32, 32, BodyOptions{Layer: types.LayerTriggers, Trigger: true})
	self := cs.AddBody(0, 0, 16, 16, BodyOptions{Layer: types.LayerEntities, Solid: true})

	got := cs.CheckRect(0, 0, 32, 32, types.LayerTriggers, 0)
	if len(got) != 1 || got[0].ID != trigger {
		t.Errorf("trigger mask: got %v, want [%d]", ids(got), trigger)
	}

	got = cs.CheckRect(0, 0, 32, 32, types.LayerAll, self)
	if !slices.Equal(ids(got), []types.BodyID{terrain, trigger}) {
		t.Errorf("exclude self: got %v", ids(got))
	}
}

func TestCheckPoint(t *testing.T) {
	cs := newTestCollision(nil)
	rock := cs.AddBody(32, 32, 32, 32, wall)
	cs.AddBody(32, 32, 32, 32, BodyOptions{Layer: types.LayerTriggers, Trigger: true})

	tests := []struct {
		name string
		x, y float64
		mask types.Layer
		want types.BodyID
	}{
		{"inside", 40, 40, types.LayerAll, rock},
		{"top-left corner", 32, 32, types.LayerAll, rock},
		{"right edge is outside", 64, 40, types.LayerAll, 0},
		{"mask mismatch", 40, 40, types.LayerTerrain, 0},
		{"trigger is not solid", 40, 40, types.LayerTriggers, 0},
		{"empty space", 5, 5, types.LayerAll, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cs.CheckPoint(tt.x, tt.y, tt.mask)
			var id types.BodyID
			if got != nil {
				id = got.ID
			}
			if id != tt.want {
				t.Errorf("CheckPoint(%v, %v) = %d, want %d", tt.x, tt.y, id, tt.want)
			}
		})
	}
}

func TestUnknownBodyFailsSilently(t *testing.T) {
	cs := newTestCollision(nil)
	id := cs.AddBody(0, 0, 10, 10, wall)
	cs.RemoveBody(id)
	cs.RemoveBody(id) // 幂等

	if cs.UpdateBody(id, 5, 5) {
		t.Error("UpdateBody on removed body should return false")
	}
	if cs.CanMoveTo(id, 5, 5) {
		t.Error("CanMoveTo on removed body should return false")
	}
	if dx, dy := cs.MoveBody(id, 5, 5); dx != 0 || dy != 0 {
		t.Errorf("MoveBody on removed body = (%v, %v), want (0, 0)", dx, dy)
	}
	if cs.CellsOf(id) != nil {
		t.Error("removed body should have no cells")
	}
	if cs.BodyCount() != 0 {
		t.Errorf("expected 0 bodies, got %d", cs.BodyCount())
	}
}

// TestGridMembershipInvariant 任意增删改序列后，单元归属等于矩形实际覆盖的单元
func TestGridMembershipInvariant(t *testing.T) {
	cs := newTestCollision(nil)
	rng := rand.New(rand.NewSource(7))
	ix := spatial.NewIndex(32)
	var live []types.BodyID

	for step := 0; step < 1500; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			id := cs.AddBody(rng.Float64()*300-50, rng.Float64()*300-50, rng.Float64()*80, rng.Float64()*80, wall)
			live = append(live, id)
		case op == 1:
			i := rng.Intn(len(live))
			cs.UpdateBody(live[i], rng.Float64()*300-50, rng.Float64()*300-50, rng.Float64()*80, rng.Float64()*80)
		default:
			i := rng.Intn(len(live))
			cs.RemoveBody(live[i])
			live = slices.Delete(live, i, i+1)
		}
	}

	for _, id := range live {
		body, ok := cs.Body(id)
		if !ok {
			t.Fatalf("live body %d missing", id)
		}
		want := ix.CellsFor(body.Rect)
		got := cs.CellsOf(id)
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Fatalf("body %d rect %+v: cells %v, want %v", id, body.Rect, got, want)
		}
	}
}

func TestCanMoveTo(t *testing.T) {
	cs := newTestCollision(nil)
	player := cs.AddBody(0, 0, 16, 16, BodyOptions{Layer: types.LayerEntities, Solid: true})
	cs.AddBody(32, 0, 32, 32, wall)
	cs.AddBody(0, 64, 32, 32, BodyOptions{Layer: types.LayerEntities, Solid: true}) // 其他角色不阻挡
	cs.AddBody(0, 32, 32, 32, BodyOptions{Layer: types.LayerTerrain})                // 非实体不阻挡

	if !cs.CanMoveTo(player, 16, 0) {
		t.Error("touching the wall edge should be allowed")
	}
	if cs.CanMoveTo(player, 17, 0) {
		t.Error("overlapping the wall should be blocked")
	}
	if !cs.CanMoveTo(player, 0, 64) {
		t.Error("entity layer bodies should not block movement")
	}
	if !cs.CanMoveTo(player, 0, 32) {
		t.Error("non-solid terrain should not block movement")
	}
}

// TestMoveBody_Sliding 斜向被挡时沿未阻挡的轴滑动
func TestMoveBody_Sliding(t *testing.T) {
	tests := []struct {
		name           string
		wallX, wallY   float64
		wallW, wallH   float64
		dx, dy         float64
		wantDX, wantDY float64
	}{
		{"free diagonal", 200, 200, 32, 32, 4, 4, 4, 4},
		{"wall on right slides down", 16, -100, 32, 300, 4, 4, 0, 4},
		{"wall below slides right", -100, 16, 300, 32, 4, 4, 4, 0},
		{"corner only blocks diagonal", 16, 16, 32, 32, 4, 4, 4, 0},
		{"fully blocked", 16, 0, 32, 32, 4, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newTestCollision(nil)
			p := cs.AddBody(0, 0, 16, 16, BodyOptions{Layer: types.LayerEntities, Solid: true})
			cs.AddBody(tt.wallX, tt.wallY, tt.wallW, tt.wallH, wall)

			dx, dy := cs.MoveBody(p, tt.dx, tt.dy)
			if dx != tt.wantDX || dy != tt.wantDY {
				t.Fatalf("MoveBody = (%v, %v), want (%v, %v)", dx, dy, tt.wantDX, tt.wantDY)
			}
			body, _ := cs.Body(p)
			if body.Rect.X != tt.wantDX || body.Rect.Y != tt.wantDY {
				t.Errorf("body at (%v, %v), want (%v, %v)", body.Rect.X, body.Rect.Y, tt.wantDX, tt.wantDY)
			}
		})
	}
}

// TestTriggerCooldown 触发器按模拟时间冷却后重新生效
func TestTriggerCooldown(t *testing.T) {
	bus := event.NewBus()
	var fired []event.Event
	bus.Subscribe(event.TriggerEntered, func(e event.Event) { fired = append(fired, e) })

	cs := newTestCollision(bus)
	cs.AddBody(100, 100, 32, 32, BodyOptions{Layer: types.LayerTriggers, Trigger: true, Tag: "door"})
	p := cs.AddBody(0, 0, 16, 16, BodyOptions{Layer: types.LayerEntities, Solid: true, Entity: 42})

	step := func(x, y float64) {
		cs.UpdateBody(p, x, y)
		cs.Update(0.25)
		bus.Dispatch()
	}

	step(0, 0)
	if len(fired) != 0 {
		t.Fatalf("no trigger expected outside, got %d", len(fired))
	}

	step(110, 110)
	step(110, 110)
	if len(fired) != 1 {
		t.Fatalf("expected one TriggerEntered while inside, got %d", len(fired))
	}
	if fired[0].Target != "door" || fired[0].Actor != 42 {
		t.Errorf("unexpected event payload: %+v", fired[0])
	}

	// 冷却期内离开再进入不触发
	step(0, 0)
	step(110, 110)
	if len(fired) != 1 {
		t.Fatalf("re-entry during cooldown should not fire, got %d", len(fired))
	}

	// 离开并等待冷却结束后再进入
	step(0, 0)
	step(0, 0)
	step(0, 0)
	step(110, 110)
	if len(fired) != 2 {
		t.Fatalf("expected second trigger after cooldown, got %d", len(fired))
	}
}

func TestClear(t *testing.T) {
	cs := newTestCollision(nil)
	first := cs.AddBody(0, 0, 10, 10, wall)
	cs.Clear()
	if cs.BodyCount() != 0 || len(cs.CheckRect(0, 0, 10, 10, types.LayerAll, 0)) != 0 {
		t.Fatal("Clear should remove all bodies")
	}
	if next := cs.AddBody(0, 0, 10, 10, wall); next <= first {
		t.Errorf("ids should keep increasing after Clear: %d <= %d", next, first)
	}
}

func ids(bodies []*CollisionBody) []types.BodyID {
	out := make([]types.BodyID, len(bodies))
	for i, b := range bodies {
		out[i] = b.ID
	}
	return out
}
