package systems

import (
	"testing"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/types"
)

func TestNPCSystem_PatrolLoop(t *testing.T) {
	em := ecs.NewEntityManager()
	ms := NewMovementSystem(em, nil)
	npcs := NewNPCSystem(em, ms, nil)

	id := em.CreateEntity()
	m := components.NewGridMovement(0, 0, 320, 32)
	ecs.AddComponent(em, id, m)
	ecs.AddComponent(em, id, &components.NPCComponent{
		Name:  "Robin",
		Route: []components.GridStep{{DX: 1}, {DX: -1}},
	})

	step := func(n int) {
		for i := 0; i < n; i++ {
			npcs.Update(0.05)
			ms.Update(0.05)
		}
	}

	// 320 px/s，每步 32 px 需要两帧
	step(2)
	if m.X != 32 {
		t.Fatalf("after first leg X = %v, want 32", m.X)
	}
	step(2)
	if m.X != 0 {
		t.Errorf("after second leg X = %v, want 0 (route loops)", m.X)
	}
}

func TestNPCSystem_BlockedStepRetries(t *testing.T) {
	em := ecs.NewEntityManager()
	cs := newTestCollision(nil)
	ms := NewMovementSystem(em, cs)
	npcs := NewNPCSystem(em, ms, nil)

	id := em.CreateEntity()
	m := components.NewGridMovement(0, 0, 320, 32)
	m.BodyID = cs.AddBody(0, 0, 32, 32, BodyOptions{Layer: types.LayerEntities, Solid: true})
	ecs.AddComponent(em, id, m)
	npc := &components.NPCComponent{Route: []components.GridStep{{DX: 1}}, PauseTime: 0.2}
	ecs.AddComponent(em, id, npc)

	wall := cs.AddBody(32, 0, 32, 32, BodyOptions{Layer: types.LayerObjects, Solid: true})
	for i := 0; i < 10; i++ {
		npcs.Update(0.05)
		ms.Update(0.05)
	}
	if m.X != 0 || npc.RouteStep != 0 {
		t.Fatalf("blocked NPC moved: X=%v step=%d", m.X, npc.RouteStep)
	}

	cs.RemoveBody(wall)
	arrived := false
	for i := 0; i < 10 && !arrived; i++ {
		npcs.Update(0.05)
		ms.Update(0.05)
		arrived = m.X == 32
	}
	if !arrived {
		t.Errorf("NPC should retry once the wall is gone, X=%v", m.X)
	}
}
