package systems

import (
	"testing"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/types"
)

func TestLifetimeUpdate(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em, nil)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxLifetime: 10.0})

	// 多次小步更新
	system.Update(3.0)
	system.Update(3.0)
	system.Update(3.0)

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if lifetime.CurrentLifetime != 9.0 {
		t.Errorf("Expected CurrentLifetime=9.0, got %f", lifetime.CurrentLifetime)
	}
	if lifetime.IsExpired {
		t.Error("Entity should not be expired yet")
	}

	system.Update(2.0)
	if !lifetime.IsExpired {
		t.Error("Entity should be expired after exceeding MaxLifetime")
	}
}

func TestMultipleEntitiesWithDifferentLifetimes(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em, nil)

	id1 := em.CreateEntity()
	ecs.AddComponent(em, id1, &components.LifetimeComponent{MaxLifetime: 5.0})
	id2 := em.CreateEntity()
	ecs.AddComponent(em, id2, &components.LifetimeComponent{MaxLifetime: 10.0})

	system.Update(7.0)
	em.RemoveMarkedEntities()

	if ecs.HasComponent[*components.LifetimeComponent](em, id1) {
		t.Error("Entity 1 should be removed (expired)")
	}
	if !ecs.HasComponent[*components.LifetimeComponent](em, id2) {
		t.Error("Entity 2 should still exist")
	}
}

// 到期实体的碰撞体随之移除
func TestLifetimeRemovesCollisionBody(t *testing.T) {
	em := ecs.NewEntityManager()
	cs := newTestCollision(nil)
	system := NewLifetimeSystem(em, cs)

	id := em.CreateEntity()
	body := cs.AddBody(0, 0, 16, 16, BodyOptions{Layer: types.LayerTriggers, Trigger: true})
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxLifetime: 1.0})
	ecs.AddComponent(em, id, &components.CollisionComponent{Width: 16, Height: 16, BodyID: body})

	system.Update(1.5)
	if _, ok := cs.Body(body); ok {
		t.Error("collision body should be removed with the expired entity")
	}
}
