package systems

import (
	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
)

// LifetimeSystem 清理到期的临时实体（收获闪光、飘字等）
//
// 到期实体只做删除标记，由场景在帧末调用 RemoveMarkedEntities。
// 实体挂有碰撞体时同时从碰撞系统中移除，避免留下无主碰撞体。
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
	collision     *CollisionSystem
}

// NewLifetimeSystem 创建生命周期系统，collision 可为 nil
func NewLifetimeSystem(em *ecs.EntityManager, collision *CollisionSystem) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
		collision:     collision,
	}
}

// Update 累加存活时间并标记到期实体
func (s *LifetimeSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if lifetime.IsExpired {
			continue
		}

		lifetime.CurrentLifetime += deltaTime
		if lifetime.CurrentLifetime < lifetime.MaxLifetime {
			continue
		}
		lifetime.IsExpired = true

		if s.collision != nil {
			if c, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id); ok && c.BodyID != 0 {
				s.collision.RemoveBody(c.BodyID)
				c.BodyID = 0
			}
		}
		s.entityManager.DestroyEntity(id)
	}
}
