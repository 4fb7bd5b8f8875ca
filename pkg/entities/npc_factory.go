package entities

import (
	"fmt"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/systems"
)

// DefaultNPCPause NPC 每走一步后的停顿（秒）
const DefaultNPCPause = 0.8

// NewNPC 在瓦片 (tileX, tileY) 创建沿 route 循环巡逻的 NPC
//
// 参数:
//   - em: 实体管理器
//   - cfg: 游戏配置（瓦片大小、NPC 速度）
//   - cs: 碰撞系统，可为 nil
//   - name: NPC 名称（日志与 HUD 用）
//   - route: 循环执行的网格步序列，为空时原地站立
func NewNPC(em *ecs.EntityManager, cfg *config.GameConfig, cs *systems.CollisionSystem,
	name string, tileX, tileY int, route []components.GridStep) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	ts := float64(cfg.World.TileSize)
	x, y := float64(tileX)*ts, float64(tileY)*ts

	id := em.CreateEntity()
	m := components.NewGridMovement(x, y, cfg.Movement.NPCSpeed, ts)
	ecs.AddComponent(em, id, m)
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.SpriteComponent{
		SpriteID: "npc_idle_0",
		Layer:    render.LayerActors,
	})
	ecs.AddComponent(em, id, &components.NPCComponent{
		Name:      name,
		Route:     append([]components.GridStep(nil), route...),
		PauseTime: DefaultNPCPause,
	})
	attachActorBody(em, cs, id, m, ts)
	return id, nil
}
