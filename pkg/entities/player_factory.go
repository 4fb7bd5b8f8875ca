package entities

import (
	"fmt"
	"slices"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/types"
)

// actorInset 角色碰撞盒相对瓦片四边的内缩（像素）
// 碰撞盒比瓦片略小，贴着障碍物走时不会卡住
const actorInset = 4.0

// NewPlayer 在配置的出生瓦片上创建玩家实体
//
// 玩家带有网格移动、碰撞体、体力、背包（初始种子、物品和全套 1 级工具）
// 以及精灵组件。动画由调用方通过 AnimationStateMachine.Attach 挂载。
//
// 参数:
//   - em: 实体管理器
//   - cfg: 游戏配置（世界尺寸、移动速度、玩家初始状态）
//   - tools: 工具等级表，缺少某种工具时玩家不持有该工具
//   - cs: 碰撞系统，可为 nil（不参与碰撞）
//
// 返回:
//   - ecs.EntityID: 玩家实体 ID
//   - error: 参数无效时返回错误
func NewPlayer(em *ecs.EntityManager, cfg *config.GameConfig, tools *config.ToolTable, cs *systems.CollisionSystem) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	ts := float64(cfg.World.TileSize)
	x := float64(cfg.Player.StartTileX) * ts
	y := float64(cfg.Player.StartTileY) * ts

	id := em.CreateEntity()
	m := components.NewGridMovement(x, y, cfg.Movement.PlayerSpeed, ts)
	m.Facing = types.DirDown
	ecs.AddComponent(em, id, m)
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.SpriteComponent{
		SpriteID: "player_idle_down_0",
		Layer:    render.LayerActors,
	})
	ecs.AddComponent(em, id, &components.PlayerComponent{
		Stamina:               cfg.Player.MaxStamina,
		MaxStamina:            cfg.Player.MaxStamina,
		StaminaRegenPerSecond: cfg.Player.StaminaRegenPerSecond,
	})
	ecs.AddComponent(em, id, newStartingInventory(cfg.Player, tools))
	attachActorBody(em, cs, id, m, ts)
	return id, nil
}

// newStartingInventory 按配置填充初始背包，默认选中锄头和名称最小的种子
func newStartingInventory(pc config.PlayerConfig, tools *config.ToolTable) *components.InventoryComponent {
	inv := components.NewInventory()
	for name, n := range pc.StartingSeeds {
		if n > 0 {
			inv.Seeds[types.CropType(name)] = n
		}
	}
	for name, n := range pc.StartingItems {
		inv.Items[name] = n
	}
	for _, tt := range types.AllTools {
		if def, ok := tools.Level(string(tt), 1); ok {
			inv.Tools[tt] = components.NewTool(tt, def)
		}
	}

	if _, ok := inv.Tools[types.ToolHoe]; ok {
		inv.SelectedTool = types.ToolHoe
	}
	seeds := make([]types.CropType, 0, len(inv.Seeds))
	for c := range inv.Seeds {
		seeds = append(seeds, c)
	}
	if len(seeds) > 0 {
		inv.SelectedSeed = slices.Min(seeds)
	}
	return inv
}

// attachActorBody 为角色注册实体层碰撞体，并把 ID 写回移动和碰撞组件
func attachActorBody(em *ecs.EntityManager, cs *systems.CollisionSystem, id ecs.EntityID, m *components.MovementComponent, tileSize float64) {
	col := &components.CollisionComponent{
		Width:   tileSize - 2*actorInset,
		Height:  tileSize - 2*actorInset,
		OffsetX: actorInset,
		OffsetY: actorInset,
		Layer:   types.LayerEntities,
		Solid:   true,
	}
	ecs.AddComponent(em, id, col)
	if cs == nil {
		return
	}
	col.BodyID = cs.AddBody(m.X+col.OffsetX, m.Y+col.OffsetY, col.Width, col.Height, systems.BodyOptions{
		Layer:  col.Layer,
		Solid:  col.Solid,
		Entity: id,
	})
	m.BodyID = col.BodyID
}
