package entities

import (
	"fmt"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/systems"
)

// 收获闪光
const (
	SparkleAnimation = "crop_sparkle"
	SparkleClip      = "sparkle"
	SparkleLifetime  = 0.3 // 秒，略长于剪辑本身
)

// NewHarvestSparkle 在收获位置创建一次性的闪光特效
// 特效播放完不循环的剪辑后由 LifetimeSystem 清理
//
// 参数:
//   - em: 实体管理器
//   - animator: 动画状态机，用于挂载 crop_sparkle 剪辑；为 nil 时只显示第一帧
//   - anims: 动画系统，用于开始播放
//   - x, y: 特效的世界坐标
func NewHarvestSparkle(em *ecs.EntityManager, animator *systems.AnimationStateMachine, anims *systems.AnimationSystem, x, y float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.SpriteComponent{
		SpriteID: "sparkle_0",
		Layer:    render.LayerEffects,
	})
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxLifetime: SparkleLifetime})

	if animator == nil || anims == nil {
		return id, nil
	}
	if err := animator.Attach(id, SparkleAnimation); err != nil {
		return id, fmt.Errorf("failed to attach sparkle animation: %w", err)
	}
	anims.Play(id, SparkleClip)
	return id, nil
}
