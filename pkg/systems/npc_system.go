package systems

import (
	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
)

type patrolState struct {
	wait             float64
	pending          bool
	originX, originY float64
}

// NPCSystem 让 NPC 沿固定路线循环巡逻
//
// 每一步结束后停顿 PauseTime 秒再请求下一步。
// 被挡住的步子会被移动系统丢弃，NPC 停顿后重试同一步。
type NPCSystem struct {
	em       *ecs.EntityManager
	movement *MovementSystem
	animator *AnimationStateMachine
	patrols  map[ecs.EntityID]*patrolState
}

// NewNPCSystem 创建 NPC 系统，animator 可为 nil
func NewNPCSystem(em *ecs.EntityManager, movement *MovementSystem, animator *AnimationStateMachine) *NPCSystem {
	return &NPCSystem{
		em:       em,
		movement: movement,
		animator: animator,
		patrols:  make(map[ecs.EntityID]*patrolState),
	}
}

// Update 推进所有 NPC 的巡逻
func (s *NPCSystem) Update(deltaTime float64) {
	ids := ecs.GetEntitiesWith2[*components.NPCComponent, *components.MovementComponent](s.em)
	for _, id := range ids {
		npc, _ := ecs.GetComponent[*components.NPCComponent](s.em, id)
		m, _ := ecs.GetComponent[*components.MovementComponent](s.em, id)
		if s.animator != nil {
			s.animator.SetBool(id, ParamMoving, m.Moving)
		}
		if len(npc.Route) == 0 || m.Moving || m.Queued != nil {
			continue
		}

		st, ok := s.patrols[id]
		if !ok {
			st = &patrolState{}
			s.patrols[id] = st
		}

		// 上一步已结束：位置变化说明走成功了，推进路线
		if st.pending {
			st.pending = false
			if m.X != st.originX || m.Y != st.originY {
				npc.RouteStep = (npc.RouteStep + 1) % len(npc.Route)
			}
			st.wait = npc.PauseTime
		}
		if st.wait > 0 {
			st.wait -= deltaTime
			continue
		}

		step := npc.Route[npc.RouteStep%len(npc.Route)]
		if s.movement.RequestGridMove(id, step.DX, step.DY) {
			st.pending = true
			st.originX, st.originY = m.X, m.Y
		}
	}
}
