package systems

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/types"
)

const (
	// smoothArriveEpsilon 平滑模式两轴都小于该距离视为到达
	smoothArriveEpsilon = 0.5
	// gridArriveEpsilon 网格模式剩余距离小于该值视为到达
	gridArriveEpsilon = 1.0
)

// MovementSystem 驱动所有 MovementComponent
//
// 平滑模式按比例逼近目标，网格模式按恒定速度逐格移动。
// 可通行判断委托给碰撞系统；collision 为 nil 时不做碰撞检测。
type MovementSystem struct {
	em        *ecs.EntityManager
	collision *CollisionSystem
	log       *log.Logger
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager, collision *CollisionSystem) *MovementSystem {
	return &MovementSystem{
		em:        em,
		collision: collision,
		log:       logging.For("MovementSystem"),
	}
}

// Update 推进所有移动组件并同步位置组件
func (s *MovementSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.MovementComponent](s.em) {
		m, _ := ecs.GetComponent[*components.MovementComponent](s.em, id)
		m.LastDX, m.LastDY = 0, 0

		switch m.Mode {
		case components.MovementGrid:
			s.updateGrid(id, m, deltaTime)
		default:
			s.updateSmooth(id, m)
		}

		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id); ok {
			pos.X, pos.Y = m.X, m.Y
		}
	}
}

// updateSmooth 指数衰减逼近目标，两轴都进入 0.5 像素内时吸附到目标
func (s *MovementSystem) updateSmooth(id ecs.EntityID, m *components.MovementComponent) {
	remX := m.TargetX - m.X
	remY := m.TargetY - m.Y
	if math.Abs(remX) < smoothArriveEpsilon && math.Abs(remY) < smoothArriveEpsilon {
		if remX != 0 || remY != 0 {
			s.apply(id, m, remX, remY, false)
		}
		m.Moving = false
		return
	}

	m.Moving = true
	dx := remX * m.SmoothingFactor
	dy := remY * m.SmoothingFactor
	if !s.apply(id, m, dx, dy, true) {
		// 被完全挡住时放弃目标
		m.TargetX, m.TargetY = m.X, m.Y
		m.Moving = false
	}
}

// updateGrid 恒速移动，到达后吸附并取出队列中的下一步
func (s *MovementSystem) updateGrid(id ecs.EntityID, m *components.MovementComponent, deltaTime float64) {
	if !m.Moving {
		s.startQueued(id, m)
		if !m.Moving {
			return
		}
	}

	remX := m.TargetX - m.X
	remY := m.TargetY - m.Y
	dist := math.Hypot(remX, remY)
	step := m.Speed * deltaTime
	if step > dist {
		step = dist
	}
	if dist > 0 {
		s.apply(id, m, remX/dist*step, remY/dist*step, false)
	}

	if math.Hypot(m.TargetX-m.X, m.TargetY-m.Y) < gridArriveEpsilon {
		s.apply(id, m, m.TargetX-m.X, m.TargetY-m.Y, false)
		m.X, m.Y = m.TargetX, m.TargetY
		m.Moving = false
		s.startQueued(id, m)
	}
}

// startQueued 取出排队的一步并开始移动，目标格不可通行时丢弃
func (s *MovementSystem) startQueued(id ecs.EntityID, m *components.MovementComponent) {
	if m.Queued == nil {
		return
	}
	step := *m.Queued
	m.Queued = nil

	tx := m.X + float64(step.DX)*m.TileSize
	ty := m.Y + float64(step.DY)*m.TileSize
	m.Facing = facingFor(float64(step.DX), float64(step.DY), m.Facing)

	if m.BodyID != 0 && s.collision != nil {
		ox, oy := s.bodyOffset(id)
		if !s.collision.CanMoveTo(m.BodyID, tx+ox, ty+oy) {
			s.log.Debug("grid step blocked", "entity", id, "dx", step.DX, "dy", step.DY)
			return
		}
	}
	m.TargetX, m.TargetY = tx, ty
	m.Moving = true
}

// apply 应用位移；checked 为 true 时经碰撞系统滑动，否则直接同步碰撞体
// 返回是否发生了移动
func (s *MovementSystem) apply(id ecs.EntityID, m *components.MovementComponent, dx, dy float64, checked bool) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	if m.BodyID != 0 && s.collision != nil {
		if checked {
			dx, dy = s.collision.MoveBody(m.BodyID, dx, dy)
			if dx == 0 && dy == 0 {
				return false
			}
		} else {
			ox, oy := s.bodyOffset(id)
			s.collision.UpdateBody(m.BodyID, m.X+dx+ox, m.Y+dy+oy)
		}
	}
	m.X += dx
	m.Y += dy
	m.LastDX, m.LastDY = dx, dy
	m.Facing = facingFor(dx, dy, m.Facing)
	return true
}

func (s *MovementSystem) bodyOffset(id ecs.EntityID) (float64, float64) {
	if col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok {
		return col.OffsetX, col.OffsetY
	}
	return 0, 0
}

// SetTarget 设置平滑模式目标位置
func (s *MovementSystem) SetTarget(id ecs.EntityID, x, y float64) bool {
	m, ok := ecs.GetComponent[*components.MovementComponent](s.em, id)
	if !ok || m.Mode != components.MovementSmooth {
		return false
	}
	m.TargetX, m.TargetY = x, y
	return true
}

// RequestGridMove 请求网格模式移动一格
//
// 只接受单轴单格移动；实体正在移动或队列非空时拒绝，
// 防止斜向移动和重叠移动。
func (s *MovementSystem) RequestGridMove(id ecs.EntityID, dx, dy int) bool {
	m, ok := ecs.GetComponent[*components.MovementComponent](s.em, id)
	if !ok {
		s.log.Warn("grid move for entity without movement", "entity", id)
		return false
	}
	if m.Mode != components.MovementGrid {
		return false
	}
	if (dx != 0) == (dy != 0) || absInt(dx) > 1 || absInt(dy) > 1 {
		return false
	}
	if m.Moving || m.Queued != nil {
		return false
	}
	m.Queued = &components.GridStep{DX: dx, DY: dy}
	return true
}

// MoveWithCollision 直接位移实体
//
// 先尝试完整位移；被碰撞系统拒绝时依次尝试只移动 X、只移动 Y。
// 返回是否发生了任何移动，零位移调用不改变任何状态。
// 平滑模式下目标同步到新位置，避免插值把实体拉回。
func (s *MovementSystem) MoveWithCollision(id ecs.EntityID, dx, dy float64) bool {
	m, ok := ecs.GetComponent[*components.MovementComponent](s.em, id)
	if !ok {
		return false
	}
	if dx == 0 && dy == 0 {
		return false
	}
	moved := s.apply(id, m, dx, dy, true)
	if moved && m.Mode == components.MovementSmooth {
		m.TargetX, m.TargetY = m.X, m.Y
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id); ok {
		pos.X, pos.Y = m.X, m.Y
	}
	return moved
}

// facingFor 根据位移推导朝向，偏向绝对值更大的轴；零位移保持原朝向
func facingFor(dx, dy float64, current types.Direction) types.Direction {
	switch {
	case dx == 0 && dy == 0:
		return current
	case math.Abs(dx) > math.Abs(dy):
		if dx > 0 {
			return types.DirRight
		}
		return types.DirLeft
	default:
		if dy > 0 {
			return types.DirDown
		}
		return types.DirUp
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
