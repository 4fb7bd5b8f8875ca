package systems

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/spatial"
	"github.com/decker502/farmstead/pkg/types"
)

// BodyOptions 创建碰撞体时的可选属性
type BodyOptions struct {
	Layer   types.Layer
	Solid   bool // 阻挡移动
	Trigger bool // 只通知不阻挡
	// Tag 触发器名称（如 "water"、"door"），写入 TriggerEntered 事件的 Target
	Tag string
	// Entity 关联实体，写入事件的 Actor
	Entity   ecs.EntityID
	UserData any
}

// CollisionBody 碰撞体
// 查询返回的是系统内部对象，调用方只读，修改位置请使用 UpdateBody / MoveBody
type CollisionBody struct {
	ID       types.BodyID
	Rect     spatial.Rect
	Layer    types.Layer
	Solid    bool
	Trigger  bool
	Tag      string
	Entity   ecs.EntityID
	UserData any
}

type contactKey struct {
	trigger types.BodyID
	other   types.BodyID
}

type contact struct {
	inside  bool
	rearmAt float64
	seen    uint64
}

// CollisionSystem 碰撞系统
//
// 持有全部碰撞体，底层使用均匀网格索引（默认单元 32 像素）。
// 未知 ID 一律静默失败（返回 false / nil / 空切片），
// 因为组件中残留已删除碰撞体的 ID 在逐帧模拟中很常见。
type CollisionSystem struct {
	index  *spatial.Index
	bodies map[types.BodyID]*CollisionBody
	nextID types.BodyID

	bus             *event.Bus
	triggerCooldown float64
	now             float64
	contacts        map[contactKey]*contact
	generation      uint64

	log *log.Logger
}

// NewCollisionSystem 创建碰撞系统
//
// 参数:
//   - cfg: 碰撞配置（单元大小、触发器冷却）
//   - bus: 事件总线，可为 nil（不发布触发事件）
func NewCollisionSystem(cfg config.CollisionConfig, bus *event.Bus) *CollisionSystem {
	cellSize := cfg.CellSize
	if cellSize <= 0 {
		cellSize = spatial.DefaultCellSize
	}
	return &CollisionSystem{
		index:           spatial.NewIndex(cellSize),
		bodies:          make(map[types.BodyID]*CollisionBody),
		bus:             bus,
		triggerCooldown: cfg.TriggerCooldown,
		contacts:        make(map[contactKey]*contact),
		log:             logging.For("CollisionSystem"),
	}
}

// AddBody 注册碰撞体，总是成功
func (cs *CollisionSystem) AddBody(x, y, w, h float64, opts BodyOptions) types.BodyID {
	cs.nextID++
	body := &CollisionBody{
		ID:       cs.nextID,
		Rect:     spatial.NewRect(x, y, w, h),
		Layer:    opts.Layer,
		Solid:    opts.Solid,
		Trigger:  opts.Trigger,
		Tag:      opts.Tag,
		Entity:   opts.Entity,
		UserData: opts.UserData,
	}
	cs.bodies[body.ID] = body
	cs.index.Insert(spatial.ID(body.ID), body.Rect)
	return body.ID
}

// RemoveBody 删除碰撞体，未知 ID 时无操作
func (cs *CollisionSystem) RemoveBody(id types.BodyID) {
	if _, ok := cs.bodies[id]; !ok {
		return
	}
	delete(cs.bodies, id)
	cs.index.Remove(spatial.ID(id))
	for k := range cs.contacts {
		if k.trigger == id || k.other == id {
			delete(cs.contacts, k)
		}
	}
}

// UpdateBody 移动（可选调整尺寸）碰撞体并重建网格归属
//
// 参数:
//   - size: 可选 [w, h]，省略时保持原尺寸
//
// 返回:
//   - bool: 未知 ID 返回 false
func (cs *CollisionSystem) UpdateBody(id types.BodyID, x, y float64, size ...float64) bool {
	body, ok := cs.bodies[id]
	if !ok {
		cs.log.Warn("update of unknown body ignored", "body", id)
		return false
	}
	body.Rect.X = x
	body.Rect.Y = y
	if len(size) >= 2 {
		body.Rect.W = size[0]
		body.Rect.H = size[1]
	}
	cs.index.Update(spatial.ID(id), body.Rect)
	return true
}

// Body 按 ID 查询碰撞体
func (cs *CollisionSystem) Body(id types.BodyID) (*CollisionBody, bool) {
	b, ok := cs.bodies[id]
	return b, ok
}

// CheckPoint 返回包含该点、层与掩码相交的第一个实体碰撞体
// 多个命中时返回 ID 最小者；没有命中返回 nil
func (cs *CollisionSystem) CheckPoint(x, y float64, mask types.Layer) *CollisionBody {
	cell := cs.index.CellsFor(spatial.NewRect(x, y, 0, 0))
	var hit *CollisionBody
	for _, key := range cell {
		for _, sid := range cs.index.At(key) {
			b := cs.bodies[types.BodyID(sid)]
			if b == nil || !b.Solid || !b.Layer.Intersects(mask) {
				continue
			}
			if !b.Rect.Contains(x, y) {
				continue
			}
			if hit == nil || b.ID < hit.ID {
				hit = b
			}
		}
	}
	return hit
}

// CheckRect 返回与矩形重叠、层与掩码相交的全部碰撞体（实体或触发器）
//
// 逐个访问覆盖的网格单元并按 ID 去重，结果按 ID 升序。
// exclude 为 0 表示不排除。
func (cs *CollisionSystem) CheckRect(x, y, w, h float64, mask types.Layer, exclude types.BodyID) []*CollisionBody {
	r := spatial.NewRect(x, y, w, h)
	seen := make(map[types.BodyID]struct{})
	var out []*CollisionBody
	cs.index.Visit(r, func(sid spatial.ID) {
		id := types.BodyID(sid)
		if id == exclude {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		b := cs.bodies[id]
		if b == nil || !b.Layer.Intersects(mask) || !b.Rect.Overlaps(r) {
			return
		}
		out = append(out, b)
	})
	slices.SortFunc(out, func(a, b *CollisionBody) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// CanMoveTo 判断碰撞体移动到 (x, y) 后是否不与地形/物体层的其他实体碰撞体重叠
func (cs *CollisionSystem) CanMoveTo(id types.BodyID, x, y float64) bool {
	body, ok := cs.bodies[id]
	if !ok {
		return false
	}
	return cs.free(spatial.NewRect(x, y, body.Rect.W, body.Rect.H), id)
}

func (cs *CollisionSystem) free(r spatial.Rect, self types.BodyID) bool {
	blocked := false
	cs.index.Visit(r, func(sid spatial.ID) {
		if blocked || types.BodyID(sid) == self {
			return
		}
		b := cs.bodies[types.BodyID(sid)]
		if b != nil && b.Solid && b.Layer.Intersects(types.LayerBlocking) && b.Rect.Overlaps(r) {
			blocked = true
		}
	})
	return !blocked
}

// MoveBody 尝试移动碰撞体并返回实际应用的位移
//
// 先尝试完整位移；被阻挡时按轴分离滑动：先只移动 X，再只移动 Y。
// 贴墙斜向移动时，未被阻挡的轴继续前进而不是完全停住。
func (cs *CollisionSystem) MoveBody(id types.BodyID, dx, dy float64) (float64, float64) {
	body, ok := cs.bodies[id]
	if !ok || (dx == 0 && dy == 0) {
		return 0, 0
	}
	x, y := body.Rect.X, body.Rect.Y

	switch {
	case cs.CanMoveTo(id, x+dx, y+dy):
	case dx != 0 && cs.CanMoveTo(id, x+dx, y):
		dy = 0
	case dy != 0 && cs.CanMoveTo(id, x, y+dy):
		dx = 0
	default:
		return 0, 0
	}
	cs.UpdateBody(id, x+dx, y+dy)
	return dx, dy
}

// CellsOf 返回碰撞体所在的网格单元（用于调试叠加层和不变量检查）
func (cs *CollisionSystem) CellsOf(id types.BodyID) []spatial.CellKey {
	return cs.index.CellsOf(spatial.ID(id))
}

// CellSize 返回网格单元大小
func (cs *CollisionSystem) CellSize() float64 {
	return cs.index.CellSize()
}

// BodyCount 返回碰撞体数量
func (cs *CollisionSystem) BodyCount() int {
	return len(cs.bodies)
}

// Bodies 返回全部碰撞体（按 ID 升序）
func (cs *CollisionSystem) Bodies() []*CollisionBody {
	out := make([]*CollisionBody, 0, len(cs.bodies))
	for _, b := range cs.bodies {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *CollisionBody) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// Clear 移除全部碰撞体（场景切换时调用），ID 计数不重置
func (cs *CollisionSystem) Clear() {
	cs.bodies = make(map[types.BodyID]*CollisionBody)
	cs.contacts = make(map[contactKey]*contact)
	cs.index.Clear()
}

// Update 推进模拟时钟并检测触发器
//
// 角色层碰撞体进入触发器时发布一次 TriggerEntered；
// 同一对象在冷却结束前离开再进入不会重复触发。
// 冷却按模拟时间逐帧检查，不依赖宿主定时器。
func (cs *CollisionSystem) Update(deltaTime float64) {
	cs.now += deltaTime
	cs.generation++
	gen := cs.generation

	for _, trig := range cs.Bodies() {
		if !trig.Trigger {
			continue
		}
		r := trig.Rect
		for _, other := range cs.CheckRect(r.X, r.Y, r.W, r.H, types.LayerEntities, trig.ID) {
			if other.Trigger {
				continue
			}
			key := contactKey{trigger: trig.ID, other: other.ID}
			c, ok := cs.contacts[key]
			if !ok {
				c = &contact{}
				cs.contacts[key] = c
			}
			c.seen = gen
			if c.inside {
				continue
			}
			c.inside = true
			if cs.now < c.rearmAt {
				continue
			}
			c.rearmAt = cs.now + cs.triggerCooldown
			cx, cy := other.Rect.Center()
			cs.bus.Publish(event.Event{
				Type:   event.TriggerEntered,
				Actor:  other.Entity,
				X:      cx,
				Y:      cy,
				Target: trig.Tag,
				Value:  float64(trig.ID),
				Time:   cs.now,
			})
		}
	}

	for k, c := range cs.contacts {
		if c.seen == gen {
			continue
		}
		c.inside = false
		if cs.now >= c.rearmAt {
			delete(cs.contacts, k)
		}
	}
}
