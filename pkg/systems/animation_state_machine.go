package systems

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/utils"
)

// ParamClipFinished 由状态机每帧写入：当前剪辑是否已播放完毕
const ParamClipFinished = "clip_finished"

// AnimationStateMachine 参数驱动的动画状态机
//
// 状态与转换来自 animations.yaml。游戏逻辑只写参数（SetBool / SetFloat），
// 每帧按定义顺序检查转换，第一个条件全部满足的转换生效，
// 并通过 AnimationSystem 播放目标状态的剪辑。
type AnimationStateMachine struct {
	em    *ecs.EntityManager
	anims *AnimationSystem
	set   *config.AnimationSet
	log   *log.Logger
}

// NewAnimationStateMachine 创建动画状态机系统
func NewAnimationStateMachine(em *ecs.EntityManager, anims *AnimationSystem, set *config.AnimationSet) *AnimationStateMachine {
	return &AnimationStateMachine{
		em:    em,
		anims: anims,
		set:   set,
		log:   logging.For("AnimationStateMachine"),
	}
}

// Attach 按动画集中的实体定义为实体挂上动画组件和状态机组件
func (m *AnimationStateMachine) Attach(id ecs.EntityID, name string) error {
	def, ok := m.set.Entities[name]
	if !ok {
		names := make([]string, 0, len(m.set.Entities))
		for n := range m.set.Entities {
			names = append(names, n)
		}
		if hint := utils.Suggest(name, names); hint != "" {
			return fmt.Errorf("unknown animation entity '%s' (did you mean '%s'?)", name, hint)
		}
		return fmt.Errorf("unknown animation entity '%s'", name)
	}

	anim := &components.AnimationComponent{Clips: make(map[string]components.Clip, len(def.Clips))}
	for clipName, c := range def.Clips {
		anim.Clips[clipName] = components.Clip{
			Name:          clipName,
			Frames:        c.Frames,
			FrameDuration: c.FrameDuration,
			Loop:          c.Loop,
			Events:        c.Events,
		}
	}
	ecs.AddComponent(m.em, id, anim)

	if def.Machine == nil {
		return nil
	}
	st := components.NewAnimationStateComponent(name)
	st.State = def.Machine.Initial
	ecs.AddComponent(m.em, id, st)
	m.anims.Play(id, clipFor(def.Machine.States[st.State], st.Facing))
	return nil
}

// SetBool 设置布尔参数
func (m *AnimationStateMachine) SetBool(id ecs.EntityID, param string, v bool) {
	if st, ok := ecs.GetComponent[*components.AnimationStateComponent](m.em, id); ok {
		st.Bools[param] = v
	}
}

// SetFloat 设置浮点参数
func (m *AnimationStateMachine) SetFloat(id ecs.EntityID, param string, v float64) {
	if st, ok := ecs.GetComponent[*components.AnimationStateComponent](m.em, id); ok {
		st.Floats[param] = v
	}
}

// SetFacing 设置方向性状态使用的朝向后缀
func (m *AnimationStateMachine) SetFacing(id ecs.EntityID, facing string) {
	if st, ok := ecs.GetComponent[*components.AnimationStateComponent](m.em, id); ok {
		st.Facing = facing
	}
}

// Update 评估所有状态机
func (m *AnimationStateMachine) Update(deltaTime float64) {
	ids := ecs.GetEntitiesWith2[*components.AnimationStateComponent, *components.AnimationComponent](m.em)
	for _, id := range ids {
		st, _ := ecs.GetComponent[*components.AnimationStateComponent](m.em, id)
		anim, _ := ecs.GetComponent[*components.AnimationComponent](m.em, id)
		st.Changed = false

		def, ok := m.set.Entities[st.Set]
		if !ok || def.Machine == nil {
			continue
		}
		st.Bools[ParamClipFinished] = anim.IsFinished

		for _, tr := range def.Machine.Transitions {
			if tr.To == st.State {
				continue
			}
			if tr.From != config.AnyState && tr.From != st.State {
				continue
			}
			if !conditionsMet(st, tr.When) {
				continue
			}
			m.log.Debug("state transition", "entity", id, "from", st.State, "to", tr.To)
			st.State = tr.To
			st.Changed = true
			break
		}

		// 状态不变但朝向变化时，方向性状态也需要切换剪辑
		clip := clipFor(def.Machine.States[st.State], st.Facing)
		if st.Changed || clip != anim.Current {
			m.anims.Play(id, clip)
		}
	}
}

func clipFor(state config.StateDef, facing string) string {
	if state.Directional {
		return state.Clip + "_" + facing
	}
	return state.Clip
}

func conditionsMet(st *components.AnimationStateComponent, conds []config.ConditionDef) bool {
	for _, c := range conds {
		switch {
		case c.Is != nil:
			if st.Bools[c.Param] != *c.Is {
				return false
			}
		case c.Gt != nil:
			if !(st.Floats[c.Param] > *c.Gt) {
				return false
			}
		case c.Lt != nil:
			if !(st.Floats[c.Param] < *c.Lt) {
				return false
			}
		}
	}
	return true
}
