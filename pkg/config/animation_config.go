package config

import (
	"fmt"
	"slices"
)

// AnyState 通配起始状态，用于可从任意状态进入的转换
const AnyState = "any"

// ClipDef 动画剪辑定义
type ClipDef struct {
	Frames        []string `yaml:"frames"`        // 精灵 ID 序列
	FrameDuration float64  `yaml:"frameDuration"` // 每帧时长（秒）
	Loop          bool     `yaml:"loop"`
	// Events 帧事件：进入指定帧时发布的事件名
	Events map[int]string `yaml:"events"`
}

// ConditionDef 状态转换条件
//
// 每个条件只设置 Is / Gt / Lt 之一：
//   - is: 布尔参数等于给定值
//   - gt / lt: 浮点参数大于 / 小于给定值
type ConditionDef struct {
	Param string   `yaml:"param"`
	Is    *bool    `yaml:"is"`
	Gt    *float64 `yaml:"gt"`
	Lt    *float64 `yaml:"lt"`
}

// TransitionDef 状态转换定义，When 中所有条件同时满足才触发
type TransitionDef struct {
	From string         `yaml:"from"`
	To   string         `yaml:"to"`
	When []ConditionDef `yaml:"when"`
}

// StateDef 动画状态定义
type StateDef struct {
	Clip string `yaml:"clip"`
	// Directional 为 true 时实际剪辑名为 "<clip>_<facing>"
	Directional bool `yaml:"directional"`
}

// MachineDef 动画状态机定义
type MachineDef struct {
	Initial     string              `yaml:"initial"`
	States      map[string]StateDef `yaml:"states"`
	Transitions []TransitionDef     `yaml:"transitions"`
}

// EntityAnimationDef 单类实体的动画定义
type EntityAnimationDef struct {
	Clips   map[string]ClipDef `yaml:"clips"`
	Machine *MachineDef        `yaml:"machine"`
}

// AnimationSet 动画配置集合
//
// 配置文件位置: data/animations.yaml
type AnimationSet struct {
	Entities map[string]EntityAnimationDef `yaml:"entities"`
}

// directions 方向后缀，与 types.Direction.String() 一致
var directions = []string{"down", "up", "left", "right"}

// Validate 验证配置有效性
func (s *AnimationSet) Validate() error {
	for entity, def := range s.Entities {
		for name, clip := range def.Clips {
			if len(clip.Frames) == 0 {
				return fmt.Errorf("%s: clip '%s' has no frames", entity, name)
			}
			if clip.FrameDuration <= 0 {
				return fmt.Errorf("%s: clip '%s' frameDuration must be > 0", entity, name)
			}
			for frame := range clip.Events {
				if frame < 0 || frame >= len(clip.Frames) {
					return fmt.Errorf("%s: clip '%s' event frame %d out of range [0, %d)",
						entity, name, frame, len(clip.Frames))
				}
			}
		}
		if def.Machine == nil {
			continue
		}
		if err := def.Machine.validate(def.Clips); err != nil {
			return fmt.Errorf("%s: %w", entity, err)
		}
	}
	return nil
}

func (m *MachineDef) validate(clips map[string]ClipDef) error {
	if _, ok := m.States[m.Initial]; !ok {
		return fmt.Errorf("initial state '%s' not defined", m.Initial)
	}
	for name, st := range m.States {
		if st.Directional {
			for _, d := range directions {
				if _, ok := clips[st.Clip+"_"+d]; !ok {
					return fmt.Errorf("state '%s' missing directional clip '%s_%s'", name, st.Clip, d)
				}
			}
			continue
		}
		if _, ok := clips[st.Clip]; !ok {
			return fmt.Errorf("state '%s' references unknown clip '%s'", name, st.Clip)
		}
	}
	for i, tr := range m.Transitions {
		if tr.From != AnyState {
			if _, ok := m.States[tr.From]; !ok {
				return fmt.Errorf("transition %d: unknown from state '%s'", i, tr.From)
			}
		}
		if _, ok := m.States[tr.To]; !ok {
			return fmt.Errorf("transition %d: unknown to state '%s'", i, tr.To)
		}
		for _, c := range tr.When {
			set := 0
			if c.Is != nil {
				set++
			}
			if c.Gt != nil {
				set++
			}
			if c.Lt != nil {
				set++
			}
			if c.Param == "" || set != 1 {
				return fmt.Errorf("transition %d: condition on '%s' must set exactly one of is/gt/lt", i, c.Param)
			}
		}
	}
	return nil
}

// ClipNames 返回实体的所有剪辑名（排序）
func (d EntityAnimationDef) ClipNames() []string {
	names := make([]string, 0, len(d.Clips))
	for name := range d.Clips {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
