package systems

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/utils"
)

// AnimationSystem 管理所有实体的帧动画
//
// 帧事件不使用回调：进入带事件名的帧时向事件总线发布 AnimationFrame，
// 非循环剪辑播放到最后一帧时发布 AnimationFinished。
type AnimationSystem struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus
	log           *log.Logger
}

// NewAnimationSystem 创建一个新的动画系统
func NewAnimationSystem(em *ecs.EntityManager, bus *event.Bus) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
		bus:           bus,
		log:           logging.For("AnimationSystem"),
	}
}

// Play 从第 0 帧开始播放指定剪辑
// 实体或剪辑不存在时记录警告并返回 false
func (s *AnimationSystem) Play(id ecs.EntityID, name string) bool {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	if !ok {
		s.log.Warn("play on entity without animation", "entity", id, "clip", name)
		return false
	}
	clip, ok := anim.Clips[name]
	if !ok {
		names := make([]string, 0, len(anim.Clips))
		for n := range anim.Clips {
			names = append(names, n)
		}
		slices.Sort(names)
		if hint := utils.Suggest(name, names); hint != "" {
			s.log.Warn("unknown clip", "entity", id, "clip", name, "didYouMean", hint)
		} else {
			s.log.Warn("unknown clip", "entity", id, "clip", name)
		}
		return false
	}

	anim.Current = name
	anim.CurrentFrame = 0
	anim.FrameCounter = 0
	anim.IsLooping = clip.Loop
	anim.IsFinished = false
	s.syncSprite(id, anim)
	s.enterFrame(id, clip, 0)
	return true
}

// Update 更新所有动画实体的帧
func (s *AnimationSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimationComponent](s.entityManager) {
		anim, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		if anim.IsFinished || anim.Paused {
			continue
		}
		clip, ok := anim.CurrentClip()
		if !ok || len(clip.Frames) == 0 || clip.FrameDuration <= 0 {
			continue
		}

		anim.FrameCounter += deltaTime
		// 大 dt 时可能一次跨过多帧，每一帧的事件都要发布
		for anim.FrameCounter >= clip.FrameDuration {
			anim.FrameCounter -= clip.FrameDuration
			next := anim.CurrentFrame + 1
			if next >= len(clip.Frames) {
				if !clip.Loop {
					anim.CurrentFrame = len(clip.Frames) - 1
					anim.FrameCounter = 0
					anim.IsFinished = true
					s.bus.Publish(event.Event{
						Type:   event.AnimationFinished,
						Actor:  id,
						Target: clip.Name,
						Value:  float64(anim.CurrentFrame),
					})
					break
				}
				next = 0
			}
			anim.CurrentFrame = next
			s.enterFrame(id, clip, next)
		}
		s.syncSprite(id, anim)
	}
}

// enterFrame 进入某帧时发布帧事件
func (s *AnimationSystem) enterFrame(id ecs.EntityID, clip components.Clip, frame int) {
	name, ok := clip.Events[frame]
	if !ok {
		return
	}
	s.bus.Publish(event.Event{
		Type:   event.AnimationFrame,
		Actor:  id,
		Target: clip.Name,
		Value:  float64(frame),
		Detail: name,
	})
}

// syncSprite 把当前帧写回 SpriteComponent
func (s *AnimationSystem) syncSprite(id ecs.EntityID, anim *components.AnimationComponent) {
	sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
	if !ok {
		return
	}
	if frame := anim.CurrentSprite(); frame != "" {
		sprite.SpriteID = frame
	}
}
