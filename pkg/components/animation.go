package components

// Clip 一段帧动画
type Clip struct {
	Name          string
	Frames        []string       // 精灵 ID 序列
	FrameDuration float64        // 每帧时长(秒)
	Loop          bool           // 是否循环播放
	Events        map[int]string // 进入指定帧时发布的事件名
}

// AnimationComponent 管理基于精灵序列的帧动画
// 它存储了实体可用的全部剪辑、当前剪辑以及播放状态
type AnimationComponent struct {
	Clips        map[string]Clip
	Current      string  // 当前剪辑名
	FrameCounter float64 // 当前帧计时器(秒)
	CurrentFrame int     // 当前显示的帧索引(0-based)
	IsLooping    bool    // 是否循环播放
	IsFinished   bool    // 动画是否已完成(仅对非循环动画有效)
	Paused       bool
}

// CurrentClip 返回当前剪辑
func (a *AnimationComponent) CurrentClip() (Clip, bool) {
	c, ok := a.Clips[a.Current]
	return c, ok
}

// CurrentSprite 返回当前帧的精灵 ID，无有效剪辑时返回空串
func (a *AnimationComponent) CurrentSprite() string {
	c, ok := a.Clips[a.Current]
	if !ok || len(c.Frames) == 0 {
		return ""
	}
	if a.CurrentFrame >= len(c.Frames) {
		return c.Frames[len(c.Frames)-1]
	}
	return c.Frames[a.CurrentFrame]
}
