package engine

import "time"

// Metrics 帧统计
type Metrics struct {
	UpdateTime time.Duration
	RenderTime time.Duration
	FrameTime  time.Duration
	FPS        float64 // 最近 1 秒窗口内的平均帧率
	Frames     uint64
	Failures   uint64 // 子系统失败累计次数
	LastDelta  float64
}

// fpsCounter 1 秒滚动窗口帧率统计
type fpsCounter struct {
	windowStart time.Time
	frames      int
	value       float64
}

func (c *fpsCounter) tick(now time.Time) {
	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.frames++
	if elapsed := now.Sub(c.windowStart); elapsed >= time.Second {
		c.value = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.windowStart = now
	}
}
