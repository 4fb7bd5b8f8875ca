package components

// TimerComponent 通用计时器组件
// 用于处理需要时间延迟的行为（如鱼咬钩等待、NPC 巡逻停顿）
type TimerComponent struct {
	Name        string  // 计时器名称，如 "fish_bite"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成
}

// Tick 推进计时器，返回本次是否刚好完成
func (t *TimerComponent) Tick(dt float64) bool {
	if t.IsReady {
		return false
	}
	t.CurrentTime += dt
	if t.CurrentTime >= t.TargetTime {
		t.IsReady = true
		return true
	}
	return false
}

// Reset 以新的目标时间重启计时器
func (t *TimerComponent) Reset(target float64) {
	t.TargetTime = target
	t.CurrentTime = 0
	t.IsReady = false
}
