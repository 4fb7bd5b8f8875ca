package game

import (
	"github.com/decker502/farmstead/pkg/render"
)

// Scene represents a game scene (e.g., loading screen, farm).
// Each scene has its own update logic and pushes draw commands into the render queue.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Render pushes the scene's draw commands into q.
	Render(q *render.Queue)
}

// Enterer 可选接口：场景成为活动场景时调用
type Enterer interface {
	Enter()
}

// Exiter 可选接口：场景被替换时调用
type Exiter interface {
	Exit()
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}
