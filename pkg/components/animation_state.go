package components

// AnimationStateComponent 动画状态机的运行时数据
//
// Set 对应 animations.yaml 中的实体名（如 "player"），
// 参数由游戏逻辑写入，状态机系统每帧读取并决定是否切换状态。
type AnimationStateComponent struct {
	Set     string
	State   string
	Bools   map[string]bool
	Floats  map[string]float64
	Facing  string // 方向性状态使用的后缀
	Changed bool   // 本帧是否发生状态切换
}

// NewAnimationStateComponent 创建状态机组件
func NewAnimationStateComponent(set string) *AnimationStateComponent {
	return &AnimationStateComponent{
		Set:    set,
		Bools:  make(map[string]bool),
		Floats: make(map[string]float64),
		Facing: "down",
	}
}
