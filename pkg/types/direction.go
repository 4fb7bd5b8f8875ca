package types

// Direction 朝向
type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

// String 返回朝向名称（同时用作动画参数值）
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "down"
	}
}

// Delta 返回朝向对应的单位瓦片偏移
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 1
	}
}
