package types

// ToolType 工具类型
type ToolType string

const (
	ToolHoe         ToolType = "hoe"
	ToolWateringCan ToolType = "watering_can"
	ToolAxe         ToolType = "axe"
	ToolPickaxe     ToolType = "pickaxe"
)

// AllTools 按快捷键顺序列出的全部工具
var AllTools = []ToolType{ToolHoe, ToolWateringCan, ToolAxe, ToolPickaxe}
