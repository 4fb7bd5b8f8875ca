package render

import "image/color"

// 常用颜色
var (
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black     = color.RGBA{A: 255}
	Grass     = color.RGBA{R: 86, G: 140, B: 60, A: 255}
	Soil      = color.RGBA{R: 120, G: 84, B: 52, A: 255}
	WetSoil   = color.RGBA{R: 78, G: 54, B: 34, A: 255}
	Water     = color.RGBA{R: 52, G: 110, B: 180, A: 255}
	Highlight = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	Warning   = color.RGBA{R: 230, G: 80, B: 60, A: 255}
)
