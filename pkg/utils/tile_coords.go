package utils

import "math"

// WorldToTile 将世界坐标（像素）转换为瓦片坐标
// 使用向下取整，负坐标落在负瓦片上
func WorldToTile(x, y, tileSize float64) (int, int) {
	return int(math.Floor(x / tileSize)), int(math.Floor(y / tileSize))
}

// TileToWorld 返回瓦片左上角的世界坐标
func TileToWorld(tx, ty int, tileSize float64) (float64, float64) {
	return float64(tx) * tileSize, float64(ty) * tileSize
}

// TileCenter 返回瓦片中心的世界坐标
func TileCenter(tx, ty int, tileSize float64) (float64, float64) {
	return (float64(tx) + 0.5) * tileSize, (float64(ty) + 0.5) * tileSize
}

// ScreenToTile 将屏幕坐标（鼠标）按摄像机偏移转换为瓦片坐标
//
// 参数:
//   - screenX, screenY: 屏幕坐标
//   - cameraX, cameraY: 摄像机左上角的世界坐标
//   - tileSize: 瓦片大小
//   - cols, rows: 地图尺寸，用于有效性判断
//
// 返回:
//   - tx, ty: 瓦片坐标
//   - isValid: 是否在地图范围内
func ScreenToTile(screenX, screenY int, cameraX, cameraY, tileSize float64, cols, rows int) (tx, ty int, isValid bool) {
	tx, ty = WorldToTile(float64(screenX)+cameraX, float64(screenY)+cameraY, tileSize)
	if tx < 0 || ty < 0 || tx >= cols || ty >= rows {
		return tx, ty, false
	}
	return tx, ty, true
}
