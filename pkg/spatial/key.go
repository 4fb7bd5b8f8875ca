package spatial

// CellKey 网格单元键，将 (cx, cy) 打包为一个 int64
// 避免使用字符串拼接作为 map 键
type CellKey int64

// TileKey 瓦片坐标键，打包方式与 CellKey 相同
type TileKey int64

func pack(x, y int) int64 {
	return int64(x)<<32 | int64(uint32(y))
}

func unpack(k int64) (int, int) {
	return int(int32(k >> 32)), int(int32(uint32(k)))
}

// MakeCellKey 由单元坐标构造 CellKey
func MakeCellKey(cx, cy int) CellKey {
	return CellKey(pack(cx, cy))
}

// XY 解出单元坐标
func (k CellKey) XY() (int, int) {
	return unpack(int64(k))
}

// MakeTileKey 由瓦片坐标构造 TileKey
func MakeTileKey(tx, ty int) TileKey {
	return TileKey(pack(tx, ty))
}

// XY 解出瓦片坐标
func (k TileKey) XY() (int, int) {
	return unpack(int64(k))
}
