package spatial

import "math"

// DefaultCellSize 默认网格单元大小（像素）
const DefaultCellSize = 32.0

// ID 被索引对象的标识符（由调用方分配）
type ID uint32

// Index 均匀网格空间索引
//
// 每个对象被插入到其矩形覆盖的所有单元中。
// 为保证"成员关系 == 当前覆盖单元"的不变式，索引额外记录每个对象所在的单元列表，
// 更新时先完整移除旧成员关系再重新插入。
type Index struct {
	cellSize float64
	cells    map[CellKey][]ID
	members  map[ID][]CellKey
}

// NewIndex 创建空间索引，cellSize <= 0 时使用 DefaultCellSize
func NewIndex(cellSize float64) *Index {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Index{
		cellSize: cellSize,
		cells:    make(map[CellKey][]ID),
		members:  make(map[ID][]CellKey),
	}
}

// CellSize 返回单元大小
func (ix *Index) CellSize() float64 {
	return ix.cellSize
}

// CellRange 返回矩形覆盖的单元坐标范围（闭区间）
// 右/下边界落在单元边线上时不计入下一个单元（与 Overlaps 的开区间一致）
func (ix *Index) CellRange(r Rect) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(r.X / ix.cellSize))
	minY = int(math.Floor(r.Y / ix.cellSize))
	maxX = int(math.Ceil(r.Right()/ix.cellSize)) - 1
	maxY = int(math.Ceil(r.Bottom()/ix.cellSize)) - 1
	// 零宽/零高矩形仍占据其起点所在单元
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return minX, minY, maxX, maxY
}

// CellsFor 返回矩形覆盖的全部单元键
func (ix *Index) CellsFor(r Rect) []CellKey {
	minX, minY, maxX, maxY := ix.CellRange(r)
	keys := make([]CellKey, 0, (maxX-minX+1)*(maxY-minY+1))
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			keys = append(keys, MakeCellKey(cx, cy))
		}
	}
	return keys
}

// Insert 将对象插入到矩形覆盖的所有单元
// 如果对象已存在，等价于 Update
func (ix *Index) Insert(id ID, r Rect) {
	if _, exists := ix.members[id]; exists {
		ix.Remove(id)
	}
	keys := ix.CellsFor(r)
	for _, k := range keys {
		ix.cells[k] = append(ix.cells[k], id)
	}
	ix.members[id] = keys
}

// Remove 从所有单元移除对象，未知 ID 为空操作
func (ix *Index) Remove(id ID) {
	keys, ok := ix.members[id]
	if !ok {
		return
	}
	for _, k := range keys {
		ids := ix.cells[k]
		for i, other := range ids {
			if other == id {
				last := len(ids) - 1
				ids[i] = ids[last]
				ids = ids[:last]
				break
			}
		}
		if len(ids) == 0 {
			delete(ix.cells, k)
		} else {
			ix.cells[k] = ids
		}
	}
	delete(ix.members, id)
}

// Update 重新计算对象的单元成员关系
func (ix *Index) Update(id ID, r Rect) {
	ix.Insert(id, r)
}

// Has 返回对象是否在索引中
func (ix *Index) Has(id ID) bool {
	_, ok := ix.members[id]
	return ok
}

// CellsOf 返回对象当前所在的单元（副本）
func (ix *Index) CellsOf(id ID) []CellKey {
	keys := ix.members[id]
	out := make([]CellKey, len(keys))
	copy(out, keys)
	return out
}

// At 返回单元内的对象（内部切片视图，调用方不得修改）
func (ix *Index) At(k CellKey) []ID {
	return ix.cells[k]
}

// Visit 遍历矩形覆盖的每个单元中的对象
// 跨越多个单元的对象会被访问多次，去重由调用方负责
func (ix *Index) Visit(r Rect, fn func(id ID)) {
	minX, minY, maxX, maxY := ix.CellRange(r)
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			for _, id := range ix.cells[MakeCellKey(cx, cy)] {
				fn(id)
			}
		}
	}
}

// Len 返回已索引对象数量
func (ix *Index) Len() int {
	return len(ix.members)
}

// Clear 清空索引
func (ix *Index) Clear() {
	ix.cells = make(map[CellKey][]ID)
	ix.members = make(map[ID][]CellKey)
}
