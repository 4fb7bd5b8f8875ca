// Package storage provides SQLite-based persistence for numbered save slots
// and the harvest ledger.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Slot payloads are msgpack blobs, so any serializable snapshot type can be stored.
//
// The record types build on every platform. The SQLite store itself
// is not available on js/wasm.
package storage

import (
	"errors"
	"time"
)

// MemoryPath 打开纯内存数据库
const MemoryPath = ":memory:"

// ErrSlotNotFound 槽位不存在
var ErrSlotNotFound = errors.New("storage: slot not found")

// SlotMeta 槽位的可读摘要，列表展示用
type SlotMeta struct {
	Name   string
	Day    int
	Season string
	Year   int
	Money  int
}

// SlotInfo 槽位信息
type SlotInfo struct {
	Slot    int
	Meta    SlotMeta
	SavedAt time.Time
	Size    int // payload 字节数
}

// HarvestRecord 一次收获
type HarvestRecord struct {
	ID      int64
	Crop    string
	Quality string
	Amount  int
	Value   int
	Day     int
	Season  string
	Year    int
	At      time.Time
}

// CropTotal 按作物汇总的收获
type CropTotal struct {
	Crop     string
	Harvests int
	Amount   int
	Value    int
}
