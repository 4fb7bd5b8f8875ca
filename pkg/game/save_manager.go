package game

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/types"
)

// SnapshotVersion 当前存档格式版本
const SnapshotVersion = 1

// ErrSlotNotFound 存档槽不存在
var ErrSlotNotFound = errors.New("save slot not found")

// slotNamePattern 槽名同时用作 gdata 属性名（文件名），限制字符集
var slotNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,31}$`)

// 存储路径常量
const (
	savesObject   = "saves"
	indexProperty = "_index"
)

// PlayerState 玩家的可存档状态
type PlayerState struct {
	X            float64                                  `yaml:"x"`
	Y            float64                                  `yaml:"y"`
	Facing       types.Direction                          `yaml:"facing"`
	Stamina      float64                                  `yaml:"stamina"`
	MaxStamina   float64                                  `yaml:"maxStamina"`
	Money        int                                      `yaml:"money"`
	Seeds        map[types.CropType]int                   `yaml:"seeds"`
	Produce      map[types.CropType]map[types.Quality]int `yaml:"produce"`
	Items        map[string]int                           `yaml:"items"`
	SelectedTool types.ToolType                           `yaml:"selectedTool"`
	SelectedSeed types.CropType                           `yaml:"selectedSeed"`
}

// Snapshot 一次完整存档
//
// 碰撞体不存档，读档后由场景数据重建。
type Snapshot struct {
	Version int                   `yaml:"version"`
	SavedAt time.Time             `yaml:"savedAt"`
	Now     float64               `yaml:"now"` // 农田系统的游戏时间
	Soil    []components.SoilTile `yaml:"soil"`
	Crops   []components.Crop     `yaml:"crops"`
	Tools   []components.Tool     `yaml:"tools"`
	Player  PlayerState           `yaml:"player"`
	Clock   systems.ClockState    `yaml:"clock"`
}

// Farm 返回农田部分
func (s *Snapshot) Farm() systems.FarmSnapshot {
	return systems.FarmSnapshot{Now: s.Now, Soil: s.Soil, Crops: s.Crops}
}

// SetFarm 写入农田部分
func (s *Snapshot) SetFarm(f systems.FarmSnapshot) {
	s.Now, s.Soil, s.Crops = f.Now, f.Soil, f.Crops
}

// SaveManager 存档管理器
//
// 职责：
//   - 以 YAML 编码存档快照，通过 gdata 跨平台存储到 saves 对象下，每个槽一个属性
//   - 维护槽索引，列出已有存档
//
// gdataManager 为 nil 时降级为仅内存存档（本次运行内有效）。
type SaveManager struct {
	gdataManager *gdata.Manager
	memory       map[string][]byte
	now          func() time.Time
	log          *log.Logger
}

// NewSaveManager 创建保存管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//   - now: 时间源，nil 使用 time.Now
func NewSaveManager(gdataManager *gdata.Manager, now func() time.Time) *SaveManager {
	if now == nil {
		now = time.Now
	}
	return &SaveManager{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
		now:          now,
		log:          logging.For("SaveManager"),
	}
}

// Persistent 存档是否会写入磁盘
func (sm *SaveManager) Persistent() bool {
	return sm.gdataManager != nil
}

func (sm *SaveManager) exists(prop string) bool {
	if sm.gdataManager == nil {
		_, ok := sm.memory[prop]
		return ok
	}
	return sm.gdataManager.ObjectPropExists(savesObject, prop)
}

func (sm *SaveManager) read(prop string) ([]byte, error) {
	if sm.gdataManager == nil {
		data, ok := sm.memory[prop]
		if !ok {
			return nil, ErrSlotNotFound
		}
		return data, nil
	}
	return sm.gdataManager.LoadObjectProp(savesObject, prop)
}

func (sm *SaveManager) write(prop string, data []byte) error {
	if sm.gdataManager == nil {
		sm.memory[prop] = slices.Clone(data)
		return nil
	}
	return sm.gdataManager.SaveObjectProp(savesObject, prop, data)
}

func (sm *SaveManager) remove(prop string) error {
	if sm.gdataManager == nil {
		delete(sm.memory, prop)
		return nil
	}
	return sm.gdataManager.DeleteObjectProp(savesObject, prop)
}

// validateSlot 校验槽名
func validateSlot(slot string) error {
	if !slotNamePattern.MatchString(slot) {
		return fmt.Errorf("invalid slot name %q: use up to 32 letters, digits, '_' or '-', starting with a letter or digit", slot)
	}
	return nil
}

// SaveSlot 保存快照到指定槽（覆盖已有存档）
//
// Version 和 SavedAt 由保存管理器填写。
func (sm *SaveManager) SaveSlot(slot string, snap *Snapshot) error {
	if err := validateSlot(slot); err != nil {
		return err
	}
	snap.Version = SnapshotVersion
	snap.SavedAt = sm.now().UTC()

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := sm.write(slot, data); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}

	slots, err := sm.Slots()
	if err != nil {
		return err
	}
	if !slices.Contains(slots, slot) {
		slots = append(slots, slot)
		if err := sm.writeIndex(slots); err != nil {
			return err
		}
	}
	sm.log.Info("slot saved", "slot", slot, "crops", len(snap.Crops), "bytes", len(data))
	return nil
}

// LoadSlot 读取指定槽的快照
//
// 返回：
//   - ErrSlotNotFound: 槽不存在
//   - 其他错误: 读取失败、数据损坏或版本过新
func (sm *SaveManager) LoadSlot(slot string) (*Snapshot, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	if !sm.exists(slot) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	data, err := sm.read(slot)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot %s: %w", slot, err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("slot %s: unsupported save version %d (max %d)", slot, snap.Version, SnapshotVersion)
	}
	return &snap, nil
}

// HasSlot 检查槽是否存在
func (sm *SaveManager) HasSlot(slot string) bool {
	if validateSlot(slot) != nil {
		return false
	}
	return sm.exists(slot)
}

// DeleteSlot 删除指定槽
func (sm *SaveManager) DeleteSlot(slot string) error {
	if err := validateSlot(slot); err != nil {
		return err
	}
	if !sm.exists(slot) {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err := sm.remove(slot); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}

	slots, err := sm.Slots()
	if err != nil {
		return err
	}
	slots = slices.DeleteFunc(slots, func(s string) bool { return s == slot })
	if err := sm.writeIndex(slots); err != nil {
		return err
	}
	sm.log.Info("slot deleted", "slot", slot)
	return nil
}

// Slots 返回已有存档槽（有序）
//
// 索引中已不存在的槽会被过滤掉。
func (sm *SaveManager) Slots() ([]string, error) {
	if !sm.exists(indexProperty) {
		return nil, nil
	}
	data, err := sm.read(indexProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot index: %w", err)
	}
	var slots []string
	if err := yaml.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slot index: %w", err)
	}
	slots = slices.DeleteFunc(slots, func(s string) bool { return !sm.exists(s) })
	slices.Sort(slots)
	return slots, nil
}

func (sm *SaveManager) writeIndex(slots []string) error {
	slices.Sort(slots)
	data, err := yaml.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slot index: %w", err)
	}
	if err := sm.write(indexProperty, data); err != nil {
		return fmt.Errorf("failed to save slot index: %w", err)
	}
	return nil
}
