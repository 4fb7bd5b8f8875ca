package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/farmstead/pkg/logging"
)

// settings 存放在 gdata 的 settings 对象下，只有一个属性
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// GameSettings 跨存档的玩家偏好
type GameSettings struct {
	DebugOverlay bool `yaml:"debugOverlay"` // 启动时打开碰撞调试层
	Fullscreen   bool `yaml:"fullscreen"`
	// SmoothCamera 摄像机平滑跟随玩家，关闭时每帧直接对准
	SmoothCamera bool `yaml:"smoothCamera"`
	// LastSlot 最近一次使用的存档槽，启动时自动读取
	LastSlot string `yaml:"lastSlot"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{SmoothCamera: true}
}

// SettingsManager 持有当前设置，并负责与 gdata 之间的读写
//
// gdataManager 为 nil 时只在内存中保存，Save 为空操作。
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *GameSettings
	log          *log.Logger
}

// NewSettingsManager 创建设置管理器并立即加载
//
// 读取失败不是致命错误：记录警告并使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		log:          logging.For("SettingsManager"),
	}
	if err := sm.Load(); err != nil {
		sm.log.Warn("failed to load settings, using defaults", "err", err)
	}
	return sm
}

// Load 重新读取设置；没有存储或还没保存过时恢复默认值
// 出错时同样恢复默认值并返回错误
func (sm *SettingsManager) Load() error {
	loaded, err := sm.read()
	if err != nil {
		sm.settings = DefaultSettings()
		return err
	}
	sm.settings = loaded
	return nil
}

func (sm *SettingsManager) read() (*GameSettings, error) {
	loaded := DefaultSettings()
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return loaded, nil
	}
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	// 在默认值上解码，旧文件缺少的字段保持默认
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	sm.log.Debug("settings loaded", "lastSlot", loaded.LastSlot)
	return loaded, nil
}

// Save 写入 gdata，内存模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	sm.log.Debug("settings saved")
	return nil
}

// GetSettings 返回当前设置
// 以下 Set 方法只改内存，需要调用 Save 持久化
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

func (sm *SettingsManager) SetDebugOverlay(enabled bool) { sm.settings.DebugOverlay = enabled }
func (sm *SettingsManager) SetFullscreen(enabled bool)   { sm.settings.Fullscreen = enabled }
func (sm *SettingsManager) SetSmoothCamera(enabled bool) { sm.settings.SmoothCamera = enabled }
func (sm *SettingsManager) SetLastSlot(slot string)      { sm.settings.LastSlot = slot }
