package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

//go:embed defaults/crops.yaml
var defaultCropsYAML []byte

//go:embed defaults/tools.yaml
var defaultToolsYAML []byte

//go:embed defaults/animations.yaml
var defaultAnimationsYAML []byte

// UserConfigDir 用户配置目录名（位于 $HOME 下）
const UserConfigDir = ".farmstead"

// LocalDataDir 本地数据目录
const LocalDataDir = "data"

// EmbeddedSource 表示配置来自内嵌默认值
const EmbeddedSource = "embedded"

// loadYAML 按搜索顺序加载 YAML 到 out
//
// 搜索顺序: customPath -> ~/.farmstead/<name> -> ./data/<name> -> 内嵌默认值
// 指定了 customPath 时读取或解析失败直接返回错误，其余位置失败则继续向后查找。
//
// 返回:
//   - string: 实际使用的来源路径（内嵌默认值返回 "embedded"）
//   - error: 自定义路径失败或内嵌默认值无法解析时返回错误
func loadYAML(customPath, name string, embedded []byte, out any) (string, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return "", fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return "", fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return customPath, nil
	}

	if p := userConfigPath(name); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if err := yaml.Unmarshal(data, out); err == nil {
				return p, nil
			}
		}
	}

	local := filepath.Join(LocalDataDir, name)
	if data, err := os.ReadFile(local); err == nil {
		if err := yaml.Unmarshal(data, out); err == nil {
			return local, nil
		}
	}

	if err := yaml.Unmarshal(embedded, out); err != nil {
		return "", fmt.Errorf("failed to parse embedded %s: %w", name, err)
	}
	return EmbeddedSource, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, filename)
}

// LoadGameConfig 加载游戏全局配置
//
// 先填充 DefaultGameConfig，再用找到的 YAML 覆盖，最后验证。
//
// 参数:
//   - customPath: 自定义配置路径，为空时按默认顺序查找
//
// 返回:
//   - *GameConfig: 验证通过的配置
//   - string: 配置来源
//   - error: 加载或验证失败时返回错误
func LoadGameConfig(customPath string) (*GameConfig, string, error) {
	cfg := DefaultGameConfig()
	src, err := loadYAML(customPath, "config.yaml", defaultConfigYAML, cfg)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid game config (%s): %w", src, err)
	}
	return cfg, src, nil
}

// LoadCropTable 加载作物定义表
func LoadCropTable(customPath string) (*CropTable, error) {
	var table CropTable
	src, err := loadYAML(customPath, "crops.yaml", defaultCropsYAML, &table)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crop table (%s): %w", src, err)
	}
	return &table, nil
}

// LoadToolTable 加载工具等级表
func LoadToolTable(customPath string) (*ToolTable, error) {
	var table ToolTable
	src, err := loadYAML(customPath, "tools.yaml", defaultToolsYAML, &table)
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tool table (%s): %w", src, err)
	}
	return &table, nil
}

// LoadAnimationSet 加载动画剪辑与状态机定义
func LoadAnimationSet(customPath string) (*AnimationSet, error) {
	var set AnimationSet
	src, err := loadYAML(customPath, "animations.yaml", defaultAnimationsYAML, &set)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animation set (%s): %w", src, err)
	}
	return &set, nil
}

// ParseGameConfig 从内存中的 YAML 解析配置（用于测试和 wasm 构建）
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return cfg, nil
}
