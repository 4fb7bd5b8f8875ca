package game

import (
	"fmt"
	"image/color"
	"path"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResourceConfig represents the top-level resource configuration loaded from YAML.
// It defines the structure of assets/resources.yaml.
//
// Structure:
//
//	version: "1.0"
//	base_path: images
//	groups:
//	  group_name:
//	    images: [...]
type ResourceConfig struct {
	Version  string                   `yaml:"version"`   // Configuration file version
	BasePath string                   `yaml:"base_path"` // Base path for all image files
	Groups   map[string]ResourceGroup `yaml:"groups"`    // Resource groups keyed by group name
}

// ResourceGroup represents a collection of related sprites that are loaded together.
type ResourceGroup struct {
	Images []ImageResource `yaml:"images"`
}

// ImageResource represents a single sprite definition.
//
// 精灵来源二选一：
//   - Path: 相对 base_path 的图片文件（无扩展名时补 .png）
//   - Color: 生成的纯色块（"#rrggbb" 或 "#rrggbbaa"），尺寸由 W/H 决定，默认 32x32
//
// Examples:
//
//	- id: player_down_0
//	  path: player/down_0
//
//	- id: soil_tilled
//	  color: "#785434"
type ImageResource struct {
	ID    string `yaml:"id"`
	Path  string `yaml:"path,omitempty"`
	Color string `yaml:"color,omitempty"`
	W     int    `yaml:"w,omitempty"`
	H     int    `yaml:"h,omitempty"`
}

// defaultSpriteSize 生成色块的默认边长
const defaultSpriteSize = 32

// ParseResourceConfig 解析并校验资源清单
func ParseResourceConfig(data []byte) (*ResourceConfig, error) {
	var cfg ResourceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse resource config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resource config: %w", err)
	}
	return &cfg, nil
}

// Validate 检查每个精灵恰好有一种来源且 ID 全局唯一
func (c *ResourceConfig) Validate() error {
	seen := make(map[string]string)
	for _, group := range c.GroupNames() {
		for _, img := range c.Groups[group].Images {
			if img.ID == "" {
				return fmt.Errorf("group %s: image without id", group)
			}
			if prev, dup := seen[img.ID]; dup {
				return fmt.Errorf("image %s declared in both %s and %s", img.ID, prev, group)
			}
			seen[img.ID] = group
			if (img.Path == "") == (img.Color == "") {
				return fmt.Errorf("image %s: exactly one of path or color is required", img.ID)
			}
			if img.Color != "" {
				if _, err := parseHexColor(img.Color); err != nil {
					return fmt.Errorf("image %s: %w", img.ID, err)
				}
			}
			if img.W < 0 || img.H < 0 {
				return fmt.Errorf("image %s: negative size", img.ID)
			}
		}
	}
	return nil
}

// GroupNames 返回有序的分组名
func (c *ResourceConfig) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// size 返回生成色块的尺寸
func (r ImageResource) size() (int, int) {
	w, h := r.W, r.H
	if w == 0 {
		w = defaultSpriteSize
	}
	if h == 0 {
		h = defaultSpriteSize
	}
	return w, h
}

// buildFullPath 拼接 fs.FS 内的路径（始终使用正斜杠）
func buildFullPath(basePath, relativePath string) string {
	full := path.Join(basePath, relativePath)
	if path.Ext(full) == "" {
		full += ".png"
	}
	return full
}

// parseHexColor 解析 #rrggbb 或 #rrggbbaa
func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("bad color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
