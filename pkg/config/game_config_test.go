package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateHome 将 HOME 指向临时目录，避免读取开发者本机配置
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultGameConfig_Valid(t *testing.T) {
	cfg := DefaultGameConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Engine.MaxDelta() != 50*time.Millisecond {
		t.Errorf("expected max delta 50ms, got %v", cfg.Engine.MaxDelta())
	}
	if cfg.Collision.CellSize != 32 {
		t.Errorf("expected cell size 32, got %v", cfg.Collision.CellSize)
	}
	if cfg.Movement.SmoothingFactor != 0.15 {
		t.Errorf("expected smoothing 0.15, got %v", cfg.Movement.SmoothingFactor)
	}
}

func TestLoadGameConfig_EmbeddedDefault(t *testing.T) {
	isolateHome(t)

	cfg, src, err := LoadGameConfig("")
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if src != EmbeddedSource {
		t.Errorf("expected source %q, got %q", EmbeddedSource, src)
	}
	// 内嵌 YAML 与硬编码默认值保持一致
	def := DefaultGameConfig()
	if cfg.Engine.MaxDeltaMS != def.Engine.MaxDeltaMS {
		t.Errorf("maxDeltaMS mismatch: yaml=%d default=%d", cfg.Engine.MaxDeltaMS, def.Engine.MaxDeltaMS)
	}
	if cfg.Farming.StaminaCosts != def.Farming.StaminaCosts {
		t.Errorf("stamina costs mismatch: yaml=%+v default=%+v", cfg.Farming.StaminaCosts, def.Farming.StaminaCosts)
	}
	if cfg.Time.SeasonGrowth["summer"] != 1.2 {
		t.Errorf("expected summer growth 1.2, got %v", cfg.Time.SeasonGrowth["summer"])
	}
}

func TestLoadGameConfig_SearchOrder(t *testing.T) {
	home := isolateHome(t)

	userDir := filepath.Join(home, UserConfigDir)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	userPath := filepath.Join(userDir, "config.yaml")
	if err := os.WriteFile(userPath, []byte("engine:\n  maxDeltaMS: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, src, err := LoadGameConfig("")
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if src != userPath {
		t.Errorf("expected user config %q, got %q", userPath, src)
	}
	if cfg.Engine.MaxDeltaMS != 40 {
		t.Errorf("expected maxDeltaMS 40, got %d", cfg.Engine.MaxDeltaMS)
	}
	// 未覆盖的字段保留默认值
	if cfg.Engine.TPS != 60 {
		t.Errorf("expected default TPS 60, got %d", cfg.Engine.TPS)
	}

	// 自定义路径优先于用户目录
	custom := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(custom, []byte("engine:\n  maxDeltaMS: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, src, err = LoadGameConfig(custom)
	if err != nil {
		t.Fatalf("LoadGameConfig(custom) failed: %v", err)
	}
	if src != custom || cfg.Engine.MaxDeltaMS != 30 {
		t.Errorf("expected custom config with 30ms, got src=%q maxDeltaMS=%d", src, cfg.Engine.MaxDeltaMS)
	}
}

func TestLoadGameConfig_Errors(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	tests := []struct {
		name        string
		path        string
		content     string
		errContains string
	}{
		{
			name:        "missing custom file",
			path:        filepath.Join(dir, "missing.yaml"),
			errContains: "failed to read config",
		},
		{
			name:        "malformed yaml",
			path:        filepath.Join(dir, "bad.yaml"),
			content:     "engine: [unclosed",
			errContains: "failed to parse config",
		},
		{
			name:        "invalid smoothing",
			path:        filepath.Join(dir, "smooth.yaml"),
			content:     "movement:\n  smoothingFactor: 1.5\n",
			errContains: "smoothingFactor",
		},
		{
			name:        "negative delta",
			path:        filepath.Join(dir, "delta.yaml"),
			content:     "engine:\n  maxDeltaMS: -1\n",
			errContains: "maxDeltaMS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.content != "" {
				if err := os.WriteFile(tt.path, []byte(tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, _, err := LoadGameConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %v", tt.errContains, err)
			}
		})
	}
}

func TestParseGameConfig(t *testing.T) {
	cfg, err := ParseGameConfig([]byte("fishing:\n  catchWindowMS: 500\n"))
	if err != nil {
		t.Fatalf("ParseGameConfig failed: %v", err)
	}
	if cfg.Fishing.CatchWindow() != 500*time.Millisecond {
		t.Errorf("expected 500ms window, got %v", cfg.Fishing.CatchWindow())
	}

	if _, err := ParseGameConfig([]byte("fishing:\n  biteDelayMin: 9\n  biteDelayMax: 1\n")); err == nil {
		t.Error("expected validation error for inverted bite delay")
	}
}

func TestParseGameConfig_FishTable(t *testing.T) {
	cfg, err := ParseGameConfig([]byte("fishing:\n  fish:\n    summer: [marlin]\n"))
	if err != nil {
		t.Fatalf("ParseGameConfig failed: %v", err)
	}
	if got := cfg.Fishing.Fish["summer"]; len(got) != 1 || got[0] != "marlin" {
		t.Errorf("summer fish = %v, want [marlin]", got)
	}
	// 没写的季节保留默认鱼表
	if len(cfg.Fishing.Fish["spring"]) == 0 {
		t.Error("spring fish should keep the default table")
	}

	if _, err := ParseGameConfig([]byte("fishing:\n  fish:\n    winter: []\n")); err == nil {
		t.Error("expected validation error for empty fish list")
	}
}
