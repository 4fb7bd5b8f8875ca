package app

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/scenes"
)

const testManifest = `version: "1"
base_path: ""
groups:
  terrain:
    images:
      - {id: tile_grass, color: "#4c9a2a", w: 32, h: 32}
`

// newTestApp 内存存储、测试资源清单，不触碰用户目录
func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	logging.Discard()
	cfg.Ephemeral = true
	cfg.Assets = fstest.MapFS{ResourceManifest: {Data: []byte(testManifest)}}
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp 失败: %v", err)
	}
	return a
}

// enterFarm 直接推进场景管理器直到农场成为当前场景
func enterFarm(t *testing.T, a *App) *scenes.FarmScene {
	t.Helper()
	for i := 0; i < 200 && a.scenes.CurrentName() != scenes.SceneFarm; i++ {
		a.scenes.Update(0.05)
	}
	farm, ok := a.scenes.Current().(*scenes.FarmScene)
	if !ok {
		t.Fatalf("当前场景 = %q, 期望农场", a.scenes.CurrentName())
	}
	return farm
}

func TestNewAppInitialScene(t *testing.T) {
	tests := []struct {
		name string
		skip bool
		want string
	}{
		{"loading first", false, scenes.SceneLoading},
		{"skip loading", true, scenes.SceneFarm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, Config{SkipLoadingScene: tt.skip})
			if got := a.GetSceneManager().Pending(); got != tt.want {
				t.Errorf("Pending() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayoutUsesScreenConfig(t *testing.T) {
	a := newTestApp(t, Config{})
	w, h := a.Layout(1920, 1080)
	if w != a.cfg.Engine.ScreenWidth || h != a.cfg.Engine.ScreenHeight {
		t.Errorf("Layout = %dx%d, want %dx%d", w, h, a.cfg.Engine.ScreenWidth, a.cfg.Engine.ScreenHeight)
	}
}

func TestResumeSlot(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		last string
		want string
	}{
		{"new game", Config{NewGame: true, Slot: "a"}, "b", ""},
		{"explicit slot", Config{Slot: "a"}, "b", "a"},
		{"last slot", Config{}, "b", "b"},
		{"autosave", Config{}, "", scenes.AutosaveSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, Config{})
			a.settings.SetLastSlot(tt.last)
			if got := a.resumeSlot(tt.cfg); got != tt.want {
				t.Errorf("resumeSlot = %q, want %q", got, tt.want)
			}
		})
	}

	// 显式指定的槽位记为上次存档
	a := newTestApp(t, Config{})
	a.resumeSlot(Config{Slot: "spring"})
	if got := a.settings.GetSettings().LastSlot; got != "spring" {
		t.Errorf("LastSlot = %q, want spring", got)
	}
}

func TestSetDebugSyncsSettings(t *testing.T) {
	a := newTestApp(t, Config{})
	a.setDebug(true)
	if !a.Engine().Debug() || !a.settings.GetSettings().DebugOverlay {
		t.Error("setDebug(true) 应同时打开引擎调试层和设置项")
	}
	a.setDebug(false)
	if a.Engine().Debug() || a.settings.GetSettings().DebugOverlay {
		t.Error("setDebug(false) 应同时关闭")
	}
}

func TestShutdownAutosaves(t *testing.T) {
	a := newTestApp(t, Config{SkipLoadingScene: true, NewGame: true})
	enterFarm(t, a)

	if err := a.Shutdown(); !IsTermination(err) {
		t.Fatalf("Shutdown() = %v, want ebiten.Termination", err)
	}
	if !a.saves.HasSlot(scenes.AutosaveSlot) {
		t.Error("退出时应写入自动存档")
	}
	// 重复调用不再保存，仍返回 Termination
	if err := a.Shutdown(); !IsTermination(err) {
		t.Errorf("second Shutdown() = %v", err)
	}
}

func TestShutdownWithoutScene(t *testing.T) {
	a := newTestApp(t, Config{})
	if err := a.Shutdown(); !IsTermination(err) {
		t.Errorf("Shutdown() = %v", err)
	}
}
