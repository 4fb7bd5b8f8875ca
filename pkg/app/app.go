// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 run 命令调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/embedded"
	"github.com/decker502/farmstead/pkg/engine"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/game"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/scenes"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/utils"
)

// AppName gdata 存储目录名
const AppName = "farmstead"

// ResourceManifest 资源清单在 assets 文件系统中的路径
const ResourceManifest = "resources.yaml"

// SpriteGroups 加载场景解码的精灵分组
var SpriteGroups = []string{"terrain", "farm", "actors", "effects"}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 自定义 config.yaml，空串使用用户目录或内嵌默认
	ConfigPath string
	// CropsPath / ToolsPath / AnimationsPath 自定义数据表
	CropsPath      string
	ToolsPath      string
	AnimationsPath string
	// Slot 启动时读取的存档槽，空串表示使用设置里的上次存档
	Slot string
	// NewGame 忽略所有存档
	NewGame bool
	// LedgerPath 收获账本数据库，空串不记录
	LedgerPath string
	// Seed 杂物布局和钓鱼随机数种子
	Seed int64
	// SkipLoadingScene 跳过加载场景，直接进入农场（精灵显示为占位图）
	SkipLoadingScene bool
	// Assets 资源文件系统，nil 时使用 embedded.Assets()
	Assets fs.FS
	// Ephemeral 不打开 gdata，存档和设置只保存在内存中（测试用）
	Ephemeral bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg *config.GameConfig

	engine    *engine.Engine
	scenes    *game.SceneManager
	resources *game.ResourceManager
	input     *systems.InputSystem
	target    *render.EbitenTarget
	settings  *game.SettingsManager
	saves     *game.SaveManager
	ledger    harvestLedger

	verbose                  bool
	closed                   bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	log *log.Logger
}

// NewApp 创建并初始化游戏应用
//
// 使用内嵌资源时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	if cfg.Verbose {
		logging.Setup(nil, true)
	}
	lg := logging.For("App")

	gameCfg, source, err := config.LoadGameConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	lg.Info("config loaded", "source", source)

	crops, err := config.LoadCropTable(cfg.CropsPath)
	if err != nil {
		return nil, fmt.Errorf("作物表加载失败: %w", err)
	}
	tools, err := config.LoadToolTable(cfg.ToolsPath)
	if err != nil {
		return nil, fmt.Errorf("工具表加载失败: %w", err)
	}
	anims, err := config.LoadAnimationSet(cfg.AnimationsPath)
	if err != nil {
		return nil, fmt.Errorf("动画表加载失败: %w", err)
	}

	assets := cfg.Assets
	if assets == nil {
		if assets, err = embedded.Assets(); err != nil {
			return nil, fmt.Errorf("嵌入资源不可用: %w", err)
		}
	}
	resources := game.NewResourceManager(assets)
	if err := resources.LoadResourceConfig(ResourceManifest); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}

	a := &App{
		cfg:       gameCfg,
		resources: resources,
		input:     systems.NewInputSystem(nil, nil),
		target:    render.NewEbitenTarget(resources),
		verbose:   cfg.Verbose,
		log:       lg,
	}

	gm := openGData(cfg.Ephemeral, lg)
	a.settings = game.NewSettingsManager(gm)
	a.saves = game.NewSaveManager(gm, nil)

	if cfg.LedgerPath != "" {
		// 账本是附加功能，打不开只记录错误
		a.ledger = openLedger(cfg.LedgerPath, lg)
	}

	bus := event.NewBus()
	w, h := gameCfg.Engine.ScreenWidth, gameCfg.Engine.ScreenHeight
	a.scenes = game.NewSceneManager(gameCfg.Engine.TransitionSeconds, w, h, bus)
	a.engine = engine.New(gameCfg.Engine, bus, nil)
	a.engine.SetInput(func(dt float64) error {
		a.input.Update(dt)
		return nil
	})
	a.engine.SetScene(a.scenes)
	a.engine.SetDebug(gameCfg.Engine.DebugOverlay || a.settings.GetSettings().DebugOverlay)

	resume := a.resumeSlot(cfg)
	a.scenes.Register(scenes.SceneLoading, func() game.Scene {
		return scenes.NewLoadingScene(resources, a.scenes, scenes.SceneFarm, w, h, SpriteGroups...)
	})
	a.scenes.Register(scenes.SceneFarm, func() game.Scene {
		opts := scenes.FarmOptions{
			Config:     gameCfg,
			Crops:      crops,
			Tools:      tools,
			Animations: anims,
			Input:      a.input,
			Saves:      a.saves,
			Seed:       cfg.Seed,
			ResumeSlot: resume,
			OnDebug:    a.setDebug,
			SnapCamera: !a.settings.GetSettings().SmoothCamera,
		}
		if a.ledger != nil {
			opts.Ledger = a.ledger
		}
		farm, err := scenes.NewFarmScene(opts)
		if err != nil {
			lg.Error("failed to build farm scene", "err", err)
			return nil
		}
		return farm
	})

	if cfg.SkipLoadingScene {
		lg.Info("SkipLoadingScene enabled, going straight to the farm")
		a.scenes.Request(scenes.SceneFarm)
	} else {
		a.scenes.Request(scenes.SceneLoading)
	}
	if a.settings.GetSettings().Fullscreen && !utils.IsMobile() {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// openGData 打开跨平台存储；失败或 ephemeral 时返回 nil（降级为内存存储）
func openGData(ephemeral bool, lg *log.Logger) *gdata.Manager {
	if ephemeral {
		return nil
	}
	if err := utils.PrepareStorage("saves", "settings"); err != nil {
		lg.Warn("storage dir not ready", "err", err)
	}
	gm, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		lg.Warn("persistent storage unavailable, saves will not survive restart", "err", err)
		return nil
	}
	return gm
}

// resumeSlot 决定进入农场时读取的存档槽
// 优先级：命令行指定 → 设置中的上次存档 → 自动存档
func (a *App) resumeSlot(cfg Config) string {
	if cfg.NewGame {
		return ""
	}
	if cfg.Slot != "" {
		a.settings.SetLastSlot(cfg.Slot)
		return cfg.Slot
	}
	if last := a.settings.GetSettings().LastSlot; last != "" {
		return last
	}
	return scenes.AutosaveSlot
}

// setDebug 玩家切换调试层时同步引擎和设置
func (a *App) setDebug(on bool) {
	a.engine.SetDebug(on)
	a.settings.SetDebugOverlay(on)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return a.Shutdown()
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Engine.ScreenWidth, a.cfg.Engine.ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.engine.Step()
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.target.Begin(screen)
	a.engine.Render(a.target)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	// 像素风格，最近邻缩放保持边缘清晰
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Engine.ScreenWidth, a.cfg.Engine.ScreenHeight
}

// Shutdown 保存当前场景和设置并关闭账本，返回 ebiten.Termination 以结束主循环
//
// 重复调用是安全的。保存失败只记录日志，程序仍正常退出。
func (a *App) Shutdown() error {
	if a.closed {
		return ebiten.Termination
	}
	a.closed = true

	if s, ok := a.scenes.Current().(game.Saveable); ok && !s.SaveOnExit() {
		a.log.Warn("scene could not be saved on exit", "scene", a.scenes.CurrentName())
	}
	if err := a.settings.Save(); err != nil {
		a.log.Warn("failed to save settings", "err", err)
	}
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			a.log.Warn("failed to close ledger", "err", err)
		}
	}
	a.log.Info("shutdown complete", "frames", a.engine.Metrics().Frames)
	return ebiten.Termination
}

// IsTermination 判断 RunGame 返回的错误是否只是正常退出
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.scenes
}

// Engine 返回主循环
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Resources 返回资源管理器
func (a *App) Resources() *game.ResourceManager {
	return a.resources
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
