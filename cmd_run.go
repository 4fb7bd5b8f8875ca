package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/decker502/farmstead/pkg/app"
	"github.com/decker502/farmstead/pkg/embedded"
)

var (
	flagSlot        string
	flagNewGame     bool
	flagSkipLoading bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the game window",
	Long: `Opens the farm in a window. Progress is autosaved when the window closes
and restored on the next start unless --new is given.

Keys:
  WASD / arrows   move          Space / C   use tool
  E / X           plant, harvest, fertilize
  Q / Tab         next tool     R           next seed
  F               fish          Z           sleep
  U               upgrade tool  B           repair tool
  Esc             pause         F3          debug overlay
  F5 / F9         quick save / load
  F11             fullscreen`,
	Args: cobra.NoArgs,
	RunE: runGame,
}

func init() {
	runCmd.Flags().StringVar(&flagSlot, "slot", "", "Save slot to resume (default: last used slot)")
	runCmd.Flags().BoolVar(&flagNewGame, "new", false, "Start a new farm, ignoring saves")
	runCmd.Flags().BoolVar(&flagSkipLoading, "skip-loading", false, "Skip the loading screen (sprites show as placeholders)")
}

func runGame(cmd *cobra.Command, args []string) error {
	embedded.Init(assetsFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:          flagVerbose,
		ConfigPath:       flagConfig,
		CropsPath:        flagCrops,
		ToolsPath:        flagTools,
		AnimationsPath:   flagAnimations,
		Slot:             flagSlot,
		NewGame:          flagNewGame,
		LedgerPath:       flagLedger,
		Seed:             flagSeed,
		SkipLoadingScene: flagSkipLoading,
	})
	if err != nil {
		return fmt.Errorf("游戏初始化失败: %w", err)
	}

	w, h := gameApp.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Farmstead")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 关闭窗口时先让 App 保存，再由 Update 返回 Termination
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil && !app.IsTermination(err) {
		return err
	}
	return nil
}
