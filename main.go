// farmstead 是一个 2D 瓦片农场模拟游戏。
//
// Usage:
//
//	farmstead                  - 打开游戏窗口（同 run）
//	farmstead run              - 打开游戏窗口
//	farmstead simulate         - 无窗口运行脚本化农夫并输出报告
//	farmstead crops            - 列出作物表
//	farmstead ledger           - 查看收获账本和归档存档
//
// Global flags:
//
//	--verbose         - 输出 Debug 日志
//	--config <path>   - 自定义 config.yaml
//	--seed <value>    - 杂物布局与钓鱼随机数种子
//	--ledger <path>   - 收获账本数据库
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/logging"
)

var (
	// Global flags
	flagVerbose    bool
	flagConfig     string
	flagCrops      string
	flagTools      string
	flagAnimations string
	flagSeed       int64
	flagLedger     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "farmstead",
	Short: "Farmstead - a tile-based farming simulation",
	Long: `Farmstead is a small farming game: till soil, water and plant seeds,
harvest crops, and watch the seasons change.

Available commands:
  run       - Open the game window (default)
  simulate  - Run a scripted farmer headless and print a report
  crops     - Show the crop table
  ledger    - Show harvest history and archived farms

Examples:
  farmstead
  farmstead run --slot spring
  farmstead simulate --days 28 --seed 42
  farmstead ledger --ledger farm.db`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(nil, flagVerbose)
	},
	RunE: runGame,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.yaml (default: user config dir or built-in)")
	rootCmd.PersistentFlags().StringVar(&flagCrops, "crops", "", "Path to crops.yaml")
	rootCmd.PersistentFlags().StringVar(&flagTools, "tools", "", "Path to tools.yaml")
	rootCmd.PersistentFlags().StringVar(&flagAnimations, "animations", "", "Path to animations.yaml")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 1, "Seed for debris layout and fishing")
	rootCmd.PersistentFlags().StringVar(&flagLedger, "ledger", "", "Path to the harvest ledger database (empty = disabled)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cropsCmd)
}

// tables 游戏配置与三张数据表
type tables struct {
	game       *config.GameConfig
	crops      *config.CropTable
	tools      *config.ToolTable
	animations *config.AnimationSet
}

// loadTables 按全局参数加载配置，任何一张表失败都返回错误
func loadTables() (*tables, error) {
	game, _, err := config.LoadGameConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	crops, err := config.LoadCropTable(flagCrops)
	if err != nil {
		return nil, err
	}
	tools, err := config.LoadToolTable(flagTools)
	if err != nil {
		return nil, err
	}
	anims, err := config.LoadAnimationSet(flagAnimations)
	if err != nil {
		return nil, err
	}
	return &tables{game: game, crops: crops, tools: tools, animations: anims}, nil
}
