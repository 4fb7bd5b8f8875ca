//go:build !js

package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/decker502/farmstead/pkg/engine"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/scenes"
	"github.com/decker502/farmstead/pkg/storage"
	"github.com/decker502/farmstead/pkg/systems"
)

var (
	flagDays      int
	flagStep      float64
	flagCooldown  float64
	flagArchive   int
	flagMaxFrames int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted farmer headless and print a report",
	Long: `Builds the farm without a window and lets a scripted farmer work it:
harvest, water, plant, till, clear debris and sleep when tired.
The clock is simulated, so the same --seed always gives the same report.

Examples:
  farmstead simulate
  farmstead simulate --days 28 --seed 42
  farmstead simulate --ledger farm.db --archive 1`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

// simulate 和 ledger 依赖 SQLite 账本，浏览器构建里没有这两个命令
func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVar(&flagDays, "days", 7, "Number of in-game days to simulate")
	simulateCmd.Flags().Float64Var(&flagStep, "step", 0.05, "Simulated seconds per frame (clamped to engine.maxDeltaMS)")
	simulateCmd.Flags().Float64Var(&flagCooldown, "cooldown", scenes.DefaultAutopilotCooldown, "Seconds between farmer actions")
	simulateCmd.Flags().IntVar(&flagArchive, "archive", 0, "Archive the final farm into this ledger slot (needs --ledger)")
	simulateCmd.Flags().IntVar(&flagMaxFrames, "max-frames", 1_000_000, "Stop after this many frames even if the days are not done")
}

var (
	reportTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	reportLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	reportWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// simulation 一次无窗口运行的结果
type simulation struct {
	scene  *scenes.FarmScene
	pilot  *scenes.Autopilot
	frames   int
	maxDelta float64 // 单帧最大时间增量（秒）
	drawn    int     // 最后一帧的绘制命令数
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if flagDays <= 0 || flagStep <= 0 {
		return fmt.Errorf("--days and --step must be positive")
	}
	if !flagVerbose {
		logging.Discard()
	}

	t, err := loadTables()
	if err != nil {
		return err
	}
	if limit := t.game.Engine.MaxDelta(); limit > 0 && flagStep > limit.Seconds() {
		fmt.Println(reportWarn.Render(fmt.Sprintf("--step %.3gs is above engine.maxDeltaMS, each frame advances %.3gs", flagStep, limit.Seconds())))
	}

	var ledger *storage.SlotStore
	if flagLedger != "" {
		if ledger, err = storage.Open(flagLedger); err != nil {
			return fmt.Errorf("error opening ledger: %w", err)
		}
		defer ledger.Close()
	} else if flagArchive > 0 {
		return fmt.Errorf("--archive needs --ledger")
	}

	sim, err := simulate(t, ledger)
	if err != nil {
		return err
	}
	printReport(sim)

	if flagArchive > 0 {
		if err := archive(ledger, flagArchive, sim.scene); err != nil {
			return err
		}
		fmt.Printf("Archived farm into ledger slot %d\n", flagArchive)
	}
	return nil
}

// simulate 用模拟时钟驱动引擎直到过完指定天数
// 每帧时钟前进 --step 秒，引擎把增量限制在 engine.maxDeltaMS 以内
func simulate(t *tables, ledger *storage.SlotStore) (*simulation, error) {
	epoch := time.Date(2000, 1, 1, 6, 0, 0, 0, time.UTC)
	var elapsed time.Duration
	now := func() time.Time { return epoch.Add(elapsed) }

	// 输入系统从不轮询，玩家控制只看到空闲输入
	opts := scenes.FarmOptions{
		Config:     t.game,
		Crops:      t.crops,
		Tools:      t.tools,
		Animations: t.animations,
		Input:      systems.NewInputSystem(nil, nil),
		Seed:       flagSeed,
		Now:        now,
	}
	if ledger != nil {
		opts.Ledger = ledger
	}
	scene, err := scenes.NewFarmScene(opts)
	if err != nil {
		return nil, err
	}
	scene.Enter()
	defer scene.Exit()

	sim := &simulation{scene: scene, pilot: scenes.NewAutopilot(scene, flagCooldown)}
	eng := engine.New(t.game.Engine, nil, now)
	eng.SetInput(func(dt float64) error {
		sim.pilot.Update(dt)
		return nil
	})
	eng.SetScene(scene)

	step := time.Duration(flagStep * float64(time.Second))
	for sim.frames < flagMaxFrames && scene.Stats().Days < flagDays {
		eng.Step()
		if err := eng.Fatal(); err != nil {
			return nil, err
		}
		sim.maxDelta = max(sim.maxDelta, eng.Metrics().LastDelta)
		sim.frames++
		elapsed += step
	}

	rec := render.NewRecorder()
	eng.Render(rec)
	sim.drawn = len(rec.Commands)
	return sim, nil
}

func archive(ledger *storage.SlotStore, slot int, scene *scenes.FarmScene) error {
	snap := scene.Snapshot()
	clock := scene.Clock()
	meta := storage.SlotMeta{
		Name:   fmt.Sprintf("simulate seed %d", flagSeed),
		Day:    clock.Day(),
		Season: string(clock.Season()),
		Year:   clock.Year(),
		Money:  snap.Player.Money,
	}
	if err := ledger.Save(slot, meta, snap); err != nil {
		return fmt.Errorf("error archiving farm: %w", err)
	}
	return nil
}

func printReport(sim *simulation) {
	stats := sim.scene.Stats()
	pilot := sim.pilot.Stats()

	fmt.Println(reportTitle.Render(fmt.Sprintf("Farm report - seed %d", flagSeed)))
	fmt.Println()
	for _, line := range sim.scene.HUDLines() {
		fmt.Println("  " + line)
	}
	fmt.Println()

	rows := [][]string{
		{"frames", strconv.Itoa(sim.frames)},
		{"days", strconv.Itoa(stats.Days)},
		{"harvests", strconv.Itoa(stats.Harvests)},
		{"produce", strconv.Itoa(stats.Amount)},
		{"value", fmt.Sprintf("%dg", stats.Value)},
		{"tool uses", strconv.Itoa(stats.ToolUses)},
		{"debris left", strconv.Itoa(stats.DebrisLeft)},
		{"exhaustions", strconv.Itoa(stats.Exhaustions)},
		{"system failures", strconv.Itoa(stats.SystemFailures)},
		{"max frame dt", fmt.Sprintf("%.3fs", sim.maxDelta)},
		{"sleeps", strconv.Itoa(pilot.Sleeps)},
		{"idle turns", strconv.Itoa(pilot.Idle)},
		{"draw commands", strconv.Itoa(sim.drawn)},
	}
	for _, name := range slices.Sorted(maps.Keys(pilot.Actions)) {
		rows = append(rows, []string{"action " + name, strconv.Itoa(pilot.Actions[name])})
	}
	fmt.Println(table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Stat", "Value").
		Rows(rows...).
		Render())

	if len(pilot.Failures) > 0 {
		fmt.Println()
		fmt.Println(reportWarn.Render("Failed actions:"))
		for _, reason := range slices.Sorted(maps.Keys(pilot.Failures)) {
			fmt.Printf("  %s %d\n", reportLabel.Render(string(reason)), pilot.Failures[reason])
		}
	}
	if stats.LedgerErrors > 0 {
		fmt.Println(reportWarn.Render(fmt.Sprintf("%d harvests could not be written to the ledger", stats.LedgerErrors)))
	}
}
