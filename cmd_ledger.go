//go:build !js

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/quasilyte/gdata/v2"
	"github.com/spf13/cobra"

	"github.com/decker502/farmstead/pkg/app"
	"github.com/decker502/farmstead/pkg/game"
	"github.com/decker502/farmstead/pkg/storage"
)

var flagRecent int

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show harvest history and archived farms",
	Long: `Reads the harvest ledger database: totals per crop, the most recent
harvests and the farms archived by 'farmstead simulate --archive'.

Examples:
  farmstead ledger --ledger farm.db
  farmstead ledger --ledger farm.db --recent 20
  farmstead ledger restore 1 spring --ledger farm.db
  farmstead ledger delete 1 --ledger farm.db`,
	Args: cobra.NoArgs,
	RunE: runLedger,
}

var ledgerRestoreCmd = &cobra.Command{
	Use:   "restore <archive> [save-slot]",
	Short: "Copy an archived farm into a game save slot",
	Long: `Copies the farm archived in the ledger into the game's save storage so
'farmstead run --slot <save-slot>' can continue it. The save slot defaults
to "archive-<n>".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLedgerRestore,
}

var ledgerDeleteCmd = &cobra.Command{
	Use:   "delete <archive>",
	Short: "Delete an archived farm from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedgerDelete,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.Flags().IntVar(&flagRecent, "recent", 10, "Number of recent harvests to show")
	ledgerCmd.AddCommand(ledgerRestoreCmd)
	ledgerCmd.AddCommand(ledgerDeleteCmd)
}

var ledgerHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

func openLedger() (*storage.SlotStore, error) {
	if flagLedger == "" {
		return nil, errors.New("no ledger database given, use --ledger <path>")
	}
	store, err := storage.Open(flagLedger)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger: %w", err)
	}
	return store, nil
}

func runLedger(cmd *cobra.Command, args []string) error {
	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	totals, err := store.HarvestTotals()
	if err != nil {
		return err
	}
	fmt.Println(ledgerHeading.Render("Harvest totals"))
	if len(totals) == 0 {
		fmt.Println("No harvests recorded yet.")
		fmt.Println()
		fmt.Println("Run 'farmstead simulate --ledger <path>' or play with --ledger to record some.")
		return nil
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{t.Crop, strconv.Itoa(t.Harvests), strconv.Itoa(t.Amount), fmt.Sprintf("%dg", t.Value)})
	}
	fmt.Println(table.New().Border(lipgloss.NormalBorder()).Headers("Crop", "Harvests", "Amount", "Value").Rows(rows...).Render())

	if flagRecent > 0 {
		recent, err := store.RecentHarvests(flagRecent)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(ledgerHeading.Render("Recent harvests"))
		rows = rows[:0]
		for _, r := range recent {
			rows = append(rows, []string{
				fmt.Sprintf("Y%d %s %d", r.Year, r.Season, r.Day),
				r.Crop, r.Quality, strconv.Itoa(r.Amount), fmt.Sprintf("%dg", r.Value),
			})
		}
		fmt.Println(table.New().Border(lipgloss.NormalBorder()).Headers("Date", "Crop", "Quality", "Amount", "Value").Rows(rows...).Render())
	}

	slots, err := store.List()
	if err != nil {
		return err
	}
	if len(slots) > 0 {
		fmt.Println()
		fmt.Println(ledgerHeading.Render("Archived farms"))
		rows = rows[:0]
		for _, s := range slots {
			rows = append(rows, []string{
				strconv.Itoa(s.Slot), s.Meta.Name,
				fmt.Sprintf("Y%d %s %d", s.Meta.Year, s.Meta.Season, s.Meta.Day),
				fmt.Sprintf("%dg", s.Meta.Money),
				s.SavedAt.Format("2006-01-02 15:04"),
			})
		}
		fmt.Println(table.New().Border(lipgloss.NormalBorder()).Headers("Slot", "Name", "Date", "Money", "Saved").Rows(rows...).Render())
	}
	return nil
}

func parseArchiveSlot(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("archive slot must be a positive number, got %q", arg)
	}
	return n, nil
}

func runLedgerRestore(cmd *cobra.Command, args []string) error {
	n, err := parseArchiveSlot(args[0])
	if err != nil {
		return err
	}
	name := fmt.Sprintf("archive-%d", n)
	if len(args) == 2 {
		name = args[1]
	}

	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	var snap game.Snapshot
	if _, err := store.Load(n, &snap); err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			return fmt.Errorf("no archived farm in slot %d", n)
		}
		return err
	}

	gm, err := gdata.Open(gdata.Config{AppName: app.AppName})
	if err != nil {
		return fmt.Errorf("error opening save storage: %w", err)
	}
	if err := game.NewSaveManager(gm, nil).SaveSlot(name, &snap); err != nil {
		return err
	}
	fmt.Printf("Restored archive %d into save slot %q\n", n, name)
	fmt.Printf("Run 'farmstead run --slot %s' to continue it.\n", name)
	return nil
}

func runLedgerDelete(cmd *cobra.Command, args []string) error {
	n, err := parseArchiveSlot(args[0])
	if err != nil {
		return err
	}
	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(n); err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			return fmt.Errorf("no archived farm in slot %d", n)
		}
		return err
	}
	fmt.Printf("Deleted archive %d\n", n)
	return nil
}
