package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/decker502/farmstead/pkg/types"
	"github.com/decker502/farmstead/pkg/utils"
)

var flagSeason string

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "Show the crop table",
	Long: `Lists every crop with its seasons, growth stages, yield and value.

Examples:
  farmstead crops
  farmstead crops --season summer
  farmstead crops --crops my_crops.yaml`,
	Args: cobra.NoArgs,
	RunE: runCrops,
}

func init() {
	cropsCmd.Flags().StringVar(&flagSeason, "season", "", "Only show crops that grow in this season")
}

func runCrops(cmd *cobra.Command, args []string) error {
	if flagSeason != "" && !types.Season(flagSeason).Valid() {
		allSeasons := make([]string, len(types.Seasons))
		for i, s := range types.Seasons {
			allSeasons[i] = string(s)
		}
		if hint := utils.Suggest(flagSeason, allSeasons); hint != "" {
			return fmt.Errorf("unknown season %q, did you mean %q?", flagSeason, hint)
		}
		return fmt.Errorf("unknown season %q (want one of %s)", flagSeason, strings.Join(allSeasons, ", "))
	}

	t, err := loadTables()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, name := range t.crops.Names() {
		def, _ := t.crops.Get(name)
		if flagSeason != "" && !def.InSeason(flagSeason) {
			continue
		}
		rows = append(rows, []string{
			name,
			strings.Join(def.Seasons, ","),
			strconv.Itoa(def.FinalStage()),
			fmt.Sprintf("%.0fs", def.TotalGrowth()),
			strconv.Itoa(def.Yield),
			fmt.Sprintf("%dg", def.BaseValue),
		})
	}
	if len(rows) == 0 {
		fmt.Println("No crops grow in that season.")
		return nil
	}

	fmt.Println(table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Crop", "Seasons", "Stages", "Growth", "Yield", "Value").
		Rows(rows...).
		Render())
	return nil
}
