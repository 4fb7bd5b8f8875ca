package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCropTable_Embedded(t *testing.T) {
	isolateHome(t)

	table, err := LoadCropTable("")
	if err != nil {
		t.Fatalf("LoadCropTable failed: %v", err)
	}

	turnip, ok := table.Get("turnip")
	if !ok {
		t.Fatal("turnip should be defined")
	}
	if turnip.FinalStage() != 3 {
		t.Errorf("expected turnip final stage 3, got %d", turnip.FinalStage())
	}
	if turnip.TotalGrowth() != 210 {
		t.Errorf("expected turnip total growth 210, got %v", turnip.TotalGrowth())
	}
	if !turnip.InSeason("spring") || turnip.InSeason("winter") {
		t.Errorf("turnip seasons unexpected: %v", turnip.Seasons)
	}

	names := table.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}

	var nilTable *CropTable
	if _, ok := nilTable.Get("turnip"); ok {
		t.Error("nil table should not find crops")
	}
}

func TestCropTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   CropTable
		wantErr bool
	}{
		{
			name:    "empty",
			table:   CropTable{},
			wantErr: true,
		},
		{
			name: "no stages",
			table: CropTable{Crops: map[string]CropDef{
				"turnip": {Yield: 1},
			}},
			wantErr: true,
		},
		{
			name: "zero duration",
			table: CropTable{Crops: map[string]CropDef{
				"turnip": {StageDurations: []float64{10, 0}, Yield: 1},
			}},
			wantErr: true,
		},
		{
			name: "negative waterings",
			table: CropTable{Crops: map[string]CropDef{
				"tomato": {StageDurations: []float64{10, 10}, Yield: 1, IdealWaterings: -1},
			}},
			wantErr: true,
		},
		{
			name: "valid",
			table: CropTable{Crops: map[string]CropDef{
				"tomato": {StageDurations: []float64{10, 10}, Yield: 1},
			}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadToolTable_Embedded(t *testing.T) {
	isolateHome(t)

	table, err := LoadToolTable("")
	if err != nil {
		t.Fatalf("LoadToolTable failed: %v", err)
	}
	can, ok := table.Level("watering_can", 1)
	if !ok {
		t.Fatal("watering_can level 1 should exist")
	}
	if can.MaxWaterCharge != 20 {
		t.Errorf("expected can charge 20, got %d", can.MaxWaterCharge)
	}
	if table.MaxLevel("hoe") != 3 {
		t.Errorf("expected hoe max level 3, got %d", table.MaxLevel("hoe"))
	}
	if _, ok := table.Level("hoe", 9); ok {
		t.Error("hoe level 9 should not exist")
	}
	if table.MaxLevel("scythe") != 0 {
		t.Error("unknown tool should have max level 0")
	}
	// 1 级不需要升级费，更高等级都要花钱
	for name := range table.Tools {
		for lvl := 1; lvl <= table.MaxLevel(name); lvl++ {
			def, _ := table.Level(name, lvl)
			if (lvl == 1) != (def.UpgradeCost == 0) {
				t.Errorf("%s level %d upgradeCost = %d", name, lvl, def.UpgradeCost)
			}
			if def.RepairCost <= 0 {
				t.Errorf("%s level %d repairCost should be > 0", name, lvl)
			}
		}
	}
}

func TestToolTable_ValidateCosts(t *testing.T) {
	table := ToolTable{Tools: map[string][]ToolLevelDef{
		"hoe": {
			{Level: 1, MaxDurability: 10, Efficiency: 1, RepairCost: -5},
		},
	}}
	if err := table.Validate(); err == nil {
		t.Error("expected error for negative repair cost")
	}
}

func TestToolTable_ValidateLevelOrder(t *testing.T) {
	table := ToolTable{Tools: map[string][]ToolLevelDef{
		"hoe": {
			{Level: 2, MaxDurability: 10, Efficiency: 1},
		},
	}}
	if err := table.Validate(); err == nil {
		t.Error("expected error for levels not starting at 1")
	}
}

func TestLoadAnimationSet_Embedded(t *testing.T) {
	isolateHome(t)

	set, err := LoadAnimationSet("")
	if err != nil {
		t.Fatalf("LoadAnimationSet failed: %v", err)
	}
	player, ok := set.Entities["player"]
	if !ok {
		t.Fatal("player animations should be defined")
	}
	walk := player.Clips["walk_down"]
	if walk.Events[1] != "footstep" {
		t.Errorf("expected footstep event on frame 1, got %q", walk.Events[1])
	}
	if player.Machine == nil || player.Machine.Initial != "idle" {
		t.Errorf("expected player machine starting at idle, got %+v", player.Machine)
	}
}

func TestAnimationSet_ValidateErrors(t *testing.T) {
	dir := t.TempDir()
	isolateHome(t)

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "event frame out of range",
			content: `
entities:
  x:
    clips:
      a: {frames: [f0], frameDuration: 0.1, events: {3: boom}}
`,
		},
		{
			name: "unknown clip",
			content: `
entities:
  x:
    clips:
      a: {frames: [f0], frameDuration: 0.1}
    machine:
      initial: s
      states:
        s: {clip: missing}
`,
		},
		{
			name: "condition without operator",
			content: `
entities:
  x:
    clips:
      a: {frames: [f0], frameDuration: 0.1}
    machine:
      initial: s
      states:
        s: {clip: a}
      transitions:
        - {from: s, to: s, when: [{param: p}]}
`,
		},
		{
			name: "missing directional clip",
			content: `
entities:
  x:
    clips:
      walk_down: {frames: [f0], frameDuration: 0.1}
    machine:
      initial: s
      states:
        s: {clip: walk, directional: true}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "anim.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadAnimationSet(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
