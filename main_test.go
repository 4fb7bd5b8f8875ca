//go:build !js

package main

import (
	"math"
	"testing"

	"github.com/decker502/farmstead/pkg/game"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/storage"
)

// withSimFlags 设置模拟参数，测试结束后恢复
func withSimFlags(t *testing.T, days int, seed int64) {
	t.Helper()
	oldDays, oldSeed, oldStep, oldCooldown, oldMax := flagDays, flagSeed, flagStep, flagCooldown, flagMaxFrames
	t.Cleanup(func() {
		flagDays, flagSeed, flagStep, flagCooldown, flagMaxFrames = oldDays, oldSeed, oldStep, oldCooldown, oldMax
	})
	flagDays, flagSeed, flagStep, flagCooldown, flagMaxFrames = days, seed, 0.05, 0.5, 60000
	logging.Discard()
}

func mustTables(t *testing.T) *tables {
	t.Helper()
	tb, err := loadTables()
	if err != nil {
		t.Fatalf("loadTables: %v", err)
	}
	return tb
}

func TestSimulateDeterministic(t *testing.T) {
	withSimFlags(t, 1, 42)
	tb := mustTables(t)

	first, err := simulate(tb, nil)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	second, err := simulate(tb, nil)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if first.frames != second.frames {
		t.Errorf("frames %d != %d", first.frames, second.frames)
	}
	if a, b := first.scene.Stats(), second.scene.Stats(); a != b {
		t.Errorf("相同种子的统计不同:\n%+v\n%+v", a, b)
	}
	if first.scene.Stats().Days < 1 {
		t.Errorf("Days = %d, want >= 1", first.scene.Stats().Days)
	}
	if first.drawn == 0 {
		t.Error("最后一帧应产生绘制命令")
	}
}

// TestSimulateRespectsDeltaClamp 步长超过 maxDeltaMS 时每帧只推进上限时间
func TestSimulateRespectsDeltaClamp(t *testing.T) {
	withSimFlags(t, 100, 3)
	flagStep, flagMaxFrames = 0.5, 40
	tb := mustTables(t)
	limit := tb.game.Engine.MaxDelta().Seconds()

	sim, err := simulate(tb, nil)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if sim.frames != 40 {
		t.Fatalf("frames = %d, want 40", sim.frames)
	}
	if sim.maxDelta > limit {
		t.Errorf("max frame dt = %v, want <= %v", sim.maxDelta, limit)
	}
	// 第一帧增量为 0
	want := float64(sim.frames-1) * limit
	if got := sim.scene.Farming().Now(); math.Abs(got-want) > 1e-9 {
		t.Errorf("farming clock = %v, want %v", got, want)
	}
	if got := sim.scene.Stats().SystemFailures; got != 0 {
		t.Errorf("SystemFailures = %d, want 0", got)
	}
}

func TestSimulateArchive(t *testing.T) {
	withSimFlags(t, 1, 7)
	ledger, err := storage.Open(storage.MemoryPath)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer ledger.Close()

	sim, err := simulate(mustTables(t), ledger)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if err := archive(ledger, 3, sim.scene); err != nil {
		t.Fatalf("archive: %v", err)
	}

	var snap game.Snapshot
	info, err := ledger.Load(3, &snap)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Meta.Day != sim.scene.Clock().Day() {
		t.Errorf("Meta.Day = %d, want %d", info.Meta.Day, sim.scene.Clock().Day())
	}
	if len(snap.Soil) == 0 {
		t.Error("归档的存档应包含耕地")
	}

	// 收获同时写入账本
	if h := sim.scene.Stats().Harvests; h > 0 {
		totals, err := ledger.HarvestTotals()
		if err != nil {
			t.Fatalf("HarvestTotals: %v", err)
		}
		sum := 0
		for _, c := range totals {
			sum += c.Harvests
		}
		if sum != h {
			t.Errorf("账本收获次数 = %d, want %d", sum, h)
		}
	}
}

func TestParseArchiveSlot(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"spring", 0, true},
	}
	for _, tt := range tests {
		got, err := parseArchiveSlot(tt.arg)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseArchiveSlot(%q) = %d, %v", tt.arg, got, err)
		}
	}
}
