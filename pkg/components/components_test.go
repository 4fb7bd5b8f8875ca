package components

import (
	"testing"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/types"
)

func TestToolUpgrade(t *testing.T) {
	can := NewTool(types.ToolWateringCan, config.ToolLevelDef{Level: 1, MaxDurability: 50, MaxWaterCharge: 20})
	if can.Efficiency != 1 {
		t.Errorf("未配置效率时应为 1，got %v", can.Efficiency)
	}
	can.Durability, can.WaterCharge = 3, 0

	can.Upgrade(config.ToolLevelDef{Level: 2, MaxDurability: 80, Efficiency: 1.5, MaxWaterCharge: 40})
	if can.Level != 2 || can.Durability != 80 || can.WaterCharge != 40 || can.Efficiency != 1.5 {
		t.Errorf("升级后属性不对: %+v", *can)
	}
}

func TestToolUsable(t *testing.T) {
	var nilTool *Tool
	tests := []struct {
		name string
		tool *Tool
		want bool
	}{
		{"nil", nilTool, false},
		{"broken", &Tool{Durability: 0}, false},
		{"ok", &Tool{Durability: 1}, true},
	}
	for _, tt := range tests {
		if got := tt.tool.Usable(); got != tt.want {
			t.Errorf("%s: Usable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSoilStateString(t *testing.T) {
	tests := []struct {
		state   SoilState
		want    string
		hasCrop bool
	}{
		{SoilUntilled, "untilled", false},
		{SoilTilled, "tilled", false},
		{SoilWatered, "watered", false},
		{SoilPlanted, "planted", true},
		{SoilGrowing, "growing", true},
		{SoilState(99), "unknown", false},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.state.HasCrop(); got != tt.hasCrop {
			t.Errorf("%s: HasCrop() = %v, want %v", tt.want, got, tt.hasCrop)
		}
	}
}

func TestDebrisClearingTool(t *testing.T) {
	if got := DebrisWood.ClearingTool(); got != types.ToolAxe {
		t.Errorf("木头应该用斧头，got %s", got)
	}
	if got := DebrisStone.ClearingTool(); got != types.ToolPickaxe {
		t.Errorf("石头应该用镐，got %s", got)
	}
}

func TestCropReady(t *testing.T) {
	c := Crop{StageDurations: []float64{60, 60, 90}}
	if c.FinalStage() != 3 {
		t.Fatalf("FinalStage() = %d, want 3", c.FinalStage())
	}
	for stage := 0; stage < 3; stage++ {
		c.Stage = stage
		if c.Ready() {
			t.Errorf("阶段 %d 不应可收获", stage)
		}
	}
	c.Stage = 3
	if !c.Ready() {
		t.Error("最终阶段应可收获")
	}
}

func TestInventoryProduce(t *testing.T) {
	inv := NewInventory()
	inv.AddProduce(types.CropPotato, types.QualityGood, 2)
	inv.AddProduce(types.CropPotato, types.QualityPoor, 1)
	inv.AddProduce(types.CropPotato, types.QualityGood, 1)

	if got := inv.Produce[types.CropPotato][types.QualityGood]; got != 3 {
		t.Errorf("good = %d, want 3", got)
	}
	if got := inv.ProduceCount(types.CropPotato); got != 4 {
		t.Errorf("ProduceCount = %d, want 4", got)
	}
	if got := inv.ProduceCount(types.CropTurnip); got != 0 {
		t.Errorf("未收获的作物应为 0，got %d", got)
	}
}

func TestCurrentSprite(t *testing.T) {
	a := &AnimationComponent{
		Clips: map[string]Clip{
			"walk":  {Frames: []string{"w0", "w1"}},
			"empty": {},
		},
		Current: "walk",
	}
	tests := []struct {
		current string
		frame   int
		want    string
	}{
		{"walk", 1, "w1"},
		{"walk", 5, "w1"}, // 越界取最后一帧
		{"empty", 0, ""},
		{"missing", 0, ""},
	}
	for _, tt := range tests {
		a.Current, a.CurrentFrame = tt.current, tt.frame
		if got := a.CurrentSprite(); got != tt.want {
			t.Errorf("%s[%d]: CurrentSprite() = %q, want %q", tt.current, tt.frame, got, tt.want)
		}
	}
}

func TestTimerTick(t *testing.T) {
	timer := &TimerComponent{Name: "fish_bite", TargetTime: 1}
	if timer.Tick(0.6) {
		t.Fatal("未到时间不应完成")
	}
	if !timer.Tick(0.6) {
		t.Fatal("到时间应返回 true")
	}
	if timer.Tick(1) {
		t.Error("完成后再 Tick 不应重复触发")
	}
	timer.Reset(2)
	if timer.IsReady || timer.CurrentTime != 0 {
		t.Errorf("Reset 后应重新计时: %+v", *timer)
	}
}
