package systems

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/types"
	"github.com/decker502/farmstead/pkg/utils"
)

const frameDT = 1.0 / 60

type controlFixture struct {
	*farmFixture
	src *fakeInput
	in  *InputSystem
	ms  *MovementSystem
	pc  *PlayerControlSystem
	m   *components.MovementComponent
}

// newControl 玩家站在瓦片 (2, 2)，面朝下，手持锄头
func newControl(t *testing.T) *controlFixture {
	t.Helper()
	f := newFarm(t)
	c := &controlFixture{farmFixture: f, src: newFakeInput()}
	c.in = NewInputSystem(c.src, nil)
	c.ms = NewMovementSystem(f.em, f.cs)
	c.m = components.NewGridMovement(64, 64, 96, 32)
	ecs.AddComponent(f.em, f.player, c.m)
	f.inv.SelectedTool = types.ToolHoe
	c.pc = NewPlayerControlSystem(f.em, config.DefaultGameConfig(), c.in, c.ms, f.fs, f.bus)
	return c
}

// frame 模拟一帧：按下给定按键后依次更新输入、控制、移动
func (c *controlFixture) frame(keys ...ebiten.Key) {
	c.src.release()
	c.src.pointer = utils.PointerState{}
	for _, k := range keys {
		c.src.press(k)
	}
	c.in.Update(frameDT)
	c.pc.Update(frameDT)
	c.ms.Update(frameDT)
}

func TestPlayerControl_UseToolOnFacingTile(t *testing.T) {
	c := newControl(t)
	c.frame(ebiten.KeySpace)

	if s := c.state(t, 2, 3); s != components.SoilTilled {
		t.Fatalf("tile in front = %v, want tilled", s)
	}
	if !c.pc.LastResult().OK {
		t.Errorf("LastResult = %+v", c.pc.LastResult())
	}
}

func TestPlayerControl_InteractPlantsThenHarvests(t *testing.T) {
	c := newControl(t)
	c.inv.Seeds[types.CropTurnip] = 1
	c.inv.SelectedSeed = types.CropTurnip

	c.frame(ebiten.KeySpace)
	c.frame(ebiten.KeyE)
	if _, ok := c.fs.CropAt(2, 3); !ok {
		t.Fatalf("expected turnip planted, last result %+v", c.pc.LastResult())
	}

	// 浇水后长到成熟
	c.inv.SelectedTool = types.ToolWateringCan
	c.frame(ebiten.KeySpace)
	c.fs.SetEnvironment(stubEnv{season: types.SeasonSpring, mult: 1})
	for i := 0; i < 3; i++ {
		c.fs.Update(11)
		c.fs.WaterSoil(c.player, 2, 3)
	}
	crop, _ := c.fs.CropAt(2, 3)
	if !crop.Ready() {
		t.Fatalf("crop not ready after growth, stage %d", crop.Stage)
	}

	c.frame(ebiten.KeyE)
	if _, ok := c.fs.CropAt(2, 3); ok {
		t.Error("crop should be harvested")
	}
	if c.inv.ProduceCount(types.CropTurnip) != 1 {
		t.Errorf("produce = %v", c.inv.Produce)
	}
}

func TestPlayerControl_MoveRequestsGridStep(t *testing.T) {
	c := newControl(t)
	c.frame(ebiten.KeyD)
	if !c.m.Moving || c.m.Facing != types.DirRight {
		t.Fatalf("expected moving right, moving=%v facing=%v", c.m.Moving, c.m.Facing)
	}
	for i := 0; i < 30; i++ {
		c.frame()
	}
	if c.m.X != 96 || c.m.Y != 64 {
		t.Errorf("position = (%v, %v), want (96, 64)", c.m.X, c.m.Y)
	}

	// 面前的瓦片跟随朝向
	if fx, fy := c.pc.FacingTile(c.m); fx != 4 || fy != 2 {
		t.Errorf("FacingTile = (%d, %d), want (4, 2)", fx, fy)
	}
}

func TestPlayerControl_StaminaRegenAndDayRestore(t *testing.T) {
	c := newControl(t)
	c.p.Stamina = 0
	c.p.Exhausted = true
	c.p.StaminaRegenPerSecond = 6

	c.frame()
	if c.p.Stamina != 0.1 {
		t.Errorf("stamina after one frame = %v, want 0.1", c.p.Stamina)
	}
	if !c.p.Exhausted {
		t.Error("exhausted should hold until stamina is full")
	}

	c.bus.Publish(event.Event{Type: event.DayStarted, Detail: string(types.WeatherSunny)})
	c.bus.Dispatch()
	if c.p.Stamina != c.p.MaxStamina || c.p.Exhausted {
		t.Errorf("day start should fully restore stamina, got %v exhausted=%v", c.p.Stamina, c.p.Exhausted)
	}
}

func TestPlayerControl_PauseBlocksActions(t *testing.T) {
	c := newControl(t)
	c.frame(ebiten.KeyEscape)
	if !c.pc.Paused() {
		t.Fatal("Escape should pause")
	}
	c.frame(ebiten.KeySpace)
	if s := c.state(t, 2, 3); s != components.SoilUntilled {
		t.Errorf("paused input changed soil to %v", s)
	}
	c.frame(ebiten.KeyEscape)
	if c.pc.Paused() {
		t.Error("second Escape should resume")
	}
}

func TestPlayerControl_CycleToolAndSeed(t *testing.T) {
	c := newControl(t)
	c.inv.Seeds[types.CropPotato] = 2
	c.inv.Seeds[types.CropTurnip] = 1
	c.inv.Seeds[types.CropCorn] = 0

	c.frame(ebiten.KeyQ)
	if c.inv.SelectedTool != types.ToolWateringCan {
		t.Errorf("tool after one cycle = %s", c.inv.SelectedTool)
	}
	c.frame(ebiten.KeyQ)
	if c.inv.SelectedTool != types.ToolHoe {
		t.Errorf("tool should wrap back to hoe, got %s", c.inv.SelectedTool)
	}

	c.frame(ebiten.KeyR)
	if c.inv.SelectedSeed != types.CropPotato {
		t.Errorf("first seed = %s, want potato", c.inv.SelectedSeed)
	}
	c.frame(ebiten.KeyR)
	if c.inv.SelectedSeed != types.CropTurnip {
		t.Errorf("second seed = %s, want turnip (corn has no stock)", c.inv.SelectedSeed)
	}
}

func TestPlayerControl_RefillAtWater(t *testing.T) {
	c := newControl(t)
	can := c.inv.Tools[types.ToolWateringCan]
	can.WaterCharge = 0
	c.inv.SelectedTool = types.ToolWateringCan
	c.pc.AddWater(2, 3)

	c.frame(ebiten.KeySpace)
	if can.WaterCharge != can.MaxWaterCharge {
		t.Errorf("water charge = %d, want %d", can.WaterCharge, can.MaxWaterCharge)
	}
	c.dispatch()
	if len(c.events) == 0 || c.events[0].TileX != 2 || c.events[0].TileY != 3 {
		t.Errorf("refill event should carry the water tile (2, 3), got %+v", c.events)
	}
}

// TestPlayerControl_UpgradeAndRepairKeys U 升级、B 修理当前选中的工具
func TestPlayerControl_UpgradeAndRepairKeys(t *testing.T) {
	c := newControl(t)
	c.fs.SetToolTable(testToolTable())
	hoe := c.inv.Tools[types.ToolHoe]

	c.p.Money = 100
	c.frame(ebiten.KeyU)
	if r := c.pc.LastResult(); r.Reason != ReasonNoMoney {
		t.Errorf("upgrade with 100g: %+v", r)
	}

	c.p.Money = 520
	c.frame(ebiten.KeyU)
	if hoe.Level != 2 || c.p.Money != 20 {
		t.Errorf("after U: level %d money %d", hoe.Level, c.p.Money)
	}

	hoe.Durability = 0
	c.frame(ebiten.KeyB)
	if r := c.pc.LastResult(); r.Reason != ReasonNoMoney {
		t.Errorf("level 2 repair costs 40, got %+v", r)
	}
	c.p.Money = 40
	c.frame(ebiten.KeyB)
	if hoe.Durability != hoe.MaxDurability || c.p.Money != 0 {
		t.Errorf("after B: durability %d/%d money %d", hoe.Durability, hoe.MaxDurability, c.p.Money)
	}
}

func TestPlayerControl_MouseClickAdjacentTile(t *testing.T) {
	c := newControl(t)

	click := func(tx, ty int) {
		c.src.release()
		c.src.pointer = utils.PointerState{JustPressed: true, X: tx*32 + 5, Y: ty*32 + 5}
		c.in.Update(frameDT)
		c.pc.Update(frameDT)
	}

	click(3, 2)
	if s := c.state(t, 3, 2); s != components.SoilTilled {
		t.Errorf("clicked adjacent tile = %v, want tilled", s)
	}
	click(6, 6)
	if s := c.state(t, 6, 6); s != components.SoilUntilled {
		t.Errorf("far click should be ignored, got %v", s)
	}
}
