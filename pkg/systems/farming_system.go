package systems

import (
	"math"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/spatial"
	"github.com/decker502/farmstead/pkg/types"
	"github.com/decker502/farmstead/pkg/utils"
)

// ItemFertilizer 肥料在背包中的物品ID
const ItemFertilizer = "fertilizer"

// GrowthEnvironment 为作物生长提供季节与天气信息
// 通常由 TimeSystem 实现
type GrowthEnvironment interface {
	Season() types.Season
	// GrowthMultiplier 返回季节倍率 × 天气加成
	GrowthMultiplier(def config.CropDef) float64
}

// FarmingSystem 农田系统
//
// 持有土壤网格和作物登记表，负责：
//   - 锄地 / 浇水 / 播种 / 收获等状态转换（全部或全不）
//   - 土壤湿度线性衰减
//   - 作物逐帧生长
//
// 所有动作返回 ActionResult，校验失败不产生任何状态变化。
type FarmingSystem struct {
	em    *ecs.EntityManager
	cfg   config.FarmingConfig
	table *config.CropTable
	tools *config.ToolTable // 可选，升级和修理工具用
	bus   *event.Bus
	env   GrowthEnvironment

	// collision 可选，用于杂物碰撞体
	collision *CollisionSystem

	width, height int
	tiles         map[spatial.TileKey]*components.SoilTile
	crops         map[spatial.TileKey]*components.Crop
	now           float64

	log *log.Logger
}

// NewFarmingSystem 创建农田系统
//
// 参数:
//   - em: 实体管理器，用于读取执行者的体力与背包
//   - cfg: 游戏配置（农田参数与地图尺寸）
//   - table: 作物定义表
//   - bus: 事件总线，可为 nil
func NewFarmingSystem(em *ecs.EntityManager, cfg *config.GameConfig, table *config.CropTable, bus *event.Bus) *FarmingSystem {
	fs := &FarmingSystem{
		em:     em,
		cfg:    cfg.Farming,
		table:  table,
		bus:    bus,
		width:  cfg.World.Width,
		height: cfg.World.Height,
		tiles:  make(map[spatial.TileKey]*components.SoilTile),
		crops:  make(map[spatial.TileKey]*components.Crop),
		log:    logging.For("FarmingSystem"),
	}
	if bus != nil {
		bus.Subscribe(event.DayStarted, fs.onDayStarted)
	}
	return fs
}

// SetEnvironment 设置生长环境（季节/天气）
func (fs *FarmingSystem) SetEnvironment(env GrowthEnvironment) {
	fs.env = env
}

// SetCollision 设置碰撞系统，杂物会注册为物体层实体碰撞体
func (fs *FarmingSystem) SetCollision(cs *CollisionSystem) {
	fs.collision = cs
}

// SetToolTable 设置工具等级表，未设置时不能升级或修理工具
func (fs *FarmingSystem) SetToolTable(t *config.ToolTable) {
	fs.tools = t
}

// Now 返回农田系统的模拟时间（秒）
func (fs *FarmingSystem) Now() float64 {
	return fs.now
}

func (fs *FarmingSystem) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < fs.width && y < fs.height
}

// tile 返回瓦片，不存在时创建未开垦的瓦片
func (fs *FarmingSystem) tile(x, y int) *components.SoilTile {
	key := spatial.MakeTileKey(x, y)
	t, ok := fs.tiles[key]
	if !ok {
		t = &components.SoilTile{X: x, Y: y, State: components.SoilUntilled, Fertility: 1}
		fs.tiles[key] = t
	}
	return t
}

// actor 读取执行者的玩家与背包组件
func (fs *FarmingSystem) actor(id ecs.EntityID) (*components.PlayerComponent, *components.InventoryComponent, bool) {
	p, ok := ecs.GetComponent[*components.PlayerComponent](fs.em, id)
	if !ok {
		return nil, nil, false
	}
	inv, ok := ecs.GetComponent[*components.InventoryComponent](fs.em, id)
	if !ok {
		return nil, nil, false
	}
	return p, inv, true
}

// staminaCost 基础消耗除以工具效率，最低为 MinStaminaCost
func (fs *FarmingSystem) staminaCost(base, efficiency float64) float64 {
	if efficiency <= 0 {
		efficiency = 1
	}
	return math.Max(fs.cfg.MinStaminaCost, base/efficiency)
}

func (fs *FarmingSystem) spend(actor ecs.EntityID, p *components.PlayerComponent, cost float64) {
	spendStamina(fs.bus, actor, p, cost, fs.now)
}

// spendStamina 扣除体力，体力归零时发布 StaminaExhausted
func spendStamina(bus *event.Bus, actor ecs.EntityID, p *components.PlayerComponent, cost, now float64) {
	p.Stamina -= cost
	if p.Stamina <= 0 {
		p.Stamina = 0
		if !p.Exhausted {
			p.Exhausted = true
			bus.Publish(event.Event{Type: event.StaminaExhausted, Actor: actor, Time: now})
		}
	}
}

// wear 扣除工具耐久
func (fs *FarmingSystem) wear(t *components.Tool) {
	t.Durability -= fs.cfg.DurabilityPerUse
	if t.Durability < 0 {
		t.Durability = 0
	}
}

// usableTool 返回可用工具或失败原因
func usableTool(inv *components.InventoryComponent, tt types.ToolType) (*components.Tool, Reason) {
	t, ok := inv.Tools[tt]
	if !ok || t == nil {
		return nil, ReasonNoTool
	}
	if t.Durability <= 0 {
		return nil, ReasonToolBroken
	}
	return t, ReasonOK
}

func (fs *FarmingSystem) publish(t event.Type, actor ecs.EntityID, x, y int, target string, value float64, detail string) {
	fs.bus.Publish(event.Event{
		Type:   t,
		Actor:  actor,
		TileX:  x,
		TileY:  y,
		Target: target,
		Value:  value,
		Detail: detail,
		Time:   fs.now,
	})
}

// TillSoil 锄地：Untilled → Tilled，需要锄头
func (fs *FarmingSystem) TillSoil(actor ecs.EntityID, x, y int) ActionResult {
	if !fs.inBounds(x, y) {
		return fail(ReasonOutOfBounds)
	}
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	hoe, r := usableTool(inv, types.ToolHoe)
	if r != ReasonOK {
		return fail(r)
	}
	t := fs.peek(x, y)
	if t.Debris != components.DebrisNone {
		return fail(ReasonDebris)
	}
	if t.State != components.SoilUntilled {
		return fail(ReasonAlreadyTilled)
	}
	cost := fs.staminaCost(fs.cfg.StaminaCosts.Till, hoe.Efficiency)
	if p.Stamina < cost {
		return fail(ReasonExhausted)
	}

	fs.spend(actor, p, cost)
	fs.wear(hoe)
	tile := fs.tile(x, y)
	tile.State = components.SoilTilled
	tile.WaterLevel = 0

	fs.publish(event.ToolUsed, actor, x, y, string(types.ToolHoe), cost, "")
	fs.publish(event.SoilTilled, actor, x, y, "", 0, "")
	return succeed(cost)
}

// WaterSoil 浇水：Tilled → Watered；对已浇水或有作物的瓦片补满水分
//
// 有作物时同时补满作物自身水分并计一次浇水。
func (fs *FarmingSystem) WaterSoil(actor ecs.EntityID, x, y int) ActionResult {
	if !fs.inBounds(x, y) {
		return fail(ReasonOutOfBounds)
	}
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	can, r := usableTool(inv, types.ToolWateringCan)
	if r != ReasonOK {
		return fail(r)
	}
	if can.WaterCharge <= 0 {
		return fail(ReasonNoWater)
	}
	t := fs.peek(x, y)
	if t.State == components.SoilUntilled {
		return fail(ReasonNotTilled)
	}
	cost := fs.staminaCost(fs.cfg.StaminaCosts.Water, can.Efficiency)
	if p.Stamina < cost {
		return fail(ReasonExhausted)
	}

	fs.spend(actor, p, cost)
	fs.wear(can)
	can.WaterCharge--

	tile := fs.tile(x, y)
	tile.WaterLevel = fs.cfg.MaxWaterLevel
	if tile.State == components.SoilTilled {
		tile.State = components.SoilWatered
	}
	if crop, ok := fs.crops[spatial.MakeTileKey(x, y)]; ok {
		crop.WaterLevel = fs.cfg.MaxWaterLevel
		crop.WateringEvents++
		crop.Healthy = true
	}

	fs.publish(event.ToolUsed, actor, x, y, string(types.ToolWateringCan), cost, "")
	fs.publish(event.SoilWatered, actor, x, y, "", tile.WaterLevel, "")
	return succeed(cost)
}

// PlantSeed 播种：土壤须为 Tilled 或 Watered，消耗一粒种子
func (fs *FarmingSystem) PlantSeed(actor ecs.EntityID, x, y int, cropType types.CropType) ActionResult {
	if !fs.inBounds(x, y) {
		return fail(ReasonOutOfBounds)
	}
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	def, ok := fs.table.Get(string(cropType))
	if !ok {
		fs.log.Warn("unknown crop type", "crop", cropType, "hint", utils.Suggest(string(cropType), fs.table.Names()))
		return fail(ReasonUnknownCrop)
	}
	if inv.Seeds[cropType] < 1 {
		return fail(ReasonNoSeed)
	}
	t := fs.peek(x, y)
	switch t.State {
	case components.SoilTilled, components.SoilWatered:
	case components.SoilPlanted, components.SoilGrowing:
		return fail(ReasonOccupied)
	default:
		return fail(ReasonNotTilled)
	}
	if !def.InSeason(string(fs.season())) {
		return fail(ReasonOutOfSeason)
	}
	cost := fs.staminaCost(fs.cfg.StaminaCosts.Plant, 1)
	if p.Stamina < cost {
		return fail(ReasonExhausted)
	}

	fs.spend(actor, p, cost)
	inv.Seeds[cropType]--

	tile := fs.tile(x, y)
	tile.State = components.SoilPlanted
	fs.crops[spatial.MakeTileKey(x, y)] = &components.Crop{
		X:              x,
		Y:              y,
		Type:           cropType,
		StageEnteredAt: fs.now,
		StageDurations: slices.Clone(def.StageDurations),
		WaterLevel:     tile.WaterLevel,
		Healthy:        tile.WaterLevel > 0,
		PlantedAt:      fs.now,
	}

	fs.publish(event.SeedPlanted, actor, x, y, string(cropType), 0, "")
	return succeed(cost)
}

// HarvestCrop 收获：作物须处于最终阶段，土壤回到 Tilled（不是 Untilled），水分清零
func (fs *FarmingSystem) HarvestCrop(actor ecs.EntityID, x, y int) ActionResult {
	if !fs.inBounds(x, y) {
		return fail(ReasonOutOfBounds)
	}
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	key := spatial.MakeTileKey(x, y)
	crop, ok := fs.crops[key]
	if !ok {
		return fail(ReasonNoCrop)
	}
	if !crop.Ready() {
		return fail(ReasonNotReady)
	}
	cost := fs.staminaCost(fs.cfg.StaminaCosts.Harvest, 1)
	if p.Stamina < cost {
		return fail(ReasonExhausted)
	}

	def, _ := fs.table.Get(string(crop.Type))
	quality := HarvestQuality(def, crop.WateringEvents, fs.now-crop.PlantedAt)
	amount := max(def.Yield, 1)

	fs.spend(actor, p, cost)
	inv.AddProduce(crop.Type, quality, amount)
	delete(fs.crops, key)
	tile := fs.tile(x, y)
	tile.State = components.SoilTilled
	tile.WaterLevel = 0

	fs.publish(event.CropHarvested, actor, x, y, string(crop.Type), float64(amount), string(quality))

	res := succeed(cost)
	res.Quality = quality
	res.Amount = amount
	return res
}

// ClearDebris 清除杂物：木头需要斧头，石头需要镐
func (fs *FarmingSystem) ClearDebris(actor ecs.EntityID, x, y int) ActionResult {
	if !fs.inBounds(x, y) {
		return fail(ReasonOutOfBounds)
	}
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	t := fs.peek(x, y)
	if t.Debris == components.DebrisNone {
		return fail(ReasonNoDebris)
	}
	toolType := t.Debris.ClearingTool()
	tool, r := usableTool(inv, toolType)
	if r != ReasonOK {
		return fail(r)
	}
	cost := fs.staminaCost(fs.cfg.StaminaCosts.Clear, tool.Efficiency)
	if p.Stamina < cost {
		return fail(ReasonExhausted)
	}

	fs.spend(actor, p, cost)
	fs.wear(tool)
	tile := fs.tile(x, y)
	item := "wood"
	if tile.Debris == components.DebrisStone {
		item = "stone"
	}
	inv.Items[item]++
	tile.Debris = components.DebrisNone
	if tile.DebrisBody != 0 && fs.collision != nil {
		fs.collision.RemoveBody(tile.DebrisBody)
	}
	tile.DebrisBody = 0

	fs.publish(event.ToolUsed, actor, x, y, string(toolType), cost, "")
	fs.publish(event.DebrisCleared, actor, x, y, item, 0, "")
	return succeed(cost)
}

// ApplyFertilizer 施肥：提升瓦片肥力，需要已开垦的土壤
func (fs *FarmingSystem) ApplyFertilizer(actor ecs.EntityID, x, y int) ActionResult {
	if !fs.inBounds(x, y) {
		return fail(ReasonOutOfBounds)
	}
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	if inv.Items[ItemFertilizer] < 1 {
		return fail(ReasonNoItem)
	}
	t := fs.peek(x, y)
	if t.State == components.SoilUntilled {
		return fail(ReasonNotTilled)
	}
	if t.Fertility >= fs.cfg.MaxFertility {
		return fail(ReasonInvalidState)
	}
	cost := fs.staminaCost(fs.cfg.StaminaCosts.Fertilize, 1)
	if p.Stamina < cost {
		return fail(ReasonExhausted)
	}

	fs.spend(actor, p, cost)
	inv.Items[ItemFertilizer]--
	tile := fs.tile(x, y)
	tile.Fertility = math.Min(fs.cfg.MaxFertility, tile.Fertility+fs.cfg.FertilizerBonus)

	fs.publish(event.FertilizerApplied, actor, x, y, "", tile.Fertility, "")
	return succeed(cost)
}

// RefillWateringCan 用水面瓦片 (x, y) 给洒水壶加满水，不消耗体力
func (fs *FarmingSystem) RefillWateringCan(actor ecs.EntityID, x, y int) ActionResult {
	_, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	can, ok := inv.Tools[types.ToolWateringCan]
	if !ok || can == nil {
		return fail(ReasonNoTool)
	}
	if can.WaterCharge >= can.MaxWaterCharge {
		return fail(ReasonInvalidState)
	}
	can.WaterCharge = can.MaxWaterCharge
	fs.publish(event.ToolUsed, actor, x, y, string(types.ToolWateringCan), 0, "refill")
	return succeed(0)
}

// UpgradeTool 花钱把工具升一级，升级后耐久和水量回满
func (fs *FarmingSystem) UpgradeTool(actor ecs.EntityID, toolType types.ToolType) ActionResult {
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	t, ok := inv.Tools[toolType]
	if !ok || t == nil {
		return fail(ReasonNoTool)
	}
	if t.Level >= fs.tools.MaxLevel(string(toolType)) {
		return fail(ReasonMaxLevel)
	}
	next, ok := fs.tools.Level(string(toolType), t.Level+1)
	if !ok {
		return fail(ReasonInvalidState)
	}
	if p.Money < next.UpgradeCost {
		return fail(ReasonNoMoney)
	}

	p.Money -= next.UpgradeCost
	t.Upgrade(next)
	fs.publish(event.ToolUpgraded, actor, 0, 0, string(toolType), float64(next.Level), strconv.Itoa(next.UpgradeCost))
	fs.log.Info("tool upgraded", "tool", toolType, "level", next.Level, "cost", next.UpgradeCost)
	return succeed(0)
}

// RepairTool 按当前等级的修理费把耐久补满
func (fs *FarmingSystem) RepairTool(actor ecs.EntityID, toolType types.ToolType) ActionResult {
	p, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	t, ok := inv.Tools[toolType]
	if !ok || t == nil {
		return fail(ReasonNoTool)
	}
	def, ok := fs.tools.Level(string(toolType), t.Level)
	if !ok || t.Durability >= t.MaxDurability {
		return fail(ReasonInvalidState)
	}
	if p.Money < def.RepairCost {
		return fail(ReasonNoMoney)
	}

	p.Money -= def.RepairCost
	t.Durability = t.MaxDurability
	fs.publish(event.ToolRepaired, actor, 0, 0, string(toolType), float64(t.Level), strconv.Itoa(def.RepairCost))
	return succeed(0)
}

// UseSelectedTool 使用背包中当前选中的工具作用于瓦片
func (fs *FarmingSystem) UseSelectedTool(actor ecs.EntityID, x, y int) ActionResult {
	_, inv, ok := fs.actor(actor)
	if !ok {
		return fail(ReasonNoActor)
	}
	switch sel := inv.SelectedTool; sel {
	case types.ToolHoe:
		return fs.TillSoil(actor, x, y)
	case types.ToolWateringCan:
		return fs.WaterSoil(actor, x, y)
	case types.ToolAxe, types.ToolPickaxe:
		if !fs.inBounds(x, y) {
			return fail(ReasonOutOfBounds)
		}
		d := fs.peek(x, y).Debris
		if d == components.DebrisNone {
			return fail(ReasonNoDebris)
		}
		if d.ClearingTool() != sel {
			return fail(ReasonWrongTool)
		}
		return fs.ClearDebris(actor, x, y)
	default:
		return fail(ReasonNoTool)
	}
}

// PlaceDebris 在瓦片上放置杂物（场景搭建和读档时使用）
func (fs *FarmingSystem) PlaceDebris(x, y int, kind components.DebrisType, tileSize float64) bool {
	if !fs.inBounds(x, y) || kind == components.DebrisNone {
		return false
	}
	t := fs.tile(x, y)
	if t.State != components.SoilUntilled {
		return false
	}
	t.Debris = kind
	if fs.collision != nil {
		if t.DebrisBody != 0 {
			fs.collision.RemoveBody(t.DebrisBody)
		}
		t.DebrisBody = fs.collision.AddBody(float64(x)*tileSize, float64(y)*tileSize, tileSize, tileSize,
			BodyOptions{Layer: types.LayerObjects, Solid: true, Tag: "debris"})
	}
	return true
}

// Rain 雨天自动浇灌所有已开垦瓦片
func (fs *FarmingSystem) Rain() {
	for _, key := range fs.sortedTileKeys() {
		t := fs.tiles[key]
		if t.State == components.SoilUntilled {
			continue
		}
		t.WaterLevel = fs.cfg.MaxWaterLevel
		if t.State == components.SoilTilled {
			t.State = components.SoilWatered
		}
		if crop, ok := fs.crops[key]; ok {
			crop.WaterLevel = fs.cfg.MaxWaterLevel
			crop.WateringEvents++
			crop.Healthy = true
		}
		fs.publish(event.SoilWatered, 0, t.X, t.Y, "rain", t.WaterLevel, "")
	}
}

func (fs *FarmingSystem) onDayStarted(e event.Event) {
	if types.Weather(e.Detail).Waters() {
		fs.Rain()
	}
}

// Update 推进湿度衰减和作物生长
//
// 作物水分大于 0 时，每帧累计 dt × 季节天气倍率 × 肥力；
// 累计进度超过当前阶段所需时间后前进一个阶段（每帧最多一个）。
// 缺水只会停滞，不会倒退。
func (fs *FarmingSystem) Update(deltaTime float64) {
	if deltaTime < 0 {
		return
	}
	fs.now += deltaTime

	for _, key := range fs.sortedTileKeys() {
		t := fs.tiles[key]
		if t.WaterLevel <= 0 {
			continue
		}
		t.WaterLevel -= fs.cfg.MoistureDecayPerSecond * deltaTime
		if t.WaterLevel <= 0 {
			t.WaterLevel = 0
			if t.State == components.SoilWatered {
				t.State = components.SoilTilled
				fs.publish(event.SoilDried, 0, t.X, t.Y, "", 0, "")
			}
		}
	}

	for _, key := range fs.sortedCropKeys() {
		fs.grow(key, fs.crops[key], deltaTime)
	}
}

func (fs *FarmingSystem) grow(key spatial.TileKey, crop *components.Crop, deltaTime float64) {
	watered := crop.WaterLevel > 0
	if watered {
		crop.WaterLevel = math.Max(0, crop.WaterLevel-fs.cfg.CropWaterDecayPerSecond*deltaTime)
	}
	crop.Healthy = crop.WaterLevel > 0
	if !watered || crop.Ready() {
		return
	}

	def, _ := fs.table.Get(string(crop.Type))
	fertility := 1.0
	if t, ok := fs.tiles[key]; ok && t.Fertility > 0 {
		fertility = t.Fertility
	}
	crop.StageProgress += deltaTime * fs.multiplier(def) * fertility

	// 必须超过所需时间，恰好相等不前进
	if crop.StageProgress <= crop.StageDurations[crop.Stage] {
		return
	}
	crop.Stage++
	crop.StageProgress = 0
	crop.StageEnteredAt = fs.now
	if t, ok := fs.tiles[key]; ok && t.State == components.SoilPlanted {
		t.State = components.SoilGrowing
	}
	fs.publish(event.CropGrew, 0, crop.X, crop.Y, string(crop.Type), float64(crop.Stage), "")
	if crop.Ready() {
		fs.log.Debug("crop ready", "crop", crop.Type, "x", crop.X, "y", crop.Y)
	}
}

func (fs *FarmingSystem) season() types.Season {
	if fs.env == nil {
		return types.SeasonSpring
	}
	return fs.env.Season()
}

func (fs *FarmingSystem) multiplier(def config.CropDef) float64 {
	if fs.env == nil {
		return 1
	}
	return fs.env.GrowthMultiplier(def)
}

// peek 读取瓦片但不创建
func (fs *FarmingSystem) peek(x, y int) components.SoilTile {
	if t, ok := fs.tiles[spatial.MakeTileKey(x, y)]; ok {
		return *t
	}
	return components.SoilTile{X: x, Y: y, Fertility: 1}
}

func (fs *FarmingSystem) sortedTileKeys() []spatial.TileKey {
	keys := make([]spatial.TileKey, 0, len(fs.tiles))
	for k := range fs.tiles {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (fs *FarmingSystem) sortedCropKeys() []spatial.TileKey {
	keys := make([]spatial.TileKey, 0, len(fs.crops))
	for k := range fs.crops {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Tile 查询瓦片（返回副本），越界返回 false
func (fs *FarmingSystem) Tile(x, y int) (components.SoilTile, bool) {
	if !fs.inBounds(x, y) {
		return components.SoilTile{}, false
	}
	return fs.peek(x, y), true
}

// Tiles 返回所有被操作过的瓦片副本
func (fs *FarmingSystem) Tiles() []components.SoilTile {
	out := make([]components.SoilTile, 0, len(fs.tiles))
	for _, k := range fs.sortedTileKeys() {
		out = append(out, *fs.tiles[k])
	}
	return out
}

// CropAt 查询作物（返回副本）
func (fs *FarmingSystem) CropAt(x, y int) (components.Crop, bool) {
	c, ok := fs.crops[spatial.MakeTileKey(x, y)]
	if !ok {
		return components.Crop{}, false
	}
	return *c, true
}

// Crops 返回所有作物副本
func (fs *FarmingSystem) Crops() []components.Crop {
	out := make([]components.Crop, 0, len(fs.crops))
	for _, k := range fs.sortedCropKeys() {
		out = append(out, *fs.crops[k])
	}
	return out
}

// Size 返回农田尺寸（瓦片）
func (fs *FarmingSystem) Size() (int, int) {
	return fs.width, fs.height
}

// FarmSnapshot 农田可序列化快照
type FarmSnapshot struct {
	Now   float64
	Soil  []components.SoilTile
	Crops []components.Crop
}

// Snapshot 导出农田状态（碰撞体 ID 不导出）
func (fs *FarmingSystem) Snapshot() FarmSnapshot {
	snap := FarmSnapshot{Now: fs.now, Soil: fs.Tiles(), Crops: fs.Crops()}
	for i := range snap.Soil {
		snap.Soil[i].DebrisBody = 0
	}
	for i := range snap.Crops {
		snap.Crops[i].StageDurations = slices.Clone(snap.Crops[i].StageDurations)
	}
	return snap
}

// Restore 用快照替换农田状态，杂物碰撞体重新注册
//
// 作物的阶段时间表以当前作物表为准；未知作物和无作物的 Planted/Growing 瓦片会被修正。
func (fs *FarmingSystem) Restore(snap FarmSnapshot, tileSize float64) {
	if fs.collision != nil {
		for _, t := range fs.tiles {
			if t.DebrisBody != 0 {
				fs.collision.RemoveBody(t.DebrisBody)
			}
		}
	}
	fs.tiles = make(map[spatial.TileKey]*components.SoilTile, len(snap.Soil))
	fs.crops = make(map[spatial.TileKey]*components.Crop, len(snap.Crops))
	fs.now = snap.Now

	for _, c := range snap.Crops {
		def, ok := fs.table.Get(string(c.Type))
		if !ok {
			fs.log.Warn("dropping crop of unknown type from save", "crop", c.Type)
			continue
		}
		crop := c
		crop.StageDurations = slices.Clone(def.StageDurations)
		crop.Stage = min(crop.Stage, crop.FinalStage())
		fs.crops[spatial.MakeTileKey(c.X, c.Y)] = &crop
	}

	for _, s := range snap.Soil {
		if !fs.inBounds(s.X, s.Y) {
			continue
		}
		key := spatial.MakeTileKey(s.X, s.Y)
		t := s
		t.DebrisBody = 0
		if t.Fertility <= 0 {
			t.Fertility = 1
		}
		_, hasCrop := fs.crops[key]
		if t.State.HasCrop() && !hasCrop {
			t.State = components.SoilTilled
		}
		if t.State == components.SoilUntilled {
			t.WaterLevel = 0
		}
		fs.tiles[key] = &t
		if t.Debris != components.DebrisNone {
			kind := t.Debris
			t.Debris = components.DebrisNone
			fs.PlaceDebris(t.X, t.Y, kind, tileSize)
		}
	}

	for key, crop := range fs.crops {
		t := fs.tile(crop.X, crop.Y)
		if t.State.HasCrop() {
			continue
		}
		if crop.Stage > 0 {
			t.State = components.SoilGrowing
		} else {
			t.State = components.SoilPlanted
		}
		fs.tiles[key] = t
	}
}
