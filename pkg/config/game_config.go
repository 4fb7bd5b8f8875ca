package config

import (
	"fmt"
	"time"
)

// GameConfig 游戏全局配置
//
// 配置文件位置: data/config.yaml（缺省时使用内嵌默认值 defaults/config.yaml）
// 所有字段都有默认值，配置文件只需覆盖需要修改的部分。
type GameConfig struct {
	Engine    EngineConfig    `yaml:"engine"`
	World     WorldConfig     `yaml:"world"`
	Collision CollisionConfig `yaml:"collision"`
	Movement  MovementConfig  `yaml:"movement"`
	Farming   FarmingConfig   `yaml:"farming"`
	Player    PlayerConfig    `yaml:"player"`
	Time      TimeConfig      `yaml:"time"`
	Fishing   FishingConfig   `yaml:"fishing"`
}

// EngineConfig 主循环配置
type EngineConfig struct {
	// MaxDeltaMS 单次更新允许模拟的最大时间（毫秒），防止卡顿后的"死亡螺旋"
	MaxDeltaMS int `yaml:"maxDeltaMS"`
	// TPS 目标每秒更新次数
	TPS int `yaml:"tps"`
	// TransitionSeconds 场景切换过渡时长（秒）
	TransitionSeconds float64 `yaml:"transitionSeconds"`
	// DebugOverlay 是否显示调试叠加层（帧时间、FPS、碰撞单元）
	DebugOverlay bool `yaml:"debugOverlay"`
	// ScreenWidth/ScreenHeight 逻辑屏幕尺寸
	ScreenWidth  int `yaml:"screenWidth"`
	ScreenHeight int `yaml:"screenHeight"`
}

// MaxDelta 返回 time.Duration 形式的最大帧间隔
func (c EngineConfig) MaxDelta() time.Duration {
	return time.Duration(c.MaxDeltaMS) * time.Millisecond
}

// WorldConfig 世界尺寸配置
type WorldConfig struct {
	TileSize int `yaml:"tileSize"` // 瓦片大小（像素）
	Width    int `yaml:"width"`    // 地图宽度（瓦片）
	Height   int `yaml:"height"`   // 地图高度（瓦片）
}

// CollisionConfig 碰撞系统配置
type CollisionConfig struct {
	CellSize float64 `yaml:"cellSize"` // 空间网格单元大小（像素）
	// TriggerCooldown 触发器再次触发前的冷却时间（游戏秒）
	TriggerCooldown float64 `yaml:"triggerCooldown"`
}

// MovementConfig 移动配置
type MovementConfig struct {
	SmoothingFactor float64 `yaml:"smoothingFactor"` // 平滑模式插值系数
	PlayerSpeed     float64 `yaml:"playerSpeed"`     // 玩家移动速度（像素/秒）
	NPCSpeed        float64 `yaml:"npcSpeed"`        // NPC 网格移动速度（像素/秒）
}

// StaminaCosts 各动作的基础体力消耗（除以工具效率后取整，最低为 MinStaminaCost）
type StaminaCosts struct {
	Till      float64 `yaml:"till"`
	Water     float64 `yaml:"water"`
	Plant     float64 `yaml:"plant"`
	Harvest   float64 `yaml:"harvest"`
	Clear     float64 `yaml:"clear"`
	Fertilize float64 `yaml:"fertilize"`
}

// FarmingConfig 农田系统配置
type FarmingConfig struct {
	MaxWaterLevel float64 `yaml:"maxWaterLevel"`
	// MoistureDecayPerSecond 土壤湿度线性衰减速度（每游戏秒）
	MoistureDecayPerSecond float64 `yaml:"moistureDecayPerSecond"`
	// CropWaterDecayPerSecond 作物自身水分衰减速度
	CropWaterDecayPerSecond float64      `yaml:"cropWaterDecayPerSecond"`
	StaminaCosts            StaminaCosts `yaml:"staminaCosts"`
	MinStaminaCost          float64      `yaml:"minStaminaCost"`
	// DurabilityPerUse 每次使用消耗的工具耐久
	DurabilityPerUse int `yaml:"durabilityPerUse"`
	// FertilizerBonus 每次施肥增加的肥力倍率
	FertilizerBonus float64 `yaml:"fertilizerBonus"`
	MaxFertility    float64 `yaml:"maxFertility"`
}

// PlayerConfig 玩家初始状态
type PlayerConfig struct {
	MaxStamina            float64        `yaml:"maxStamina"`
	StaminaRegenPerSecond float64        `yaml:"staminaRegenPerSecond"`
	StartTileX            int            `yaml:"startTileX"`
	StartTileY            int            `yaml:"startTileY"`
	StartingSeeds         map[string]int `yaml:"startingSeeds"`
	StartingItems         map[string]int `yaml:"startingItems"`
}

// TimeConfig 时间/季节/天气配置
type TimeConfig struct {
	// SecondsPerDay 一个游戏日对应的游戏秒数
	SecondsPerDay float64 `yaml:"secondsPerDay"`
	DaysPerSeason int     `yaml:"daysPerSeason"`
	Seed          int64   `yaml:"seed"`
	// SeasonGrowth 当季作物的季节生长倍率
	SeasonGrowth map[string]float64 `yaml:"seasonGrowth"`
	// OutOfSeasonGrowth 非当季作物的生长倍率（0 表示停止生长）
	OutOfSeasonGrowth float64 `yaml:"outOfSeasonGrowth"`
	// WeatherBonus 天气生长加成
	WeatherBonus map[string]float64 `yaml:"weatherBonus"`
	// WeatherOdds 各季节天气权重
	WeatherOdds map[string]map[string]float64 `yaml:"weatherOdds"`
}

// FishingConfig 钓鱼小游戏配置
type FishingConfig struct {
	BiteDelayMin  float64 `yaml:"biteDelayMin"`  // 抛竿后最短等待（游戏秒）
	BiteDelayMax  float64 `yaml:"biteDelayMax"`  // 抛竿后最长等待（游戏秒）
	CatchWindowMS int     `yaml:"catchWindowMS"` // 上钩后的收竿窗口（真实毫秒）
	StaminaCost   float64 `yaml:"staminaCost"`

	// Fish 各季节可钓到的鱼，key 为季节名
	Fish map[string][]string `yaml:"fish"`
}

// CatchWindow 返回 time.Duration 形式的收竿窗口
func (c FishingConfig) CatchWindow() time.Duration {
	return time.Duration(c.CatchWindowMS) * time.Millisecond
}

// DefaultGameConfig 返回硬编码的默认配置（内嵌 YAML 解析失败时的兜底）
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Engine: EngineConfig{
			MaxDeltaMS:        50,
			TPS:               60,
			TransitionSeconds: 0.5,
			ScreenWidth:       640,
			ScreenHeight:      480,
		},
		World: WorldConfig{
			TileSize: 32,
			Width:    20,
			Height:   15,
		},
		Collision: CollisionConfig{
			CellSize:        32,
			TriggerCooldown: 1.0,
		},
		Movement: MovementConfig{
			SmoothingFactor: 0.15,
			PlayerSpeed:     96,
			NPCSpeed:        48,
		},
		Farming: FarmingConfig{
			MaxWaterLevel:           100,
			MoistureDecayPerSecond:  0.25,
			CropWaterDecayPerSecond: 0.2,
			StaminaCosts: StaminaCosts{
				Till:      4,
				Water:     2,
				Plant:     1,
				Harvest:   1,
				Clear:     6,
				Fertilize: 1,
			},
			MinStaminaCost:   1,
			DurabilityPerUse: 1,
			FertilizerBonus:  0.25,
			MaxFertility:     2.0,
		},
		Player: PlayerConfig{
			MaxStamina:            100,
			StaminaRegenPerSecond: 0.5,
			StartTileX:            5,
			StartTileY:            5,
			StartingSeeds:         map[string]int{"turnip": 5, "potato": 3},
			StartingItems:         map[string]int{"fertilizer": 3},
		},
		Time: TimeConfig{
			SecondsPerDay:     600,
			DaysPerSeason:     28,
			Seed:              1,
			SeasonGrowth:      map[string]float64{"spring": 1.0, "summer": 1.2, "fall": 0.9, "winter": 0.5},
			OutOfSeasonGrowth: 0,
			WeatherBonus:      map[string]float64{"sunny": 1.0, "cloudy": 1.0, "rainy": 1.1, "stormy": 1.05, "snowy": 0.8},
			WeatherOdds: map[string]map[string]float64{
				"spring": {"sunny": 5, "cloudy": 2, "rainy": 3},
				"summer": {"sunny": 7, "cloudy": 1, "rainy": 1, "stormy": 1},
				"fall":   {"sunny": 4, "cloudy": 3, "rainy": 3},
				"winter": {"sunny": 3, "cloudy": 3, "snowy": 4},
			},
		},
		Fishing: FishingConfig{
			BiteDelayMin:  2,
			BiteDelayMax:  6,
			CatchWindowMS: 800,
			StaminaCost:   2,
			Fish: map[string][]string{
				"spring": {"anchovy", "carp", "sardine"},
				"summer": {"tuna", "pufferfish", "sunfish"},
				"fall":   {"salmon", "walleye", "eel"},
				"winter": {"perch", "squid", "pike"},
			},
		},
	}
}

// Validate 验证配置有效性
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *GameConfig) Validate() error {
	if c.Engine.MaxDeltaMS <= 0 {
		return fmt.Errorf("engine.maxDeltaMS must be > 0, got %d", c.Engine.MaxDeltaMS)
	}
	if c.Engine.TPS <= 0 {
		return fmt.Errorf("engine.tps must be > 0, got %d", c.Engine.TPS)
	}
	if c.Engine.TransitionSeconds < 0 {
		return fmt.Errorf("engine.transitionSeconds must be >= 0, got %.2f", c.Engine.TransitionSeconds)
	}
	if c.World.TileSize <= 0 || c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size invalid: tileSize=%d width=%d height=%d",
			c.World.TileSize, c.World.Width, c.World.Height)
	}
	if c.Collision.CellSize <= 0 {
		return fmt.Errorf("collision.cellSize must be > 0, got %.1f", c.Collision.CellSize)
	}
	if c.Movement.SmoothingFactor <= 0 || c.Movement.SmoothingFactor > 1 {
		return fmt.Errorf("movement.smoothingFactor must be in (0, 1], got %.3f", c.Movement.SmoothingFactor)
	}
	if c.Farming.MaxWaterLevel <= 0 {
		return fmt.Errorf("farming.maxWaterLevel must be > 0, got %.1f", c.Farming.MaxWaterLevel)
	}
	if c.Farming.MoistureDecayPerSecond < 0 || c.Farming.CropWaterDecayPerSecond < 0 {
		return fmt.Errorf("farming decay rates must be >= 0")
	}
	if c.Farming.MinStaminaCost < 1 {
		return fmt.Errorf("farming.minStaminaCost must be >= 1, got %.1f", c.Farming.MinStaminaCost)
	}
	if c.Player.MaxStamina <= 0 {
		return fmt.Errorf("player.maxStamina must be > 0, got %.1f", c.Player.MaxStamina)
	}
	if c.Time.SecondsPerDay <= 0 || c.Time.DaysPerSeason <= 0 {
		return fmt.Errorf("time: secondsPerDay and daysPerSeason must be > 0")
	}
	if c.Fishing.BiteDelayMin > c.Fishing.BiteDelayMax {
		return fmt.Errorf("fishing bite delay invalid: min(%.1f) > max(%.1f)",
			c.Fishing.BiteDelayMin, c.Fishing.BiteDelayMax)
	}
	for season, fish := range c.Fishing.Fish {
		if len(fish) == 0 {
			return fmt.Errorf("fishing.fish.%s must list at least one fish", season)
		}
	}
	return nil
}
