package systems

import (
	"math/rand"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/types"
)

const (
	// dayStartMinute 每天从 06:00 开始
	dayStartMinute = 6 * 60
	// dayLengthMinutes 一个游戏日覆盖 06:00 到次日 02:00
	dayLengthMinutes = 20 * 60
)

// ClockState 时间系统的可序列化状态
type ClockState struct {
	Elapsed   float64       `yaml:"elapsed"` // 当天已过的游戏秒
	Day       int           `yaml:"day"`     // 季节内第几天，从 1 开始
	Season    types.Season  `yaml:"season"`
	Year      int           `yaml:"year"`
	Weather   types.Weather `yaml:"weather"`
	TotalDays int           `yaml:"totalDays"`
}

// TimeSystem 游戏时钟、季节与天气
//
// 天气每天按季节权重用固定种子的随机数抽取，同样的种子得到同样的天气序列。
// 每天开始时发布 DayStarted（Detail 为当天天气），农田系统据此处理雨天浇灌。
type TimeSystem struct {
	cfg   config.TimeConfig
	bus   *event.Bus
	rng   *rand.Rand
	state ClockState
	log   *log.Logger
}

// NewTimeSystem 创建时间系统，从第 1 年春季第 1 天、晴天开始
func NewTimeSystem(cfg config.TimeConfig, bus *event.Bus) *TimeSystem {
	return &TimeSystem{
		cfg: cfg,
		bus: bus,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		state: ClockState{
			Day:     1,
			Season:  types.SeasonSpring,
			Year:    1,
			Weather: types.WeatherSunny,
		},
		log: logging.For("TimeSystem"),
	}
}

// Update 推进时钟，跨过一天时触发换日
func (ts *TimeSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	ts.state.Elapsed += deltaTime
	for ts.state.Elapsed >= ts.cfg.SecondsPerDay {
		ts.state.Elapsed -= ts.cfg.SecondsPerDay
		ts.advanceDay()
	}
}

// NextDay 直接进入下一天（睡觉）
func (ts *TimeSystem) NextDay() {
	ts.state.Elapsed = 0
	ts.advanceDay()
}

func (ts *TimeSystem) advanceDay() {
	ts.state.Day++
	ts.state.TotalDays++
	if ts.state.Day > ts.cfg.DaysPerSeason {
		ts.state.Day = 1
		idx := slices.Index(types.Seasons, ts.state.Season)
		next := (idx + 1) % len(types.Seasons)
		if next == 0 {
			ts.state.Year++
		}
		ts.state.Season = types.Seasons[next]
		ts.log.Info("season changed", "season", ts.state.Season, "year", ts.state.Year)
		ts.bus.Publish(event.Event{Type: event.SeasonChanged, Target: string(ts.state.Season), Value: float64(ts.state.Year)})
	}

	prev := ts.state.Weather
	ts.state.Weather = ts.rollWeather()
	if ts.state.Weather != prev {
		ts.bus.Publish(event.Event{Type: event.WeatherChanged, Target: string(ts.state.Weather), Detail: string(prev)})
	}
	ts.bus.Publish(event.Event{
		Type:   event.DayStarted,
		Target: string(ts.state.Season),
		Value:  float64(ts.state.Day),
		Detail: string(ts.state.Weather),
	})
}

// rollWeather 按当前季节的权重抽取天气
func (ts *TimeSystem) rollWeather() types.Weather {
	odds := ts.cfg.WeatherOdds[string(ts.state.Season)]
	if len(odds) == 0 {
		return types.WeatherSunny
	}
	names := make([]string, 0, len(odds))
	total := 0.0
	for name, w := range odds {
		if w > 0 {
			names = append(names, name)
			total += w
		}
	}
	if total <= 0 {
		return types.WeatherSunny
	}
	slices.Sort(names)

	roll := ts.rng.Float64() * total
	for _, name := range names {
		roll -= odds[name]
		if roll < 0 {
			return types.Weather(name)
		}
	}
	return types.Weather(names[len(names)-1])
}

// Season 当前季节
func (ts *TimeSystem) Season() types.Season { return ts.state.Season }

// Weather 当前天气
func (ts *TimeSystem) Weather() types.Weather { return ts.state.Weather }

// Day 季节内第几天
func (ts *TimeSystem) Day() int { return ts.state.Day }

// Year 第几年
func (ts *TimeSystem) Year() int { return ts.state.Year }

// SetWeather 强制设置天气（调试命令、测试使用）
func (ts *TimeSystem) SetWeather(w types.Weather) {
	ts.state.Weather = w
}

// Clock 返回当前时刻（小时可能大于 23，表示凌晨）
func (ts *TimeSystem) Clock() (hour, minute int) {
	m := dayStartMinute + int(ts.state.Elapsed/ts.cfg.SecondsPerDay*dayLengthMinutes)
	return m / 60, m % 60
}

// GrowthMultiplier 返回作物在当前季节与天气下的生长倍率
// 非当季作物使用 OutOfSeasonGrowth
func (ts *TimeSystem) GrowthMultiplier(def config.CropDef) float64 {
	season := string(ts.state.Season)
	if !def.InSeason(season) {
		return ts.cfg.OutOfSeasonGrowth
	}
	m := 1.0
	if v, ok := ts.cfg.SeasonGrowth[season]; ok {
		m = v
	}
	if v, ok := ts.cfg.WeatherBonus[string(ts.state.Weather)]; ok {
		m *= v
	}
	return m
}

// Snapshot 导出时钟状态
func (ts *TimeSystem) Snapshot() ClockState {
	return ts.state
}

// Restore 恢复时钟状态，随机数按种子与总天数重新播种
func (ts *TimeSystem) Restore(s ClockState) {
	if s.Day <= 0 {
		s.Day = 1
	}
	if s.Year <= 0 {
		s.Year = 1
	}
	if !slices.Contains(types.Seasons, s.Season) {
		s.Season = types.SeasonSpring
	}
	if s.Weather == "" {
		s.Weather = types.WeatherSunny
	}
	ts.state = s
	ts.rng = rand.New(rand.NewSource(ts.cfg.Seed + int64(s.TotalDays)))
}
