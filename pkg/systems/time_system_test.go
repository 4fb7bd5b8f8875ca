package systems

import (
	"testing"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/types"
)

func testTimeConfig() config.TimeConfig {
	cfg := config.DefaultGameConfig().Time
	cfg.SecondsPerDay = 10
	cfg.DaysPerSeason = 3
	return cfg
}

func TestTimeSystem_DayAndSeasonRollover(t *testing.T) {
	bus := event.NewBus()
	var days, seasons int
	bus.Subscribe(event.DayStarted, func(event.Event) { days++ })
	bus.Subscribe(event.SeasonChanged, func(event.Event) { seasons++ })

	ts := NewTimeSystem(testTimeConfig(), bus)
	ts.Update(9.5)
	bus.Dispatch()
	if ts.Day() != 1 || days != 0 {
		t.Fatalf("day = %d, DayStarted = %d before 10s", ts.Day(), days)
	}

	// 一次大 dt 可以跨过多天
	ts.Update(20.5)
	bus.Dispatch()
	if ts.Day() != 3 || days != 2 {
		t.Fatalf("day = %d, DayStarted = %d, want 3 / 2", ts.Day(), days)
	}

	ts.Update(10)
	bus.Dispatch()
	if ts.Season() != types.SeasonSummer || ts.Day() != 1 || seasons != 1 {
		t.Errorf("expected summer day 1 after rollover, got %s day %d (season events %d)", ts.Season(), ts.Day(), seasons)
	}

	// 四季之后进入第二年
	for i := 0; i < 9; i++ {
		ts.NextDay()
	}
	if ts.Season() != types.SeasonSpring || ts.Year() != 2 {
		t.Errorf("expected spring of year 2, got %s year %d", ts.Season(), ts.Year())
	}
}

func TestTimeSystem_WeatherDeterministic(t *testing.T) {
	a := NewTimeSystem(testTimeConfig(), nil)
	b := NewTimeSystem(testTimeConfig(), nil)
	for i := 0; i < 40; i++ {
		a.NextDay()
		b.NextDay()
		if a.Weather() != b.Weather() {
			t.Fatalf("day %d: weather diverged %s vs %s", i, a.Weather(), b.Weather())
		}
		odds := testTimeConfig().WeatherOdds[string(a.Season())]
		if _, ok := odds[string(a.Weather())]; !ok {
			t.Fatalf("weather %s not possible in %s", a.Weather(), a.Season())
		}
	}
}

func TestTimeSystem_GrowthMultiplier(t *testing.T) {
	ts := NewTimeSystem(testTimeConfig(), nil)
	spring := config.CropDef{Seasons: []string{"spring"}}
	summer := config.CropDef{Seasons: []string{"summer"}}

	ts.SetWeather(types.WeatherRainy)
	if got := ts.GrowthMultiplier(spring); got != 1.1 {
		t.Errorf("spring crop on rainy spring day = %v, want 1.1", got)
	}
	if got := ts.GrowthMultiplier(summer); got != 0 {
		t.Errorf("summer crop in spring = %v, want 0", got)
	}
}

func TestTimeSystem_ClockAndRestore(t *testing.T) {
	ts := NewTimeSystem(testTimeConfig(), nil)
	ts.Update(5)
	if h, m := ts.Clock(); h != 16 || m != 0 {
		t.Errorf("half-day clock = %02d:%02d, want 16:00", h, m)
	}

	ts.NextDay()
	ts.NextDay()
	saved := ts.Snapshot()

	other := NewTimeSystem(testTimeConfig(), nil)
	other.Restore(saved)
	if other.Snapshot() != saved {
		t.Errorf("restore mismatch: %+v vs %+v", other.Snapshot(), saved)
	}

	other.Restore(ClockState{})
	s := other.Snapshot()
	if s.Day != 1 || s.Year != 1 || s.Season != types.SeasonSpring || s.Weather != types.WeatherSunny {
		t.Errorf("zero state not normalised: %+v", s)
	}
}
