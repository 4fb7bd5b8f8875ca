package types

import "testing"

func TestSeasonValid(t *testing.T) {
	for _, s := range Seasons {
		if !s.Valid() {
			t.Errorf("%s 应为有效季节", s)
		}
	}
	for _, s := range []Season{"", "autumn", "Spring"} {
		if s.Valid() {
			t.Errorf("%q 不应为有效季节", s)
		}
	}
}

func TestWeatherWaters(t *testing.T) {
	tests := []struct {
		weather Weather
		want    bool
	}{
		{WeatherSunny, false},
		{WeatherCloudy, false},
		{WeatherRainy, true},
		{WeatherStormy, true},
		{WeatherSnowy, false},
	}
	for _, tt := range tests {
		if got := tt.weather.Waters(); got != tt.want {
			t.Errorf("%s.Waters() = %v, want %v", tt.weather, got, tt.want)
		}
	}
}

func TestQualityValueMultiplier(t *testing.T) {
	tests := []struct {
		quality Quality
		want    float64
	}{
		{QualityPoor, 0.5},
		{QualityNormal, 1.0},
		{QualityGood, 1.25},
		{QualityExcellent, 1.5},
		{Quality("legendary"), 1.0},
	}
	for _, tt := range tests {
		if got := tt.quality.ValueMultiplier(); got != tt.want {
			t.Errorf("%s.ValueMultiplier() = %v, want %v", tt.quality, got, tt.want)
		}
	}
}

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		dir    Direction
		name   string
		dx, dy int
	}{
		{DirDown, "down", 0, 1},
		{DirUp, "up", 0, -1},
		{DirLeft, "left", -1, 0},
		{DirRight, "right", 1, 0},
	}
	for _, tt := range tests {
		if tt.dir.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.dir.String(), tt.name)
		}
		if dx, dy := tt.dir.Delta(); dx != tt.dx || dy != tt.dy {
			t.Errorf("%s.Delta() = (%d,%d), want (%d,%d)", tt.name, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestLayerIntersects(t *testing.T) {
	if !LayerBlocking.Intersects(LayerObjects) {
		t.Error("阻挡层应包含物体层")
	}
	if LayerBlocking.Intersects(LayerTriggers) {
		t.Error("阻挡层不应包含触发层")
	}
	if got := CropPotato.SeedItem(); got != "potato_seeds" {
		t.Errorf("SeedItem() = %q", got)
	}
}
