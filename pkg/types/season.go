package types

import "slices"

// Season 季节
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// Seasons 季节轮换顺序
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// Valid 是否为四季之一
func (s Season) Valid() bool {
	return slices.Contains(Seasons, s)
}

// Weather 天气
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherStormy Weather = "stormy"
	WeatherSnowy  Weather = "snowy"
)

// Waters 返回该天气是否会自动浇灌农田
func (w Weather) Waters() bool {
	return w == WeatherRainy || w == WeatherStormy
}
