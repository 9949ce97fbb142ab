package service

import (
	"strings"

	"github.com/fakhrymubarak/city-weather/internal/common"
)

// Theme is the visual treatment the display layer applies for a condition.
type Theme string

const (
	ThemeDefault      Theme = "default"
	ThemeClear        Theme = "clear"
	ThemeClouds       Theme = "clouds"
	ThemeRain         Theme = "rain"
	ThemeThunderstorm Theme = "thunderstorm"
	ThemeSnow         Theme = "snow"
	ThemeMist         Theme = "mist"
)

// ThemeFor maps a provider condition ("Clouds", "Drizzle", ...) to a theme.
// Checks run in order, so "Thunderstorm with rain" maps to rain.
func ThemeFor(conditionMain string) Theme {
	c := strings.ToLower(conditionMain)
	switch {
	case strings.Contains(c, "clear"):
		return ThemeClear
	case strings.Contains(c, "cloud"):
		return ThemeClouds
	case common.HasAny(c, "rain", "drizzle"):
		return ThemeRain
	case strings.Contains(c, "thunder"):
		return ThemeThunderstorm
	case strings.Contains(c, "snow"):
		return ThemeSnow
	case common.HasAny(c, "mist", "fog", "haze"):
		return ThemeMist
	default:
		return ThemeDefault
	}
}
