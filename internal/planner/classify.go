// Package planner is the trip-planning engine: weather classification,
// activity and restaurant suggestions, day itineraries, and travel tips.
//
// Everything here is a pure function over static in-memory tables; there is
// no I/O and no hidden state, so every operation is deterministic for a
// given input.
package planner

import "strings"

// Category buckets a weather condition for activity selection.
type Category string

const (
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategorySunny        Category = "sunny"
	CategoryHot          Category = "hot"
	CategoryCold         Category = "cold"
	CategoryMild         Category = "mild"
	CategoryPartlyCloudy Category = "partly_cloudy"

	// CategoryAny marks activities suitable in all weather.
	CategoryAny Category = "any"
)

// Classify buckets a free-text weather condition and a temperature into a
// Category. Text cues win over temperature: a rainy 30°C day is still
// "rain". Keywords cover English and Italian condition strings since the
// weather API localizes its condition text.
func Classify(condition string, tempC float64) Category {
	lower := strings.ToLower(condition)

	switch {
	case strings.Contains(lower, "rain") || strings.Contains(lower, "pioggia"):
		return CategoryRain
	case strings.Contains(lower, "snow") || strings.Contains(lower, "neve"):
		return CategorySnow
	case strings.Contains(lower, "sunny") || strings.Contains(lower, "clear") || strings.Contains(lower, "sereno"):
		if tempC > 28 {
			return CategoryHot
		}
		return CategorySunny
	case tempC < 5:
		return CategoryCold
	case tempC < 18:
		return CategoryMild
	default:
		return CategoryPartlyCloudy
	}
}

// indoorPreferred reports whether the category calls for indoor activities.
func indoorPreferred(c Category) bool {
	switch c {
	case CategoryRain, CategorySnow, CategoryCold, CategoryHot:
		return true
	default:
		return false
	}
}
