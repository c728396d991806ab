package planner

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	maxSuggestedActivities  = 5
	maxSuggestedRestaurants = 3
	maxItineraryActivities  = 3
)

// itineraryTimes is the fixed slot grid for a day itinerary: activities
// take the even slots, restaurants the odd ones.
var itineraryTimes = []string{"09:00", "11:00", "13:00", "15:00", "17:00", "19:00"}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// matchesPreferences reports whether an activity passes the preference
// filter; an empty preference list accepts everything.
func matchesPreferences(a Activity, preferences []string) bool {
	if len(preferences) == 0 {
		return true
	}
	for _, p := range preferences {
		if a.Type == p {
			return true
		}
	}
	return false
}

func suitableFor(a Activity, c Category) bool {
	for _, w := range a.SuitableWeather {
		if w == c || w == CategoryAny {
			return true
		}
	}
	return false
}

// SuggestActivities picks up to 5 activities matching the weather and the
// user's preferences.
//
// Selection order: the weather-appropriate primary category (indoor in bad
// weather, outdoor otherwise) filtered by suitability and preference, then
// the all-weather mixed activities, then a backfill from the secondary
// category when fewer than 3 matched. A "short" duration keeps only
// activities tagged as 1-2 hours. Returns the matched activities and the
// formatted text shown to the model.
func SuggestActivities(location, condition string, tempC float64, preferences []string, duration string) ([]Activity, string) {
	category := Classify(condition, tempC)
	preferIndoor := indoorPreferred(category)

	primary, secondary := outdoorActivities, indoorActivities
	if preferIndoor {
		primary, secondary = indoorActivities, outdoorActivities
	}

	var suitable []Activity
	for _, a := range primary {
		if suitableFor(a, category) && matchesPreferences(a, preferences) {
			suitable = append(suitable, a)
		}
	}
	for _, a := range mixedActivities {
		if matchesPreferences(a, preferences) {
			suitable = append(suitable, a)
		}
	}
	if len(suitable) < 3 {
		// Secondary backfill skips the weather check: with the primary
		// category exhausted, any preference match is better than nothing.
		for _, a := range secondary {
			if matchesPreferences(a, preferences) {
				suitable = append(suitable, a)
			}
		}
	}

	if duration == "short" {
		short := suitable[:0:0]
		for _, a := range suitable {
			if strings.Contains(a.Duration, "1-2") {
				short = append(short, a)
			}
		}
		suitable = short
	}

	if len(suitable) > maxSuggestedActivities {
		suitable = suitable[:maxSuggestedActivities]
	}

	conditionsLine := "Perfect for being outdoors"
	if preferIndoor {
		conditionsLine = "Indoor activities recommended"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Recommended Activities for %s**\n\n", location)
	fmt.Fprintf(&b, "🌡️ Weather: %s, %s°C\n", condition, num(tempC))
	fmt.Fprintf(&b, "📊 Conditions: %s\n\n", conditionsLine)
	for i, a := range suitable {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, a.Name)
		fmt.Fprintf(&b, "   - %s\n", a.Description)
		fmt.Fprintf(&b, "   - Duration: %s\n", a.Duration)
		fmt.Fprintf(&b, "   - Type: %s\n\n", a.Type)
	}

	return suitable, b.String()
}

// SuggestRestaurants picks up to 3 restaurants for a location.
//
// Unknown locations fall back to the generic list. The budget filter keeps
// exact price matches, except that the default "€€" budget accepts every
// price tier. cuisineType and mealType shape the presentation only; the
// curated lists are too small to filter by cuisine.
func SuggestRestaurants(location, mealType, cuisineType, budget string) ([]Restaurant, string) {
	restaurants, ok := restaurantsByCity[location]
	if !ok {
		restaurants = defaultRestaurants
	}

	var filtered []Restaurant
	for _, r := range restaurants {
		if r.Price == budget || budget == "€€" {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) > maxSuggestedRestaurants {
		filtered = filtered[:maxSuggestedRestaurants]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Recommended Restaurants in %s**\n\n", location)
	fmt.Fprintf(&b, "🍽️ Meal: %s\n", mealType)
	fmt.Fprintf(&b, "💰 Budget: %s\n\n", budget)
	for i, r := range filtered {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.Name)
		fmt.Fprintf(&b, "   - Type: %s\n", r.Type)
		fmt.Fprintf(&b, "   - Specialty: %s\n", r.Specialty)
		fmt.Fprintf(&b, "   - Price: %s\n\n", r.Price)
	}

	return filtered, b.String()
}

// CreateItinerary builds a day plan on the fixed two-hour slot grid.
// Up to 3 activities land on the 09:00/13:00/17:00 slots; each is followed
// by the restaurant of the same index when one exists. Three fixed tips
// close the plan.
func CreateItinerary(location string, activities, restaurants []string, startTime string) string {
	if startTime == "" {
		startTime = "09:00"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 📅 Itinerary for %s\n\n", location)
	fmt.Fprintf(&b, "**Start:** %s\n\n", startTime)

	capped := activities
	if len(capped) > maxItineraryActivities {
		capped = capped[:maxItineraryActivities]
	}
	for i, activity := range capped {
		fmt.Fprintf(&b, "**%s** 🎯 %s\n\n", itineraryTimes[i*2], activity)
		if i < len(restaurants) {
			fmt.Fprintf(&b, "**%s** 🍽️ %s\n\n", itineraryTimes[i*2+1], restaurants[i])
		}
	}

	b.WriteString("\n💡 **Tips:**\n")
	b.WriteString("- Always carry a foldable umbrella\n")
	b.WriteString("- Book restaurants in advance\n")
	b.WriteString("- Use public transport or walk\n")

	return b.String()
}

// TravelTips returns clothing, packing, and transport advice for the
// location, with the clothing block driven by the weather category.
func TravelTips(location, condition string, tempC float64) string {
	category := Classify(condition, tempC)

	var b strings.Builder
	fmt.Fprintf(&b, "**Travel Tips for %s**\n\n", location)

	b.WriteString("👕 **Clothing:**\n")
	switch category {
	case CategoryRain:
		b.WriteString("- Waterproof jacket, umbrella, closed shoes\n")
	case CategoryCold:
		b.WriteString("- Coat, scarf, gloves, hat\n")
	case CategoryHot:
		b.WriteString("- Light clothing, hat, sunscreen\n")
	default:
		b.WriteString("- Layered clothing, light jacket\n")
	}

	b.WriteString("\n🎒 **What to Pack:**\n")
	b.WriteString("- Reusable water bottle\n")
	b.WriteString("- Power bank for your phone\n")
	b.WriteString("- Offline city map\n")

	b.WriteString("\n🚇 **Transport:**\n")
	b.WriteString("- Buy day passes to save money\n")
	b.WriteString("- Useful apps: Google Maps, Moovit\n")

	return b.String()
}
