package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// num renders a JSON-sourced float without trailing zeros, matching the
// precision the API sent (22.5 stays 22.5, 3.0 becomes 3).
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCurrent(data *currentResponse, includeAQI bool) string {
	loc := data.Location
	cur := data.Current

	var b strings.Builder
	fmt.Fprintf(&b, "**Current Weather - %s, %s**\n", loc.Name, loc.Country)
	fmt.Fprintf(&b, "Local time: %s\n\n", loc.Localtime)
	fmt.Fprintf(&b, "🌡️ Temperature: %s°C (%s°F)\n", num(cur.TempC), num(cur.TempF))
	fmt.Fprintf(&b, "🤚 Feels like: %s°C\n", num(cur.FeelslikeC))
	fmt.Fprintf(&b, "☁️ Conditions: %s\n", cur.Condition.Text)
	fmt.Fprintf(&b, "💧 Humidity: %d%%\n", cur.Humidity)
	fmt.Fprintf(&b, "🌬️ Wind: %s km/h %s\n", num(cur.WindKph), cur.WindDir)
	fmt.Fprintf(&b, "🌧️ Precipitation: %s mm\n", num(cur.PrecipMm))
	fmt.Fprintf(&b, "👁️ Visibility: %s km\n", num(cur.VisKm))
	fmt.Fprintf(&b, "☀️ UV Index: %s\n", num(cur.UV))

	if includeAQI && cur.AirQuality != nil {
		fmt.Fprintf(&b, "\n**Air Quality**\nUS EPA Index: %s\n", num(cur.AirQuality.USEPAIndex))
	}

	return b.String()
}

func formatForecast(data *forecastResponse) string {
	loc := data.Location

	var b strings.Builder
	fmt.Fprintf(&b, "**Weather Forecast - %s, %s**\n\n", loc.Name, loc.Country)

	for _, day := range data.Forecast.Forecastday {
		d := day.Day
		fmt.Fprintf(&b, "📅 %s\n", day.Date)
		fmt.Fprintf(&b, "🌡️ Min/Max: %s°C / %s°C\n", num(d.MintempC), num(d.MaxtempC))
		fmt.Fprintf(&b, "☁️ %s\n", d.Condition.Text)
		fmt.Fprintf(&b, "🌧️ Precipitation: %s mm\n", num(d.TotalprecipMm))
		fmt.Fprintf(&b, "💨 Max wind: %s km/h\n", num(d.MaxwindKph))
		fmt.Fprintf(&b, "💧 Avg humidity: %s%%\n", num(d.Avghumidity))
		fmt.Fprintf(&b, "☀️ UV Index: %s\n\n", num(d.UV))
	}

	if len(data.Alerts.Alert) > 0 {
		b.WriteString("⚠️ **WEATHER ALERTS**\n")
		for _, a := range data.Alerts.Alert {
			fmt.Fprintf(&b, "- %s: %s\n", a.Event, a.Headline)
		}
	}

	return b.String()
}

func formatHistory(data *forecastResponse) string {
	loc := data.Location

	var b strings.Builder
	fmt.Fprintf(&b, "**Historical Data - %s, %s**\n\n", loc.Name, loc.Country)

	for _, day := range data.Forecast.Forecastday {
		d := day.Day
		fmt.Fprintf(&b, "📅 %s\n", day.Date)
		fmt.Fprintf(&b, "🌡️ Min/Max/Avg: %s°C / %s°C / %s°C\n",
			num(d.MintempC), num(d.MaxtempC), num(d.AvgtempC))
		fmt.Fprintf(&b, "☁️ %s\n", d.Condition.Text)
		fmt.Fprintf(&b, "🌧️ Total precipitation: %s mm\n", num(d.TotalprecipMm))
		fmt.Fprintf(&b, "💨 Max wind: %s km/h\n", num(d.MaxwindKph))
		fmt.Fprintf(&b, "💧 Avg humidity: %s%%\n", num(d.Avghumidity))
		fmt.Fprintf(&b, "👁️ Avg visibility: %s km\n\n", num(d.AvgvisKm))
	}

	return b.String()
}

func formatSearch(locations []location) string {
	if len(locations) == 0 {
		return "No locations found."
	}

	var b strings.Builder
	b.WriteString("**Locations found:**\n\n")
	for _, loc := range locations {
		fmt.Fprintf(&b, "📍 %s, %s, %s\n", loc.Name, loc.Region, loc.Country)
		fmt.Fprintf(&b, "   Coordinates: %s, %s\n", num(loc.Lat), num(loc.Lon))
		fmt.Fprintf(&b, "   ID: %d\n\n", loc.ID)
	}

	return b.String()
}

func formatAstronomy(data *astronomyResponse) string {
	loc := data.Location
	a := data.Astronomy.Astro

	// Localtime is "yyyy-MM-dd HH:mm"; only the date matters here.
	date, _, _ := strings.Cut(loc.Localtime, " ")

	yesNo := func(v int) string {
		if v == 1 {
			return "Yes"
		}
		return "No"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Astronomy Data - %s, %s**\n", loc.Name, loc.Country)
	fmt.Fprintf(&b, "Date: %s\n\n", date)
	fmt.Fprintf(&b, "🌅 Sunrise: %s\n", a.Sunrise)
	fmt.Fprintf(&b, "🌇 Sunset: %s\n", a.Sunset)
	fmt.Fprintf(&b, "🌙 Moonrise: %s\n", a.Moonrise)
	fmt.Fprintf(&b, "🌑 Moonset: %s\n", a.Moonset)
	fmt.Fprintf(&b, "🌓 Moon phase: %s\n", a.MoonPhase)
	fmt.Fprintf(&b, "🌕 Illumination: %s%%\n\n", a.MoonIllumination.String())
	fmt.Fprintf(&b, "☀️ Sun up: %s\n", yesNo(a.IsSunUp))
	fmt.Fprintf(&b, "🌙 Moon up: %s\n", yesNo(a.IsMoonUp))

	return b.String()
}
