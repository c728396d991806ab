package planner

import (
	"context"

	"github.com/vento0/vento/internal/log"
	"github.com/vento0/vento/internal/toolkit"
)

// Registry builds the travel-planning tool registry. All four tools are
// backed by pure functions; no external services are involved.
func Registry(logger log.Logger) *toolkit.Registry {
	r := toolkit.NewRegistry(logger)

	r.MustRegister(toolkit.ToolSpec{
		Name: "suggest_activities",
		Description: "Suggests activities based on weather conditions and preferences. " +
			"Use this tool AFTER getting the weather forecast from the weather tools.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "location", Type: toolkit.TypeString, Required: true,
				Description: "Location (e.g. Milano, Roma)",
			},
			{
				Name: "weather_condition", Type: toolkit.TypeString, Required: true,
				Description: "Current/forecast weather condition (e.g. 'Sunny', 'Rainy', 'Partly cloudy')",
			},
			{
				Name: "temperature", Type: toolkit.TypeNumber, Required: true,
				Description: "Temperature in degrees Celsius",
			},
			{
				Name: "preferences", Type: toolkit.TypeArray,
				Description: "User preferences: culture, sport, food, shopping, relax, nature",
			},
			{
				Name: "duration", Type: toolkit.TypeString, Default: "medium",
				Description: "Available time: short (1-2h), medium (2-4h), long (4-8h)",
			},
		},
		Handler: func(_ context.Context, args toolkit.Args) (string, error) {
			_, text := SuggestActivities(
				args.String("location"),
				args.String("weather_condition"),
				args.Float("temperature"),
				args.Strings("preferences"),
				args.String("duration"),
			)
			return text, nil
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name:        "suggest_restaurants",
		Description: "Suggests restaurants in the given location",
		Params: []toolkit.ParameterSpec{
			{
				Name: "location", Type: toolkit.TypeString, Required: true,
				Description: "Location (e.g. Milano)",
			},
			{
				Name: "meal_type", Type: toolkit.TypeEnum,
				Enum:        []string{"breakfast", "lunch", "dinner", "aperitivo"},
				Default:     "lunch",
				Description: "Meal type",
			},
			{
				Name: "cuisine_type", Type: toolkit.TypeString, Default: "traditional",
				Description: "Preferred cuisine type (traditional, street_food, fine_dining)",
			},
			{
				Name: "budget", Type: toolkit.TypeEnum,
				Enum:        []string{"€", "€€", "€€€"},
				Default:     "€€",
				Description: "Budget",
			},
		},
		Handler: func(_ context.Context, args toolkit.Args) (string, error) {
			_, text := SuggestRestaurants(
				args.String("location"),
				args.String("meal_type"),
				args.String("cuisine_type"),
				args.String("budget"),
			)
			return text, nil
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name: "create_itinerary",
		Description: "Creates a complete day itinerary combining activities and restaurants. " +
			"Use AFTER getting weather, activities and restaurants.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "location", Type: toolkit.TypeString, Required: true,
				Description: "Location",
			},
			{
				Name: "activities", Type: toolkit.TypeArray, Required: true,
				Description: "List of activities to include",
			},
			{
				Name: "restaurants", Type: toolkit.TypeArray,
				Description: "List of restaurants to include",
			},
			{
				Name: "start_time", Type: toolkit.TypeString, Default: "09:00",
				Description: "Start time (e.g. 09:00)",
			},
		},
		Handler: func(_ context.Context, args toolkit.Args) (string, error) {
			return CreateItinerary(
				args.String("location"),
				args.Strings("activities"),
				args.Strings("restaurants"),
				args.String("start_time"),
			), nil
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name:        "get_travel_tips",
		Description: "Provides travel tips specific to the location and weather",
		Params: []toolkit.ParameterSpec{
			{
				Name: "location", Type: toolkit.TypeString, Required: true,
				Description: "Location",
			},
			{
				Name: "weather_condition", Type: toolkit.TypeString, Required: true,
				Description: "Weather condition",
			},
			{
				Name: "temperature", Type: toolkit.TypeNumber, Required: true,
				Description: "Temperature in °C",
			},
		},
		Handler: func(_ context.Context, args toolkit.Args) (string, error) {
			return TravelTips(
				args.String("location"),
				args.String("weather_condition"),
				args.Float("temperature"),
			), nil
		},
	})

	return r
}
