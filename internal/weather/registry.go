package weather

import (
	"context"

	"github.com/vento0/vento/internal/log"
	"github.com/vento0/vento/internal/toolkit"
)

func f64(v float64) *float64 { return &v }

// Registry builds the weather tool registry backed by the given client.
// Tool names and parameter schemas are part of the product surface; the
// LLM selects tools by these names and descriptions.
func Registry(client *Client, logger log.Logger) *toolkit.Registry {
	r := toolkit.NewRegistry(logger)

	r.MustRegister(toolkit.ToolSpec{
		Name: "get_current_weather",
		Description: "Gets current weather conditions for a location. " +
			"Supports city names, lat/lon coordinates, postal codes, IP addresses.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "q", Type: toolkit.TypeString, Required: true,
				Description: "Location: city name (e.g. London), " +
					"lat,lon (e.g. 48.8567,2.3508), postal code (e.g. 10001), IP address",
			},
			{
				Name: "aqi", Type: toolkit.TypeEnum, Enum: []string{"yes", "no"}, Default: "no",
				Description: "Include air quality data",
			},
			{
				Name: "lang", Type: toolkit.TypeString, Default: "en",
				Description: "Language code (e.g. it, en, fr, de)",
			},
		},
		Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
			return client.Current(ctx, args.String("q"), args.String("aqi"), args.String("lang"))
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name: "get_forecast",
		Description: "Gets weather forecast up to 14 days. " +
			"Includes hourly data, astronomy, weather alerts.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "q", Type: toolkit.TypeString, Required: true,
				Description: "Location (city, lat,lon, postal code)",
			},
			{
				Name: "days", Type: toolkit.TypeInteger, Default: 3,
				Minimum: f64(1), Maximum: f64(14),
				Description: "Number of forecast days (1-14)",
			},
			{
				Name: "aqi", Type: toolkit.TypeEnum, Enum: []string{"yes", "no"}, Default: "no",
				Description: "Include air quality",
			},
			{
				Name: "alerts", Type: toolkit.TypeEnum, Enum: []string{"yes", "no"}, Default: "yes",
				Description: "Include weather alerts",
			},
			{
				Name: "lang", Type: toolkit.TypeString, Default: "en",
				Description: "Language code",
			},
		},
		Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
			return client.Forecast(ctx, args.String("q"), args.Int("days"),
				args.String("aqi"), args.String("alerts"), args.String("lang"))
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name: "get_history",
		Description: "Gets historical weather data from January 1, 2010. " +
			"Includes temperature, precipitation, wind for a specific date.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "q", Type: toolkit.TypeString, Required: true,
				Description: "Location (city, lat,lon, postal code)",
			},
			{
				Name: "dt", Type: toolkit.TypeString, Required: true,
				Description: "Date in yyyy-MM-dd format (e.g. 2023-01-15)",
			},
			{
				Name: "end_dt", Type: toolkit.TypeString,
				Description: "End date for a range (optional, max 30 days)",
			},
			{
				Name: "lang", Type: toolkit.TypeString, Default: "en",
				Description: "Language code",
			},
		},
		Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
			return client.History(ctx, args.String("q"), args.String("dt"),
				args.String("end_dt"), args.String("lang"))
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name: "search_location",
		Description: "Searches locations by name. Useful for autocomplete " +
			"and finding exact coordinates before other calls.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "q", Type: toolkit.TypeString, Required: true,
				Description: "Search term (e.g. 'Lond' to find London)",
			},
		},
		Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
			return client.Search(ctx, args.String("q"))
		},
	})

	r.MustRegister(toolkit.ToolSpec{
		Name: "get_astronomy",
		Description: "Gets astronomy data: sunrise, sunset, " +
			"moon phases, moonrise/moonset for a specific date.",
		Params: []toolkit.ParameterSpec{
			{
				Name: "q", Type: toolkit.TypeString, Required: true,
				Description: "Location (city, lat,lon, postal code)",
			},
			{
				Name: "dt", Type: toolkit.TypeString,
				Description: "Date in yyyy-MM-dd format (optional, defaults to today)",
			},
		},
		Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
			return client.Astronomy(ctx, args.String("q"), args.String("dt"))
		},
	})

	return r
}
