// Package weather is the gateway to the WeatherAPI.com HTTP service.
//
// The client turns each endpoint response into formatted Markdown text for
// the model; it never exposes raw JSON upward. A missing API key
// short-circuits every operation before any network traffic, returning one
// explanatory error instead of failing at startup.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vento0/vento/internal/log"
)

// ErrMissingAPIKey indicates no WeatherAPI.com credential is configured.
var ErrMissingAPIKey = errors.New(
	"WEATHERAPI_KEY is not configured. Set the environment variable with your API key")

// requestTimeout bounds each WeatherAPI.com request.
const requestTimeout = 30 * time.Second

// Config holds the dependencies for a weather Client.
type Config struct {
	APIKey  string
	BaseURL string
	Logger  log.Logger

	// HTTPClient overrides the default 30s-timeout client. Test hook.
	HTTPClient *http.Client
}

// Client calls the WeatherAPI.com v1 endpoints.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	logger  log.Logger
}

// NewClient creates a weather client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("weather base URL is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpc:   httpc,
		logger:  cfg.Logger.With("component", "weather"),
	}, nil
}

// apiEnvelope is the error body WeatherAPI.com returns on non-2xx status.
type apiEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// get fetches one endpoint and decodes the JSON body into out.
// The API key is appended here so callers never handle the credential.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + ".json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	c.logger.Debug("weather API request", "endpoint", endpoint)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling weather API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading weather API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The API embeds a human-readable message in the error body;
		// surface it when present.
		var envelope apiEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, envelope.Error.Message)
		}
		return fmt.Errorf("HTTP error %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding weather API response: %w", err)
	}
	return nil
}

// Response shapes. Only the fields the formatters read are decoded.

type location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	ID        int     `json:"id"`
	Localtime string  `json:"localtime"`
}

type condition struct {
	Text string `json:"text"`
}

type airQuality struct {
	USEPAIndex float64 `json:"us-epa-index"`
}

type currentConditions struct {
	TempC      float64     `json:"temp_c"`
	TempF      float64     `json:"temp_f"`
	FeelslikeC float64     `json:"feelslike_c"`
	Condition  condition   `json:"condition"`
	Humidity   int         `json:"humidity"`
	WindKph    float64     `json:"wind_kph"`
	WindDir    string      `json:"wind_dir"`
	PrecipMm   float64     `json:"precip_mm"`
	VisKm      float64     `json:"vis_km"`
	UV         float64     `json:"uv"`
	AirQuality *airQuality `json:"air_quality"`
}

type currentResponse struct {
	Location location          `json:"location"`
	Current  currentConditions `json:"current"`
}

type dayConditions struct {
	MintempC      float64   `json:"mintemp_c"`
	MaxtempC      float64   `json:"maxtemp_c"`
	AvgtempC      float64   `json:"avgtemp_c"`
	Condition     condition `json:"condition"`
	TotalprecipMm float64   `json:"totalprecip_mm"`
	MaxwindKph    float64   `json:"maxwind_kph"`
	Avghumidity   float64   `json:"avghumidity"`
	AvgvisKm      float64   `json:"avgvis_km"`
	UV            float64   `json:"uv"`
}

type forecastDay struct {
	Date string        `json:"date"`
	Day  dayConditions `json:"day"`
}

type alert struct {
	Event    string `json:"event"`
	Headline string `json:"headline"`
}

type forecastResponse struct {
	Location location `json:"location"`
	Forecast struct {
		Forecastday []forecastDay `json:"forecastday"`
	} `json:"forecast"`
	Alerts struct {
		Alert []alert `json:"alert"`
	} `json:"alerts"`
}

type astro struct {
	Sunrise          string      `json:"sunrise"`
	Sunset           string      `json:"sunset"`
	Moonrise         string      `json:"moonrise"`
	Moonset          string      `json:"moonset"`
	MoonPhase        string      `json:"moon_phase"`
	MoonIllumination json.Number `json:"moon_illumination"`
	IsSunUp          int         `json:"is_sun_up"`
	IsMoonUp         int         `json:"is_moon_up"`
}

type astronomyResponse struct {
	Location  location `json:"location"`
	Astronomy struct {
		Astro astro `json:"astro"`
	} `json:"astronomy"`
}

// Current returns the current conditions for a location as formatted text.
// aqi ("yes"/"no") adds the air-quality block when the API provides one.
func (c *Client) Current(ctx context.Context, q, aqi, lang string) (string, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("aqi", aqi)
	params.Set("lang", lang)

	var data currentResponse
	if err := c.get(ctx, "current", params, &data); err != nil {
		return "", err
	}
	return formatCurrent(&data, aqi == "yes"), nil
}

// Forecast returns up to 14 days of forecast as formatted text, with an
// alerts block when the API reports active weather alerts.
func (c *Client) Forecast(ctx context.Context, q string, days int, aqi, alerts, lang string) (string, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", aqi)
	params.Set("alerts", alerts)
	params.Set("lang", lang)

	var data forecastResponse
	if err := c.get(ctx, "forecast", params, &data); err != nil {
		return "", err
	}
	return formatForecast(&data), nil
}

// History returns historical conditions for a date, or a date range when
// endDt is non-empty.
func (c *Client) History(ctx context.Context, q, dt, endDt, lang string) (string, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("dt", dt)
	if endDt != "" {
		params.Set("end_dt", endDt)
	}
	params.Set("lang", lang)

	var data forecastResponse
	if err := c.get(ctx, "history", params, &data); err != nil {
		return "", err
	}
	return formatHistory(&data), nil
}

// Search looks up locations by name prefix.
func (c *Client) Search(ctx context.Context, q string) (string, error) {
	params := url.Values{}
	params.Set("q", q)

	var data []location
	if err := c.get(ctx, "search", params, &data); err != nil {
		return "", err
	}
	return formatSearch(data), nil
}

// Astronomy returns sun and moon data for a date (today when dt is empty).
func (c *Client) Astronomy(ctx context.Context, q, dt string) (string, error) {
	params := url.Values{}
	params.Set("q", q)
	if dt != "" {
		params.Set("dt", dt)
	}

	var data astronomyResponse
	if err := c.get(ctx, "astronomy", params, &data); err != nil {
		return "", err
	}
	return formatAstronomy(&data), nil
}
