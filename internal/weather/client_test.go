package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vento0/vento/internal/log"
)

// newTestClient points a client at a stub API and counts requests reaching it.
func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) (*Client, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:     apiKey,
		BaseURL:    srv.URL,
		Logger:     log.NewNop(),
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, &requests
}

const currentBody = `{
	"location": {"name": "Milan", "country": "Italy", "localtime": "2025-06-10 14:30"},
	"current": {
		"temp_c": 22.5, "temp_f": 72.5, "feelslike_c": 23,
		"condition": {"text": "Partly cloudy"},
		"humidity": 60, "wind_kph": 11, "wind_dir": "NW",
		"precip_mm": 0, "vis_km": 10, "uv": 5,
		"air_quality": {"us-epa-index": 2}
	}
}`

func TestCurrentFormatsResponse(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("path = %q, want /current.json", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "k" {
			t.Errorf("key = %q, want k", q.Get("key"))
		}
		if q.Get("q") != "Milan" {
			t.Errorf("q = %q, want Milan", q.Get("q"))
		}
		w.Write([]byte(currentBody))
	})

	got, err := client.Current(context.Background(), "Milan", "no", "en")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	for _, want := range []string{
		"**Current Weather - Milan, Italy**",
		"Local time: 2025-06-10 14:30",
		"Temperature: 22.5°C (72.5°F)",
		"Feels like: 23°C",
		"Conditions: Partly cloudy",
		"Humidity: 60%",
		"Wind: 11 km/h NW",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Current() output missing %q\ngot:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Air Quality") {
		t.Errorf("Current() included air quality without aqi=yes:\n%s", got)
	}
}

func TestCurrentWithAirQuality(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(currentBody))
	})

	got, err := client.Current(context.Background(), "Milan", "yes", "en")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !strings.Contains(got, "US EPA Index: 2") {
		t.Errorf("Current() missing air quality block:\n%s", got)
	}
}

func TestMissingAPIKeyShortCircuits(t *testing.T) {
	client, requests := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()
	calls := []func() error{
		func() error { _, err := client.Current(ctx, "Milan", "no", "en"); return err },
		func() error { _, err := client.Forecast(ctx, "Milan", 3, "no", "yes", "en"); return err },
		func() error { _, err := client.History(ctx, "Milan", "2023-01-15", "", "en"); return err },
		func() error { _, err := client.Search(ctx, "Mil"); return err },
		func() error { _, err := client.Astronomy(ctx, "Milan", ""); return err },
	}
	for i, call := range calls {
		if err := call(); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("call %d: error = %v, want ErrMissingAPIKey", i, err)
		}
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("requests reached the API = %d, want 0", n)
	}
}

func TestHTTPErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "error body with message",
			status: http.StatusUnauthorized,
			body:   `{"error": {"code": 2006, "message": "API key provided is invalid."}}`,
			want:   "HTTP error 401: API key provided is invalid.",
		},
		{
			name:   "error body without message",
			status: http.StatusBadGateway,
			body:   `upstream exploded`,
			want:   "HTTP error 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Current(context.Background(), "Milan", "no", "en")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Current() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestForecastIncludesAlerts(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "5" {
			t.Errorf("days = %q, want 5", got)
		}
		w.Write([]byte(`{
			"location": {"name": "Rome", "country": "Italy"},
			"forecast": {"forecastday": [
				{"date": "2025-06-10", "day": {
					"mintemp_c": 18, "maxtemp_c": 29,
					"condition": {"text": "Sunny"},
					"totalprecip_mm": 0, "maxwind_kph": 15,
					"avghumidity": 55, "uv": 8
				}}
			]},
			"alerts": {"alert": [
				{"event": "Heat Warning", "headline": "High temperatures expected"}
			]}
		}`))
	})

	got, err := client.Forecast(context.Background(), "Rome", 5, "no", "yes", "en")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}

	for _, want := range []string{
		"**Weather Forecast - Rome, Italy**",
		"📅 2025-06-10",
		"Min/Max: 18°C / 29°C",
		"⚠️ **WEATHER ALERTS**",
		"- Heat Warning: High temperatures expected",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Forecast() output missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestHistoryDateRange(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("dt") != "2023-01-15" || q.Get("end_dt") != "2023-01-20" {
			t.Errorf("dt = %q end_dt = %q, want the requested range", q.Get("dt"), q.Get("end_dt"))
		}
		w.Write([]byte(`{
			"location": {"name": "Turin", "country": "Italy"},
			"forecast": {"forecastday": [
				{"date": "2023-01-15", "day": {
					"mintemp_c": -2, "maxtemp_c": 6, "avgtemp_c": 2,
					"condition": {"text": "Light snow"},
					"totalprecip_mm": 4, "maxwind_kph": 20,
					"avghumidity": 80, "avgvis_km": 7
				}}
			]}
		}`))
	})

	got, err := client.History(context.Background(), "Turin", "2023-01-15", "2023-01-20", "en")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if !strings.Contains(got, "Min/Max/Avg: -2°C / 6°C / 2°C") {
		t.Errorf("History() output missing temperature line:\n%s", got)
	}
}

func TestHistoryOmitsEmptyEndDate(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["end_dt"]; ok {
			t.Error("end_dt sent for a single-date query")
		}
		w.Write([]byte(`{"location": {}, "forecast": {"forecastday": []}}`))
	})

	if _, err := client.History(context.Background(), "Turin", "2023-01-15", "", "en"); err != nil {
		t.Fatalf("History() error = %v", err)
	}
}

func TestSearchEmptyResult(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})

	got, err := client.Search(context.Background(), "Xyzzy")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != "No locations found." {
		t.Errorf("Search() = %q, want the empty-result message", got)
	}
}

func TestSearchFormatsLocations(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[
			{"id": 2801268, "name": "London", "region": "City of London, Greater London",
			 "country": "United Kingdom", "lat": 51.52, "lon": -0.11}
		]`))
	})

	got, err := client.Search(context.Background(), "Lond")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, want := range []string{
		"📍 London, City of London, Greater London, United Kingdom",
		"Coordinates: 51.52, -0.11",
		"ID: 2801268",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Search() output missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestAstronomy(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"location": {"name": "Florence", "country": "Italy", "localtime": "2025-06-10 09:00"},
			"astronomy": {"astro": {
				"sunrise": "05:34 AM", "sunset": "08:49 PM",
				"moonrise": "07:12 PM", "moonset": "04:01 AM",
				"moon_phase": "Full Moon", "moon_illumination": 100,
				"is_sun_up": 1, "is_moon_up": 0
			}}
		}`))
	})

	got, err := client.Astronomy(context.Background(), "Florence", "")
	if err != nil {
		t.Fatalf("Astronomy() error = %v", err)
	}
	for _, want := range []string{
		"**Astronomy Data - Florence, Italy**",
		"Date: 2025-06-10",
		"🌅 Sunrise: 05:34 AM",
		"🌓 Moon phase: Full Moon",
		"🌕 Illumination: 100%",
		"☀️ Sun up: Yes",
		"🌙 Moon up: No",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Astronomy() output missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestRegistryDispatch(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(currentBody))
	})

	r := Registry(client, log.NewNop())

	wantTools := []string{
		"get_current_weather", "get_forecast", "get_history",
		"search_location", "get_astronomy",
	}
	got := r.Names()
	if len(got) != len(wantTools) {
		t.Fatalf("Names() = %v, want %v", got, wantTools)
	}
	for i := range wantTools {
		if got[i] != wantTools[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], wantTools[i])
		}
	}

	res := r.Invoke(context.Background(), "get_current_weather", map[string]any{"q": "Milan"})
	if res.IsError {
		t.Fatalf("Invoke() unexpected error result: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Current Weather - Milan") {
		t.Errorf("Invoke() Text = %q, want formatted weather", res.Text)
	}

	res = r.Invoke(context.Background(), "get_current_weather", nil)
	if !res.IsError || !strings.Contains(res.Text, "q") {
		t.Errorf("Invoke() without q = %+v, want missing-argument error", res)
	}
}

func TestRegistryMissingKeyDegradesPerCall(t *testing.T) {
	client, requests := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(currentBody))
	})

	r := Registry(client, log.NewNop())
	res := r.Invoke(context.Background(), "get_forecast", map[string]any{"q": "Milan", "days": "3"})
	if !res.IsError {
		t.Fatal("Invoke() IsError = false, want credential error")
	}
	if !strings.Contains(res.Text, "WEATHERAPI_KEY") {
		t.Errorf("Invoke() Text = %q, want credential guidance", res.Text)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("requests reached the API = %d, want 0", n)
	}
}
