package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mrgud155/weatherman/internal/model"
	"github.com/mrgud155/weatherman/internal/store"
)

func seededStore(t *testing.T) (*store.MemoryStore, model.Location) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemoryStore()

	loc, err := mem.UpsertLocation(ctx, model.Location{
		Name: "Tempe", Region: "Arizona", Country: "USA",
		Lat: 33.4, Lon: -111.9, TzID: "America/Phoenix",
	})
	if err != nil {
		t.Fatalf("seed location: %v", err)
	}

	cw, err := mem.InsertCurrentWeather(ctx, model.CurrentWeather{
		LocationID:  loc.ID,
		LastUpdated: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		TempC:       35.0,
	})
	if err != nil {
		t.Fatalf("seed current weather: %v", err)
	}
	if _, err := mem.InsertCondition(ctx, model.Condition{
		Text: "Sunny", Code: 1000, CurrentWeatherID: &cw.ID,
	}); err != nil {
		t.Fatalf("seed condition: %v", err)
	}

	fc, err := mem.UpsertForecast(ctx, model.Forecast{
		LocationID: loc.ID,
		Date:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed forecast: %v", err)
	}
	daily, err := mem.InsertDaily(ctx, model.Daily{ForecastID: fc.ID, MaxtempC: 41.2})
	if err != nil {
		t.Fatalf("seed daily: %v", err)
	}
	if _, err := mem.InsertCondition(ctx, model.Condition{
		Text: "Sunny", Code: 1000, DailyID: &daily.ID,
	}); err != nil {
		t.Fatalf("seed daily condition: %v", err)
	}

	return mem, loc
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	mem, _ := seededStore(t)
	RegisterRoutes(app, mem, NewStaticTokens([]string{"secret"}))
	return app
}

func authedRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer secret")
	return req
}

func TestMissingTokenRejected(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/latest_current/1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/latest_current/1", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", resp.StatusCode)
	}
}

func TestLatestCurrent(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(authedRequest("/api/v1/weather/latest_current/1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TempC != 35.0 || body.Condition.Text != "Sunny" || body.Location.Name != "Tempe" {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestForecastDaily(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(authedRequest("/api/v1/weather/forecast_daily/1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		MaxtempC  float64 `json:"maxtemp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Forecast struct {
			LocationID int64 `json:"location_id"`
		} `json:"forecast_metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.MaxtempC != 41.2 || body.Condition.Text != "Sunny" || body.Forecast.LocationID != 1 {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestUnknownLocation(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(authedRequest("/api/v1/weather/latest_current/99"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown location, got %d", resp.StatusCode)
	}
}

func TestKnownLocationWithoutData(t *testing.T) {
	app := fiber.New()
	mem := store.NewMemoryStore()
	loc, err := mem.UpsertLocation(context.Background(), model.Location{Name: "Oslo", Country: "Norway"})
	if err != nil {
		t.Fatalf("seed location: %v", err)
	}
	RegisterRoutes(app, mem, NewStaticTokens([]string{"secret"}))

	resp, err := app.Test(authedRequest("/api/v1/weather/latest_current/1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for location %d without data, got %d", loc.ID, resp.StatusCode)
	}
}

func TestInvalidLocationID(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(authedRequest("/api/v1/weather/latest_current/abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", resp.StatusCode)
	}
}

func TestLocations(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(authedRequest("/api/v1/weather/locations"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var locations []model.Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(locations) != 1 || locations[0].Name != "Tempe" {
		t.Errorf("unexpected locations: %+v", locations)
	}
}
