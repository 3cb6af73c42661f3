package ingest

import (
	"errors"
	"testing"
	"time"
)

const currentDoc = `{
	"location": {"name": "Tempe", "region": "Arizona", "country": "USA", "lat": 33.4, "lon": -111.9, "tz_id": "America/Phoenix"},
	"current": {
		"last_updated": "2024-06-01 14:00",
		"temp_c": 35.0, "temp_f": 95.0, "is_day": 1,
		"wind_mph": 4.3, "wind_kph": 6.8, "wind_degree": 210, "wind_dir": "SSW",
		"pressure_mb": 1011.0, "pressure_in": 29.85,
		"precip_mm": 0.0, "precip_in": 0.0,
		"humidity": 10, "cloud": 0,
		"feelslike_c": 33.6, "feelslike_f": 92.4,
		"vis_km": 16.0, "vis_miles": 9.0, "uv": 8.0,
		"gust_mph": 9.2, "gust_kph": 14.8,
		"condition": {"text": "Sunny", "icon": "//cdn.weatherapi.com/113.png", "code": 1000}
	}
}`

const forecastDoc = `{
	"location": {"name": "Tempe", "region": "Arizona", "country": "USA", "lat": 33.4, "lon": -111.9, "tz_id": "America/Phoenix"},
	"forecast": {"forecastday": [{
		"date": "2024-06-01",
		"day": {
			"maxtemp_c": 41.2, "maxtemp_f": 106.2, "mintemp_c": 26.1, "mintemp_f": 79.0,
			"avgtemp_c": 34.0, "avgtemp_f": 93.2,
			"maxwind_mph": 12.5, "maxwind_kph": 20.2,
			"totalprecip_mm": 0.0, "totalprecip_in": 0.0, "totalsnow_cm": 0.0,
			"avgvis_km": 10.0, "avgvis_miles": 6.0, "avghumidity": 12.0,
			"daily_will_it_rain": 0, "daily_chance_of_rain": 0,
			"daily_will_it_snow": 0, "daily_chance_of_snow": 0,
			"uv": 9.0,
			"condition": {"text": "Sunny", "icon": "//cdn.weatherapi.com/113.png", "code": 1000}
		},
		"astro": {
			"sunrise": "05:19 AM", "sunset": "07:34 PM",
			"moonrise": "01:10 AM", "moonset": "02:45 PM",
			"moon_phase": "Waning Crescent", "moon_illumination": "27",
			"is_moon_up": 0, "is_sun_up": 1
		},
		"hour": [
			{"time": "2024-06-01 00:00", "temp_c": 28.0, "temp_f": 82.4, "is_day": 0,
			 "condition": {"text": "Clear", "icon": "//cdn.weatherapi.com/113.png", "code": 1000}},
			{"time": "2024-06-01 01:00", "temp_c": 27.3, "temp_f": 81.1, "is_day": 0,
			 "condition": {"text": "Clear", "icon": "//cdn.weatherapi.com/113.png", "code": 1000}}
		]
	}]}
}`

func TestMapCurrent(t *testing.T) {
	batch, err := MapCurrent([]byte(currentDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch.Location.Name != "Tempe" || batch.Location.Region != "Arizona" || batch.Location.Country != "USA" {
		t.Errorf("unexpected location: %+v", batch.Location)
	}
	if batch.Location.TzID != "America/Phoenix" {
		t.Errorf("expected tz America/Phoenix, got %q", batch.Location.TzID)
	}

	want := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	if !batch.Current.LastUpdated.Equal(want) {
		t.Errorf("expected last_updated %v, got %v", want, batch.Current.LastUpdated)
	}
	if batch.Current.TempC != 35.0 {
		t.Errorf("expected temp_c 35.0, got %v", batch.Current.TempC)
	}
	if batch.Current.Humidity != 10 || batch.Current.WindDir != "SSW" {
		t.Errorf("unexpected current fields: %+v", batch.Current)
	}

	if batch.Condition.Text != "Sunny" || batch.Condition.Code != 1000 {
		t.Errorf("unexpected condition: %+v", batch.Condition)
	}
}

func TestMapCurrentBadTimestamp(t *testing.T) {
	doc := `{"location": {"name": "Tempe"}, "current": {"last_updated": "June 1st", "temp_c": 35.0}}`

	_, err := MapCurrent([]byte(doc))
	var mapErr *MappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected MappingError, got %v", err)
	}
}

func TestMapCurrentMissingSection(t *testing.T) {
	doc := `{"location": {"name": "Tempe"}}`

	if _, err := MapCurrent([]byte(doc)); err == nil {
		t.Fatal("expected error for document without current section")
	}
}

func TestMapForecast(t *testing.T) {
	batch, err := MapForecast([]byte(forecastDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !batch.Forecast.Date.Equal(wantDate) {
		t.Errorf("expected date %v, got %v", wantDate, batch.Forecast.Date)
	}
	if batch.Daily.MaxtempC != 41.2 || batch.Daily.DailyChanceOfRain != 0 {
		t.Errorf("unexpected daily: %+v", batch.Daily)
	}
	if batch.DailyCondition.Text != "Sunny" {
		t.Errorf("unexpected daily condition: %+v", batch.DailyCondition)
	}
	if batch.Astro.Sunrise != "05:19 AM" || batch.Astro.MoonPhase != "Waning Crescent" {
		t.Errorf("unexpected astro: %+v", batch.Astro)
	}

	if len(batch.Hourly) != 2 {
		t.Fatalf("expected 2 hourly entries, got %d", len(batch.Hourly))
	}
	wantHour := time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)
	if !batch.Hourly[1].Hourly.Time.Equal(wantHour) {
		t.Errorf("expected hour %v, got %v", wantHour, batch.Hourly[1].Hourly.Time)
	}
	if batch.Hourly[0].Condition.Text != "Clear" {
		t.Errorf("unexpected hourly condition: %+v", batch.Hourly[0].Condition)
	}
}

func TestMapForecastMissingHourArray(t *testing.T) {
	doc := `{
		"location": {"name": "Tempe", "region": "Arizona", "country": "USA"},
		"forecast": {"forecastday": [{
			"date": "2024-06-01",
			"day": {"maxtemp_c": 41.2, "condition": {"text": "Sunny", "code": 1000}},
			"astro": {"sunrise": "05:19 AM"}
		}]}
	}`

	batch, err := MapForecast([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Hourly) != 0 {
		t.Errorf("expected no hourly entries, got %d", len(batch.Hourly))
	}
	if batch.Daily.MaxtempC != 41.2 {
		t.Errorf("daily section should still map, got %+v", batch.Daily)
	}
}

func TestMapForecastBadHourTimestamp(t *testing.T) {
	doc := `{
		"location": {"name": "Tempe"},
		"forecast": {"forecastday": [{
			"date": "2024-06-01",
			"day": {"condition": {"text": "Sunny"}},
			"astro": {"sunrise": "05:19 AM"},
			"hour": [{"time": "midnightish", "temp_c": 28.0, "condition": {"text": "Clear"}}]
		}]}
	}`

	var mapErr *MappingError
	if _, err := MapForecast([]byte(doc)); !errors.As(err, &mapErr) {
		t.Fatalf("expected MappingError, got %v", err)
	}
}
