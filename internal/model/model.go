// Package model holds the persisted weather entities and the in-memory
// batches the ingestion pipeline produces from one upstream document.
package model

import "time"

// Location is a place we track weather for. A location is identified by the
// (name, region, country) triple; rows are created on first ingestion.
type Location struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TzID    string  `json:"tz_id"`
}

// CurrentWeather is one observed snapshot of instantaneous conditions.
// (LastUpdated, LocationID) is unique: re-fetching the same observation must
// not produce a second row.
type CurrentWeather struct {
	ID          int64     `json:"id"`
	LocationID  int64     `json:"location_id"`
	LastUpdated time.Time `json:"last_updated"`
	TempC       float64   `json:"temp_c"`
	TempF       float64   `json:"temp_f"`
	IsDay       int       `json:"is_day"`
	WindMph     float64   `json:"wind_mph"`
	WindKph     float64   `json:"wind_kph"`
	WindDegree  int       `json:"wind_degree"`
	WindDir     string    `json:"wind_dir"`
	PressureMb  float64   `json:"pressure_mb"`
	PressureIn  float64   `json:"pressure_in"`
	PrecipMm    float64   `json:"precip_mm"`
	PrecipIn    float64   `json:"precip_in"`
	Humidity    int       `json:"humidity"`
	Cloud       int       `json:"cloud"`
	FeelslikeC  float64   `json:"feelslike_c"`
	FeelslikeF  float64   `json:"feelslike_f"`
	VisKm       float64   `json:"vis_km"`
	VisMiles    float64   `json:"vis_miles"`
	UV          float64   `json:"uv"`
	GustMph     float64   `json:"gust_mph"`
	GustKph     float64   `json:"gust_kph"`
}

// Condition is a (text, icon, code) weather description. Each row belongs to
// exactly one owner; the matching FK is set and the other two stay nil.
type Condition struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`

	CurrentWeatherID *int64 `json:"-"`
	DailyID          *int64 `json:"-"`
	HourlyID         *int64 `json:"-"`
}

// Forecast is the per-day forecast header. (Date, LocationID) is unique.
type Forecast struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	Date       time.Time `json:"date"`
}

// Daily holds the aggregated daily statistics for one forecast day.
type Daily struct {
	ID                int64   `json:"id"`
	ForecastID        int64   `json:"forecast_id"`
	MaxtempC          float64 `json:"maxtemp_c"`
	MaxtempF          float64 `json:"maxtemp_f"`
	MintempC          float64 `json:"mintemp_c"`
	MintempF          float64 `json:"mintemp_f"`
	AvgtempC          float64 `json:"avgtemp_c"`
	AvgtempF          float64 `json:"avgtemp_f"`
	MaxwindMph        float64 `json:"maxwind_mph"`
	MaxwindKph        float64 `json:"maxwind_kph"`
	TotalprecipMm     float64 `json:"totalprecip_mm"`
	TotalprecipIn     float64 `json:"totalprecip_in"`
	TotalsnowCm       float64 `json:"totalsnow_cm"`
	AvgvisKm          float64 `json:"avgvis_km"`
	AvgvisMiles       float64 `json:"avgvis_miles"`
	Avghumidity       float64 `json:"avghumidity"`
	DailyWillItRain   int     `json:"daily_will_it_rain"`
	DailyChanceOfRain int     `json:"daily_chance_of_rain"`
	DailyWillItSnow   int     `json:"daily_will_it_snow"`
	DailyChanceOfSnow int     `json:"daily_chance_of_snow"`
	UV                float64 `json:"uv"`
}

// Astro holds the astronomical data for one forecast day.
type Astro struct {
	ID               int64  `json:"id"`
	ForecastID       int64  `json:"forecast_id"`
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination string `json:"moon_illumination"`
	IsMoonUp         int    `json:"is_moon_up"`
	IsSunUp          int    `json:"is_sun_up"`
}

// Hourly is one hour of a forecast day. Time is unique across all hourly rows.
type Hourly struct {
	ID           int64     `json:"id"`
	ForecastID   int64     `json:"forecast_id"`
	Time         time.Time `json:"time"`
	TempC        float64   `json:"temp_c"`
	TempF        float64   `json:"temp_f"`
	IsDay        int       `json:"is_day"`
	WindMph      float64   `json:"wind_mph"`
	WindKph      float64   `json:"wind_kph"`
	WindDegree   int       `json:"wind_degree"`
	WindDir      string    `json:"wind_dir"`
	PressureMb   float64   `json:"pressure_mb"`
	PressureIn   float64   `json:"pressure_in"`
	PrecipMm     float64   `json:"precip_mm"`
	PrecipIn     float64   `json:"precip_in"`
	SnowCm       float64   `json:"snow_cm"`
	Humidity     int       `json:"humidity"`
	Cloud        int       `json:"cloud"`
	FeelslikeC   float64   `json:"feelslike_c"`
	FeelslikeF   float64   `json:"feelslike_f"`
	WindchillC   float64   `json:"windchill_c"`
	WindchillF   float64   `json:"windchill_f"`
	HeatindexC   float64   `json:"heatindex_c"`
	HeatindexF   float64   `json:"heatindex_f"`
	DewpointC    float64   `json:"dewpoint_c"`
	DewpointF    float64   `json:"dewpoint_f"`
	WillItRain   int       `json:"will_it_rain"`
	ChanceOfRain int       `json:"chance_of_rain"`
	WillItSnow   int       `json:"will_it_snow"`
	ChanceOfSnow int       `json:"chance_of_snow"`
	VisKm        float64   `json:"vis_km"`
	VisMiles     float64   `json:"vis_miles"`
	GustMph      float64   `json:"gust_mph"`
	GustKph      float64   `json:"gust_kph"`
	UV           float64   `json:"uv"`
}

// CurrentBatch is the detached record graph mapped from one "current"
// document. IDs and foreign keys are unset until the store assigns them.
type CurrentBatch struct {
	Location  Location
	Current   CurrentWeather
	Condition Condition
}

// HourlyEntry pairs one hourly record with its condition.
type HourlyEntry struct {
	Hourly    Hourly
	Condition Condition
}

// ForecastBatch is the detached record graph mapped from one "forecast"
// document.
type ForecastBatch struct {
	Location       Location
	Forecast       Forecast
	Daily          Daily
	DailyCondition Condition
	Astro          Astro
	Hourly         []HourlyEntry
}
