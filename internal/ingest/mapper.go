// Package ingest maps upstream documents into relational batches and drives
// their persistence.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrgud155/weatherman/internal/model"
)

// Timestamp layouts used by the upstream payloads.
const (
	observationLayout = "2006-01-02 15:04"
	dateLayout        = "2006-01-02"
)

// MappingError reports a document that could not be mapped. The whole
// document is discarded; nothing partial is emitted.
type MappingError struct {
	Kind string
	Err  error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("ingest: cannot map %s document: %v", e.Kind, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

type conditionPayload struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type locationPayload struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TzID    string  `json:"tz_id"`
}

type currentPayload struct {
	LastUpdated string           `json:"last_updated"`
	TempC       float64          `json:"temp_c"`
	TempF       float64          `json:"temp_f"`
	IsDay       int              `json:"is_day"`
	WindMph     float64          `json:"wind_mph"`
	WindKph     float64          `json:"wind_kph"`
	WindDegree  int              `json:"wind_degree"`
	WindDir     string           `json:"wind_dir"`
	PressureMb  float64          `json:"pressure_mb"`
	PressureIn  float64          `json:"pressure_in"`
	PrecipMm    float64          `json:"precip_mm"`
	PrecipIn    float64          `json:"precip_in"`
	Humidity    int              `json:"humidity"`
	Cloud       int              `json:"cloud"`
	FeelslikeC  float64          `json:"feelslike_c"`
	FeelslikeF  float64          `json:"feelslike_f"`
	VisKm       float64          `json:"vis_km"`
	VisMiles    float64          `json:"vis_miles"`
	UV          float64          `json:"uv"`
	GustMph     float64          `json:"gust_mph"`
	GustKph     float64          `json:"gust_kph"`
	Condition   conditionPayload `json:"condition"`
}

type dayPayload struct {
	MaxtempC          float64          `json:"maxtemp_c"`
	MaxtempF          float64          `json:"maxtemp_f"`
	MintempC          float64          `json:"mintemp_c"`
	MintempF          float64          `json:"mintemp_f"`
	AvgtempC          float64          `json:"avgtemp_c"`
	AvgtempF          float64          `json:"avgtemp_f"`
	MaxwindMph        float64          `json:"maxwind_mph"`
	MaxwindKph        float64          `json:"maxwind_kph"`
	TotalprecipMm     float64          `json:"totalprecip_mm"`
	TotalprecipIn     float64          `json:"totalprecip_in"`
	TotalsnowCm       float64          `json:"totalsnow_cm"`
	AvgvisKm          float64          `json:"avgvis_km"`
	AvgvisMiles       float64          `json:"avgvis_miles"`
	Avghumidity       float64          `json:"avghumidity"`
	DailyWillItRain   int              `json:"daily_will_it_rain"`
	DailyChanceOfRain int              `json:"daily_chance_of_rain"`
	DailyWillItSnow   int              `json:"daily_will_it_snow"`
	DailyChanceOfSnow int              `json:"daily_chance_of_snow"`
	UV                float64          `json:"uv"`
	Condition         conditionPayload `json:"condition"`
}

type astroPayload struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination string `json:"moon_illumination"`
	IsMoonUp         int    `json:"is_moon_up"`
	IsSunUp          int    `json:"is_sun_up"`
}

type hourPayload struct {
	Time         string           `json:"time"`
	TempC        float64          `json:"temp_c"`
	TempF        float64          `json:"temp_f"`
	IsDay        int              `json:"is_day"`
	WindMph      float64          `json:"wind_mph"`
	WindKph      float64          `json:"wind_kph"`
	WindDegree   int              `json:"wind_degree"`
	WindDir      string           `json:"wind_dir"`
	PressureMb   float64          `json:"pressure_mb"`
	PressureIn   float64          `json:"pressure_in"`
	PrecipMm     float64          `json:"precip_mm"`
	PrecipIn     float64          `json:"precip_in"`
	SnowCm       float64          `json:"snow_cm"`
	Humidity     int              `json:"humidity"`
	Cloud        int              `json:"cloud"`
	FeelslikeC   float64          `json:"feelslike_c"`
	FeelslikeF   float64          `json:"feelslike_f"`
	WindchillC   float64          `json:"windchill_c"`
	WindchillF   float64          `json:"windchill_f"`
	HeatindexC   float64          `json:"heatindex_c"`
	HeatindexF   float64          `json:"heatindex_f"`
	DewpointC    float64          `json:"dewpoint_c"`
	DewpointF    float64          `json:"dewpoint_f"`
	WillItRain   int              `json:"will_it_rain"`
	ChanceOfRain int              `json:"chance_of_rain"`
	WillItSnow   int              `json:"will_it_snow"`
	ChanceOfSnow int              `json:"chance_of_snow"`
	VisKm        float64          `json:"vis_km"`
	VisMiles     float64          `json:"vis_miles"`
	GustMph      float64          `json:"gust_mph"`
	GustKph      float64          `json:"gust_kph"`
	UV           float64          `json:"uv"`
	Condition    conditionPayload `json:"condition"`
}

type forecastDayPayload struct {
	Date  string         `json:"date"`
	Day   *dayPayload    `json:"day"`
	Astro *astroPayload  `json:"astro"`
	Hour  []*hourPayload `json:"hour"`
}

type document struct {
	Location *locationPayload `json:"location"`
	Current  *currentPayload  `json:"current"`
	Forecast *struct {
		ForecastDay []*forecastDayPayload `json:"forecastday"`
	} `json:"forecast"`
}

// MapCurrent turns a raw "current" document into a detached record graph.
func MapCurrent(raw []byte) (model.CurrentBatch, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.CurrentBatch{}, &MappingError{Kind: "current", Err: err}
	}
	if doc.Location == nil || doc.Current == nil {
		return model.CurrentBatch{}, &MappingError{Kind: "current", Err: fmt.Errorf("missing location or current section")}
	}

	lastUpdated, err := time.Parse(observationLayout, doc.Current.LastUpdated)
	if err != nil {
		return model.CurrentBatch{}, &MappingError{Kind: "current", Err: err}
	}

	cur := doc.Current
	return model.CurrentBatch{
		Location: mapLocation(doc.Location),
		Current: model.CurrentWeather{
			LastUpdated: lastUpdated,
			TempC:       cur.TempC,
			TempF:       cur.TempF,
			IsDay:       cur.IsDay,
			WindMph:     cur.WindMph,
			WindKph:     cur.WindKph,
			WindDegree:  cur.WindDegree,
			WindDir:     cur.WindDir,
			PressureMb:  cur.PressureMb,
			PressureIn:  cur.PressureIn,
			PrecipMm:    cur.PrecipMm,
			PrecipIn:    cur.PrecipIn,
			Humidity:    cur.Humidity,
			Cloud:       cur.Cloud,
			FeelslikeC:  cur.FeelslikeC,
			FeelslikeF:  cur.FeelslikeF,
			VisKm:       cur.VisKm,
			VisMiles:    cur.VisMiles,
			UV:          cur.UV,
			GustMph:     cur.GustMph,
			GustKph:     cur.GustKph,
		},
		Condition: mapCondition(cur.Condition),
	}, nil
}

// MapForecast turns a raw "forecast" document into a detached record graph
// covering the first forecast day. A missing hour array yields an empty
// hourly list so the rest of the batch can still be persisted; a malformed
// timestamp anywhere rejects the whole document.
func MapForecast(raw []byte) (model.ForecastBatch, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.ForecastBatch{}, &MappingError{Kind: "forecast", Err: err}
	}
	if doc.Location == nil || doc.Forecast == nil || len(doc.Forecast.ForecastDay) == 0 {
		return model.ForecastBatch{}, &MappingError{Kind: "forecast", Err: fmt.Errorf("missing location or forecast section")}
	}

	day := doc.Forecast.ForecastDay[0]
	if day.Day == nil || day.Astro == nil {
		return model.ForecastBatch{}, &MappingError{Kind: "forecast", Err: fmt.Errorf("missing day or astro section")}
	}

	date, err := time.Parse(dateLayout, day.Date)
	if err != nil {
		return model.ForecastBatch{}, &MappingError{Kind: "forecast", Err: err}
	}

	batch := model.ForecastBatch{
		Location: mapLocation(doc.Location),
		Forecast: model.Forecast{Date: date},
		Daily: model.Daily{
			MaxtempC:          day.Day.MaxtempC,
			MaxtempF:          day.Day.MaxtempF,
			MintempC:          day.Day.MintempC,
			MintempF:          day.Day.MintempF,
			AvgtempC:          day.Day.AvgtempC,
			AvgtempF:          day.Day.AvgtempF,
			MaxwindMph:        day.Day.MaxwindMph,
			MaxwindKph:        day.Day.MaxwindKph,
			TotalprecipMm:     day.Day.TotalprecipMm,
			TotalprecipIn:     day.Day.TotalprecipIn,
			TotalsnowCm:       day.Day.TotalsnowCm,
			AvgvisKm:          day.Day.AvgvisKm,
			AvgvisMiles:       day.Day.AvgvisMiles,
			Avghumidity:       day.Day.Avghumidity,
			DailyWillItRain:   day.Day.DailyWillItRain,
			DailyChanceOfRain: day.Day.DailyChanceOfRain,
			DailyWillItSnow:   day.Day.DailyWillItSnow,
			DailyChanceOfSnow: day.Day.DailyChanceOfSnow,
			UV:                day.Day.UV,
		},
		DailyCondition: mapCondition(day.Day.Condition),
		Astro: model.Astro{
			Sunrise:          day.Astro.Sunrise,
			Sunset:           day.Astro.Sunset,
			Moonrise:         day.Astro.Moonrise,
			Moonset:          day.Astro.Moonset,
			MoonPhase:        day.Astro.MoonPhase,
			MoonIllumination: day.Astro.MoonIllumination,
			IsMoonUp:         day.Astro.IsMoonUp,
			IsSunUp:          day.Astro.IsSunUp,
		},
	}

	for _, hour := range day.Hour {
		ts, err := time.Parse(observationLayout, hour.Time)
		if err != nil {
			return model.ForecastBatch{}, &MappingError{Kind: "forecast", Err: err}
		}
		batch.Hourly = append(batch.Hourly, model.HourlyEntry{
			Hourly: model.Hourly{
				Time:         ts,
				TempC:        hour.TempC,
				TempF:        hour.TempF,
				IsDay:        hour.IsDay,
				WindMph:      hour.WindMph,
				WindKph:      hour.WindKph,
				WindDegree:   hour.WindDegree,
				WindDir:      hour.WindDir,
				PressureMb:   hour.PressureMb,
				PressureIn:   hour.PressureIn,
				PrecipMm:     hour.PrecipMm,
				PrecipIn:     hour.PrecipIn,
				SnowCm:       hour.SnowCm,
				Humidity:     hour.Humidity,
				Cloud:        hour.Cloud,
				FeelslikeC:   hour.FeelslikeC,
				FeelslikeF:   hour.FeelslikeF,
				WindchillC:   hour.WindchillC,
				WindchillF:   hour.WindchillF,
				HeatindexC:   hour.HeatindexC,
				HeatindexF:   hour.HeatindexF,
				DewpointC:    hour.DewpointC,
				DewpointF:    hour.DewpointF,
				WillItRain:   hour.WillItRain,
				ChanceOfRain: hour.ChanceOfRain,
				WillItSnow:   hour.WillItSnow,
				ChanceOfSnow: hour.ChanceOfSnow,
				VisKm:        hour.VisKm,
				VisMiles:     hour.VisMiles,
				GustMph:      hour.GustMph,
				GustKph:      hour.GustKph,
				UV:           hour.UV,
			},
			Condition: mapCondition(hour.Condition),
		})
	}

	return batch, nil
}

func mapLocation(p *locationPayload) model.Location {
	return model.Location{
		Name:    p.Name,
		Region:  p.Region,
		Country: p.Country,
		Lat:     p.Lat,
		Lon:     p.Lon,
		TzID:    p.TzID,
	}
}

func mapCondition(p conditionPayload) model.Condition {
	return model.Condition{
		Text: p.Text,
		Icon: p.Icon,
		Code: p.Code,
	}
}
