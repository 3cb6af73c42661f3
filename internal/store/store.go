// Package store defines the persistence contract for ingested weather data.
package store

import (
	"context"
	"errors"

	"github.com/mrgud155/weatherman/internal/model"
)

var (
	// ErrNotFound is returned when no row matches a query.
	ErrNotFound = errors.New("no weather data for location")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint. Callers resolve it by lookup or by skipping the row;
	// it never signals a real failure.
	ErrDuplicate = errors.New("row already exists")
)

// CurrentObservation is a CurrentWeather row joined with its condition and
// location, the shape the read API serves.
type CurrentObservation struct {
	model.CurrentWeather
	Condition model.Condition `json:"condition"`
	Location  model.Location  `json:"location"`
}

// DailyForecast is a Daily row joined with its condition and the forecast
// header it belongs to.
type DailyForecast struct {
	model.Daily
	Condition model.Condition `json:"condition"`
	Forecast  model.Forecast  `json:"forecast_metadata"`
}

// Store is the contract both the Postgres store and the in-memory store
// satisfy.
//
// Upsert methods insert the row and, when the insert hits the entity's
// uniqueness constraint, fetch and return the pre-existing row instead.
// Insert methods return ErrDuplicate on a uniqueness conflict and leave
// conflict handling to the caller. Every method acquires and releases its
// own connection scope; none holds state across calls.
type Store interface {
	UpsertLocation(ctx context.Context, loc model.Location) (model.Location, error)
	UpsertForecast(ctx context.Context, f model.Forecast) (model.Forecast, error)

	InsertCurrentWeather(ctx context.Context, cw model.CurrentWeather) (model.CurrentWeather, error)
	InsertDaily(ctx context.Context, d model.Daily) (model.Daily, error)
	InsertAstro(ctx context.Context, a model.Astro) (model.Astro, error)
	InsertHourly(ctx context.Context, h model.Hourly) (model.Hourly, error)
	InsertCondition(ctx context.Context, c model.Condition) (model.Condition, error)

	Locations(ctx context.Context) ([]model.Location, error)
	LocationByID(ctx context.Context, id int64) (model.Location, error)
	LatestCurrent(ctx context.Context, locationID int64) (CurrentObservation, error)
	LatestDailyForecast(ctx context.Context, locationID int64) (DailyForecast, error)
}
