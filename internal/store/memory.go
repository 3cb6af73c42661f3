package store

import (
	"context"
	"sync"

	"github.com/mrgud155/weatherman/internal/model"
)

// MemoryStore is a concurrency-safe in-memory implementation of Store. It
// enforces the same uniqueness keys as the relational schema and backs the
// pipeline, scheduler and HTTP tests.
type MemoryStore struct {
	mu sync.RWMutex

	nextID int64

	locations  []model.Location
	current    []model.CurrentWeather
	forecasts  []model.Forecast
	daily      []model.Daily
	astro      []model.Astro
	hourly     []model.Hourly
	conditions []model.Condition
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) sequence() int64 {
	s.nextID++
	return s.nextID
}

// UpsertLocation inserts the location or returns the existing row with the
// same (name, region, country).
func (s *MemoryStore) UpsertLocation(_ context.Context, loc model.Location) (model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.locations {
		if existing.Name == loc.Name && existing.Region == loc.Region && existing.Country == loc.Country {
			return existing, nil
		}
	}

	loc.ID = s.sequence()
	s.locations = append(s.locations, loc)
	return loc, nil
}

// UpsertForecast inserts the forecast header or returns the existing row with
// the same (date, location_id).
func (s *MemoryStore) UpsertForecast(_ context.Context, f model.Forecast) (model.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.forecasts {
		if existing.Date.Equal(f.Date) && existing.LocationID == f.LocationID {
			return existing, nil
		}
	}

	f.ID = s.sequence()
	s.forecasts = append(s.forecasts, f)
	return f, nil
}

func (s *MemoryStore) InsertCurrentWeather(_ context.Context, cw model.CurrentWeather) (model.CurrentWeather, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.current {
		if existing.LastUpdated.Equal(cw.LastUpdated) && existing.LocationID == cw.LocationID {
			return model.CurrentWeather{}, ErrDuplicate
		}
	}

	cw.ID = s.sequence()
	s.current = append(s.current, cw)
	return cw, nil
}

func (s *MemoryStore) InsertDaily(_ context.Context, d model.Daily) (model.Daily, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.daily {
		if existing.ForecastID == d.ForecastID {
			return model.Daily{}, ErrDuplicate
		}
	}

	d.ID = s.sequence()
	s.daily = append(s.daily, d)
	return d, nil
}

func (s *MemoryStore) InsertAstro(_ context.Context, a model.Astro) (model.Astro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.astro {
		if existing.ForecastID == a.ForecastID {
			return model.Astro{}, ErrDuplicate
		}
	}

	a.ID = s.sequence()
	s.astro = append(s.astro, a)
	return a, nil
}

func (s *MemoryStore) InsertHourly(_ context.Context, h model.Hourly) (model.Hourly, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.hourly {
		if existing.Time.Equal(h.Time) {
			return model.Hourly{}, ErrDuplicate
		}
	}

	h.ID = s.sequence()
	s.hourly = append(s.hourly, h)
	return h, nil
}

func (s *MemoryStore) InsertCondition(_ context.Context, c model.Condition) (model.Condition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.conditions {
		if sameOwner(existing.CurrentWeatherID, c.CurrentWeatherID) ||
			sameOwner(existing.DailyID, c.DailyID) ||
			sameOwner(existing.HourlyID, c.HourlyID) {
			return model.Condition{}, ErrDuplicate
		}
	}

	c.ID = s.sequence()
	s.conditions = append(s.conditions, c)
	return c, nil
}

func sameOwner(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func (s *MemoryStore) Locations(_ context.Context) ([]model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Location, len(s.locations))
	copy(out, s.locations)
	return out, nil
}

func (s *MemoryStore) LocationByID(_ context.Context, id int64) (model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, loc := range s.locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return model.Location{}, ErrNotFound
}

// LatestCurrent returns the most recently observed CurrentWeather for the
// location, joined with its condition and the location row.
func (s *MemoryStore) LatestCurrent(_ context.Context, locationID int64) (CurrentObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest model.CurrentWeather
		found  bool
	)
	for _, cw := range s.current {
		if cw.LocationID != locationID {
			continue
		}
		if !found || cw.LastUpdated.After(latest.LastUpdated) {
			latest = cw
			found = true
		}
	}
	if !found {
		return CurrentObservation{}, ErrNotFound
	}

	obs := CurrentObservation{CurrentWeather: latest}
	for _, loc := range s.locations {
		if loc.ID == locationID {
			obs.Location = loc
			break
		}
	}
	for _, c := range s.conditions {
		if sameOwner(c.CurrentWeatherID, &latest.ID) {
			obs.Condition = c
			break
		}
	}
	return obs, nil
}

// LatestDailyForecast returns the daily summary of the most recent forecast
// header for the location, joined with its condition.
func (s *MemoryStore) LatestDailyForecast(_ context.Context, locationID int64) (DailyForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest model.Forecast
		found  bool
	)
	for _, f := range s.forecasts {
		if f.LocationID != locationID {
			continue
		}
		if !found || f.Date.After(latest.Date) {
			latest = f
			found = true
		}
	}
	if !found {
		return DailyForecast{}, ErrNotFound
	}

	var out DailyForecast
	out.Forecast = latest
	for _, d := range s.daily {
		if d.ForecastID == latest.ID {
			out.Daily = d
			break
		}
	}
	if out.Daily.ID == 0 {
		return DailyForecast{}, ErrNotFound
	}
	for _, c := range s.conditions {
		if sameOwner(c.DailyID, &out.Daily.ID) {
			out.Condition = c
			break
		}
	}
	return out, nil
}

// Counts holds per-table row totals.
type Counts struct {
	Locations      int
	CurrentWeather int
	Forecasts      int
	Daily          int
	Astro          int
	Hourly         int
	Conditions     int
}

// Counts reports how many rows each table holds.
func (s *MemoryStore) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Counts{
		Locations:      len(s.locations),
		CurrentWeather: len(s.current),
		Forecasts:      len(s.forecasts),
		Daily:          len(s.daily),
		Astro:          len(s.astro),
		Hourly:         len(s.hourly),
		Conditions:     len(s.conditions),
	}
}

var _ Store = (*MemoryStore)(nil)
