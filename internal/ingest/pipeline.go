package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mrgud155/weatherman/internal/model"
	"github.com/mrgud155/weatherman/internal/store"
	"github.com/mrgud155/weatherman/internal/weatherapi"
)

// Fetcher fetches one raw document per call.
type Fetcher interface {
	Fetch(ctx context.Context, location, kind string) ([]byte, error)
}

// Pipeline runs one ingestion tick: fetch, map, persist. Persistence is
// entity-by-entity in dependency order; a failing entity is logged and
// skipped while its siblings are still attempted, so re-running the same
// document converges to the same rows.
type Pipeline struct {
	fetcher Fetcher
	store   store.Store
}

// NewPipeline creates a Pipeline.
func NewPipeline(fetcher Fetcher, st store.Store) *Pipeline {
	return &Pipeline{fetcher: fetcher, store: st}
}

// Collect ingests both the current-conditions and the forecast document for
// the location. Each document's failure is contained and logged; the returned
// error only reports that the tick was not fully successful.
func (p *Pipeline) Collect(ctx context.Context, location string) error {
	run := uuid.NewString()

	var errs []error
	if err := p.collectCurrent(ctx, run, location); err != nil {
		log.Printf("ingest[%s]: current ingestion failed for %s: %v", run, location, err)
		errs = append(errs, err)
	}
	if err := p.collectForecast(ctx, run, location); err != nil {
		log.Printf("ingest[%s]: forecast ingestion failed for %s: %v", run, location, err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (p *Pipeline) collectCurrent(ctx context.Context, run, location string) error {
	raw, err := p.fetcher.Fetch(ctx, location, weatherapi.KindCurrent)
	if err != nil {
		return err
	}

	batch, err := MapCurrent(raw)
	if err != nil {
		return err
	}
	return p.saveCurrent(ctx, run, batch)
}

func (p *Pipeline) collectForecast(ctx context.Context, run, location string) error {
	raw, err := p.fetcher.Fetch(ctx, location, weatherapi.KindForecast)
	if err != nil {
		return err
	}

	batch, err := MapForecast(raw)
	if err != nil {
		return err
	}
	return p.saveForecast(ctx, run, batch)
}

func (p *Pipeline) saveCurrent(ctx context.Context, run string, batch model.CurrentBatch) error {
	loc, err := p.store.UpsertLocation(ctx, batch.Location)
	if err != nil {
		return fmt.Errorf("upsert location %q: %w", batch.Location.Name, err)
	}

	cw := batch.Current
	cw.LocationID = loc.ID
	saved, err := p.store.InsertCurrentWeather(ctx, cw)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		log.Printf("ingest[%s]: observation %s for %s already recorded, skipping", run, cw.LastUpdated, loc.Name)
		return nil
	case err != nil:
		log.Printf("ingest[%s]: insert current weather for %s: %v", run, loc.Name, err)
		return nil
	}

	cond := batch.Condition
	cond.CurrentWeatherID = &saved.ID
	if _, err := p.store.InsertCondition(ctx, cond); err != nil && !errors.Is(err, store.ErrDuplicate) {
		log.Printf("ingest[%s]: insert condition for current weather %d: %v", run, saved.ID, err)
	}
	return nil
}

func (p *Pipeline) saveForecast(ctx context.Context, run string, batch model.ForecastBatch) error {
	loc, err := p.store.UpsertLocation(ctx, batch.Location)
	if err != nil {
		return fmt.Errorf("upsert location %q: %w", batch.Location.Name, err)
	}

	fc := batch.Forecast
	fc.LocationID = loc.ID
	fc, err = p.store.UpsertForecast(ctx, fc)
	if err != nil {
		// Everything below hangs off the forecast id.
		return fmt.Errorf("upsert forecast %s for %q: %w", batch.Forecast.Date.Format(dateLayout), loc.Name, err)
	}

	daily := batch.Daily
	daily.ForecastID = fc.ID
	savedDaily, err := p.store.InsertDaily(ctx, daily)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		log.Printf("ingest[%s]: daily summary for forecast %d already recorded, skipping", run, fc.ID)
	case err != nil:
		log.Printf("ingest[%s]: insert daily for forecast %d: %v", run, fc.ID, err)
	default:
		cond := batch.DailyCondition
		cond.DailyID = &savedDaily.ID
		if _, err := p.store.InsertCondition(ctx, cond); err != nil && !errors.Is(err, store.ErrDuplicate) {
			log.Printf("ingest[%s]: insert condition for daily %d: %v", run, savedDaily.ID, err)
		}
	}

	astro := batch.Astro
	astro.ForecastID = fc.ID
	if _, err := p.store.InsertAstro(ctx, astro); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Printf("ingest[%s]: astro for forecast %d already recorded, skipping", run, fc.ID)
		} else {
			log.Printf("ingest[%s]: insert astro for forecast %d: %v", run, fc.ID, err)
		}
	}

	for _, entry := range batch.Hourly {
		hour := entry.Hourly
		hour.ForecastID = fc.ID
		savedHour, err := p.store.InsertHourly(ctx, hour)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			continue
		case err != nil:
			// One bad hour must not block the remaining hours.
			log.Printf("ingest[%s]: insert hourly %s for forecast %d: %v", run, hour.Time, fc.ID, err)
			continue
		}

		cond := entry.Condition
		cond.HourlyID = &savedHour.ID
		if _, err := p.store.InsertCondition(ctx, cond); err != nil && !errors.Is(err, store.ErrDuplicate) {
			log.Printf("ingest[%s]: insert condition for hourly %d: %v", run, savedHour.ID, err)
		}
	}

	return nil
}
