// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrgud155/weatherman/internal/model"
	"github.com/mrgud155/weatherman/internal/store"
)

// Store implements store.Store against PostgreSQL. Every call acquires a
// pooled connection and releases it before returning; nothing is cached
// between calls.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Health checks database connectivity.
func (s *Store) Health(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UpsertLocation inserts the location; when the insert hits the
// (name, region, country) constraint it fetches and returns the existing row.
func (s *Store) UpsertLocation(ctx context.Context, loc model.Location) (model.Location, error) {
	const insert = `
		INSERT INTO locations (name, region, country, lat, lon, tz_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert,
		loc.Name, loc.Region, loc.Country, loc.Lat, loc.Lon, loc.TzID,
	).Scan(&loc.ID)
	if err == nil {
		return loc, nil
	}
	if !isUniqueViolation(err) {
		return model.Location{}, fmt.Errorf("postgres: insert location: %w", err)
	}

	const sel = `
		SELECT id, name, region, country, lat, lon, tz_id
		FROM locations
		WHERE name = $1 AND region = $2 AND country = $3
	`

	var existing model.Location
	err = s.pool.QueryRow(ctx, sel, loc.Name, loc.Region, loc.Country).Scan(
		&existing.ID, &existing.Name, &existing.Region, &existing.Country,
		&existing.Lat, &existing.Lon, &existing.TzID,
	)
	if err != nil {
		return model.Location{}, fmt.Errorf("postgres: fetch existing location: %w", err)
	}
	return existing, nil
}

// UpsertForecast inserts the forecast header; on a (date, location_id)
// conflict it fetches and returns the existing row.
func (s *Store) UpsertForecast(ctx context.Context, f model.Forecast) (model.Forecast, error) {
	const insert = `
		INSERT INTO forecasts (location_id, date)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert, f.LocationID, f.Date).Scan(&f.ID)
	if err == nil {
		return f, nil
	}
	if !isUniqueViolation(err) {
		return model.Forecast{}, fmt.Errorf("postgres: insert forecast: %w", err)
	}

	const sel = `
		SELECT id, location_id, date
		FROM forecasts
		WHERE date = $1 AND location_id = $2
	`

	var existing model.Forecast
	err = s.pool.QueryRow(ctx, sel, f.Date, f.LocationID).Scan(
		&existing.ID, &existing.LocationID, &existing.Date,
	)
	if err != nil {
		return model.Forecast{}, fmt.Errorf("postgres: fetch existing forecast: %w", err)
	}
	return existing, nil
}

func (s *Store) InsertCurrentWeather(ctx context.Context, cw model.CurrentWeather) (model.CurrentWeather, error) {
	const insert = `
		INSERT INTO current_weather (
			location_id, last_updated, temp_c, temp_f, is_day,
			wind_mph, wind_kph, wind_degree, wind_dir,
			pressure_mb, pressure_in, precip_mm, precip_in,
			humidity, cloud, feelslike_c, feelslike_f,
			vis_km, vis_miles, uv, gust_mph, gust_kph
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert,
		cw.LocationID, cw.LastUpdated, cw.TempC, cw.TempF, cw.IsDay,
		cw.WindMph, cw.WindKph, cw.WindDegree, cw.WindDir,
		cw.PressureMb, cw.PressureIn, cw.PrecipMm, cw.PrecipIn,
		cw.Humidity, cw.Cloud, cw.FeelslikeC, cw.FeelslikeF,
		cw.VisKm, cw.VisMiles, cw.UV, cw.GustMph, cw.GustKph,
	).Scan(&cw.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.CurrentWeather{}, fmt.Errorf("current weather: %w", store.ErrDuplicate)
		}
		return model.CurrentWeather{}, fmt.Errorf("postgres: insert current weather: %w", err)
	}
	return cw, nil
}

func (s *Store) InsertDaily(ctx context.Context, d model.Daily) (model.Daily, error) {
	const insert = `
		INSERT INTO daily (
			forecast_id, maxtemp_c, maxtemp_f, mintemp_c, mintemp_f,
			avgtemp_c, avgtemp_f, maxwind_mph, maxwind_kph,
			totalprecip_mm, totalprecip_in, totalsnow_cm,
			avgvis_km, avgvis_miles, avghumidity,
			daily_will_it_rain, daily_chance_of_rain,
			daily_will_it_snow, daily_chance_of_snow, uv
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert,
		d.ForecastID, d.MaxtempC, d.MaxtempF, d.MintempC, d.MintempF,
		d.AvgtempC, d.AvgtempF, d.MaxwindMph, d.MaxwindKph,
		d.TotalprecipMm, d.TotalprecipIn, d.TotalsnowCm,
		d.AvgvisKm, d.AvgvisMiles, d.Avghumidity,
		d.DailyWillItRain, d.DailyChanceOfRain,
		d.DailyWillItSnow, d.DailyChanceOfSnow, d.UV,
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Daily{}, fmt.Errorf("daily: %w", store.ErrDuplicate)
		}
		return model.Daily{}, fmt.Errorf("postgres: insert daily: %w", err)
	}
	return d, nil
}

func (s *Store) InsertAstro(ctx context.Context, a model.Astro) (model.Astro, error) {
	const insert = `
		INSERT INTO astro (
			forecast_id, sunrise, sunset, moonrise, moonset,
			moon_phase, moon_illumination, is_moon_up, is_sun_up
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert,
		a.ForecastID, a.Sunrise, a.Sunset, a.Moonrise, a.Moonset,
		a.MoonPhase, a.MoonIllumination, a.IsMoonUp, a.IsSunUp,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Astro{}, fmt.Errorf("astro: %w", store.ErrDuplicate)
		}
		return model.Astro{}, fmt.Errorf("postgres: insert astro: %w", err)
	}
	return a, nil
}

func (s *Store) InsertHourly(ctx context.Context, h model.Hourly) (model.Hourly, error) {
	const insert = `
		INSERT INTO hourly (
			forecast_id, time, temp_c, temp_f, is_day,
			wind_mph, wind_kph, wind_degree, wind_dir,
			pressure_mb, pressure_in, precip_mm, precip_in, snow_cm,
			humidity, cloud, feelslike_c, feelslike_f,
			windchill_c, windchill_f, heatindex_c, heatindex_f,
			dewpoint_c, dewpoint_f, will_it_rain, chance_of_rain,
			will_it_snow, chance_of_snow, vis_km, vis_miles,
			gust_mph, gust_kph, uv
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22,
			$23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33
		)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert,
		h.ForecastID, h.Time, h.TempC, h.TempF, h.IsDay,
		h.WindMph, h.WindKph, h.WindDegree, h.WindDir,
		h.PressureMb, h.PressureIn, h.PrecipMm, h.PrecipIn, h.SnowCm,
		h.Humidity, h.Cloud, h.FeelslikeC, h.FeelslikeF,
		h.WindchillC, h.WindchillF, h.HeatindexC, h.HeatindexF,
		h.DewpointC, h.DewpointF, h.WillItRain, h.ChanceOfRain,
		h.WillItSnow, h.ChanceOfSnow, h.VisKm, h.VisMiles,
		h.GustMph, h.GustKph, h.UV,
	).Scan(&h.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Hourly{}, fmt.Errorf("hourly: %w", store.ErrDuplicate)
		}
		return model.Hourly{}, fmt.Errorf("postgres: insert hourly: %w", err)
	}
	return h, nil
}

func (s *Store) InsertCondition(ctx context.Context, c model.Condition) (model.Condition, error) {
	const insert = `
		INSERT INTO conditions (text, icon, code, current_weather_id, daily_id, hourly_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, insert,
		c.Text, c.Icon, c.Code, c.CurrentWeatherID, c.DailyID, c.HourlyID,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Condition{}, fmt.Errorf("condition: %w", store.ErrDuplicate)
		}
		return model.Condition{}, fmt.Errorf("postgres: insert condition: %w", err)
	}
	return c, nil
}

func (s *Store) Locations(ctx context.Context) ([]model.Location, error) {
	const q = `SELECT id, name, region, country, lat, lon, tz_id FROM locations ORDER BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: query locations: %w", err)
	}
	defer rows.Close()

	var out []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Region, &loc.Country, &loc.Lat, &loc.Lon, &loc.TzID); err != nil {
			return nil, fmt.Errorf("postgres: scan location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (s *Store) LocationByID(ctx context.Context, id int64) (model.Location, error) {
	const q = `SELECT id, name, region, country, lat, lon, tz_id FROM locations WHERE id = $1`

	var loc model.Location
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&loc.ID, &loc.Name, &loc.Region, &loc.Country, &loc.Lat, &loc.Lon, &loc.TzID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Location{}, store.ErrNotFound
	}
	if err != nil {
		return model.Location{}, fmt.Errorf("postgres: query location: %w", err)
	}
	return loc, nil
}

// LatestCurrent returns the most recent observation for the location joined
// with its condition and the location row.
func (s *Store) LatestCurrent(ctx context.Context, locationID int64) (store.CurrentObservation, error) {
	const q = `
		SELECT cw.id, cw.location_id, cw.last_updated, cw.temp_c, cw.temp_f, cw.is_day,
		       cw.wind_mph, cw.wind_kph, cw.wind_degree, cw.wind_dir,
		       cw.pressure_mb, cw.pressure_in, cw.precip_mm, cw.precip_in,
		       cw.humidity, cw.cloud, cw.feelslike_c, cw.feelslike_f,
		       cw.vis_km, cw.vis_miles, cw.uv, cw.gust_mph, cw.gust_kph,
		       COALESCE(c.id, 0), COALESCE(c.text, ''), COALESCE(c.icon, ''), COALESCE(c.code, 0),
		       l.id, l.name, l.region, l.country, l.lat, l.lon, l.tz_id
		FROM current_weather cw
		JOIN locations l ON l.id = cw.location_id
		LEFT JOIN conditions c ON c.current_weather_id = cw.id
		WHERE cw.location_id = $1
		ORDER BY cw.last_updated DESC
		LIMIT 1
	`

	var obs store.CurrentObservation
	err := s.pool.QueryRow(ctx, q, locationID).Scan(
		&obs.ID, &obs.LocationID, &obs.LastUpdated, &obs.TempC, &obs.TempF, &obs.IsDay,
		&obs.WindMph, &obs.WindKph, &obs.WindDegree, &obs.WindDir,
		&obs.PressureMb, &obs.PressureIn, &obs.PrecipMm, &obs.PrecipIn,
		&obs.Humidity, &obs.Cloud, &obs.FeelslikeC, &obs.FeelslikeF,
		&obs.VisKm, &obs.VisMiles, &obs.UV, &obs.GustMph, &obs.GustKph,
		&obs.Condition.ID, &obs.Condition.Text, &obs.Condition.Icon, &obs.Condition.Code,
		&obs.Location.ID, &obs.Location.Name, &obs.Location.Region, &obs.Location.Country,
		&obs.Location.Lat, &obs.Location.Lon, &obs.Location.TzID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.CurrentObservation{}, store.ErrNotFound
	}
	if err != nil {
		return store.CurrentObservation{}, fmt.Errorf("postgres: query latest current: %w", err)
	}
	return obs, nil
}

// LatestDailyForecast returns the daily summary of the most recent forecast
// header for the location, joined with its condition and metadata.
func (s *Store) LatestDailyForecast(ctx context.Context, locationID int64) (store.DailyForecast, error) {
	const q = `
		SELECT d.id, d.forecast_id, d.maxtemp_c, d.maxtemp_f, d.mintemp_c, d.mintemp_f,
		       d.avgtemp_c, d.avgtemp_f, d.maxwind_mph, d.maxwind_kph,
		       d.totalprecip_mm, d.totalprecip_in, d.totalsnow_cm,
		       d.avgvis_km, d.avgvis_miles, d.avghumidity,
		       d.daily_will_it_rain, d.daily_chance_of_rain,
		       d.daily_will_it_snow, d.daily_chance_of_snow, d.uv,
		       COALESCE(c.id, 0), COALESCE(c.text, ''), COALESCE(c.icon, ''), COALESCE(c.code, 0),
		       f.id, f.location_id, f.date
		FROM forecasts f
		JOIN daily d ON d.forecast_id = f.id
		LEFT JOIN conditions c ON c.daily_id = d.id
		WHERE f.location_id = $1
		ORDER BY f.date DESC
		LIMIT 1
	`

	var df store.DailyForecast
	err := s.pool.QueryRow(ctx, q, locationID).Scan(
		&df.ID, &df.ForecastID, &df.MaxtempC, &df.MaxtempF, &df.MintempC, &df.MintempF,
		&df.AvgtempC, &df.AvgtempF, &df.MaxwindMph, &df.MaxwindKph,
		&df.TotalprecipMm, &df.TotalprecipIn, &df.TotalsnowCm,
		&df.AvgvisKm, &df.AvgvisMiles, &df.Avghumidity,
		&df.DailyWillItRain, &df.DailyChanceOfRain,
		&df.DailyWillItSnow, &df.DailyChanceOfSnow, &df.UV,
		&df.Condition.ID, &df.Condition.Text, &df.Condition.Icon, &df.Condition.Code,
		&df.Forecast.ID, &df.Forecast.LocationID, &df.Forecast.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.DailyForecast{}, store.ErrNotFound
	}
	if err != nil {
		return store.DailyForecast{}, fmt.Errorf("postgres: query latest daily forecast: %w", err)
	}
	return df, nil
}

var _ store.Store = (*Store)(nil)
