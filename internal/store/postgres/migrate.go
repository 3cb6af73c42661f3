package postgres

import (
	"context"
	"fmt"
)

// The schema is the durable contract the read API relies on. Uniqueness
// constraints double as the conflict keys the ingestion pipeline resolves
// against. Conditions carry one nullable FK per possible owner; the partial
// unique indexes enforce at most one condition per owner row.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		region  TEXT NOT NULL,
		country TEXT NOT NULL,
		lat     DOUBLE PRECISION NOT NULL,
		lon     DOUBLE PRECISION NOT NULL,
		tz_id   TEXT NOT NULL,
		UNIQUE (name, region, country)
	)`,
	`CREATE TABLE IF NOT EXISTS current_weather (
		id           BIGSERIAL PRIMARY KEY,
		location_id  BIGINT NOT NULL REFERENCES locations (id),
		last_updated TIMESTAMPTZ NOT NULL,
		temp_c       DOUBLE PRECISION NOT NULL,
		temp_f       DOUBLE PRECISION NOT NULL,
		is_day       INTEGER NOT NULL,
		wind_mph     DOUBLE PRECISION NOT NULL,
		wind_kph     DOUBLE PRECISION NOT NULL,
		wind_degree  INTEGER NOT NULL,
		wind_dir     TEXT NOT NULL,
		pressure_mb  DOUBLE PRECISION NOT NULL,
		pressure_in  DOUBLE PRECISION NOT NULL,
		precip_mm    DOUBLE PRECISION NOT NULL,
		precip_in    DOUBLE PRECISION NOT NULL,
		humidity     INTEGER NOT NULL,
		cloud        INTEGER NOT NULL,
		feelslike_c  DOUBLE PRECISION NOT NULL,
		feelslike_f  DOUBLE PRECISION NOT NULL,
		vis_km       DOUBLE PRECISION NOT NULL,
		vis_miles    DOUBLE PRECISION NOT NULL,
		uv           DOUBLE PRECISION NOT NULL,
		gust_mph     DOUBLE PRECISION NOT NULL,
		gust_kph     DOUBLE PRECISION NOT NULL,
		UNIQUE (last_updated, location_id)
	)`,
	`CREATE TABLE IF NOT EXISTS forecasts (
		id          BIGSERIAL PRIMARY KEY,
		location_id BIGINT NOT NULL REFERENCES locations (id),
		date        TIMESTAMPTZ NOT NULL,
		UNIQUE (date, location_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily (
		id                    BIGSERIAL PRIMARY KEY,
		forecast_id           BIGINT NOT NULL REFERENCES forecasts (id) UNIQUE,
		maxtemp_c             DOUBLE PRECISION NOT NULL,
		maxtemp_f             DOUBLE PRECISION NOT NULL,
		mintemp_c             DOUBLE PRECISION NOT NULL,
		mintemp_f             DOUBLE PRECISION NOT NULL,
		avgtemp_c             DOUBLE PRECISION NOT NULL,
		avgtemp_f             DOUBLE PRECISION NOT NULL,
		maxwind_mph           DOUBLE PRECISION NOT NULL,
		maxwind_kph           DOUBLE PRECISION NOT NULL,
		totalprecip_mm        DOUBLE PRECISION NOT NULL,
		totalprecip_in        DOUBLE PRECISION NOT NULL,
		totalsnow_cm          DOUBLE PRECISION NOT NULL,
		avgvis_km             DOUBLE PRECISION NOT NULL,
		avgvis_miles          DOUBLE PRECISION NOT NULL,
		avghumidity           DOUBLE PRECISION NOT NULL,
		daily_will_it_rain    INTEGER NOT NULL,
		daily_chance_of_rain  INTEGER NOT NULL,
		daily_will_it_snow    INTEGER NOT NULL,
		daily_chance_of_snow  INTEGER NOT NULL,
		uv                    DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS astro (
		id                BIGSERIAL PRIMARY KEY,
		forecast_id       BIGINT NOT NULL REFERENCES forecasts (id) UNIQUE,
		sunrise           TEXT NOT NULL,
		sunset            TEXT NOT NULL,
		moonrise          TEXT NOT NULL,
		moonset           TEXT NOT NULL,
		moon_phase        TEXT NOT NULL,
		moon_illumination TEXT NOT NULL,
		is_moon_up        INTEGER NOT NULL,
		is_sun_up         INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS hourly (
		id             BIGSERIAL PRIMARY KEY,
		forecast_id    BIGINT NOT NULL REFERENCES forecasts (id),
		time           TIMESTAMPTZ NOT NULL UNIQUE,
		temp_c         DOUBLE PRECISION NOT NULL,
		temp_f         DOUBLE PRECISION NOT NULL,
		is_day         INTEGER NOT NULL,
		wind_mph       DOUBLE PRECISION NOT NULL,
		wind_kph       DOUBLE PRECISION NOT NULL,
		wind_degree    INTEGER NOT NULL,
		wind_dir       TEXT NOT NULL,
		pressure_mb    DOUBLE PRECISION NOT NULL,
		pressure_in    DOUBLE PRECISION NOT NULL,
		precip_mm      DOUBLE PRECISION NOT NULL,
		precip_in      DOUBLE PRECISION NOT NULL,
		snow_cm        DOUBLE PRECISION NOT NULL,
		humidity       INTEGER NOT NULL,
		cloud          INTEGER NOT NULL,
		feelslike_c    DOUBLE PRECISION NOT NULL,
		feelslike_f    DOUBLE PRECISION NOT NULL,
		windchill_c    DOUBLE PRECISION NOT NULL,
		windchill_f    DOUBLE PRECISION NOT NULL,
		heatindex_c    DOUBLE PRECISION NOT NULL,
		heatindex_f    DOUBLE PRECISION NOT NULL,
		dewpoint_c     DOUBLE PRECISION NOT NULL,
		dewpoint_f     DOUBLE PRECISION NOT NULL,
		will_it_rain   INTEGER NOT NULL,
		chance_of_rain INTEGER NOT NULL,
		will_it_snow   INTEGER NOT NULL,
		chance_of_snow INTEGER NOT NULL,
		vis_km         DOUBLE PRECISION NOT NULL,
		vis_miles      DOUBLE PRECISION NOT NULL,
		gust_mph       DOUBLE PRECISION NOT NULL,
		gust_kph       DOUBLE PRECISION NOT NULL,
		uv             DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS conditions (
		id                 BIGSERIAL PRIMARY KEY,
		text               TEXT NOT NULL,
		icon               TEXT NOT NULL,
		code               INTEGER NOT NULL,
		current_weather_id BIGINT REFERENCES current_weather (id),
		daily_id           BIGINT REFERENCES daily (id),
		hourly_id          BIGINT REFERENCES hourly (id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS conditions_current_weather_uniq
		ON conditions (current_weather_id) WHERE current_weather_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS conditions_daily_uniq
		ON conditions (daily_id) WHERE daily_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS conditions_hourly_uniq
		ON conditions (hourly_id) WHERE hourly_id IS NOT NULL`,
}

// EnsureSchema applies the schema. All statements are idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: apply schema: %w", err)
		}
	}
	return nil
}

// CheckSchema verifies the weather tables exist. Running the collector
// against an unmigrated database is a fatal startup condition.
func (s *Store) CheckSchema(ctx context.Context) error {
	const q = `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = 'locations'
	)`

	var exists bool
	if err := s.pool.QueryRow(ctx, q).Scan(&exists); err != nil {
		return fmt.Errorf("postgres: check schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("postgres: weather tables not found, run migrations first")
	}
	return nil
}
