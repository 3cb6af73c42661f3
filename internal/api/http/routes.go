// Package httpapi exposes the persisted weather data over HTTP.
package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mrgud155/weatherman/internal/store"
)

var validate = validator.New()

// locationParam holds the path parameter identifying a location.
type locationParam struct {
	LocationID int64 `validate:"required,gt=0"`
}

func parseLocationParam(c *fiber.Ctx) (locationParam, error) {
	id, err := c.ParamsInt("location_id")
	if err != nil {
		return locationParam{}, err
	}

	p := locationParam{LocationID: int64(id)}
	if err := validate.Struct(p); err != nil {
		return p, err
	}
	return p, nil
}

// RegisterRoutes wires the read endpoints into the Fiber app. All weather
// routes sit behind bearer-token authentication.
func RegisterRoutes(app *fiber.App, st store.Store, verifier TokenVerifier) {
	v1 := app.Group("/api/v1/weather", RequireToken(verifier))

	v1.Get("/latest_current/:location_id", func(c *fiber.Ctx) error {
		p, err := parseLocationParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location id")
		}

		obs, err := st.LatestCurrent(c.Context(), p.LocationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(c, st, p.LocationID, "no current weather for location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch current weather")
		}

		return c.JSON(obs)
	})

	v1.Get("/forecast_daily/:location_id", func(c *fiber.Ctx) error {
		p, err := parseLocationParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location id")
		}

		df, err := st.LatestDailyForecast(c.Context(), p.LocationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(c, st, p.LocationID, "no forecast for location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}

		return c.JSON(df)
	})

	v1.Get("/locations", func(c *fiber.Ctx) error {
		locations, err := st.Locations(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch locations")
		}
		return c.JSON(locations)
	})
}

// notFound distinguishes an unknown location from a known location that has
// no ingested data yet.
func notFound(c *fiber.Ctx, st store.Store, locationID int64, message string) error {
	if _, err := st.LocationByID(c.Context(), locationID); errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	}
	return fiber.NewError(fiber.StatusNotFound, message)
}
