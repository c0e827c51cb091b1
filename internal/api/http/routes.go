// Package httpapi binds the weather, CRUD, export, and enrichment
// operations to the Fiber app and owns request validation and error-to-
// status mapping.
package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/weatherwatch/weather-watch/internal/enrich"
	"github.com/weatherwatch/weather-watch/internal/export"
	"github.com/weatherwatch/weather-watch/internal/geo"
	"github.com/weatherwatch/weather-watch/internal/models"
	"github.com/weatherwatch/weather-watch/internal/services"
	"github.com/weatherwatch/weather-watch/internal/weather"
)

var validate = validator.New()

// Geocoder resolves free-text locations.
type Geocoder interface {
	Resolve(ctx context.Context, locationText string) (geo.ResolvedLocation, error)
}

// WeatherProvider supplies normalized conditions and forecasts.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastDay, error)
}

// QueryStore is the persistence surface the CRUD and export routes use.
type QueryStore interface {
	Create(ctx context.Context, location, startDate, endDate string) (*models.WeatherQuery, error)
	List(ctx context.Context, f services.Filter) ([]models.WeatherQuery, error)
	All(ctx context.Context) ([]models.WeatherQuery, error)
	Get(ctx context.Context, id uint) (*models.WeatherQuery, error)
	Update(ctx context.Context, id uint, p services.Patch) (*models.WeatherQuery, error)
	Delete(ctx context.Context, id uint) (*models.WeatherQuery, error)
}

// Enricher merges the optional auxiliary lookups for a location.
type Enricher interface {
	Enrich(ctx context.Context, locationText string, lat, lon *float64) enrich.LocationInfo
}

type Handlers struct {
	geocoder Geocoder
	weather  WeatherProvider
	queries  QueryStore
	enricher Enricher
	log      *zap.SugaredLogger
}

func New(geocoder Geocoder, weather WeatherProvider, queries QueryStore, enricher Enricher, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		geocoder: geocoder,
		weather:  weather,
		queries:  queries,
		enricher: enricher,
		log:      log,
	}
}

// Register wires every route into the Fiber app.
func (h *Handlers) Register(app *fiber.App) {
	w := app.Group("/weather")
	w.Post("/current", h.currentWeather)
	w.Post("/forecast", h.forecast)

	crud := app.Group("/crud")
	crud.Post("/create", h.createQuery)
	crud.Get("/read", h.listQueries)
	crud.Get("/read/:id", h.getQuery)
	crud.Put("/update/:id", h.updateQuery)
	crud.Delete("/delete/:id", h.deleteQuery)

	app.Get("/export/:format", h.exportQueries)

	app.Post("/external/location-info", h.locationInfo)
}

// mapError translates domain errors into fiber errors with the statuses the
// API promises: validation and unresolvable locations are client errors,
// unknown ids and empty csv exports are 404, upstream failures are 500 with
// the upstream message embedded.
func mapError(err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Weather query not found")
	case errors.Is(err, geo.ErrNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, export.ErrNoData):
		return fiber.NewError(fiber.StatusNotFound, "No data to export")
	case errors.Is(err, export.ErrUnknownFormat):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
