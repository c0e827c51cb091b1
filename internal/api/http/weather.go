package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weatherwatch/weather-watch/internal/geo"
	"github.com/weatherwatch/weather-watch/internal/weather"
)

// locationRequest identifies a place either by free text or by raw
// coordinates. Coordinates win when both are present.
type locationRequest struct {
	Location string   `json:"location"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// resolve turns the request into a location, geocoding only when no raw
// coordinates were supplied.
func (h *Handlers) resolve(c *fiber.Ctx) (geo.ResolvedLocation, error) {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return geo.ResolvedLocation{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Lat != nil && req.Lon != nil {
		return geo.FromCoordinates(*req.Lat, *req.Lon), nil
	}
	if req.Location != "" {
		resolved, err := h.geocoder.Resolve(c.Context(), req.Location)
		if err != nil {
			return geo.ResolvedLocation{}, mapError(err)
		}
		return resolved, nil
	}
	return geo.ResolvedLocation{}, fiber.NewError(fiber.StatusBadRequest, "Location or coordinates required")
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type currentWeatherResponse struct {
	Location    string                    `json:"location"`
	Coordinates coordinates               `json:"coordinates"`
	Current     weather.CurrentConditions `json:"current"`
	Forecast    []weather.ForecastDay     `json:"forecast,omitempty"`
}

func (h *Handlers) currentWeather(c *fiber.Ctx) error {
	loc, err := h.resolve(c)
	if err != nil {
		return err
	}

	current, err := h.weather.Current(c.Context(), loc.Latitude, loc.Longitude)
	if err != nil {
		return mapError(err)
	}

	resp := currentWeatherResponse{
		Location:    loc.DisplayName,
		Coordinates: coordinates{Lat: loc.Latitude, Lon: loc.Longitude},
		Current:     current,
	}

	// Forecast is best-effort here: omit it silently when the upstream
	// declines, current conditions are still worth returning.
	forecast, err := h.weather.Forecast(c.Context(), loc.Latitude, loc.Longitude)
	if err != nil {
		h.log.Warnw("forecast unavailable", "location", loc.DisplayName, "error", err)
	} else {
		resp.Forecast = forecast
	}

	return c.JSON(resp)
}

func (h *Handlers) forecast(c *fiber.Ctx) error {
	loc, err := h.resolve(c)
	if err != nil {
		return err
	}

	forecast, err := h.weather.Forecast(c.Context(), loc.Latitude, loc.Longitude)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"location": loc.DisplayName,
		"forecast": forecast,
	})
}
