package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weatherwatch/weather-watch/internal/enrich"
)

type locationInfoResponse struct {
	Location    string      `json:"location"`
	Coordinates coordinates `json:"coordinates"`
	enrich.LocationInfo
}

func (h *Handlers) locationInfo(c *fiber.Ctx) error {
	loc, err := h.resolve(c)
	if err != nil {
		return err
	}

	info := h.enricher.Enrich(c.Context(), loc.DisplayName, &loc.Latitude, &loc.Longitude)

	return c.JSON(locationInfoResponse{
		Location:     loc.DisplayName,
		Coordinates:  coordinates{Lat: loc.Latitude, Lon: loc.Longitude},
		LocationInfo: info,
	})
}
