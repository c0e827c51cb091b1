package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/weatherwatch/weather-watch/internal/export"
)

func (h *Handlers) exportQueries(c *fiber.Ctx) error {
	format := c.Params("format")

	records, err := h.queries.All(c.Context())
	if err != nil {
		return mapError(err)
	}

	doc, err := export.Render(format, records)
	if err != nil {
		return mapError(err)
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", doc.Filename))
	return c.Send(doc.Body)
}
