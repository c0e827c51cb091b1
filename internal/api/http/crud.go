package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherwatch/weather-watch/internal/models"
	"github.com/weatherwatch/weather-watch/internal/services"
)

type createQueryRequest struct {
	Location  string `json:"location" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

func (h *Handlers) createQuery(c *fiber.Ctx) error {
	var req createQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe.Field())))
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := h.queries.Create(c.Context(), req.Location, req.StartDate, req.EndDate)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Weather query created successfully",
		"data":    record,
	})
}

func (h *Handlers) listQueries(c *fiber.Ctx) error {
	filter := services.Filter{
		Location: c.Query("location"),
	}

	if v := c.Query("start_date"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		filter.StartDate = &d
	}
	if v := c.Query("end_date"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		filter.EndDate = &d
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}

	records, err := h.queries.List(c.Context(), filter)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(records),
		"data":  records,
	})
}

func (h *Handlers) getQuery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := h.queries.Get(c.Context(), id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"data": record})
}

type updateQueryRequest struct {
	Location    *string  `json:"location"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Temperature *float64 `json:"temperature"`
	Description *string  `json:"description"`
}

func (h *Handlers) updateQuery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.queries.Update(c.Context(), id, services.Patch{
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Temperature: req.Temperature,
		Description: req.Description,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Weather query updated successfully",
		"data":    record,
	})
}

func (h *Handlers) deleteQuery(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := h.queries.Delete(c.Context(), id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Weather query deleted successfully",
		"data":    record,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// fieldName converts a struct field name to its snake_case request key.
func fieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
