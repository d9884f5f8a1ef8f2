package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/booking"
	"github.com/jhoicas/turnos-api/internal/application/dto"
)

// TurnoHandler turnos del calendario.
type TurnoHandler struct {
	uc *booking.UseCase
}

// NewTurnoHandler construye el handler.
func NewTurnoHandler(uc *booking.UseCase) *TurnoHandler {
	return &TurnoHandler{uc: uc}
}

// List GET /api/turnos?from=2025-03-01T00:00:00-03:00&to=2025-03-08T00:00:00-03:00
func (h *TurnoHandler) List(c *fiber.Ctx) error {
	from, err := optionalTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := optionalTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	events, err := h.uc.LoadRange(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(events)
}

// Create POST /api/turnos
func (h *TurnoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTurnoRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	event, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// CreateSeries POST /api/turnos/series
func (h *TurnoHandler) CreateSeries(c *fiber.Ctx) error {
	var in dto.CreateSeriesRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.CreateSeries(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rows)
}

// Remove DELETE /api/turnos/:id
func (h *TurnoHandler) Remove(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	removed, err := h.uc.Remove(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.IDResponse{ID: removed})
}
