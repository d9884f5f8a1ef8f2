package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/tabs"
)

// TabHandler cuentas de consumo de los turnos.
type TabHandler struct {
	uc *tabs.UseCase
}

// NewTabHandler construye el handler.
func NewTabHandler(uc *tabs.UseCase) *TabHandler {
	return &TabHandler{uc: uc}
}

// Bundle GET /api/tabs/turno/:turnoId → {tab, items}; tab es null si el turno no tiene cuenta.
func (h *TabHandler) Bundle(c *fiber.Ctx) error {
	turnoID, err := idParam(c, "turnoId")
	if err != nil {
		return writeError(c, err)
	}
	bundle, err := h.uc.LoadTabBundleByTurnoID(c.UserContext(), turnoID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(bundle)
}

// Open POST /api/tabs/turno/:turnoId (obtiene o crea la cuenta del turno)
func (h *TabHandler) Open(c *fiber.Ctx) error {
	turnoID, err := idParam(c, "turnoId")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.OpenTabRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	tab, err := h.uc.GetOrCreateTabForTurno(c.UserContext(), turnoID, in.ClientID, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tab)
}

// GetByID GET /api/tabs/:id
func (h *TabHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	tab, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tab)
}

// Close POST /api/tabs/:id/close
func (h *TabHandler) Close(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	tab, err := h.uc.Close(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tab)
}

// Cancel POST /api/tabs/:id/cancel
func (h *TabHandler) Cancel(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	tab, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tab)
}

// ListItems GET /api/tabs/:id/items
func (h *TabHandler) ListItems(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.uc.ListItems(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// AddProduct POST /api/tabs/:id/items
func (h *TabHandler) AddProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AddProductItemRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.AddProductItem(c.UserContext(), id, in.ProductID, in.Qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// AddManual POST /api/tabs/:id/items/manual
func (h *TabHandler) AddManual(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AddManualItemRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.AddManualItem(c.UserContext(), id, in.Name, in.UnitPrice, in.Qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateQty PATCH /api/tab-items/:id
func (h *TabHandler) UpdateQty(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateQtyRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.UpdateQty(c.UserContext(), id, in.Qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// RemoveItem DELETE /api/tab-items/:id
func (h *TabHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.RemoveItem(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}
