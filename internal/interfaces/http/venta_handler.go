package http

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/ventas"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// VentaHandler ventas y sus ítems. Mantiene al día la vista de ventas recientes.
type VentaHandler struct {
	uc       *ventas.UseCase
	state    *ventas.ListState
	receipts ventas.ReceiptGenerator
	log      zerolog.Logger
}

// NewVentaHandler construye el handler.
func NewVentaHandler(uc *ventas.UseCase, state *ventas.ListState, receipts ventas.ReceiptGenerator, log zerolog.Logger) *VentaHandler {
	return &VentaHandler{uc: uc, state: state, receipts: receipts, log: log}
}

// Create POST /api/ventas. El vendedor sale del token de sesión.
func (h *VentaHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearVentaRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	v, err := h.uc.CrearVenta(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	h.state.UpsertRow(v)
	return c.Status(fiber.StatusCreated).JSON(v)
}

// List GET /api/ventas?from=0&to=19&desde=2025-03-01&hasta=2025-03-31&search=&estado=pendiente
func (h *VentaHandler) List(c *fiber.Ctx) error {
	filter, err := ventaFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.uc.LoadVentas(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	if page.Data == nil {
		page.Data = []*entity.Venta{}
	}
	return c.JSON(dto.ListResponse[entity.Venta]{Data: page.Data, Count: page.Total})
}

// Recent GET /api/ventas/recientes[?refresh=true]
func (h *VentaHandler) Recent(c *fiber.Ctx) error {
	if c.QueryBool("refresh") {
		if err := h.state.Refresh(c.UserContext(), nil); err != nil {
			return writeError(c, err)
		}
	}
	page := h.state.Page()
	if page.Data == nil {
		page.Data = []*entity.Venta{}
	}
	return c.JSON(dto.ListResponse[entity.Venta]{Data: page.Data, Count: page.Total})
}

// GetByID GET /api/ventas/:id
func (h *VentaHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	v, err := h.uc.GetVenta(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// Delete DELETE /api/ventas/:id
func (h *VentaHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteVenta(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	h.state.RemoveRow(id)
	return c.JSON(dto.IDResponse{ID: id})
}

// ListItems GET /api/ventas/:id/items
func (h *VentaHandler) ListItems(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.uc.GetItemsVenta(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// AddItem POST /api/ventas/:id/items
func (h *VentaHandler) AddItem(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AgregarItemRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.AgregarItem(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	h.refreshRow(c.UserContext(), id)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// RemoveItem DELETE /api/venta-items/:id
func (h *VentaHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	item, err := h.uc.EliminarItem(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	h.refreshRow(c.UserContext(), item.VentaID)
	return c.JSON(item)
}

// Complete POST /api/ventas/:id/completar
func (h *VentaHandler) Complete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CompletarVentaRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	v, err := h.uc.CompletarVenta(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	h.state.UpsertRow(v)
	return c.JSON(v)
}

// Cancel POST /api/ventas/:id/cancelar
func (h *VentaHandler) Cancel(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CancelarVentaRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	v, err := h.uc.CancelarVenta(c.UserContext(), id, in.Motivo)
	if err != nil {
		return writeError(c, err)
	}
	h.state.UpsertRow(v)
	return c.JSON(v)
}

// Receipt GET /api/ventas/:id/comprobante (PDF)
func (h *VentaHandler) Receipt(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.Receipt(c.UserContext(), id, h.receipts)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="venta-`+strconv.FormatInt(id, 10)+`.pdf"`)
	return c.Send(pdf)
}

// refreshRow relee la venta para reflejar los totales recalculados en la vista.
func (h *VentaHandler) refreshRow(ctx context.Context, ventaID int64) {
	v, err := h.uc.GetVenta(ctx, ventaID)
	if err != nil {
		h.log.Warn().Err(err).Int64("venta_id", ventaID).Msg("no se pudo refrescar la venta en la vista")
		return
	}
	h.state.UpsertRow(v)
}

func ventaFilter(c *fiber.Ctx) (repository.VentaFilter, error) {
	window, err := listFilter(c)
	if err != nil {
		return repository.VentaFilter{}, err
	}
	desde, err := optionalTime(c, "desde")
	if err != nil {
		return repository.VentaFilter{}, err
	}
	hasta, err := optionalTime(c, "hasta")
	if err != nil {
		return repository.VentaFilter{}, err
	}
	return repository.VentaFilter{
		From:   window.From,
		To:     window.To,
		Desde:  desde,
		Hasta:  hasta,
		Search: window.Search,
		Estado: strings.TrimSpace(c.Query("estado")),
	}, nil
}
