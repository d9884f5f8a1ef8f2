package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/application/catalog"
	"github.com/jhoicas/turnos-api/internal/application/deletion"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
)

// CatalogHandler CRUD HTTP de una entidad de consulta.
type CatalogHandler[T any] struct {
	svc   *catalog.Service[T]
	label string
	setID func(*T, int64)
	log   zerolog.Logger
}

// NewCatalogHandler construye el handler. label es el nombre que ve el usuario ("Cliente").
func NewCatalogHandler[T any](svc *catalog.Service[T], label string, setID func(*T, int64), log zerolog.Logger) *CatalogHandler[T] {
	return &CatalogHandler[T]{svc: svc, label: label, setID: setID, log: log}
}

// List GET /api/<entidad>?from=0&to=19&search=
func (h *CatalogHandler[T]) List(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	if page.Data == nil {
		page.Data = []*T{}
	}
	return c.JSON(dto.ListResponse[T]{Data: page.Data, Count: page.Total})
}

// GetByID GET /api/<entidad>/:id
func (h *CatalogHandler[T]) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	item, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/<entidad>
func (h *CatalogHandler[T]) Create(c *fiber.Ctx) error {
	in := new(T)
	if err := bindJSON(c, in); err != nil {
		return writeError(c, err)
	}
	created, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update PUT /api/<entidad>/:id
func (h *CatalogHandler[T]) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	in := new(T)
	if err := bindJSON(c, in); err != nil {
		return writeError(c, err)
	}
	h.setID(in, id)
	updated, err := h.svc.Update(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

// Delete DELETE /api/<entidad>/:id. Responde con la notificación de borrado.
func (h *CatalogHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var deleteErr error
	del := func(ctx context.Context, id int64) error {
		_, deleteErr = h.svc.Delete(ctx, id)
		return deleteErr
	}
	confirm := deletion.Confirmation{EntityName: h.label, Delete: del, Log: h.log}
	n := confirm.Confirm(c.UserContext(), id)
	if deleteErr != nil {
		return c.Status(StatusFor(domain.CodeOf(deleteErr))).JSON(n)
	}
	return c.JSON(n)
}

// mount registra las rutas CRUD bajo path.
func (h *CatalogHandler[T]) mount(r fiber.Router, path string) {
	g := r.Group(path)
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
