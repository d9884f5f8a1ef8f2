package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// ListFilter ventana de filas y búsqueda para listados.
// From/To son offsets inclusivos (From=0, To=19 → primeras 20 filas).
type ListFilter struct {
	From   *int
	To     *int
	Search string
}

// Windowed indica si el filtro pide una ventana completa (y por lo tanto el total).
func (f ListFilter) Windowed() bool { return f.From != nil && f.To != nil }

// Page resultado paginado. Total solo se informa cuando el filtro trae ventana completa.
type Page[T any] struct {
	Data  []*T `json:"data"`
	Total *int `json:"count"`
}

// CatalogRepository contrato CRUD común a las entidades de consulta.
// GetByID devuelve nil, nil si no existe; Update y Delete devuelven NOT_FOUND.
type CatalogRepository[T any] interface {
	List(ctx context.Context, filter ListFilter) (Page[T], error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, item *T) (*T, error)
	Delete(ctx context.Context, id int64) (*T, error)
}

type (
	ClientRepository     = CatalogRepository[entity.Client]
	ArticuloRepository   = CatalogRepository[entity.Articulo]
	CategoriaRepository  = CatalogRepository[entity.Categoria]
	ProveedorRepository  = CatalogRepository[entity.Proveedor]
	MetodoPagoRepository = CatalogRepository[entity.MetodoPago]
	CourtRepository      = CatalogRepository[entity.Court]
	TurnoTypeRepository  = CatalogRepository[entity.TurnoType]
)
