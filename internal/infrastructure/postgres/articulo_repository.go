package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.ArticuloRepository = (*CatalogRepo[entity.Articulo])(nil)

var articulosTable = table[entity.Articulo]{
	name: "articulos",
	columns: []string{"id", "codigo", "nombre", "descripcion", "precio_venta", "precio_costo",
		"stock_actual", "unidad_medida", "categoria_id", "proveedor_id", "activo", "created_at"},
	writable: []string{"codigo", "nombre", "descripcion", "precio_venta", "precio_costo",
		"stock_actual", "unidad_medida", "categoria_id", "proveedor_id", "activo"},
	orderBy: "id ASC",
	search:  []string{"nombre", "codigo"},
	scan: func(row pgx.Row, a *entity.Articulo) error {
		return row.Scan(&a.ID, &a.Codigo, &a.Nombre, &a.Descripcion, &a.PrecioVenta, &a.PrecioCosto,
			&a.StockActual, &a.UnidadMedida, &a.CategoriaID, &a.ProveedorID, &a.Activo, &a.CreatedAt)
	},
	values: func(a *entity.Articulo) []any {
		return []any{a.Codigo, a.Nombre, a.Descripcion, a.PrecioVenta, a.PrecioCosto,
			a.StockActual, a.UnidadMedida, a.CategoriaID, a.ProveedorID, a.Activo}
	},
	id: func(a *entity.Articulo) int64 { return a.ID },
}

// NewArticuloRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewArticuloRepository(q Querier) *CatalogRepo[entity.Articulo] {
	return newCatalogRepo(q, articulosTable)
}
