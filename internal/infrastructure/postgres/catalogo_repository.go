package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var (
	_ repository.CategoriaRepository  = (*CatalogRepo[entity.Categoria])(nil)
	_ repository.ProveedorRepository  = (*CatalogRepo[entity.Proveedor])(nil)
	_ repository.MetodoPagoRepository = (*CatalogRepo[entity.MetodoPago])(nil)
)

var categoriasTable = table[entity.Categoria]{
	name:     "categorias",
	columns:  []string{"id", "nombre", "descripcion", "created_at"},
	writable: []string{"nombre", "descripcion"},
	orderBy:  "id ASC",
	search:   []string{"nombre"},
	scan: func(row pgx.Row, c *entity.Categoria) error {
		return row.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.CreatedAt)
	},
	values: func(c *entity.Categoria) []any { return []any{c.Nombre, c.Descripcion} },
	id:     func(c *entity.Categoria) int64 { return c.ID },
}

var proveedoresTable = table[entity.Proveedor]{
	name:     "proveedores",
	columns:  []string{"id", "nombre", "cuit", "telefono", "email", "direccion", "created_at"},
	writable: []string{"nombre", "cuit", "telefono", "email", "direccion"},
	orderBy:  "id ASC",
	search:   []string{"nombre"},
	scan: func(row pgx.Row, p *entity.Proveedor) error {
		return row.Scan(&p.ID, &p.Nombre, &p.CUIT, &p.Telefono, &p.Email, &p.Direccion, &p.CreatedAt)
	},
	values: func(p *entity.Proveedor) []any {
		return []any{p.Nombre, p.CUIT, p.Telefono, p.Email, p.Direccion}
	},
	id: func(p *entity.Proveedor) int64 { return p.ID },
}

var metodosPagoTable = table[entity.MetodoPago]{
	name:     "metodos_pago",
	columns:  []string{"id", "nombre", "activo", "created_at"},
	writable: []string{"nombre", "activo"},
	orderBy:  "id ASC",
	scan: func(row pgx.Row, m *entity.MetodoPago) error {
		return row.Scan(&m.ID, &m.Nombre, &m.Activo, &m.CreatedAt)
	},
	values: func(m *entity.MetodoPago) []any { return []any{m.Nombre, m.Activo} },
	id:     func(m *entity.MetodoPago) int64 { return m.ID },
}

// NewCategoriaRepository construye el adaptador de categorías.
func NewCategoriaRepository(q Querier) *CatalogRepo[entity.Categoria] {
	return newCatalogRepo(q, categoriasTable)
}

// NewProveedorRepository construye el adaptador de proveedores.
func NewProveedorRepository(q Querier) *CatalogRepo[entity.Proveedor] {
	return newCatalogRepo(q, proveedoresTable)
}

// NewMetodoPagoRepository construye el adaptador de métodos de pago.
func NewMetodoPagoRepository(q Querier) *CatalogRepo[entity.MetodoPago] {
	return newCatalogRepo(q, metodosPagoTable)
}
