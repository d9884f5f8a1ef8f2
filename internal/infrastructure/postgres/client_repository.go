package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*CatalogRepo[entity.Client])(nil)

var clientsTable = table[entity.Client]{
	name:     "clients",
	columns:  []string{"id", "full_name", "phone", "email", "notes", "created_at"},
	writable: []string{"full_name", "phone", "email", "notes"},
	orderBy:  "full_name ASC",
	search:   []string{"full_name", "phone"},
	scan: func(row pgx.Row, c *entity.Client) error {
		return row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt)
	},
	values: func(c *entity.Client) []any {
		return []any{c.FullName, c.Phone, c.Email, c.Notes}
	},
	id: func(c *entity.Client) int64 { return c.ID },
}

// NewClientRepository construye el adaptador de clientes. Pasar pool o tx (Querier).
// Un teléfono repetido se informa como CLIENT_PHONE_EXISTS.
func NewClientRepository(q Querier) *CatalogRepo[entity.Client] {
	return newCatalogRepo(q, clientsTable)
}
