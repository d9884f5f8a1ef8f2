package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var (
	_ repository.CourtRepository     = (*CatalogRepo[entity.Court])(nil)
	_ repository.TurnoTypeRepository = (*CatalogRepo[entity.TurnoType])(nil)
)

var courtsTable = table[entity.Court]{
	name:     "courts",
	columns:  []string{"id", "slug", "name", "color_main", "color_container", "color_on_container"},
	writable: []string{"slug", "name", "color_main", "color_container", "color_on_container"},
	orderBy:  "name ASC",
	search:   []string{"name"},
	scan: func(row pgx.Row, c *entity.Court) error {
		return row.Scan(&c.ID, &c.Slug, &c.Name, &c.ColorMain, &c.ColorContainer, &c.ColorOnContainer)
	},
	values: func(c *entity.Court) []any {
		return []any{c.Slug, c.Name, c.ColorMain, c.ColorContainer, c.ColorOnContainer}
	},
	id: func(c *entity.Court) int64 { return c.ID },
}

var turnoTypesTable = table[entity.TurnoType]{
	name:     "turnos_types",
	columns:  []string{"id", "slug", "name", "color", "icon"},
	writable: []string{"slug", "name", "color", "icon"},
	orderBy:  "name ASC",
	search:   []string{"name"},
	scan: func(row pgx.Row, t *entity.TurnoType) error {
		return row.Scan(&t.ID, &t.Slug, &t.Name, &t.Color, &t.Icon)
	},
	values: func(t *entity.TurnoType) []any { return []any{t.Slug, t.Name, t.Color, t.Icon} },
	id:     func(t *entity.TurnoType) int64 { return t.ID },
}

// NewCourtRepository construye el adaptador de canchas.
func NewCourtRepository(q Querier) *CatalogRepo[entity.Court] {
	return newCatalogRepo(q, courtsTable)
}

// NewTurnoTypeRepository construye el adaptador de tipos de turno.
func NewTurnoTypeRepository(q Querier) *CatalogRepo[entity.TurnoType] {
	return newCatalogRepo(q, turnoTypesTable)
}
