package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.TabRepository     = (*TabRepo)(nil)
	_ repository.TabItemRepository = (*TabItemRepo)(nil)
)

const tabColumns = "id, turno_id, client_id, status, notes, created_at, closed_at"

const tabItemColumns = "id, tab_id, product_id, name_snapshot, unit_price_snapshot, qty, created_at"

// TabRepo implementación de TabRepository (usable con pool o tx).
type TabRepo struct {
	q Querier
}

// NewTabRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTabRepository(q Querier) *TabRepo {
	return &TabRepo{q: q}
}

func scanTab(row pgx.Row) (*entity.Tab, error) {
	var t entity.Tab
	if err := row.Scan(&t.ID, &t.TurnoID, &t.ClientID, &t.Status, &t.Notes, &t.CreatedAt, &t.ClosedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TabRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Tab, error) {
	t, err := scanTab(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("tabs", op, err)
	}
	return t, nil
}

// GetByTurnoID obtiene la cuenta del turno; nil, nil si no tiene.
func (r *TabRepo) GetByTurnoID(ctx context.Context, turnoID int64) (*entity.Tab, error) {
	return r.getOne(ctx, "get by turno", `SELECT `+tabColumns+` FROM tabs WHERE turno_id = $1`, turnoID)
}

// GetByID obtiene una cuenta por ID; nil, nil si no existe.
func (r *TabRepo) GetByID(ctx context.Context, id int64) (*entity.Tab, error) {
	return r.getOne(ctx, "get", `SELECT `+tabColumns+` FROM tabs WHERE id = $1`, id)
}

// Create abre una cuenta. Un segundo insert para el mismo turno falla con UNIQUE_VIOLATION (uniq_tabs_turno_id).
func (r *TabRepo) Create(ctx context.Context, tab *entity.Tab) (*entity.Tab, error) {
	query := `
		INSERT INTO tabs (turno_id, client_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + tabColumns
	t, err := scanTab(r.q.QueryRow(ctx, query, tab.TurnoID, tab.ClientID, tab.Status, tab.Notes))
	if err != nil {
		return nil, mapErr("tabs", "insert", err)
	}
	return t, nil
}

// TransitionFromOpen pasa una cuenta abierta a status. closed_at se sella al cerrar.
func (r *TabRepo) TransitionFromOpen(ctx context.Context, id int64, status string) (*entity.Tab, error) {
	query := `
		UPDATE tabs
		SET status = $2,
			closed_at = CASE WHEN $2 = '` + entity.TabStatusClosed + `' THEN now() ELSE closed_at END
		WHERE id = $1 AND status = '` + entity.TabStatusOpen + `'
		RETURNING ` + tabColumns
	return r.getOne(ctx, "update status", query, id, status)
}

// TabItemRepo implementación de TabItemRepository (usable con pool o tx).
type TabItemRepo struct {
	q Querier
}

// NewTabItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTabItemRepository(q Querier) *TabItemRepo {
	return &TabItemRepo{q: q}
}

func scanTabItem(row pgx.Row) (*entity.TabItem, error) {
	var it entity.TabItem
	if err := row.Scan(&it.ID, &it.TabID, &it.ProductID, &it.NameSnapshot, &it.UnitPriceSnapshot, &it.Qty, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *TabItemRepo) one(ctx context.Context, op, query string, args ...any) (*entity.TabItem, error) {
	it, err := scanTabItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("tab_items", op, err)
	}
	return it, nil
}

// ListByTabID lista los ítems de la cuenta en orden de carga.
func (r *TabItemRepo) ListByTabID(ctx context.Context, tabID int64) ([]*entity.TabItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+tabItemColumns+` FROM tab_items WHERE tab_id = $1 ORDER BY created_at ASC, id ASC`, tabID)
	if err != nil {
		return nil, mapErr("tab_items", "list", err)
	}
	defer rows.Close()
	list := make([]*entity.TabItem, 0)
	for rows.Next() {
		it, err := scanTabItem(rows)
		if err != nil {
			return nil, mapErr("tab_items", "scan", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("tab_items", "list", err)
	}
	return list, nil
}

// AddProduct agrega un artículo copiando nombre y precio de venta vigentes.
func (r *TabItemRepo) AddProduct(ctx context.Context, tabID, productID int64, qty int) (*entity.TabItem, error) {
	query := `
		INSERT INTO tab_items (tab_id, product_id, name_snapshot, unit_price_snapshot, qty)
		SELECT $1, a.id, a.nombre, a.precio_venta, $3
		FROM articulos a WHERE a.id = $2
		RETURNING ` + tabItemColumns
	return r.one(ctx, "insert product", query, tabID, productID, qty)
}

// AddManual agrega un ítem sin artículo asociado.
func (r *TabItemRepo) AddManual(ctx context.Context, tabID int64, name string, unitPrice decimal.Decimal, qty int) (*entity.TabItem, error) {
	query := `
		INSERT INTO tab_items (tab_id, product_id, name_snapshot, unit_price_snapshot, qty)
		VALUES ($1, NULL, $2, $3, $4)
		RETURNING ` + tabItemColumns
	it, err := r.one(ctx, "insert manual", query, tabID, name, unitPrice, qty)
	if err == nil && it == nil {
		return nil, notFound("tab_items")
	}
	return it, err
}

// UpdateQty cambia la cantidad; NOT_FOUND si el ítem no existe.
func (r *TabItemRepo) UpdateQty(ctx context.Context, id int64, qty int) (*entity.TabItem, error) {
	it, err := r.one(ctx, "update qty",
		`UPDATE tab_items SET qty = $2 WHERE id = $1 RETURNING `+tabItemColumns, id, qty)
	if err == nil && it == nil {
		return nil, notFound("tab_items")
	}
	return it, err
}

// Delete borra el ítem y lo devuelve; NOT_FOUND si no existía.
func (r *TabItemRepo) Delete(ctx context.Context, id int64) (*entity.TabItem, error) {
	it, err := r.one(ctx, "delete", `DELETE FROM tab_items WHERE id = $1 RETURNING `+tabItemColumns, id)
	if err == nil && it == nil {
		return nil, notFound("tab_items")
	}
	return it, err
}
