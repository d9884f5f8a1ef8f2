package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.VentaItemRepository = (*VentaItemRepo)(nil)

const ventaItemColumns = "id, venta_id, articulo_id, cantidad, precio_unitario, descuento, subtotal, total, created_at"

// VentaItemRepo implementación de VentaItemRepository (usable con pool o tx).
type VentaItemRepo struct {
	q Querier
}

// NewVentaItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaItemRepository(q Querier) *VentaItemRepo {
	return &VentaItemRepo{q: q}
}

func scanVentaItem(row pgx.Row, it *entity.VentaItem) error {
	return row.Scan(&it.ID, &it.VentaID, &it.ArticuloID, &it.Cantidad, &it.PrecioUnitario,
		&it.Descuento, &it.Subtotal, &it.Total, &it.CreatedAt)
}

// Create inserta una línea con los totales ya calculados.
func (r *VentaItemRepo) Create(ctx context.Context, it *entity.VentaItem) (*entity.VentaItem, error) {
	query := `
		INSERT INTO venta_items (venta_id, articulo_id, cantidad, precio_unitario, descuento, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ventaItemColumns
	var out entity.VentaItem
	err := scanVentaItem(r.q.QueryRow(ctx, query,
		it.VentaID, it.ArticuloID, it.Cantidad, it.PrecioUnitario, it.Descuento, it.Subtotal, it.Total), &out)
	if err != nil {
		return nil, mapErr("venta_items", "insert", err)
	}
	return &out, nil
}

// ListByVentaID lista las líneas con el artículo embebido, en orden de carga.
func (r *VentaItemRepo) ListByVentaID(ctx context.Context, ventaID int64) ([]*entity.VentaItem, error) {
	query := `
		SELECT vi.id, vi.venta_id, vi.articulo_id, vi.cantidad, vi.precio_unitario, vi.descuento,
			vi.subtotal, vi.total, vi.created_at,
			CASE WHEN a.id IS NULL THEN NULL ELSE jsonb_build_object(
				'id', a.id, 'nombre', a.nombre, 'codigo', a.codigo,
				'unidad_medida', a.unidad_medida, 'stock_actual', a.stock_actual) END
		FROM venta_items vi
		LEFT JOIN articulos a ON a.id = vi.articulo_id
		WHERE vi.venta_id = $1
		ORDER BY vi.created_at ASC, vi.id ASC`
	rows, err := r.q.Query(ctx, query, ventaID)
	if err != nil {
		return nil, mapErr("venta_items", "list", err)
	}
	defer rows.Close()
	list := make([]*entity.VentaItem, 0)
	for rows.Next() {
		var it entity.VentaItem
		if err := rows.Scan(&it.ID, &it.VentaID, &it.ArticuloID, &it.Cantidad, &it.PrecioUnitario,
			&it.Descuento, &it.Subtotal, &it.Total, &it.CreatedAt, &it.Articulo); err != nil {
			return nil, mapErr("venta_items", "scan", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("venta_items", "list", err)
	}
	return list, nil
}

// GetByID línea sin el artículo; nil, nil si no existe.
func (r *VentaItemRepo) GetByID(ctx context.Context, id int64) (*entity.VentaItem, error) {
	var out entity.VentaItem
	err := scanVentaItem(r.q.QueryRow(ctx, `SELECT `+ventaItemColumns+` FROM venta_items WHERE id = $1`, id), &out)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("venta_items", "get", err)
	}
	return &out, nil
}

// Delete borra la línea y la devuelve; nil, nil si no existía.
func (r *VentaItemRepo) Delete(ctx context.Context, id int64) (*entity.VentaItem, error) {
	var out entity.VentaItem
	err := scanVentaItem(r.q.QueryRow(ctx, `DELETE FROM venta_items WHERE id = $1 RETURNING `+ventaItemColumns, id), &out)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("venta_items", "delete", err)
	}
	return &out, nil
}
