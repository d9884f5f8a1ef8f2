package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.VentaRepository = (*VentaRepo)(nil)

const ventaColumns = `v.id, v.cliente_id, v.vendedor_id, v.estado, v.metodo_pago_id, v.numero_comprobante,
	v.tipo_comprobante, v.subtotal, v.descuento, v.total, v.notas, v.created_at`

// ventaSelect trae la cabecera con cliente, vendedor y método de pago embebidos.
const ventaSelect = `
	SELECT ` + ventaColumns + `,
		CASE WHEN c.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', c.id, 'full_name', c.full_name, 'phone', c.phone) END,
		CASE WHEN p.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', p.id, 'full_name', p.full_name) END,
		CASE WHEN mp.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', mp.id, 'nombre', mp.nombre, 'activo', mp.activo, 'created_at', mp.created_at) END
	FROM ventas v
	LEFT JOIN clients c ON c.id = v.cliente_id
	LEFT JOIN profiles p ON p.id = v.vendedor_id
	LEFT JOIN metodos_pago mp ON mp.id = v.metodo_pago_id`

// VentaRepo implementación de VentaRepository (usable con pool o tx).
type VentaRepo struct {
	q Querier
}

// NewVentaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

func scanVentaHeader(row pgx.Row, v *entity.Venta) error {
	return row.Scan(&v.ID, &v.ClienteID, &v.VendedorID, &v.Estado, &v.MetodoPagoID, &v.NumeroComprobante,
		&v.TipoComprobante, &v.Subtotal, &v.Descuento, &v.Total, &v.Notas, &v.CreatedAt)
}

func scanVentaJoined(row pgx.Row, v *entity.Venta) error {
	return row.Scan(&v.ID, &v.ClienteID, &v.VendedorID, &v.Estado, &v.MetodoPagoID, &v.NumeroComprobante,
		&v.TipoComprobante, &v.Subtotal, &v.Descuento, &v.Total, &v.Notas, &v.CreatedAt,
		&v.Cliente, &v.Vendedor, &v.MetodoPago)
}

// returning ejecuta una sentencia con RETURNING de cabecera; nil, nil si no afectó filas.
func (r *VentaRepo) returning(ctx context.Context, op, query string, args ...any) (*entity.Venta, error) {
	var v entity.Venta
	if err := scanVentaHeader(r.q.QueryRow(ctx, query, args...), &v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("ventas", op, err)
	}
	return &v, nil
}

// Create inserta la cabecera de una venta.
func (r *VentaRepo) Create(ctx context.Context, v *entity.Venta) (*entity.Venta, error) {
	query := `
		INSERT INTO ventas AS v (cliente_id, vendedor_id, estado, metodo_pago_id, subtotal, descuento, total, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + ventaColumns
	out, err := r.returning(ctx, "insert", query,
		v.ClienteID, v.VendedorID, v.Estado, v.MetodoPagoID, v.Subtotal, v.Descuento, v.Total, v.Notas)
	if err == nil && out == nil {
		return nil, mapErr("ventas", "insert", pgx.ErrNoRows)
	}
	return out, err
}

// GetByID carga la venta completa; nil, nil si no existe.
func (r *VentaRepo) GetByID(ctx context.Context, id int64) (*entity.Venta, error) {
	var v entity.Venta
	if err := scanVentaJoined(r.q.QueryRow(ctx, ventaSelect+` WHERE v.id = $1`, id), &v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("ventas", "get", err)
	}
	items, err := NewVentaItemRepository(r.q).ListByVentaID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Items = items
	return &v, nil
}

// List lista ventas más recientes primero con filtros y total exacto.
func (r *VentaRepo) List(ctx context.Context, f repository.VentaFilter) (repository.Page[entity.Venta], error) {
	var conds []string
	var args []any
	if f.Desde != nil {
		args = append(args, *f.Desde)
		conds = append(conds, fmt.Sprintf("v.created_at >= $%d", len(args)))
	}
	if f.Hasta != nil {
		args = append(args, *f.Hasta)
		conds = append(conds, fmt.Sprintf("v.created_at <= $%d", len(args)))
	}
	if f.Estado != "" {
		args = append(args, f.Estado)
		conds = append(conds, fmt.Sprintf("v.estado = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(v.numero_comprobante ILIKE $%[1]d OR c.full_name ILIKE $%[1]d)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT count(*) FROM ventas v LEFT JOIN clients c ON c.id = v.cliente_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return repository.Page[entity.Venta]{}, mapErr("ventas", "count", err)
	}

	query, pageArgs := appendWindow(ventaSelect+where+" ORDER BY v.created_at DESC, v.id DESC", args, f.From, f.To)
	rows, err := r.q.Query(ctx, query, pageArgs...)
	if err != nil {
		return repository.Page[entity.Venta]{}, mapErr("ventas", "list", err)
	}
	defer rows.Close()
	list := make([]*entity.Venta, 0)
	for rows.Next() {
		var v entity.Venta
		if err := scanVentaJoined(rows, &v); err != nil {
			return repository.Page[entity.Venta]{}, mapErr("ventas", "scan", err)
		}
		list = append(list, &v)
	}
	if err := rows.Err(); err != nil {
		return repository.Page[entity.Venta]{}, mapErr("ventas", "list", err)
	}
	return repository.Page[entity.Venta]{Data: list, Total: &total}, nil
}

// Complete cierra una venta pendiente.
func (r *VentaRepo) Complete(ctx context.Context, id int64, data repository.VentaCompletion) (*entity.Venta, error) {
	query := `
		UPDATE ventas AS v
		SET estado = '` + entity.VentaEstadoCompletada + `',
			metodo_pago_id = COALESCE($2, v.metodo_pago_id),
			numero_comprobante = $3,
			tipo_comprobante = $4
		WHERE v.id = $1 AND v.estado = '` + entity.VentaEstadoPendiente + `'
		RETURNING ` + ventaColumns
	return r.returning(ctx, "complete", query, id, data.MetodoPagoID, data.NumeroComprobante, data.TipoComprobante)
}

// Cancel anula una venta pendiente guardando el motivo en notas. La reposición de stock queda en la base.
func (r *VentaRepo) Cancel(ctx context.Context, id int64, motivo *string) (*entity.Venta, error) {
	query := `
		UPDATE ventas AS v
		SET estado = '` + entity.VentaEstadoCancelada + `', notas = $2
		WHERE v.id = $1 AND v.estado = '` + entity.VentaEstadoPendiente + `'
		RETURNING ` + ventaColumns
	return r.returning(ctx, "cancel", query, id, motivo)
}

// LockEstado toma la fila con FOR UPDATE; solo tiene efecto dentro de una transacción.
func (r *VentaRepo) LockEstado(ctx context.Context, id int64) (string, error) {
	var estado string
	err := r.q.QueryRow(ctx, `SELECT estado FROM ventas WHERE id = $1 FOR UPDATE`, id).Scan(&estado)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", mapErr("ventas", "lock", err)
	}
	return estado, nil
}

// RecalculateTotals recalcula subtotal, descuento y total desde los ítems.
func (r *VentaRepo) RecalculateTotals(ctx context.Context, id int64) error {
	query := `
		UPDATE ventas v
		SET subtotal = s.subtotal, descuento = s.descuento, total = s.total
		FROM (
			SELECT COALESCE(SUM(subtotal), 0) AS subtotal,
				COALESCE(SUM(descuento), 0) AS descuento,
				COALESCE(SUM(total), 0) AS total
			FROM venta_items WHERE venta_id = $1
		) s
		WHERE v.id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return mapErr("ventas", "recalculate totals", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("ventas")
	}
	return nil
}

// Delete borra una venta; NOT_FOUND si no existía.
func (r *VentaRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return mapErr("ventas", "delete", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("ventas")
	}
	return nil
}
