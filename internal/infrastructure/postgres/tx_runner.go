package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/turnos-api/internal/application/ventas"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ ventas.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunVenta inicia una transacción, ejecuta fn con los repos de ventas atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunVenta(ctx context.Context, fn func(
	ventaRepo repository.VentaRepository,
	itemRepo repository.VentaItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapErr("ventas", "begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewVentaRepository(tx), NewVentaItemRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapErr("ventas", "commit transaction", err)
	}
	return nil
}
