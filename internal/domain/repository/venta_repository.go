package repository

import (
	"context"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// VentaFilter filtros del listado de ventas.
type VentaFilter struct {
	From   *int
	To     *int
	Desde  *time.Time
	Hasta  *time.Time
	Search string
	Estado string
}

// VentaCompletion datos de cierre de una venta.
type VentaCompletion struct {
	MetodoPagoID      *int64
	NumeroComprobante *string
	TipoComprobante   *string
}

// VentaRepository puerto de persistencia de ventas.
type VentaRepository interface {
	Create(ctx context.Context, v *entity.Venta) (*entity.Venta, error)
	// GetByID carga la venta con cliente, vendedor, ítems y método de pago. nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Venta, error)
	List(ctx context.Context, filter VentaFilter) (Page[entity.Venta], error)
	// Complete y Cancel solo aplican sobre ventas pendientes; nil, nil si no aplicaron.
	Complete(ctx context.Context, id int64, data VentaCompletion) (*entity.Venta, error)
	Cancel(ctx context.Context, id int64, motivo *string) (*entity.Venta, error)
	// LockEstado bloquea la fila hasta el fin de la transacción y devuelve su estado; "" si no existe.
	LockEstado(ctx context.Context, id int64) (string, error)
	RecalculateTotals(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// VentaItemRepository puerto de persistencia de líneas de venta.
type VentaItemRepository interface {
	Create(ctx context.Context, item *entity.VentaItem) (*entity.VentaItem, error)
	ListByVentaID(ctx context.Context, ventaID int64) ([]*entity.VentaItem, error)
	GetByID(ctx context.Context, id int64) (*entity.VentaItem, error)
	// Delete devuelve la línea borrada (para recalcular su venta); nil, nil si no existía.
	Delete(ctx context.Context, id int64) (*entity.VentaItem, error)
}
