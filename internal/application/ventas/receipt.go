package ventas

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante de una venta.
type ReceiptGenerator interface {
	GenerateVentaReceipt(v *entity.Venta) ([]byte, error)
}

// Receipt PDF del comprobante de una venta completada.
func (uc *UseCase) Receipt(ctx context.Context, id int64, gen ReceiptGenerator) ([]byte, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.comprobante", func(ctx context.Context) ([]byte, error) {
		v, err := uc.getVenta(ctx, id)
		if err != nil {
			return nil, err
		}
		if v.Estado != entity.VentaEstadoCompletada {
			return nil, domain.Invalid("Solo las ventas completadas tienen comprobante.")
		}
		return gen.GenerateVentaReceipt(v)
	})
}
