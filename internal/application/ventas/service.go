package ventas

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// NewVentaPayload arma la cabecera de una venta nueva: pendiente y con totales en cero.
func NewVentaPayload(vendedorID uuid.UUID, req dto.CrearVentaRequest) *entity.Venta {
	v := &entity.Venta{
		ClienteID:    req.ClienteID.ID(),
		Estado:       entity.VentaEstadoPendiente,
		MetodoPagoID: req.MetodoPagoID,
		Subtotal:     decimal.Zero,
		Descuento:    decimal.Zero,
		Total:        decimal.Zero,
		Notas:        trimmedOrNil(req.Notas),
	}
	if vendedorID != uuid.Nil {
		v.VendedorID = &vendedorID
	}
	return v
}

// CalculateItemTotals subtotal = cantidad × precio; total = subtotal − descuento.
func CalculateItemTotals(cantidad int, precioUnitario, descuento decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = precioUnitario.Mul(decimal.NewFromInt(int64(cantidad)))
	return subtotal, subtotal.Sub(descuento)
}

// NewVentaItemPayload valida la línea y calcula sus totales.
func NewVentaItemPayload(ventaID int64, req dto.AgregarItemRequest) (*entity.VentaItem, error) {
	if ventaID <= 0 {
		return nil, domain.Invalid("ID de venta inválido.")
	}
	if req.ArticuloID <= 0 {
		return nil, domain.Invalid("El artículo es obligatorio.")
	}
	if req.Cantidad <= 0 {
		return nil, domain.Invalid("La cantidad debe ser un entero positivo.")
	}
	if req.PrecioUnitario.IsNegative() || req.Descuento.IsNegative() {
		return nil, domain.Invalid("Precio y descuento no pueden ser negativos.")
	}
	subtotal, total := CalculateItemTotals(req.Cantidad, req.PrecioUnitario, req.Descuento)
	if total.IsNegative() {
		return nil, domain.Invalid("El descuento no puede superar el subtotal.")
	}
	return &entity.VentaItem{
		VentaID:        ventaID,
		ArticuloID:     req.ArticuloID,
		Cantidad:       req.Cantidad,
		PrecioUnitario: req.PrecioUnitario,
		Descuento:      req.Descuento,
		Subtotal:       subtotal,
		Total:          total,
	}, nil
}

// NewCompleteVentaPayload datos de cierre con los textos normalizados.
func NewCompleteVentaPayload(req dto.CompletarVentaRequest) repository.VentaCompletion {
	return repository.VentaCompletion{
		MetodoPagoID:      req.MetodoPagoID,
		NumeroComprobante: trimmedOrNil(req.NumeroComprobante),
		TipoComprobante:   trimmedOrNil(req.TipoComprobante),
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
