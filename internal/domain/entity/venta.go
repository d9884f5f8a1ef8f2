package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una venta. pendiente → completada | cancelada (ambos terminales).
const (
	VentaEstadoPendiente  = "pendiente"
	VentaEstadoCompletada = "completada"
	VentaEstadoCancelada  = "cancelada"
)

// Venta cabecera de una venta. Subtotal/Descuento/Total se recalculan desde los ítems.
type Venta struct {
	ID                int64           `json:"id"`
	ClienteID         *int64          `json:"cliente_id"`
	VendedorID        *uuid.UUID      `json:"vendedor_id"`
	Estado            string          `json:"estado"`
	MetodoPagoID      *int64          `json:"metodo_pago_id"`
	NumeroComprobante *string         `json:"numero_comprobante"`
	TipoComprobante   *string         `json:"tipo_comprobante"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Descuento         decimal.Decimal `json:"descuento"`
	Total             decimal.Decimal `json:"total"`
	Notas             *string         `json:"notas"`
	CreatedAt         time.Time       `json:"created_at"`

	Cliente    *VentaCliente `json:"clients,omitempty"`
	Vendedor   *Profile      `json:"profiles,omitempty"`
	MetodoPago *MetodoPago   `json:"metodos_pago,omitempty"`
	Items      []*VentaItem  `json:"venta_items,omitempty"`
}

// VentaCliente datos del cliente embebidos en la venta.
type VentaCliente struct {
	ID       int64   `json:"id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

// Profile perfil del usuario vendedor.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName *string   `json:"full_name"`
}

// VentaItem línea de venta. Subtotal = Cantidad × PrecioUnitario; Total = Subtotal − Descuento.
type VentaItem struct {
	ID             int64           `json:"id"`
	VentaID        int64           `json:"venta_id"`
	ArticuloID     int64           `json:"articulo_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"created_at"`

	Articulo *VentaArticulo `json:"articulos,omitempty"`
}

// VentaArticulo datos del artículo embebidos en la línea.
type VentaArticulo struct {
	ID           int64   `json:"id"`
	Nombre       string  `json:"nombre"`
	Codigo       *string `json:"codigo"`
	UnidadMedida *string `json:"unidad_medida"`
	StockActual  *int    `json:"stock_actual,omitempty"`
}
