package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Articulo producto vendible. StockActual lo mantienen los triggers de la base.
type Articulo struct {
	ID           int64           `json:"id"`
	Codigo       *string         `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"`
	StockActual  int             `json:"stock_actual"`
	UnidadMedida *string         `json:"unidad_medida"`
	CategoriaID  *int64          `json:"categoria_id"`
	ProveedorID  *int64          `json:"proveedor_id"`
	Activo       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
}
