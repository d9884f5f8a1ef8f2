package dto

import "github.com/shopspring/decimal"

// OpenTabRequest cuerpo de POST /api/tabs/turno/:turnoId.
type OpenTabRequest struct {
	ClientID *int64  `json:"client_id"`
	Notes    *string `json:"notes"`
}

// AddProductItemRequest agrega un artículo a la cuenta. Qty vacío equivale a 1.
type AddProductItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       *int  `json:"qty"`
}

// AddManualItemRequest agrega un ítem libre (nombre y precio explícitos).
type AddManualItemRequest struct {
	Name      string           `json:"name"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Qty       *int             `json:"qty"`
}

// UpdateQtyRequest cuerpo de PATCH /api/tab-items/:id.
type UpdateQtyRequest struct {
	Qty int `json:"qty"`
}
