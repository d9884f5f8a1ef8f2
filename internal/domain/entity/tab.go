package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cuenta (tab). open → closed | cancelled, sin reapertura.
const (
	TabStatusOpen      = "open"
	TabStatusClosed    = "closed"
	TabStatusCancelled = "cancelled"
)

// Tab cuenta abierta asociada a un turno. Hay a lo sumo una por turno (uniq_tabs_turno_id).
type Tab struct {
	ID        int64      `json:"id"`
	TurnoID   int64      `json:"turno_id"`
	ClientID  *int64     `json:"client_id"`
	Status    string     `json:"status"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// IsOpen indica si la cuenta admite cambios de estado.
func (t *Tab) IsOpen() bool { return t != nil && t.Status == TabStatusOpen }

// TabItem línea de una cuenta. Con ProductID los snapshots se copian del artículo;
// sin ProductID es un ítem manual con nombre y precio explícitos.
type TabItem struct {
	ID                int64            `json:"id"`
	TabID             int64            `json:"tab_id"`
	ProductID         *int64           `json:"product_id"`
	NameSnapshot      string           `json:"name_snapshot"`
	UnitPriceSnapshot *decimal.Decimal `json:"unit_price_snapshot"`
	Qty               int              `json:"qty"`
	CreatedAt         time.Time        `json:"created_at"`
}
