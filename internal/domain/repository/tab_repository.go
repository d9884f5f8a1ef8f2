package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TabRepository puerto de persistencia de cuentas.
type TabRepository interface {
	GetByTurnoID(ctx context.Context, turnoID int64) (*entity.Tab, error)
	GetByID(ctx context.Context, id int64) (*entity.Tab, error)
	Create(ctx context.Context, tab *entity.Tab) (*entity.Tab, error)
	// TransitionFromOpen cambia el estado solo si la cuenta sigue abierta; nil, nil si no aplicó.
	TransitionFromOpen(ctx context.Context, id int64, status string) (*entity.Tab, error)
}

// TabItemRepository puerto de persistencia de ítems de cuenta.
type TabItemRepository interface {
	ListByTabID(ctx context.Context, tabID int64) ([]*entity.TabItem, error)
	// AddProduct copia nombre y precio del artículo en el mismo INSERT; nil, nil si el artículo no existe.
	AddProduct(ctx context.Context, tabID, productID int64, qty int) (*entity.TabItem, error)
	AddManual(ctx context.Context, tabID int64, name string, unitPrice decimal.Decimal, qty int) (*entity.TabItem, error)
	UpdateQty(ctx context.Context, id int64, qty int) (*entity.TabItem, error)
	Delete(ctx context.Context, id int64) (*entity.TabItem, error)
}
