// Package tabs cuentas abiertas por turno y sus ítems.
//
// Una cuenta nace "open" y termina "closed" o "cancelled"; no se reabre.
// Hay a lo sumo una cuenta por turno: la garantiza el índice único de la base y
// GetOrCreateTabForTurno resuelve la carrera releyendo la fila ganadora.
package tabs

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Bundle cuenta del turno con sus ítems. Tab es nil si el turno no tiene cuenta.
type Bundle struct {
	Tab   *entity.Tab       `json:"tab"`
	Items []*entity.TabItem `json:"items"`
}

// UseCase casos de uso de cuentas e ítems.
type UseCase struct {
	tabs      repository.TabRepository
	items     repository.TabItemRepository
	tracker   *opstatus.Tracker
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tabs repository.TabRepository, items repository.TabItemRepository, tracker *opstatus.Tracker, publisher ports.EventPublisher, log zerolog.Logger) *UseCase {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	return &UseCase{tabs: tabs, items: items, tracker: tracker, publisher: publisher, log: log}
}

// GetByTurnoID cuenta del turno; nil si no tiene o si turnoID es 0.
func (uc *UseCase) GetByTurnoID(ctx context.Context, turnoID int64) (*entity.Tab, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.getByTurno", func(ctx context.Context) (*entity.Tab, error) {
		if turnoID <= 0 {
			return nil, nil
		}
		return uc.tabs.GetByTurnoID(ctx, turnoID)
	})
}

// GetByID cuenta por ID; TAB_NOT_FOUND si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*entity.Tab, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.get", func(ctx context.Context) (*entity.Tab, error) {
		if id <= 0 {
			return nil, domain.Invalid("ID de cuenta inválido.")
		}
		tab, err := uc.tabs.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if tab == nil {
			return nil, domain.NewAppError(domain.CodeTabNotFound, "", nil)
		}
		return tab, nil
	})
}

// Create abre una cuenta para el turno.
func (uc *UseCase) Create(ctx context.Context, turnoID int64, clientID *int64, notes *string) (*entity.Tab, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.create", func(ctx context.Context) (*entity.Tab, error) {
		return uc.create(ctx, turnoID, clientID, notes)
	})
}

func (uc *UseCase) create(ctx context.Context, turnoID int64, clientID *int64, notes *string) (*entity.Tab, error) {
	if turnoID <= 0 {
		return nil, domain.Invalid("El turno es obligatorio para abrir una cuenta.")
	}
	return uc.tabs.Create(ctx, &entity.Tab{
		TurnoID:  turnoID,
		ClientID: clientID,
		Status:   entity.TabStatusOpen,
		Notes:    notes,
	})
}

// GetOrCreateTabForTurno devuelve la cuenta existente o la crea. Si otro proceso la
// creó en el medio (violación de unicidad), se relee y se devuelve la ganadora.
func (uc *UseCase) GetOrCreateTabForTurno(ctx context.Context, turnoID int64, clientID *int64, notes *string) (*entity.Tab, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.getOrCreate", func(ctx context.Context) (*entity.Tab, error) {
		if turnoID <= 0 {
			return nil, domain.Invalid("El turno es obligatorio para abrir una cuenta.")
		}
		existing, err := uc.tabs.GetByTurnoID(ctx, turnoID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		created, err := uc.create(ctx, turnoID, clientID, notes)
		if err == nil {
			return created, nil
		}
		if !isDuplicate(err) {
			return nil, err
		}
		winner, rerr := uc.tabs.GetByTurnoID(ctx, turnoID)
		if rerr != nil {
			return nil, rerr
		}
		if winner == nil {
			return nil, err
		}
		uc.log.Debug().Int64("turno_id", turnoID).Msg("cuenta creada en paralelo, se usa la existente")
		return winner, nil
	})
}

// LoadTabBundleByTurnoID cuenta del turno con sus ítems; {nil, []} si no tiene.
func (uc *UseCase) LoadTabBundleByTurnoID(ctx context.Context, turnoID int64) (Bundle, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.loadBundle", func(ctx context.Context) (Bundle, error) {
		empty := Bundle{Items: []*entity.TabItem{}}
		if turnoID <= 0 {
			return empty, nil
		}
		tab, err := uc.tabs.GetByTurnoID(ctx, turnoID)
		if err != nil || tab == nil {
			return empty, err
		}
		items, err := uc.items.ListByTabID(ctx, tab.ID)
		if err != nil {
			return empty, err
		}
		return Bundle{Tab: tab, Items: items}, nil
	})
}

// Close cierra una cuenta abierta y sella closed_at.
func (uc *UseCase) Close(ctx context.Context, id int64) (*entity.Tab, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.close", func(ctx context.Context) (*entity.Tab, error) {
		return uc.transition(ctx, id, entity.TabStatusClosed, ports.EventTabClosed)
	})
}

// Cancel cancela una cuenta abierta.
func (uc *UseCase) Cancel(ctx context.Context, id int64) (*entity.Tab, error) {
	return opstatus.Do(ctx, uc.tracker, "tabs.cancel", func(ctx context.Context) (*entity.Tab, error) {
		return uc.transition(ctx, id, entity.TabStatusCancelled, ports.EventTabCancelled)
	})
}

func (uc *UseCase) transition(ctx context.Context, id int64, status, event string) (*entity.Tab, error) {
	if id <= 0 {
		return nil, domain.Invalid("ID de cuenta inválido.")
	}
	tab, err := uc.tabs.TransitionFromOpen(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if tab == nil {
		current, err := uc.tabs.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.NewAppError(domain.CodeTabNotFound, "", nil)
		}
		return nil, domain.NewAppError(domain.CodeTabNotOpen, "", nil)
	}
	if err := uc.publisher.Publish(ctx, event, tab); err != nil {
		uc.log.Warn().Err(err).Str("routing_key", event).Int64("tab_id", tab.ID).Msg("no se pudo publicar el evento")
	}
	return tab, nil
}

// ListItems ítems de la cuenta en orden de carga; vacío si tabID es 0.
func (uc *UseCase) ListItems(ctx context.Context, tabID int64) ([]*entity.TabItem, error) {
	return opstatus.Do(ctx, uc.tracker, "tabItems.list", func(ctx context.Context) ([]*entity.TabItem, error) {
		if tabID <= 0 {
			return []*entity.TabItem{}, nil
		}
		return uc.items.ListByTabID(ctx, tabID)
	})
}

// AddProductItem agrega un artículo con nombre y precio vigentes. qty nil equivale a 1.
func (uc *UseCase) AddProductItem(ctx context.Context, tabID, productID int64, qty *int) (*entity.TabItem, error) {
	return opstatus.Do(ctx, uc.tracker, "tabItems.addProduct", func(ctx context.Context) (*entity.TabItem, error) {
		if tabID <= 0 || productID <= 0 {
			return nil, domain.Invalid("La cuenta y el producto son obligatorios.")
		}
		n, err := quantity(qty)
		if err != nil {
			return nil, err
		}
		item, err := uc.items.AddProduct(ctx, tabID, productID, n)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NewAppError(domain.CodeProductNotFound, "", nil)
		}
		return item, nil
	})
}

// AddManualItem agrega un ítem libre. Nombre y precio se validan antes de escribir.
func (uc *UseCase) AddManualItem(ctx context.Context, tabID int64, name string, unitPrice *decimal.Decimal, qty *int) (*entity.TabItem, error) {
	return opstatus.Do(ctx, uc.tracker, "tabItems.addManual", func(ctx context.Context) (*entity.TabItem, error) {
		if tabID <= 0 {
			return nil, domain.Invalid("ID de cuenta inválido.")
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, domain.Invalid("El nombre del ítem es obligatorio.")
		}
		if unitPrice == nil {
			return nil, domain.Invalid("El precio del ítem es obligatorio.")
		}
		if unitPrice.IsNegative() {
			return nil, domain.Invalid("El precio no puede ser negativo.")
		}
		n, err := quantity(qty)
		if err != nil {
			return nil, err
		}
		return uc.items.AddManual(ctx, tabID, name, *unitPrice, n)
	})
}

// UpdateQty cambia la cantidad de un ítem; debe ser un entero positivo.
func (uc *UseCase) UpdateQty(ctx context.Context, itemID int64, qty int) (*entity.TabItem, error) {
	return opstatus.Do(ctx, uc.tracker, "tabItems.updateQty", func(ctx context.Context) (*entity.TabItem, error) {
		if itemID <= 0 {
			return nil, domain.Invalid("ID de ítem inválido.")
		}
		if qty <= 0 {
			return nil, domain.Invalid("La cantidad debe ser un entero positivo.")
		}
		return uc.items.UpdateQty(ctx, itemID, qty)
	})
}

// RemoveItem borra un ítem y lo devuelve.
func (uc *UseCase) RemoveItem(ctx context.Context, itemID int64) (*entity.TabItem, error) {
	return opstatus.Do(ctx, uc.tracker, "tabItems.remove", func(ctx context.Context) (*entity.TabItem, error) {
		if itemID <= 0 {
			return nil, domain.Invalid("ID de ítem inválido.")
		}
		return uc.items.Delete(ctx, itemID)
	})
}

func quantity(qty *int) (int, error) {
	if qty == nil {
		return 1, nil
	}
	if *qty <= 0 {
		return 0, domain.Invalid("La cantidad debe ser un entero positivo.")
	}
	return *qty, nil
}

// isDuplicate reconoce la violación de unicidad ya mapeada o el texto crudo del motor.
func isDuplicate(err error) bool {
	if domain.CodeOf(err) == domain.CodeUniqueViolation {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate") {
			return true
		}
	}
	return false
}
