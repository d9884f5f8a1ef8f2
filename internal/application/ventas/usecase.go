// Package ventas ciclo de vida de una venta: pendiente → completada | cancelada.
package ventas

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// TxRunner ejecuta fn con repos de ventas atados a una misma transacción.
type TxRunner interface {
	RunVenta(ctx context.Context, fn func(
		ventaRepo repository.VentaRepository,
		itemRepo repository.VentaItemRepository,
	) error) error
}

// StockCache caché que guarda stock de artículos. Los triggers de la base mueven el stock
// al cargar ítems o anular ventas, así que hay que vaciarla después de esas operaciones.
type StockCache interface {
	Invalidate(ctx context.Context)
}

// UseCase casos de uso de ventas.
type UseCase struct {
	ventas    repository.VentaRepository
	items     repository.VentaItemRepository
	tx        TxRunner
	tracker   *opstatus.Tracker
	publisher ports.EventPublisher
	stock     StockCache
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(
	ventas repository.VentaRepository,
	items repository.VentaItemRepository,
	tx TxRunner,
	tracker *opstatus.Tracker,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *UseCase {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	return &UseCase{ventas: ventas, items: items, tx: tx, tracker: tracker, publisher: publisher, log: log}
}

// WithStockCache registra la caché de artículos a vaciar cuando cambia el stock.
func (uc *UseCase) WithStockCache(c StockCache) *UseCase {
	uc.stock = c
	return uc
}

// CrearVenta abre una venta pendiente a nombre del vendedor de la sesión.
func (uc *UseCase) CrearVenta(ctx context.Context, vendedorID uuid.UUID, req dto.CrearVentaRequest) (*entity.Venta, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.crear", func(ctx context.Context) (*entity.Venta, error) {
		return uc.ventas.Create(ctx, NewVentaPayload(vendedorID, req))
	})
}

// AgregarItem inserta una línea y recalcula los totales de la venta en la misma transacción.
func (uc *UseCase) AgregarItem(ctx context.Context, ventaID int64, req dto.AgregarItemRequest) (*entity.VentaItem, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.agregarItem", func(ctx context.Context) (*entity.VentaItem, error) {
		payload, err := NewVentaItemPayload(ventaID, req)
		if err != nil {
			return nil, err
		}
		var created *entity.VentaItem
		err = uc.tx.RunVenta(ctx, func(ventaRepo repository.VentaRepository, itemRepo repository.VentaItemRepository) error {
			if err := ensurePendiente(ctx, ventaRepo, ventaID); err != nil {
				return err
			}
			var err error
			if created, err = itemRepo.Create(ctx, payload); err != nil {
				return err
			}
			return ventaRepo.RecalculateTotals(ctx, ventaID)
		})
		if err != nil {
			return nil, ventaScoped(err)
		}
		uc.invalidateStock(ctx)
		return created, nil
	})
}

// GetItemsVenta líneas con su artículo, en orden de carga.
func (uc *UseCase) GetItemsVenta(ctx context.Context, ventaID int64) ([]*entity.VentaItem, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.items", func(ctx context.Context) ([]*entity.VentaItem, error) {
		if ventaID <= 0 {
			return nil, domain.Invalid("ID de venta inválido.")
		}
		return uc.items.ListByVentaID(ctx, ventaID)
	})
}

// EliminarItem borra una línea y recalcula los totales de su venta.
func (uc *UseCase) EliminarItem(ctx context.Context, itemID int64) (*entity.VentaItem, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.eliminarItem", func(ctx context.Context) (*entity.VentaItem, error) {
		if itemID <= 0 {
			return nil, domain.Invalid("ID de ítem inválido.")
		}
		var deleted *entity.VentaItem
		err := uc.tx.RunVenta(ctx, func(ventaRepo repository.VentaRepository, itemRepo repository.VentaItemRepository) error {
			item, err := itemRepo.GetByID(ctx, itemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.NewAppError(domain.CodeNotFound, "", nil)
			}
			if err := ensurePendiente(ctx, ventaRepo, item.VentaID); err != nil {
				return err
			}
			if deleted, err = itemRepo.Delete(ctx, itemID); err != nil {
				return err
			}
			if deleted == nil {
				return domain.NewAppError(domain.CodeNotFound, "", nil)
			}
			return ventaRepo.RecalculateTotals(ctx, deleted.VentaID)
		})
		if err != nil {
			return nil, err
		}
		uc.invalidateStock(ctx)
		return deleted, nil
	})
}

// CompletarVenta cierra una venta pendiente con método de pago y comprobante.
func (uc *UseCase) CompletarVenta(ctx context.Context, id int64, req dto.CompletarVentaRequest) (*entity.Venta, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.completar", func(ctx context.Context) (*entity.Venta, error) {
		if id <= 0 {
			return nil, domain.Invalid("ID de venta inválido.")
		}
		v, err := uc.ventas.Complete(ctx, id, NewCompleteVentaPayload(req))
		if err != nil {
			return nil, ventaScoped(err)
		}
		if v == nil {
			return nil, uc.transitionRejected(ctx, id)
		}
		uc.publish(ctx, ports.EventVentaCompletada, v)
		return v, nil
	})
}

// CancelarVenta anula una venta pendiente; el motivo queda en notas tal como llega.
func (uc *UseCase) CancelarVenta(ctx context.Context, id int64, motivo *string) (*entity.Venta, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.cancelar", func(ctx context.Context) (*entity.Venta, error) {
		if id <= 0 {
			return nil, domain.Invalid("ID de venta inválido.")
		}
		v, err := uc.ventas.Cancel(ctx, id, motivo)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, uc.transitionRejected(ctx, id)
		}
		uc.invalidateStock(ctx)
		uc.publish(ctx, ports.EventVentaCancelada, v)
		return v, nil
	})
}

// GetVenta venta completa; VENTA_NOT_FOUND si no existe.
func (uc *UseCase) GetVenta(ctx context.Context, id int64) (*entity.Venta, error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.get", func(ctx context.Context) (*entity.Venta, error) {
		return uc.getVenta(ctx, id)
	})
}

func (uc *UseCase) getVenta(ctx context.Context, id int64) (*entity.Venta, error) {
	if id <= 0 {
		return nil, domain.Invalid("ID de venta inválido.")
	}
	v, err := uc.ventas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewAppError(domain.CodeVentaNotFound, "", nil)
	}
	return v, nil
}

// LoadVentas listado filtrado, más recientes primero, con total.
func (uc *UseCase) LoadVentas(ctx context.Context, filter repository.VentaFilter) (repository.Page[entity.Venta], error) {
	return opstatus.Do(ctx, uc.tracker, "ventas.load", func(ctx context.Context) (repository.Page[entity.Venta], error) {
		if filter.Desde != nil && filter.Hasta != nil && filter.Hasta.Before(*filter.Desde) {
			return repository.Page[entity.Venta]{}, domain.Invalid("hasta debe ser posterior a desde.")
		}
		return uc.ventas.List(ctx, filter)
	})
}

// DeleteVenta borra una venta; VENTA_NOT_FOUND si no existía.
func (uc *UseCase) DeleteVenta(ctx context.Context, id int64) error {
	return opstatus.Run(ctx, uc.tracker, "ventas.delete", func(ctx context.Context) error {
		if id <= 0 {
			return domain.Invalid("ID de venta inválido.")
		}
		return ventaScoped(uc.ventas.Delete(ctx, id))
	})
}

// transitionRejected explica por qué una venta no pasó de pendiente.
func (uc *UseCase) transitionRejected(ctx context.Context, id int64) error {
	v, err := uc.getVenta(ctx, id)
	if err != nil {
		return err
	}
	switch v.Estado {
	case entity.VentaEstadoCompletada:
		return domain.NewAppError(domain.CodeVentaAlreadyCompleted, "", nil)
	case entity.VentaEstadoCancelada:
		return domain.NewAppError(domain.CodeVentaAlreadyCancelled, "", nil)
	default:
		return domain.NewAppError(domain.CodeUnknown, "", nil)
	}
}

// ensurePendiente bloquea la venta hasta el fin de la transacción y exige que siga pendiente.
func ensurePendiente(ctx context.Context, ventaRepo repository.VentaRepository, id int64) error {
	estado, err := ventaRepo.LockEstado(ctx, id)
	if err != nil {
		return err
	}
	switch estado {
	case entity.VentaEstadoPendiente:
		return nil
	case entity.VentaEstadoCompletada:
		return domain.NewAppError(domain.CodeVentaAlreadyCompleted, "", nil)
	case entity.VentaEstadoCancelada:
		return domain.NewAppError(domain.CodeVentaAlreadyCancelled, "", nil)
	case "":
		return domain.NewAppError(domain.CodeVentaNotFound, "", nil)
	default:
		return domain.NewAppError(domain.CodeUnknown, "", nil)
	}
}

func (uc *UseCase) invalidateStock(ctx context.Context) {
	if uc.stock != nil {
		uc.stock.Invalidate(ctx)
	}
}

func (uc *UseCase) publish(ctx context.Context, key string, v *entity.Venta) {
	if err := uc.publisher.Publish(ctx, key, v); err != nil {
		uc.log.Warn().Err(err).Str("routing_key", key).Int64("venta_id", v.ID).Msg("no se pudo publicar el evento")
	}
}

// ventaScoped traduce el NOT_FOUND genérico del almacén al de ventas.
func ventaScoped(err error) error {
	if err != nil && domain.CodeOf(err) == domain.CodeNotFound {
		return domain.NewAppError(domain.CodeVentaNotFound, "", err)
	}
	return err
}
