// Package catalog casos de uso de las entidades de consulta (clientes, artículos, categorías,
// proveedores, métodos de pago, canchas y tipos de turno).
package catalog

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Service CRUD con validación de campos obligatorios y estado por operación.
type Service[T any] struct {
	entity       string
	notFoundCode string
	repo         repository.CatalogRepository[T]
	tracker      *opstatus.Tracker
	validate     func(*T) error
}

// NewService construye el servicio. entity nombra la tabla (y el prefijo de operación).
func NewService[T any](entity string, repo repository.CatalogRepository[T], tracker *opstatus.Tracker, validate func(*T) error, notFoundCode string) *Service[T] {
	if notFoundCode == "" {
		notFoundCode = domain.CodeNotFound
	}
	if validate == nil {
		validate = func(*T) error { return nil }
	}
	return &Service[T]{
		entity:       entity,
		notFoundCode: notFoundCode,
		repo:         repo,
		tracker:      tracker,
		validate:     validate,
	}
}

// Entity nombre de la entidad.
func (s *Service[T]) Entity() string { return s.entity }

func (s *Service[T]) op(name string) string { return s.entity + "." + name }

// List listado con ventana y búsqueda.
func (s *Service[T]) List(ctx context.Context, filter repository.ListFilter) (repository.Page[T], error) {
	return opstatus.Do(ctx, s.tracker, s.op("list"), func(ctx context.Context) (repository.Page[T], error) {
		if err := ValidateWindow(filter.From, filter.To); err != nil {
			return repository.Page[T]{}, err
		}
		return s.repo.List(ctx, filter)
	})
}

// Get obtiene por ID; la ausencia se informa con el código de la entidad.
func (s *Service[T]) Get(ctx context.Context, id int64) (*T, error) {
	return opstatus.Do(ctx, s.tracker, s.op("get"), func(ctx context.Context) (*T, error) {
		if id <= 0 {
			return nil, domain.Invalid("ID inválido.")
		}
		item, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NewAppError(s.notFoundCode, "", nil)
		}
		return item, nil
	})
}

// Create valida e inserta.
func (s *Service[T]) Create(ctx context.Context, item *T) (*T, error) {
	return opstatus.Do(ctx, s.tracker, s.op("create"), func(ctx context.Context) (*T, error) {
		if err := s.validate(item); err != nil {
			return nil, err
		}
		return s.repo.Create(ctx, item)
	})
}

// Update valida y actualiza. El ID viaja dentro de item.
func (s *Service[T]) Update(ctx context.Context, item *T) (*T, error) {
	return opstatus.Do(ctx, s.tracker, s.op("update"), func(ctx context.Context) (*T, error) {
		if err := s.validate(item); err != nil {
			return nil, err
		}
		return s.repo.Update(ctx, item)
	})
}

// Delete borra y devuelve la fila borrada.
func (s *Service[T]) Delete(ctx context.Context, id int64) (*T, error) {
	return opstatus.Do(ctx, s.tracker, s.op("delete"), func(ctx context.Context) (*T, error) {
		if id <= 0 {
			return nil, domain.Invalid("ID inválido.")
		}
		return s.repo.Delete(ctx, id)
	})
}
