package repository

import (
	"context"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// TurnoRepository puerto de persistencia de reservas.
type TurnoRepository interface {
	// ListByRange devuelve los turnos con start_at en [from, to), ordenados por start_at.
	// Un límite nil no restringe.
	ListByRange(ctx context.Context, from, to *time.Time) ([]*entity.Turno, error)
	Create(ctx context.Context, t *entity.Turno) (*entity.Turno, error)
	CreateMany(ctx context.Context, turnos []*entity.Turno) ([]entity.TurnoSeriesRow, error)
	Remove(ctx context.Context, id int64) (int64, error)
}
