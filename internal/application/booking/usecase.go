// Package booking casos de uso de turnos: rango del calendario, alta, series fijas y baja.
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/application/calendar"
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// SeriesCreated payload del evento turno.series_created.
type SeriesCreated struct {
	SeriesID uuid.UUID `json:"series_id"`
	Count    int       `json:"count"`
}

// UseCase orquesta el repositorio de turnos y el mapeo a eventos de calendario.
type UseCase struct {
	repo      repository.TurnoRepository
	mapper    *calendar.Mapper
	tracker   *opstatus.Tracker
	publisher ports.EventPublisher
	log       zerolog.Logger
	newID     func() uuid.UUID
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(repo repository.TurnoRepository, mapper *calendar.Mapper, tracker *opstatus.Tracker, publisher ports.EventPublisher, log zerolog.Logger) *UseCase {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	return &UseCase{repo: repo, mapper: mapper, tracker: tracker, publisher: publisher, log: log, newID: uuid.New}
}

// LoadRange devuelve los eventos con inicio en [from, to).
func (uc *UseCase) LoadRange(ctx context.Context, from, to *time.Time) ([]calendar.Event, error) {
	return opstatus.Do(ctx, uc.tracker, "bookings.loadRange", func(ctx context.Context) ([]calendar.Event, error) {
		if from != nil && to != nil && !to.After(*from) {
			return nil, domain.Invalid("El fin del rango debe ser posterior al inicio.")
		}
		turnos, err := uc.repo.ListByRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return uc.mapper.MapBookings(turnos), nil
	})
}

// Create da de alta un turno y lo devuelve como evento.
func (uc *UseCase) Create(ctx context.Context, req dto.CreateTurnoRequest) (calendar.Event, error) {
	return opstatus.Do(ctx, uc.tracker, "bookings.add", func(ctx context.Context) (calendar.Event, error) {
		t, err := turnoFromRequest(req, nil)
		if err != nil {
			return calendar.Event{}, err
		}
		created, err := uc.repo.Create(ctx, t)
		if err != nil {
			return calendar.Event{}, err
		}
		return uc.mapper.MapBookingToEvent(created), nil
	})
}

// CreateSeries inserta todos los turnos de una serie fija con el mismo series_id
// (generado si no viene). No verifica solapamientos.
func (uc *UseCase) CreateSeries(ctx context.Context, req dto.CreateSeriesRequest) ([]entity.TurnoSeriesRow, error) {
	return opstatus.Do(ctx, uc.tracker, "bookings.createSeries", func(ctx context.Context) ([]entity.TurnoSeriesRow, error) {
		if len(req.Turnos) == 0 {
			return nil, domain.Invalid("La serie no tiene turnos.")
		}
		seriesID := uc.newID()
		if req.SeriesID != nil && *req.SeriesID != uuid.Nil {
			seriesID = *req.SeriesID
		}
		turnos := make([]*entity.Turno, 0, len(req.Turnos))
		for _, r := range req.Turnos {
			t, err := turnoFromRequest(r, &seriesID)
			if err != nil {
				return nil, err
			}
			turnos = append(turnos, t)
		}
		rows, err := uc.repo.CreateMany(ctx, turnos)
		if err != nil {
			return nil, err
		}
		uc.publish(ctx, ports.EventTurnoSeriesCreated, SeriesCreated{SeriesID: seriesID, Count: len(rows)})
		return rows, nil
	})
}

// Remove borra un turno y devuelve su ID.
func (uc *UseCase) Remove(ctx context.Context, id int64) (int64, error) {
	return opstatus.Do(ctx, uc.tracker, "bookings.remove", func(ctx context.Context) (int64, error) {
		if id <= 0 {
			return 0, domain.Invalid("ID de turno inválido.")
		}
		return uc.repo.Remove(ctx, id)
	})
}

func (uc *UseCase) publish(ctx context.Context, key string, payload any) {
	if err := uc.publisher.Publish(ctx, key, payload); err != nil {
		uc.log.Warn().Err(err).Str("routing_key", key).Msg("no se pudo publicar el evento")
	}
}

func turnoFromRequest(r dto.CreateTurnoRequest, seriesID *uuid.UUID) (*entity.Turno, error) {
	if r.CourtID <= 0 {
		return nil, domain.Invalid("La cancha es obligatoria.")
	}
	if r.StartAt.IsZero() || !r.EndAt.After(r.StartAt) {
		return nil, domain.Invalid("El turno debe terminar después de empezar.")
	}
	return &entity.Turno{
		Title:        r.Title,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		CourtID:      r.CourtID,
		TurnoTypeID:  r.TurnoTypeID,
		TurnoStateID: r.TurnoStateID,
		ClientID:     r.ClientID,
		SeriesID:     seriesID,
	}, nil
}
