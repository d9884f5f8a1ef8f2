package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTurnoRequest cuerpo de POST /api/turnos.
type CreateTurnoRequest struct {
	Title        *string   `json:"title"`
	StartAt      time.Time `json:"start_at" validate:"required"`
	EndAt        time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	CourtID      int64     `json:"court_id" validate:"required,gt=0"`
	TurnoTypeID  *int64    `json:"turno_type_id"`
	TurnoStateID *int64    `json:"turno_state_id"`
	ClientID     *int64    `json:"client_id"`
}

// CreateSeriesRequest cuerpo de POST /api/turnos/series. Sin SeriesID se genera uno.
type CreateSeriesRequest struct {
	SeriesID *uuid.UUID           `json:"series_id"`
	Turnos   []CreateTurnoRequest `json:"turnos" validate:"required,min=1,dive"`
}
