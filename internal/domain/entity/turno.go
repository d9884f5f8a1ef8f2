package entity

import (
	"time"

	"github.com/google/uuid"
)

// Turno representa una reserva de cancha. SeriesID agrupa los turnos creados juntos como serie fija.
type Turno struct {
	ID           int64       `json:"id"`
	Title        *string     `json:"title"`
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
	CourtID      int64       `json:"court_id"`
	TurnoTypeID  *int64      `json:"turno_type_id"`
	TurnoStateID *int64      `json:"turno_state_id"`
	ClientID     *int64      `json:"client_id"`
	SeriesID     *uuid.UUID  `json:"series_id"`
	Court        *Court      `json:"court,omitempty"`
	BookingType  *TurnoType  `json:"booking_type,omitempty"`
	BookingState *TurnoState `json:"booking_state,omitempty"`
	Client       *Client     `json:"client,omitempty"`
}

// TurnoSeriesRow fila devuelta por la creación en lote.
type TurnoSeriesRow struct {
	ID       int64      `json:"id"`
	SeriesID *uuid.UUID `json:"series_id"`
	StartAt  time.Time  `json:"start_at"`
	EndAt    time.Time  `json:"end_at"`
}

// TurnoType tipo de turno (clase, alquiler, torneo...).
type TurnoType struct {
	ID    int64   `json:"id"`
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// TurnoState estado visible del turno en el calendario.
type TurnoState struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

// Court cancha. Slug identifica el calendario.
type Court struct {
	ID               int64   `json:"id"`
	Slug             string  `json:"slug"`
	Name             string  `json:"name"`
	ColorMain        *string `json:"color_main"`
	ColorContainer   *string `json:"color_container"`
	ColorOnContainer *string `json:"color_on_container"`
}
