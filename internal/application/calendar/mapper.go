// Package calendar convierte turnos en eventos del calendario del front.
package calendar

import (
	"fmt"
	"strings"
	"time"

	// Base de zonas embebida: el contenedor de producción no trae tzdata.
	_ "time/tzdata"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// DefaultZone zona horaria del club.
const DefaultZone = "America/Argentina/Buenos_Aires"

// ZonedDateTime instante con su zona IANA. Se serializa como
// "2025-03-01T18:00:00-03:00[America/Argentina/Buenos_Aires]".
type ZonedDateTime struct {
	time.Time
}

// String formato extendido con la zona entre corchetes.
func (z ZonedDateTime) String() string {
	return z.Time.Format(time.RFC3339) + "[" + z.Time.Location().String() + "]"
}

// MarshalJSON serializa con String.
func (z ZonedDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

// UnmarshalJSON acepta el formato extendido o RFC 3339 simple.
func (z *ZonedDateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	zone := ""
	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		zone = s[i+1 : len(s)-1]
		s = s[:i]
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("zoned date time: %w", err)
	}
	if zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return fmt.Errorf("zoned date time: %w", err)
		}
		t = t.In(loc)
	}
	z.Time = t
	return nil
}

// EventMeta datos extra del evento.
type EventMeta struct {
	State *entity.TurnoState `json:"state"`
}

// Event evento listo para el calendario.
type Event struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Start       ZonedDateTime `json:"start"`
	End         ZonedDateTime `json:"end"`
	CalendarID  string        `json:"calendarId"`
	Description string        `json:"description"`
	People      []string      `json:"people"`
	Meta        EventMeta     `json:"meta"`
}

// Mapper convierte turnos a eventos en una zona fija.
type Mapper struct {
	loc *time.Location
}

// NewMapper carga la zona indicada (vacía = DefaultZone).
func NewMapper(zone string) (*Mapper, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("calendar: zona %q: %w", zone, err)
	}
	return &Mapper{loc: loc}, nil
}

// MapBookingToEvent arma el evento. Título: ícono del tipo + (título propio | "Turno - " + cancha).
func (m *Mapper) MapBookingToEvent(t *entity.Turno) Event {
	ev := Event{
		ID:     t.ID,
		Title:  title(t),
		Start:  ZonedDateTime{t.StartAt.In(m.loc)},
		End:    ZonedDateTime{t.EndAt.In(m.loc)},
		People: []string{},
		Meta:   EventMeta{State: t.BookingState},
	}
	if t.Court != nil {
		ev.CalendarID = t.Court.Slug
	}
	if t.BookingType != nil {
		ev.Description = t.BookingType.Name
	}
	if t.Client != nil && t.Client.FullName != "" {
		ev.People = []string{t.Client.FullName}
	}
	return ev
}

// MapBookings aplica MapBookingToEvent a todos los turnos.
func (m *Mapper) MapBookings(turnos []*entity.Turno) []Event {
	out := make([]Event, 0, len(turnos))
	for _, t := range turnos {
		out = append(out, m.MapBookingToEvent(t))
	}
	return out
}

func title(t *entity.Turno) string {
	icon := ""
	if t.BookingType != nil && t.BookingType.Icon != nil {
		icon = *t.BookingType.Icon
	}
	// un título vacío se respeta; solo el ausente usa la cancha
	if t.Title != nil {
		return icon + *t.Title
	}
	courtName := ""
	if t.Court != nil {
		courtName = t.Court.Name
	}
	return icon + "Turno - " + courtName
}
