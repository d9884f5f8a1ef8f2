package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func sampleTurno() *entity.Turno {
	return &entity.Turno{
		ID:      10,
		StartAt: time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC),
		Court:   &entity.Court{ID: 1, Slug: "cancha-1", Name: "Cancha 1"},
		BookingType: &entity.TurnoType{
			ID: 2, Slug: "alquiler", Name: "Alquiler", Icon: strPtr("🎾 "),
		},
		BookingState: &entity.TurnoState{ID: 3, Name: "Confirmado"},
		Client:       &entity.Client{ID: 4, FullName: "Ana Pérez"},
	}
}

func TestMapBookingToEvent_TituloPorDefecto(t *testing.T) {
	m, err := NewMapper("")
	require.NoError(t, err)

	ev := m.MapBookingToEvent(sampleTurno())

	assert.Equal(t, int64(10), ev.ID)
	assert.Equal(t, "🎾 Turno - Cancha 1", ev.Title)
	assert.Equal(t, "cancha-1", ev.CalendarID)
	assert.Equal(t, "Alquiler", ev.Description)
	assert.Equal(t, []string{"Ana Pérez"}, ev.People)
	assert.Equal(t, "Confirmado", ev.Meta.State.Name)
	assert.Equal(t, "2025-03-01T18:00:00-03:00[America/Argentina/Buenos_Aires]", ev.Start.String())
	assert.Equal(t, "2025-03-01T19:30:00-03:00[America/Argentina/Buenos_Aires]", ev.End.String())
}

func TestMapBookingToEvent_TituloPropioSinCliente(t *testing.T) {
	m, err := NewMapper(DefaultZone)
	require.NoError(t, err)
	tr := sampleTurno()
	tr.Title = strPtr("Clase grupal")
	tr.Client = nil
	tr.BookingType.Icon = nil

	ev := m.MapBookingToEvent(tr)
	assert.Equal(t, "Clase grupal", ev.Title)
	assert.Empty(t, ev.People)
	assert.NotNil(t, ev.People, "people se serializa como lista vacía")
}

func TestMapBookingToEvent_TituloVacioSeRespeta(t *testing.T) {
	m, err := NewMapper(DefaultZone)
	require.NoError(t, err)
	tr := sampleTurno()
	tr.Title = strPtr("")

	ev := m.MapBookingToEvent(tr)
	assert.Equal(t, "🎾 ", ev.Title, "solo un título nil cae en la cancha")
}

func TestEvent_JSON(t *testing.T) {
	m, err := NewMapper("")
	require.NoError(t, err)

	b, err := json.Marshal(m.MapBookingToEvent(sampleTurno()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "2025-03-01T18:00:00-03:00[America/Argentina/Buenos_Aires]", raw["start"])
	assert.Equal(t, "cancha-1", raw["calendarId"])
}

func TestZonedDateTime_RoundTrip(t *testing.T) {
	var z ZonedDateTime
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01T18:00:00-03:00[America/Argentina/Buenos_Aires]"`), &z))
	assert.True(t, z.Equal(time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)))
	assert.Equal(t, "America/Argentina/Buenos_Aires", z.Location().String())

	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01T21:00:00Z"`), &z))
	assert.Equal(t, "UTC", z.Location().String())
}

func TestNewMapper_ZonaInvalida(t *testing.T) {
	_, err := NewMapper("Marte/Olympus")
	assert.Error(t, err)
}
