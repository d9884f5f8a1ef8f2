package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "info", AppName: "turnos-api"}, &buf)

	cl := l.Component("ventas")
	cl.Info().Int64("venta_id", 7).Msg("venta completada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "turnos-api", entry["app"])
	assert.Equal(t, "ventas", entry["component"])
	assert.Equal(t, float64(7), entry["venta_id"])
	assert.Equal(t, "venta completada", entry["message"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("no debería salir")
	assert.Empty(t, buf.String())

	l.Warn().Msg("sí")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}
