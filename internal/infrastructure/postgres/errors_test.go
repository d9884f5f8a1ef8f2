package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/turnos-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// MapDatabaseError
// ──────────────────────────────────────────────────────────────────────────────

func TestMapDatabaseError_Nil(t *testing.T) {
	got := MapDatabaseError(nil, ErrorContext{})
	assert.Equal(t, domain.CodeUnknown, got.Code)
	assert.Equal(t, domain.DefaultMessage, got.Message)
}

func TestMapDatabaseError_ClientPhoneExists(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "clients_phone_key"`,
		ConstraintName: "clients_phone_key",
	}
	got := MapDatabaseError(fmt.Errorf("insert clients: %w", pgErr), ErrorContext{Entity: "clients"})

	assert.Equal(t, domain.CodeClientPhoneExists, got.Code)
	assert.Equal(t, "Ya existe un cliente con ese teléfono.", got.Message)
	assert.ErrorIs(t, got, pgErr, "el error original debe quedar en la cadena")
}

func TestMapDatabaseError_UniqueOtraEntidad(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "proveedores_phone_key"}
	got := MapDatabaseError(pgErr, ErrorContext{Entity: "proveedores"})
	assert.Equal(t, domain.CodeUniqueViolation, got.Code, "solo clients mapea a CLIENT_PHONE_EXISTS")
}

func TestMapDatabaseError_ConstraintCodes(t *testing.T) {
	cases := map[string]string{
		"23503": domain.CodeForeignKeyViolation,
		"23502": domain.CodeNotNullViolation,
		"23514": domain.CodeCheckViolation,
		"42501": domain.CodePermissionDenied,
		"28P01": domain.CodeUnauthorized,
	}
	for sqlState, want := range cases {
		got := MapDatabaseError(&pgconn.PgError{Code: sqlState}, ErrorContext{Entity: "ventas"})
		assert.Equal(t, want, got.Code, "SQLSTATE %s", sqlState)
	}
}

func TestMapDatabaseError_Idempotente(t *testing.T) {
	first := MapDatabaseError(&pgconn.PgError{Code: "23505", Detail: "Key (phone)=(11) already exists."},
		ErrorContext{Entity: "clients"})
	second := MapDatabaseError(first, ErrorContext{Entity: "ventas"})

	assert.Same(t, first, second, "un AppError conocido se devuelve sin cambios")
	assert.Equal(t, domain.CodeClientPhoneExists, second.Code)
}

func TestMapDatabaseError_TimeoutYRed(t *testing.T) {
	assert.Equal(t, domain.CodeTimeout,
		MapDatabaseError(fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorContext{}).Code)
	assert.Equal(t, domain.CodeTimeout,
		MapDatabaseError(errors.New("i/o timeout"), ErrorContext{}).Code)
	assert.Equal(t, domain.CodeNetworkError,
		MapDatabaseError(errors.New("failed to connect to host"), ErrorContext{}).Code)
}

func TestMapDatabaseError_AuthTexto(t *testing.T) {
	got := MapDatabaseError(errors.New("JWT expired"), ErrorContext{})
	assert.Equal(t, domain.CodeUnauthorized, got.Code)
}

func TestMapDatabaseError_Desconocido(t *testing.T) {
	got := MapDatabaseError(errors.New("algo raro"), ErrorContext{})
	assert.Equal(t, domain.CodeUnknown, got.Code)
	assert.Equal(t, "algo raro", got.Message, "conserva el mensaje original")
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de SQL
// ──────────────────────────────────────────────────────────────────────────────

func intPtr(n int) *int { return &n }

func TestAppendWindow(t *testing.T) {
	q, args := appendWindow("SELECT 1", nil, intPtr(0), intPtr(19))
	assert.Equal(t, "SELECT 1 LIMIT $1", q)
	assert.Equal(t, []any{20}, args)

	q, args = appendWindow("SELECT 1 WHERE x ILIKE $1", []any{"%a%"}, intPtr(20), intPtr(39))
	assert.Equal(t, "SELECT 1 WHERE x ILIKE $1 LIMIT $2 OFFSET $3", q)
	assert.Equal(t, []any{"%a%", 20, 20}, args)

	q, args = appendWindow("SELECT 1", nil, nil, nil)
	assert.Equal(t, "SELECT 1", q)
	assert.Empty(t, args)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$9, $10, $11", placeholders(9, 3))
}

func TestCatalogRepo_Where(t *testing.T) {
	r := NewClientRepository(nil)
	where, args := r.where("  ana ")
	assert.Equal(t, " WHERE (full_name ILIKE $1 OR phone ILIKE $1)", where)
	assert.Equal(t, []any{"%ana%"}, args)

	where, args = NewMetodoPagoRepository(nil).where("efectivo")
	assert.Empty(t, where, "sin columnas de búsqueda se ignora el texto")
	assert.Nil(t, args)
}
