package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/turnos-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de aplicación.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInsufficientPriv    = "42501"
	pgInvalidAuth         = "28000"
	pgInvalidPassword     = "28P01"
)

// ErrorContext da contexto de entidad al mapeo (p. ej. teléfono duplicado en clients).
type ErrorContext struct {
	Entity string
}

// MapDatabaseError traduce cualquier error del almacén a un *domain.AppError.
// Aplicarlo dos veces devuelve el mismo error.
func MapDatabaseError(err error, ec ErrorContext) *domain.AppError {
	if err == nil {
		return domain.NewAppError(domain.CodeUnknown, "", nil)
	}
	if appErr, ok := domain.AsAppError(err); ok && domain.IsKnownCode(appErr.Code) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if ec.Entity == "clients" && mentionsPhone(pgErr) {
				return domain.NewAppError(domain.CodeClientPhoneExists, "", err)
			}
			return domain.NewAppError(domain.CodeUniqueViolation, "", err)
		case pgForeignKeyViolation:
			return domain.NewAppError(domain.CodeForeignKeyViolation, "", err)
		case pgNotNullViolation:
			return domain.NewAppError(domain.CodeNotNullViolation, "", err)
		case pgCheckViolation:
			return domain.NewAppError(domain.CodeCheckViolation, "", err)
		case pgInsufficientPriv:
			return domain.NewAppError(domain.CodePermissionDenied, "", err)
		case pgInvalidAuth, pgInvalidPassword:
			return domain.NewAppError(domain.CodeUnauthorized, "", err)
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "JWT") || strings.Contains(msg, "auth") {
		return domain.NewAppError(domain.CodeUnauthorized, "", err)
	}

	var netErr net.Error
	isNet := errors.As(err, &netErr)
	if errors.Is(err, context.DeadlineExceeded) || (isNet && netErr.Timeout()) || strings.Contains(msg, "timeout") {
		return domain.NewAppError(domain.CodeTimeout, "", err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || isNet || strings.Contains(msg, "network") || strings.Contains(msg, "connect") {
		return domain.NewAppError(domain.CodeNetworkError, "", err)
	}

	return domain.NewAppError(domain.CodeUnknown, msg, err)
}

// mapErr envuelve con la operación y traduce. Para usar en los adaptadores.
func mapErr(entity, op string, err error) error {
	if _, ok := domain.AsAppError(err); ok {
		return MapDatabaseError(err, ErrorContext{Entity: entity})
	}
	return MapDatabaseError(fmt.Errorf("%s %s: %w", op, entity, err), ErrorContext{Entity: entity})
}

func mentionsPhone(pgErr *pgconn.PgError) bool {
	return strings.Contains(pgErr.ConstraintName, "phone") ||
		strings.Contains(pgErr.Message, "phone") ||
		strings.Contains(pgErr.Detail, "phone")
}

func notFound(entity string) *domain.AppError {
	return domain.NewAppError(domain.CodeNotFound, "", fmt.Errorf("%s: no rows", entity))
}
