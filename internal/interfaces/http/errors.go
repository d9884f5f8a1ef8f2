package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
)

// StatusFor traduce un código de la taxonomía a status HTTP.
func StatusFor(code string) int {
	switch code {
	case domain.CodeNotFound, domain.CodeClientNotFound, domain.CodeProductNotFound,
		domain.CodeVentaNotFound, domain.CodeTabNotFound:
		return fiber.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeNotNullViolation, domain.CodeCheckViolation:
		return fiber.StatusBadRequest
	case domain.CodeUniqueViolation, domain.CodeClientPhoneExists, domain.CodeForeignKeyViolation,
		domain.CodeVentaAlreadyCompleted, domain.CodeVentaAlreadyCancelled, domain.CodeTabNotOpen,
		domain.CodeInsufficientStock:
		return fiber.StatusConflict
	case domain.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case domain.CodePermissionDenied:
		return fiber.StatusForbidden
	case domain.CodeNetworkError, domain.CodeTimeout:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde {code, message}. UNKNOWN_ERROR y los errores sin código salen con el
// mensaje genérico; el texto original queda en los logs.
func writeError(c *fiber.Ctx, err error) error {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		appErr = domain.NewAppError(domain.CodeUnknown, "", err)
	}
	return c.Status(StatusFor(appErr.Code)).JSON(dto.ErrorResponse{
		Code:    appErr.Code,
		Message: domain.PublicMessage(appErr),
	})
}
