package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// AuthMiddleware valida el Bearer Token de Supabase Auth y deja el usuario en c.Locals.
func AuthMiddleware(jwtSecret, audience string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "token vacío")
		}
		session, err := jwt.Parse(jwtSecret, audience, tokenString)
		if err != nil {
			return unauthorized(c, "token inválido o expirado")
		}
		c.Locals(LocalUserID, session.UserID)
		c.Locals(LocalEmail, session.Email)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: domain.CodeUnauthorized, Message: message})
}

// GetUserID devuelve el usuario de la sesión (uuid.Nil sin middleware de auth).
func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}
