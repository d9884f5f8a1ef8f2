package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON decodifica el cuerpo y aplica las reglas `validate` del DTO.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Invalid("Cuerpo inválido: " + err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return domain.Invalid(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.MessageFor(domain.CodeInvalidInput)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return "Datos inválidos (" + strings.Join(parts, ", ") + ")."
}

// idParam lee un ID positivo de la ruta.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("ID inválido.")
	}
	return id, nil
}

// optionalInt lee un entero opcional de la query.
func optionalInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Invalid(name + " debe ser un entero.")
	}
	return &n, nil
}

// optionalTime acepta RFC3339 o fecha sola (YYYY-MM-DD, en UTC).
func optionalTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.Invalid(name + " debe ser una fecha (RFC3339 o AAAA-MM-DD).")
}

// listFilter ?from=&to=&search=
func listFilter(c *fiber.Ctx) (repository.ListFilter, error) {
	from, err := optionalInt(c, "from")
	if err != nil {
		return repository.ListFilter{}, err
	}
	to, err := optionalInt(c, "to")
	if err != nil {
		return repository.ListFilter{}, err
	}
	return repository.ListFilter{From: from, To: to, Search: strings.TrimSpace(c.Query("search"))}, nil
}
