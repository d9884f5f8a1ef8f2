package catalog

import (
	"strings"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalid("El campo " + field + " es obligatorio.")
	}
	return nil
}

// ValidateClient exige nombre completo; normaliza el teléfono vacío a NULL para no chocar con el índice único.
func ValidateClient(c *entity.Client) error {
	c.FullName = strings.TrimSpace(c.FullName)
	if c.Phone != nil {
		p := strings.TrimSpace(*c.Phone)
		if p == "" {
			c.Phone = nil
		} else {
			c.Phone = &p
		}
	}
	return required(c.FullName, "nombre")
}

// ValidateArticulo exige nombre y precios no negativos.
func ValidateArticulo(a *entity.Articulo) error {
	a.Nombre = strings.TrimSpace(a.Nombre)
	if err := required(a.Nombre, "nombre"); err != nil {
		return err
	}
	if a.PrecioVenta.IsNegative() || a.PrecioCosto.IsNegative() {
		return domain.Invalid("Los precios no pueden ser negativos.")
	}
	return nil
}

func ValidateCategoria(c *entity.Categoria) error {
	c.Nombre = strings.TrimSpace(c.Nombre)
	return required(c.Nombre, "nombre")
}

func ValidateProveedor(p *entity.Proveedor) error {
	p.Nombre = strings.TrimSpace(p.Nombre)
	return required(p.Nombre, "nombre")
}

func ValidateMetodoPago(m *entity.MetodoPago) error {
	m.Nombre = strings.TrimSpace(m.Nombre)
	return required(m.Nombre, "nombre")
}

func ValidateCourt(c *entity.Court) error {
	if err := required(c.Slug, "slug"); err != nil {
		return err
	}
	return required(c.Name, "nombre")
}

func ValidateTurnoType(t *entity.TurnoType) error {
	if err := required(t.Slug, "slug"); err != nil {
		return err
	}
	return required(t.Name, "nombre")
}

// ValidateWindow controla la ventana inclusiva from/to de los listados.
func ValidateWindow(from, to *int) error {
	if (from != nil && *from < 0) || (to != nil && *to < 0) {
		return domain.Invalid("Los parámetros from/to no pueden ser negativos.")
	}
	if from != nil && to != nil && *to < *from {
		return domain.Invalid("to debe ser mayor o igual que from.")
	}
	return nil
}
