package entity

import "time"

// Categoria agrupa artículos.
type Categoria struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
}

// Proveedor proveedor de artículos.
type Proveedor struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	CUIT      *string   `json:"cuit"`
	Telefono  *string   `json:"telefono"`
	Email     *string   `json:"email"`
	Direccion *string   `json:"direccion"`
	CreatedAt time.Time `json:"created_at"`
}

// MetodoPago medio de pago aceptado (efectivo, transferencia, tarjeta...).
type MetodoPago struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}
