package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse listado con total opcional (solo con ventana from/to).
type ListResponse[T any] struct {
	Data  []*T `json:"data"`
	Count *int `json:"count,omitempty"`
}

// IDResponse respuesta de operaciones que solo devuelven un ID.
type IDResponse struct {
	ID int64 `json:"id"`
}
