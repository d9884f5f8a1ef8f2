package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ClienteRef referencia opcional a un cliente tal como llega del front: null, número,
// string numérico o un objeto de selector {"value": n}. Todo se reduce a *int64.
type ClienteRef struct {
	id *int64
}

// NewClienteRef construye una referencia ya resuelta.
func NewClienteRef(id *int64) ClienteRef { return ClienteRef{id: id} }

// ID devuelve el ID normalizado (nil si no hay cliente).
func (r ClienteRef) ID() *int64 { return r.id }

// UnmarshalJSON acepta las formas admitidas y rechaza el resto.
func (r *ClienteRef) UnmarshalJSON(data []byte) error {
	id, err := parseClienteRef(bytes.TrimSpace(data))
	if err != nil {
		return err
	}
	r.id = id
	return nil
}

// MarshalJSON serializa como número o null.
func (r ClienteRef) MarshalJSON() ([]byte, error) {
	if r.id == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(*r.id, 10)), nil
}

func parseClienteRef(data []byte) (*int64, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	switch data[0] {
	case '{':
		var wrapped struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("cliente_id: %w", err)
		}
		if len(wrapped.Value) > 0 && wrapped.Value[0] == '{' {
			return nil, fmt.Errorf("cliente_id: objeto anidado no admitido")
		}
		return parseClienteRef(bytes.TrimSpace(wrapped.Value))
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("cliente_id: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		return parsePositiveID(s)
	default:
		return parsePositiveID(string(data))
	}
}

func parsePositiveID(s string) (*int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("cliente_id inválido: %q", s)
	}
	return &n, nil
}

// CrearVentaRequest cuerpo de POST /api/ventas. El vendedor sale del token de sesión.
type CrearVentaRequest struct {
	ClienteID    ClienteRef `json:"cliente_id"`
	MetodoPagoID *int64     `json:"metodo_pago_id"`
	Notas        *string    `json:"notas"`
}

// AgregarItemRequest cuerpo de POST /api/ventas/:id/items.
type AgregarItemRequest struct {
	ArticuloID     int64           `json:"articulo_id" validate:"required,gt=0"`
	Cantidad       int             `json:"cantidad" validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
}

// CompletarVentaRequest cuerpo de POST /api/ventas/:id/completar.
type CompletarVentaRequest struct {
	MetodoPagoID      *int64  `json:"metodo_pago_id"`
	NumeroComprobante *string `json:"numero_comprobante"`
	TipoComprobante   *string `json:"tipo_comprobante"`
}

// CancelarVentaRequest cuerpo de POST /api/ventas/:id/cancelar.
type CancelarVentaRequest struct {
	Motivo *string `json:"motivo"`
}
