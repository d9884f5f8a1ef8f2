package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	g := NewReceiptGenerator("Club", nil)
	assert.Equal(t, "$ 12.500,50", g.FormatMoney(decimal.RequireFromString("12500.5")))
	assert.Equal(t, "$ 0,00", g.FormatMoney(decimal.Zero))
}

func TestGenerateVentaReceipt(t *testing.T) {
	g := NewReceiptGenerator("Club Pádel Norte", time.FixedZone("ART", -3*60*60))

	nombre := "Ana Pérez"
	numero := "0001-00000042"
	v := &entity.Venta{
		ID:                42,
		Estado:            entity.VentaEstadoCompletada,
		NumeroComprobante: &numero,
		Subtotal:          decimal.NewFromInt(300),
		Descuento:         decimal.NewFromInt(20),
		Total:             decimal.NewFromInt(280),
		CreatedAt:         time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC),
		Vendedor:          &entity.Profile{FullName: &nombre},
		MetodoPago:        &entity.MetodoPago{ID: 1, Nombre: "Efectivo"},
		Items: []*entity.VentaItem{{
			ArticuloID:     5,
			Cantidad:       3,
			PrecioUnitario: decimal.NewFromInt(100),
			Descuento:      decimal.NewFromInt(20),
			Subtotal:       decimal.NewFromInt(300),
			Total:          decimal.NewFromInt(280),
			Articulo:       &entity.VentaArticulo{ID: 5, Nombre: "Gatorade"},
		}},
	}

	pdf, err := g.GenerateVentaReceipt(v)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "el resultado es un PDF")
}
