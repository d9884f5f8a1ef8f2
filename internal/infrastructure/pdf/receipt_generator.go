// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del club      │  Comprobante N° + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / VENDEDOR / MÉTODO DE PAGO                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Artículo | P.Unit | Desc. | Total             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	│  NOTAS                                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/turnos-api/internal/application/ventas"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

var _ ventas.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 83, Blue: 45}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa ventas.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	business string
	loc      *time.Location
	money    *message.Printer
}

// NewReceiptGenerator construye el generador. loc es la zona en que se imprimen las fechas.
func NewReceiptGenerator(business string, loc *time.Location) *ReceiptGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &ReceiptGenerator{
		business: business,
		loc:      loc,
		money:    message.NewPrinter(language.Spanish),
	}
}

// GenerateVentaReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateVentaReceipt(v *entity.Venta) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.business, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(v.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(v))

	if v.Notas != nil && *v.Notas != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+*v.Notas, props.Text{Size: 8, Top: 3, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// FormatMoney importe con separadores en español: 12500.5 → "$ 12.500,50".
func (g *ReceiptGenerator) FormatMoney(d decimal.Decimal) string {
	return g.money.Sprintf("$ %.2f", d.InexactFloat64())
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(v *entity.Venta) core.Row {
	numero := "#" + strconv.FormatInt(v.ID, 10)
	if v.NumeroComprobante != nil && *v.NumeroComprobante != "" {
		numero = *v.NumeroComprobante
	}
	tipo := "COMPROBANTE DE VENTA"
	if v.TipoComprobante != nil && *v.TipoComprobante != "" {
		tipo += " " + *v.TipoComprobante
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.business, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(tipo, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+v.CreatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func partiesRow(v *entity.Venta) core.Row {
	cliente := "Consumidor final"
	if v.Cliente != nil {
		cliente = v.Cliente.FullName
		if v.Cliente.Phone != nil {
			cliente += "  |  Tel: " + *v.Cliente.Phone
		}
	}
	vendedor := "—"
	if v.Vendedor != nil && v.Vendedor.FullName != nil {
		vendedor = *v.Vendedor.FullName
	}
	pago := "—"
	if v.MetodoPago != nil {
		pago = v.MetodoPago.Nombre
	}

	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(cliente, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Vendedor: %s   |   Método de pago: %s", vendedor, pago),
				props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Artículo", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func (g *ReceiptGenerator) itemRows(items []*entity.VentaItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		nombre := "Artículo #" + strconv.FormatInt(it.ArticuloID, 10)
		if it.Articulo != nil {
			nombre = it.Articulo.Nombre
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Cantidad),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(nombre,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.FormatMoney(it.PrecioUnitario),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.FormatMoney(it.Descuento),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.FormatMoney(it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *ReceiptGenerator) totalsRow(v *entity.Venta) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 14}

	return row.New(24).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Descuento:", 7),
			text.New("TOTAL:", grand),
		),
		col.New(3).Add(
			value(g.FormatMoney(v.Subtotal), 1),
			value("- "+g.FormatMoney(v.Descuento), 7),
			text.New(g.FormatMoney(v.Total), grand),
		),
	)
}
