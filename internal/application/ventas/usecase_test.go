package ventas

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/opstatus"
	"github.com/jhoicas/turnos-api/internal/application/ports"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubVentas struct {
	rows       map[int64]*entity.Venta
	items      *stubVentaItems
	nextID     int64
	recalcs    []int64
	failRecalc error
}

func (s *stubVentas) Create(_ context.Context, v *entity.Venta) (*entity.Venta, error) {
	s.nextID++
	v.ID = s.nextID
	s.rows[v.ID] = v
	cp := *v
	return &cp, nil
}

func (s *stubVentas) GetByID(_ context.Context, id int64) (*entity.Venta, error) {
	v, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *stubVentas) List(_ context.Context, _ repository.VentaFilter) (repository.Page[entity.Venta], error) {
	out := []*entity.Venta{}
	for id := s.nextID; id >= 1; id-- {
		if v, ok := s.rows[id]; ok {
			out = append(out, v)
		}
	}
	n := len(out)
	return repository.Page[entity.Venta]{Data: out, Total: &n}, nil
}

func (s *stubVentas) transition(id int64, estado string) *entity.Venta {
	v, ok := s.rows[id]
	if !ok || v.Estado != entity.VentaEstadoPendiente {
		return nil
	}
	v.Estado = estado
	cp := *v
	return &cp
}

func (s *stubVentas) Complete(_ context.Context, id int64, data repository.VentaCompletion) (*entity.Venta, error) {
	v := s.transition(id, entity.VentaEstadoCompletada)
	if v != nil {
		s.rows[id].MetodoPagoID = data.MetodoPagoID
		s.rows[id].NumeroComprobante = data.NumeroComprobante
		v.MetodoPagoID = data.MetodoPagoID
		v.NumeroComprobante = data.NumeroComprobante
	}
	return v, nil
}

func (s *stubVentas) Cancel(_ context.Context, id int64, motivo *string) (*entity.Venta, error) {
	v := s.transition(id, entity.VentaEstadoCancelada)
	if v != nil {
		s.rows[id].Notas = motivo
		v.Notas = motivo
	}
	return v, nil
}

func (s *stubVentas) LockEstado(_ context.Context, id int64) (string, error) {
	v, ok := s.rows[id]
	if !ok {
		return "", nil
	}
	return v.Estado, nil
}

func (s *stubVentas) RecalculateTotals(_ context.Context, id int64) error {
	if s.failRecalc != nil {
		return s.failRecalc
	}
	v, ok := s.rows[id]
	if !ok {
		return domain.NewAppError(domain.CodeNotFound, "", nil)
	}
	s.recalcs = append(s.recalcs, id)
	v.Subtotal, v.Descuento, v.Total = decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range s.items.rows {
		if it.VentaID == id {
			v.Subtotal = v.Subtotal.Add(it.Subtotal)
			v.Descuento = v.Descuento.Add(it.Descuento)
			v.Total = v.Total.Add(it.Total)
		}
	}
	return nil
}

func (s *stubVentas) Delete(_ context.Context, id int64) error {
	if _, ok := s.rows[id]; !ok {
		return domain.NewAppError(domain.CodeNotFound, "", nil)
	}
	delete(s.rows, id)
	return nil
}

type stubVentaItems struct {
	rows   map[int64]*entity.VentaItem
	nextID int64
}

func (s *stubVentaItems) Create(_ context.Context, it *entity.VentaItem) (*entity.VentaItem, error) {
	s.nextID++
	it.ID = s.nextID
	s.rows[it.ID] = it
	cp := *it
	return &cp, nil
}

func (s *stubVentaItems) ListByVentaID(_ context.Context, ventaID int64) ([]*entity.VentaItem, error) {
	out := []*entity.VentaItem{}
	for id := int64(1); id <= s.nextID; id++ {
		if it, ok := s.rows[id]; ok && it.VentaID == ventaID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubVentaItems) GetByID(_ context.Context, id int64) (*entity.VentaItem, error) {
	it, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (s *stubVentaItems) Delete(_ context.Context, id int64) (*entity.VentaItem, error) {
	it, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	delete(s.rows, id)
	return it, nil
}

// stubTx ejecuta la función sobre los mismos stubs y cuenta las transacciones.
type stubTx struct {
	ventas *stubVentas
	items  *stubVentaItems
	runs   int
}

func (t *stubTx) RunVenta(_ context.Context, fn func(repository.VentaRepository, repository.VentaItemRepository) error) error {
	t.runs++
	return fn(t.ventas, t.items)
}

type countingStockCache struct{ calls int }

func (c *countingStockCache) Invalidate(context.Context) { c.calls++ }

type recordingPublisher struct{ keys []string }

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}

type fixture struct {
	uc     *UseCase
	ventas *stubVentas
	items  *stubVentaItems
	tx     *stubTx
	pub    *recordingPublisher
}

func newFixture() fixture {
	items := &stubVentaItems{rows: map[int64]*entity.VentaItem{}}
	ventas := &stubVentas{rows: map[int64]*entity.Venta{}, items: items}
	tx := &stubTx{ventas: ventas, items: items}
	pub := &recordingPublisher{}
	uc := NewUseCase(ventas, items, tx, opstatus.NewTracker(zerolog.Nop()), pub, zerolog.Nop())
	return fixture{uc: uc, ventas: ventas, items: items, tx: tx, pub: pub}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers puros
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateItemTotals(t *testing.T) {
	subtotal, total := CalculateItemTotals(3, dec("100"), dec("20"))
	assert.True(t, subtotal.Equal(dec("300")), "subtotal = cantidad × precio")
	assert.True(t, total.Equal(dec("280")), "total = subtotal − descuento")

	subtotal, total = CalculateItemTotals(2, dec("1250.50"), decimal.Zero)
	assert.True(t, subtotal.Equal(dec("2501")))
	assert.True(t, total.Equal(subtotal), "sin descuento el total es el subtotal")
}

func TestNewVentaPayload(t *testing.T) {
	vendedor := uuid.New()
	v := NewVentaPayload(vendedor, dto.CrearVentaRequest{
		ClienteID: dto.NewClienteRef(ptr(int64(7))),
		Notas:     ptr("  "),
	})
	assert.Equal(t, entity.VentaEstadoPendiente, v.Estado)
	require.NotNil(t, v.ClienteID)
	assert.Equal(t, int64(7), *v.ClienteID)
	require.NotNil(t, v.VendedorID)
	assert.Equal(t, vendedor, *v.VendedorID)
	assert.True(t, v.Subtotal.IsZero() && v.Descuento.IsZero() && v.Total.IsZero(), "totales en cero")
	assert.Nil(t, v.Notas, "notas en blanco se descartan")

	anon := NewVentaPayload(uuid.Nil, dto.CrearVentaRequest{})
	assert.Nil(t, anon.VendedorID)
	assert.Nil(t, anon.ClienteID)
}

func TestNewVentaItemPayload_Validation(t *testing.T) {
	cases := map[string]dto.AgregarItemRequest{
		"sin artículo":       {Cantidad: 1, PrecioUnitario: dec("10")},
		"cantidad cero":      {ArticuloID: 1, PrecioUnitario: dec("10")},
		"precio negativo":    {ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("-1")},
		"descuento negativo": {ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("10"), Descuento: dec("-1")},
		"descuento excesivo": {ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("10"), Descuento: dec("11")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewVentaItemPayload(1, req)
			assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
		})
	}

	_, err := NewVentaItemPayload(0, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 1})
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err), "venta inválida")
}

func TestNewCompleteVentaPayload(t *testing.T) {
	c := NewCompleteVentaPayload(dto.CompletarVentaRequest{
		MetodoPagoID:      ptr(int64(2)),
		NumeroComprobante: ptr(" 0001-00000042 "),
		TipoComprobante:   ptr(""),
	})
	assert.Equal(t, int64(2), *c.MetodoPagoID)
	assert.Equal(t, "0001-00000042", *c.NumeroComprobante)
	assert.Nil(t, c.TipoComprobante)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearYAgregarItems_RecalculaTotales(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	v, err := f.uc.CrearVenta(ctx, uuid.New(), dto.CrearVentaRequest{})
	require.NoError(t, err)

	_, err = f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 3, PrecioUnitario: dec("100"), Descuento: dec("20")})
	require.NoError(t, err)
	second, err := f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 2, Cantidad: 1, PrecioUnitario: dec("50")})
	require.NoError(t, err)

	got, err := f.uc.GetVenta(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(dec("350")), "subtotal acumulado")
	assert.True(t, got.Descuento.Equal(dec("20")), "descuento acumulado")
	assert.True(t, got.Total.Equal(dec("330")), "total acumulado")
	assert.Equal(t, 2, f.tx.runs, "cada alta corre en su transacción")

	_, err = f.uc.EliminarItem(ctx, second.ID)
	require.NoError(t, err)
	got, _ = f.uc.GetVenta(ctx, v.ID)
	assert.True(t, got.Total.Equal(dec("280")), "el total se recalcula al borrar")

	items, err := f.uc.GetItemsVenta(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAgregarItem_VentaInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AgregarItem(context.Background(), 99, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("1")})
	assert.Equal(t, domain.CodeVentaNotFound, domain.CodeOf(err))
}

func TestAgregarItem_FalloDeRecalculoSePropaga(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.uc.CrearVenta(ctx, uuid.Nil, dto.CrearVentaRequest{})
	f.ventas.failRecalc = errors.New("boom")

	_, err := f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("1")})
	assert.Error(t, err)
}

func TestEliminarItem_Inexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.EliminarItem(context.Background(), 42)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))

	_, err = f.uc.EliminarItem(context.Background(), 0)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	assert.Zero(t, f.tx.runs, "un ID cero no abre transacción")
}

func TestItems_SoloEnVentasPendientes(t *testing.T) {
	cases := map[string]struct {
		cerrar func(f fixture, id int64) error
		code   string
	}{
		"completada": {
			cerrar: func(f fixture, id int64) error {
				_, err := f.uc.CompletarVenta(context.Background(), id, dto.CompletarVentaRequest{})
				return err
			},
			code: domain.CodeVentaAlreadyCompleted,
		},
		"cancelada": {
			cerrar: func(f fixture, id int64) error {
				_, err := f.uc.CancelarVenta(context.Background(), id, nil)
				return err
			},
			code: domain.CodeVentaAlreadyCancelled,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			v, _ := f.uc.CrearVenta(ctx, uuid.New(), dto.CrearVentaRequest{})
			item, err := f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("100")})
			require.NoError(t, err)
			require.NoError(t, tc.cerrar(f, v.ID))

			_, err = f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 5, PrecioUnitario: dec("100")})
			assert.Equal(t, tc.code, domain.CodeOf(err), "no se agregan ítems a una venta cerrada")

			_, err = f.uc.EliminarItem(ctx, item.ID)
			assert.Equal(t, tc.code, domain.CodeOf(err), "no se quitan ítems de una venta cerrada")

			got, _ := f.uc.GetVenta(ctx, v.ID)
			assert.True(t, got.Total.Equal(dec("100")), "el total emitido no cambia")
			assert.Len(t, f.items.rows, 1)
		})
	}
}

func TestStockCache_SeVaciaAlMoverStock(t *testing.T) {
	f := newFixture()
	cache := &countingStockCache{}
	f.uc.WithStockCache(cache)
	ctx := context.Background()

	v, _ := f.uc.CrearVenta(ctx, uuid.New(), dto.CrearVentaRequest{})
	assert.Zero(t, cache.calls, "crear la cabecera no mueve stock")

	item, err := f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 2, PrecioUnitario: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)

	_, err = f.uc.EliminarItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.calls)

	_, err = f.uc.CancelarVenta(ctx, v.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.calls)

	_, err = f.uc.AgregarItem(ctx, v.ID, dto.AgregarItemRequest{ArticuloID: 1, Cantidad: 1, PrecioUnitario: dec("10")})
	require.Error(t, err)
	assert.Equal(t, 3, cache.calls, "una operación rechazada no vacía la caché")
}

func TestCompletarVenta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.uc.CrearVenta(ctx, uuid.New(), dto.CrearVentaRequest{})

	done, err := f.uc.CompletarVenta(ctx, v.ID, dto.CompletarVentaRequest{MetodoPagoID: ptr(int64(1)), NumeroComprobante: ptr("A-1")})
	require.NoError(t, err)
	assert.Equal(t, entity.VentaEstadoCompletada, done.Estado)
	assert.Equal(t, "A-1", *done.NumeroComprobante)
	assert.Equal(t, []string{ports.EventVentaCompletada}, f.pub.keys)

	_, err = f.uc.CompletarVenta(ctx, v.ID, dto.CompletarVentaRequest{})
	assert.Equal(t, domain.CodeVentaAlreadyCompleted, domain.CodeOf(err), "no se completa dos veces")

	_, err = f.uc.CancelarVenta(ctx, v.ID, nil)
	assert.Equal(t, domain.CodeVentaAlreadyCompleted, domain.CodeOf(err), "completada es terminal")
}

func TestCancelarVenta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.uc.CrearVenta(ctx, uuid.New(), dto.CrearVentaRequest{})

	cancelled, err := f.uc.CancelarVenta(ctx, v.ID, ptr("cliente desistió"))
	require.NoError(t, err)
	assert.Equal(t, entity.VentaEstadoCancelada, cancelled.Estado)
	assert.Equal(t, "cliente desistió", *cancelled.Notas, "el motivo queda en notas")
	assert.Equal(t, []string{ports.EventVentaCancelada}, f.pub.keys)

	_, err = f.uc.CompletarVenta(ctx, v.ID, dto.CompletarVentaRequest{})
	assert.Equal(t, domain.CodeVentaAlreadyCancelled, domain.CodeOf(err))

	_, err = f.uc.CancelarVenta(ctx, 77, nil)
	assert.Equal(t, domain.CodeVentaNotFound, domain.CodeOf(err))
}

func TestCancelarVenta_MotivoSinNormalizar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v, _ := f.uc.CrearVenta(ctx, uuid.New(), dto.CrearVentaRequest{})

	cancelled, err := f.uc.CancelarVenta(ctx, v.ID, ptr("  "))
	require.NoError(t, err)
	require.NotNil(t, cancelled.Notas, "un motivo en blanco no se vuelve NULL")
	assert.Equal(t, "  ", *cancelled.Notas)
}

func TestGetVentaYDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.GetVenta(ctx, 5)
	assert.Equal(t, domain.CodeVentaNotFound, domain.CodeOf(err))

	v, _ := f.uc.CrearVenta(ctx, uuid.Nil, dto.CrearVentaRequest{})
	require.NoError(t, f.uc.DeleteVenta(ctx, v.ID))
	assert.Equal(t, domain.CodeVentaNotFound, domain.CodeOf(f.uc.DeleteVenta(ctx, v.ID)))
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(f.uc.DeleteVenta(ctx, 0)))
}

func TestLoadVentas_RangoInvertido(t *testing.T) {
	f := newFixture()
	desde := mustTime(t, "2025-03-10T00:00:00Z")
	hasta := mustTime(t, "2025-03-01T00:00:00Z")
	_, err := f.uc.LoadVentas(context.Background(), repository.VentaFilter{Desde: &desde, Hasta: &hasta})
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
}

func TestOperacionesPublicanEstado(t *testing.T) {
	f := newFixture()
	_, _ = f.uc.GetVenta(context.Background(), 1)

	st, ok := f.uc.tracker.Get("ventas.get")
	require.True(t, ok, "la operación deja estado")
	assert.False(t, st.Loading)
	assert.Equal(t, domain.CodeVentaNotFound, st.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobante
// ──────────────────────────────────────────────────────────────────────────────

type fakeReceipts struct{ calls int }

func (g *fakeReceipts) GenerateVentaReceipt(v *entity.Venta) ([]byte, error) {
	g.calls++
	return []byte("%PDF-venta"), nil
}

func TestReceipt_SoloVentasCompletadas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	gen := &fakeReceipts{}
	v, _ := f.uc.CrearVenta(ctx, uuid.Nil, dto.CrearVentaRequest{})

	_, err := f.uc.Receipt(ctx, v.ID, gen)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err), "pendiente no tiene comprobante")

	_, err = f.uc.CompletarVenta(ctx, v.ID, dto.CompletarVentaRequest{})
	require.NoError(t, err)
	pdf, err := f.uc.Receipt(ctx, v.ID, gen)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-venta"), pdf)
	assert.Equal(t, 1, gen.calls)
}
