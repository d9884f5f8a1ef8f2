package tabs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubTabs struct {
	mu     sync.Mutex
	rows   map[int64]*entity.Tab
	nextID int64

	// raceWinner simula que otro proceso insertó la cuenta entre la lectura y el insert.
	raceWinner *entity.Tab
	rawDupErr  bool
	creates    int
}

func newStubTabs() *stubTabs { return &stubTabs{rows: map[int64]*entity.Tab{}} }

func (s *stubTabs) GetByTurnoID(_ context.Context, turnoID int64) (*entity.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.rows {
		if t.TurnoID == turnoID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubTabs) GetByID(_ context.Context, id int64) (*entity.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.rows[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (s *stubTabs) Create(_ context.Context, tab *entity.Tab) (*entity.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.raceWinner != nil {
		s.rows[s.raceWinner.ID] = s.raceWinner
		s.raceWinner = nil
	}
	for _, t := range s.rows {
		if t.TurnoID == tab.TurnoID {
			if s.rawDupErr {
				return nil, errors.New(`duplicate key value violates unique constraint "uniq_tabs_turno_id"`)
			}
			return nil, domain.NewAppError(domain.CodeUniqueViolation, "", nil)
		}
	}
	s.nextID++
	tab.ID = s.nextID
	s.rows[tab.ID] = tab
	cp := *tab
	return &cp, nil
}

func (s *stubTabs) TransitionFromOpen(_ context.Context, id int64, status string) (*entity.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok || t.Status != entity.TabStatusOpen {
		return nil, nil
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

type stubItems struct {
	rows     map[int64]*entity.TabItem
	products map[int64]*entity.Articulo
	nextID   int64
	writes   int
}

func newStubItems() *stubItems {
	products := map[int64]*entity.Articulo{
		5: {ID: 5, Nombre: "Gatorade", PrecioVenta: decimal.NewFromInt(1500)},
	}
	return &stubItems{rows: map[int64]*entity.TabItem{}, products: products}
}

func (s *stubItems) ListByTabID(_ context.Context, tabID int64) ([]*entity.TabItem, error) {
	out := []*entity.TabItem{}
	for id := int64(1); id <= s.nextID; id++ {
		if it, ok := s.rows[id]; ok && it.TabID == tabID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubItems) AddProduct(_ context.Context, tabID, productID int64, qty int) (*entity.TabItem, error) {
	s.writes++
	p, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	price := p.PrecioVenta
	return s.insert(&entity.TabItem{TabID: tabID, ProductID: &productID, NameSnapshot: p.Nombre, UnitPriceSnapshot: &price, Qty: qty}), nil
}

func (s *stubItems) AddManual(_ context.Context, tabID int64, name string, unitPrice decimal.Decimal, qty int) (*entity.TabItem, error) {
	s.writes++
	return s.insert(&entity.TabItem{TabID: tabID, NameSnapshot: name, UnitPriceSnapshot: &unitPrice, Qty: qty}), nil
}

func (s *stubItems) insert(it *entity.TabItem) *entity.TabItem {
	s.nextID++
	it.ID = s.nextID
	s.rows[it.ID] = it
	return it
}

func (s *stubItems) UpdateQty(_ context.Context, id int64, qty int) (*entity.TabItem, error) {
	s.writes++
	it, ok := s.rows[id]
	if !ok {
		return nil, domain.NewAppError(domain.CodeNotFound, "", nil)
	}
	it.Qty = qty
	return it, nil
}

func (s *stubItems) Delete(_ context.Context, id int64) (*entity.TabItem, error) {
	s.writes++
	it, ok := s.rows[id]
	if !ok {
		return nil, domain.NewAppError(domain.CodeNotFound, "", nil)
	}
	delete(s.rows, id)
	return it, nil
}

func newUseCase(tabs *stubTabs, items *stubItems) *UseCase {
	return NewUseCase(tabs, items, nil, nil, zerolog.Nop())
}

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Get-or-create
// ──────────────────────────────────────────────────────────────────────────────

func TestGetOrCreate_CreaSiNoExiste(t *testing.T) {
	tabs := newStubTabs()
	uc := newUseCase(tabs, newStubItems())

	tab, err := uc.GetOrCreateTabForTurno(context.Background(), 7, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), tab.TurnoID)
	assert.Equal(t, entity.TabStatusOpen, tab.Status)

	again, err := uc.GetOrCreateTabForTurno(context.Background(), 7, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, tab.ID, again.ID, "la segunda llamada devuelve la misma cuenta")
	assert.Equal(t, 1, tabs.creates)
}

func TestGetOrCreate_CarreraDevuelveGanadora(t *testing.T) {
	for _, raw := range []bool{false, true} {
		tabs := newStubTabs()
		tabs.rawDupErr = raw
		tabs.raceWinner = &entity.Tab{ID: 99, TurnoID: 7, Status: entity.TabStatusOpen}
		uc := newUseCase(tabs, newStubItems())

		tab, err := uc.GetOrCreateTabForTurno(context.Background(), 7, nil, nil)
		require.NoError(t, err, "rawDupErr=%v", raw)
		assert.Equal(t, int64(99), tab.ID, "debe devolverse la fila ganadora")
	}
}

func TestGetOrCreate_Concurrente(t *testing.T) {
	tabs := newStubTabs()
	uc := newUseCase(tabs, newStubItems())

	const n = 8
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tab, err := uc.GetOrCreateTabForTurno(context.Background(), 3, nil, nil)
			if assert.NoError(t, err) {
				ids[i] = tab.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id, "todas las llamadas ven la misma cuenta")
	}
}

func TestGetOrCreate_OtroErrorSePropaga(t *testing.T) {
	tabs := newStubTabs()
	uc := newUseCase(tabs, newStubItems())

	_, err := uc.GetOrCreateTabForTurno(context.Background(), 0, nil, nil)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	assert.Zero(t, tabs.creates)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_SoloDesdeOpen(t *testing.T) {
	tabs := newStubTabs()
	uc := newUseCase(tabs, newStubItems())
	ctx := context.Background()
	tab, err := uc.Create(ctx, 1, nil, nil)
	require.NoError(t, err)

	closed, err := uc.Close(ctx, tab.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TabStatusClosed, closed.Status)

	_, err = uc.Cancel(ctx, tab.ID)
	assert.Equal(t, domain.CodeTabNotOpen, domain.CodeOf(err), "cerrada no se puede cancelar")

	_, err = uc.Close(ctx, tab.ID)
	assert.Equal(t, domain.CodeTabNotOpen, domain.CodeOf(err), "cerrada no se vuelve a cerrar")
}

func TestCancel_NoEncontradaEIdCero(t *testing.T) {
	uc := newUseCase(newStubTabs(), newStubItems())

	_, err := uc.Cancel(context.Background(), 404)
	assert.Equal(t, domain.CodeTabNotFound, domain.CodeOf(err))

	_, err = uc.Cancel(context.Background(), 0)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
}

func TestCreate_RequiereTurno(t *testing.T) {
	tabs := newStubTabs()
	uc := newUseCase(tabs, newStubItems())
	_, err := uc.Create(context.Background(), 0, nil, nil)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	assert.Zero(t, tabs.creates)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateQty_ValidaAntesDeEscribir(t *testing.T) {
	items := newStubItems()
	uc := newUseCase(newStubTabs(), items)
	ctx := context.Background()
	it, err := uc.AddManualItem(ctx, 1, "Alquiler paleta", decimalPtr(2000), nil)
	require.NoError(t, err)
	writes := items.writes

	for _, bad := range []int{0, -1} {
		_, err := uc.UpdateQty(ctx, it.ID, bad)
		assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err), "qty=%d", bad)
	}
	assert.Equal(t, writes, items.writes, "ninguna escritura con qty inválida")

	updated, err := uc.UpdateQty(ctx, it.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Qty)
}

func TestAddProductItem_SnapshotYQtyPorDefecto(t *testing.T) {
	uc := newUseCase(newStubTabs(), newStubItems())

	it, err := uc.AddProductItem(context.Background(), 1, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, it.Qty)
	assert.Equal(t, "Gatorade", it.NameSnapshot)
	assert.True(t, it.UnitPriceSnapshot.Equal(decimal.NewFromInt(1500)))

	_, err = uc.AddProductItem(context.Background(), 1, 77, intPtr(2))
	assert.Equal(t, domain.CodeProductNotFound, domain.CodeOf(err))
}

func TestAddManualItem_Validaciones(t *testing.T) {
	items := newStubItems()
	uc := newUseCase(newStubTabs(), items)
	ctx := context.Background()

	_, err := uc.AddManualItem(ctx, 1, "   ", decimalPtr(10), nil)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	_, err = uc.AddManualItem(ctx, 1, "Pelotas", nil, nil)
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	_, err = uc.AddManualItem(ctx, 1, "Pelotas", decimalPtr(10), intPtr(0))
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
	assert.Zero(t, items.writes)

	it, err := uc.AddManualItem(ctx, 1, "  Pelotas ", decimalPtr(10), intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, "Pelotas", it.NameSnapshot)
	assert.Nil(t, it.ProductID)
}

func TestLoadBundle(t *testing.T) {
	tabs := newStubTabs()
	items := newStubItems()
	uc := newUseCase(tabs, items)
	ctx := context.Background()

	empty, err := uc.LoadTabBundleByTurnoID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, empty.Tab)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)

	tab, err := uc.GetOrCreateTabForTurno(ctx, 5, nil, nil)
	require.NoError(t, err)
	_, err = uc.AddProductItem(ctx, tab.ID, 5, intPtr(2))
	require.NoError(t, err)
	_, err = uc.AddManualItem(ctx, tab.ID, "Luz", decimalPtr(500), nil)
	require.NoError(t, err)

	b, err := uc.LoadTabBundleByTurnoID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, b.Tab)
	require.Len(t, b.Items, 2)
	assert.Equal(t, "Gatorade", b.Items[0].NameSnapshot)

	none, err := uc.ListItems(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func decimalPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}
