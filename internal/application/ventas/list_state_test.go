package ventas

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

type stubLoader struct {
	page repository.Page[entity.Venta]
	err  error
	last repository.VentaFilter
}

func (l *stubLoader) LoadVentas(_ context.Context, f repository.VentaFilter) (repository.Page[entity.Venta], error) {
	l.last = f
	return l.page, l.err
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func ids(rows []*entity.Venta) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestListState_Refresh(t *testing.T) {
	n := 2
	loader := &stubLoader{page: repository.Page[entity.Venta]{Data: []*entity.Venta{{ID: 2}, {ID: 1}}, Total: &n}}
	s := NewListState(loader, repository.VentaFilter{Estado: entity.VentaEstadoPendiente})

	require.NoError(t, s.Refresh(context.Background(), nil))
	assert.Equal(t, entity.VentaEstadoPendiente, loader.last.Estado, "usa el filtro por defecto")
	assert.Equal(t, []int64{2, 1}, ids(s.Page().Data))
	assert.Equal(t, 2, *s.Page().Total)

	require.NoError(t, s.Refresh(context.Background(), &repository.VentaFilter{Search: "ana"}))
	require.NoError(t, s.Refresh(context.Background(), nil))
	assert.Equal(t, "ana", loader.last.Search, "recuerda el último filtro")

	loader.err = errors.New("boom")
	assert.Error(t, s.Refresh(context.Background(), nil))
	assert.Equal(t, []int64{2, 1}, ids(s.Page().Data), "un fallo no pisa las filas")
}

func TestListState_UpsertAndRemove(t *testing.T) {
	s := NewListState(&stubLoader{}, repository.VentaFilter{})
	s.SetRows([]*entity.Venta{{ID: 1, Estado: entity.VentaEstadoPendiente, Cliente: &entity.VentaCliente{ID: 9}}})

	s.UpsertRow(&entity.Venta{ID: 2})
	assert.Equal(t, []int64{2, 1}, ids(s.Page().Data), "las nuevas van al principio")

	s.UpsertRow(&entity.Venta{ID: 1, Estado: entity.VentaEstadoCompletada})
	rows := s.Page().Data
	assert.Equal(t, []int64{2, 1}, ids(rows), "merge sin mover la fila")
	assert.Equal(t, entity.VentaEstadoCompletada, rows[1].Estado)
	require.NotNil(t, rows[1].Cliente, "conserva las relaciones ya cargadas")
	assert.Equal(t, int64(9), rows[1].Cliente.ID)

	s.RemoveRow(2)
	s.RemoveRow(404)
	assert.Equal(t, []int64{1}, ids(s.Page().Data))

	s.UpsertRow(nil)
	assert.Len(t, s.Page().Data, 1)
}

func TestListState_RowsIsACopy(t *testing.T) {
	s := NewListState(&stubLoader{}, repository.VentaFilter{})
	s.SetRows([]*entity.Venta{{ID: 1}})
	rows := s.Page().Data
	rows[0] = &entity.Venta{ID: 99}
	assert.Equal(t, []int64{1}, ids(s.Page().Data))
}

func TestListState_Concurrent(t *testing.T) {
	s := NewListState(&stubLoader{}, repository.VentaFilter{})
	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(2)
		go func(id int64) { defer wg.Done(); s.UpsertRow(&entity.Venta{ID: id}) }(i)
		go func() { defer wg.Done(); _ = s.Page().Data }()
	}
	wg.Wait()
	assert.Len(t, s.Page().Data, 50)
}
