package ventas

import (
	"context"
	"sync"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Loader obtiene una página de ventas; *UseCase lo implementa.
type Loader interface {
	LoadVentas(ctx context.Context, filter repository.VentaFilter) (repository.Page[entity.Venta], error)
}

// ListState vista compartida de las ventas recientes. Los handlers la mantienen al día
// después de cada alta, cierre o borrado para no releer la base.
type ListState struct {
	loader Loader
	filter repository.VentaFilter

	mu    sync.RWMutex
	rows  []*entity.Venta
	count *int
}

// NewListState crea la vista vacía; filter es el filtro por defecto de Refresh.
func NewListState(loader Loader, filter repository.VentaFilter) *ListState {
	return &ListState{loader: loader, filter: filter}
}

// Refresh recarga las filas. Un filter nil reutiliza el último aplicado.
func (s *ListState) Refresh(ctx context.Context, filter *repository.VentaFilter) error {
	s.mu.RLock()
	f := s.filter
	s.mu.RUnlock()
	if filter != nil {
		f = *filter
	}

	page, err := s.loader.LoadVentas(ctx, f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.rows = page.Data
	s.count = page.Total
	return nil
}

// SetRows reemplaza las filas.
func (s *ListState) SetRows(rows []*entity.Venta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]*entity.Venta(nil), rows...)
	s.count = nil
}

// UpsertRow reemplaza la fila con el mismo ID o la agrega al principio.
func (s *ListState) UpsertRow(v *entity.Venta) {
	if v == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == v.ID {
			s.rows[i] = mergeVenta(r, v)
			return
		}
	}
	s.rows = append([]*entity.Venta{v}, s.rows...)
	if s.count != nil {
		n := *s.count + 1
		s.count = &n
	}
}

// RemoveRow quita la fila si está presente.
func (s *ListState) RemoveRow(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i:i], s.rows[i+1:]...)
			if s.count != nil && *s.count > 0 {
				n := *s.count - 1
				s.count = &n
			}
			return
		}
	}
}

// Page filas actuales junto con el total conocido.
func (s *ListState) Page() repository.Page[entity.Venta] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return repository.Page[entity.Venta]{Data: append([]*entity.Venta(nil), s.rows...), Total: s.count}
}

// mergeVenta conserva las relaciones ya cargadas que la versión nueva no trae.
func mergeVenta(old, upd *entity.Venta) *entity.Venta {
	merged := *upd
	if merged.Cliente == nil {
		merged.Cliente = old.Cliente
	}
	if merged.Vendedor == nil {
		merged.Vendedor = old.Vendedor
	}
	if merged.MetodoPago == nil {
		merged.MetodoPago = old.MetodoPago
	}
	if merged.Items == nil {
		merged.Items = old.Items
	}
	return &merged
}
