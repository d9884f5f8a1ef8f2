// Package opstatus publica el estado (cargando / error) de cada operación de caso de uso.
// Reemplaza las banderas compartidas de "loading" y "error": cada llamada devuelve su
// resultado y error, y el estado observable se publica aparte.
package opstatus

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/domain"
)

// Status último estado conocido de una operación.
type Status struct {
	Op        string    `json:"op"`
	Loading   bool      `json:"loading"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Err       error     `json:"-"`
}

// Tracker guarda el último estado por operación y lo reparte a los suscriptores.
// Un *Tracker nil es válido: no publica ni registra nada.
type Tracker struct {
	log zerolog.Logger
	now func() time.Time

	mu     sync.RWMutex
	last   map[string]Status
	subs   map[int]chan Status
	nextID int
}

// NewTracker construye el tracker con el logger de la aplicación.
func NewTracker(log zerolog.Logger) *Tracker {
	return &Tracker{
		log:  log,
		now:  time.Now,
		last: make(map[string]Status),
		subs: make(map[int]chan Status),
	}
}

// Snapshot copia del último estado de cada operación, ordenado por nombre.
func (t *Tracker) Snapshot() []Status {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Status, 0, len(t.last))
	for _, s := range t.last {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

// Get devuelve el último estado de op.
func (t *Tracker) Get(op string) (Status, bool) {
	if t == nil {
		return Status{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.last[op]
	return s, ok
}

// Subscribe abre un canal con los cambios de estado. Si el suscriptor no consume,
// los cambios se descartan. cancel cierra el canal.
func (t *Tracker) Subscribe(buffer int) (<-chan Status, func()) {
	ch := make(chan Status, buffer)
	if t == nil {
		close(ch)
		return ch, func() {}
	}
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(ch)
		})
	}
}

func (t *Tracker) publish(s Status) {
	if t == nil {
		return
	}
	s.UpdatedAt = t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[s.Op] = s
	for _, ch := range t.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Do ejecuta fn publicando Loading antes y el resultado después (también ante panic).
// Los errores se registran y se devuelven siempre al llamador.
func Do[T any](ctx context.Context, t *Tracker, op string, fn func(context.Context) (T, error)) (result T, err error) {
	t.publish(Status{Op: op, Loading: true})
	defer func() {
		final := Status{Op: op}
		if err != nil {
			final.Err = err
			final.Code = domain.CodeOf(err)
			final.Error = domain.PublicMessage(err)
			t.logFailure(op, err)
		}
		t.publish(final)
	}()
	return fn(ctx)
}

// Run igual que Do para operaciones sin resultado.
func Run(ctx context.Context, t *Tracker, op string, fn func(context.Context) error) error {
	_, err := Do(ctx, t, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (t *Tracker) logFailure(op string, err error) {
	if t == nil {
		return
	}
	code := domain.CodeOf(err)
	ev := t.log.Error()
	switch code {
	case domain.CodeInvalidInput, domain.CodeNotFound, domain.CodeTabNotOpen, domain.CodeTabNotFound,
		domain.CodeVentaNotFound, domain.CodeVentaAlreadyCompleted, domain.CodeVentaAlreadyCancelled,
		domain.CodeClientPhoneExists, domain.CodeProductNotFound, domain.CodeClientNotFound:
		ev = t.log.Warn()
	}
	ev.Err(err).Str("op", op).Str("code", code).Msg("operación fallida")
}
