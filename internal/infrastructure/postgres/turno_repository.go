package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.TurnoRepository = (*TurnoRepo)(nil)

// Relaciones embebidas como jsonb; NULL cuando el LEFT JOIN no encuentra fila.
const turnoSelect = `
	SELECT t.id, t.title, t.start_at, t.end_at, t.court_id, t.turno_type_id, t.turno_state_id,
		t.client_id, t.series_id,
		CASE WHEN c.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', c.id, 'slug', c.slug, 'name', c.name, 'color_main', c.color_main,
			'color_container', c.color_container, 'color_on_container', c.color_on_container) END,
		CASE WHEN tt.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', tt.id, 'slug', tt.slug, 'name', tt.name, 'color', tt.color, 'icon', tt.icon) END,
		CASE WHEN ts.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', ts.id, 'name', ts.name, 'icon', ts.icon, 'color', ts.color) END,
		CASE WHEN cl.id IS NULL THEN NULL ELSE jsonb_build_object(
			'id', cl.id, 'full_name', cl.full_name, 'phone', cl.phone, 'email', cl.email,
			'notes', cl.notes, 'created_at', cl.created_at) END
	FROM turnos t
	LEFT JOIN courts c ON c.id = t.court_id
	LEFT JOIN turnos_types tt ON tt.id = t.turno_type_id
	LEFT JOIN turnos_states ts ON ts.id = t.turno_state_id
	LEFT JOIN clients cl ON cl.id = t.client_id`

const turnoColumns = "title, start_at, end_at, court_id, turno_type_id, turno_state_id, client_id, series_id"

// TurnoRepo implementación de TurnoRepository (usable con pool o tx).
type TurnoRepo struct {
	q Querier
}

// NewTurnoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTurnoRepository(q Querier) *TurnoRepo {
	return &TurnoRepo{q: q}
}

func scanTurno(row pgx.Row, t *entity.Turno) error {
	return row.Scan(&t.ID, &t.Title, &t.StartAt, &t.EndAt, &t.CourtID, &t.TurnoTypeID, &t.TurnoStateID,
		&t.ClientID, &t.SeriesID, &t.Court, &t.BookingType, &t.BookingState, &t.Client)
}

func turnoValues(t *entity.Turno) []any {
	return []any{t.Title, t.StartAt, t.EndAt, t.CourtID, t.TurnoTypeID, t.TurnoStateID, t.ClientID, t.SeriesID}
}

// ListByRange lista turnos con start_at en [from, to) ordenados ascendente.
func (r *TurnoRepo) ListByRange(ctx context.Context, from, to *time.Time) ([]*entity.Turno, error) {
	var conds []string
	var args []any
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("t.start_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("t.start_at < $%d", len(args)))
	}
	query := turnoSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.start_at ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("turnos", "list", err)
	}
	defer rows.Close()
	list := make([]*entity.Turno, 0)
	for rows.Next() {
		var t entity.Turno
		if err := scanTurno(rows, &t); err != nil {
			return nil, mapErr("turnos", "scan", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("turnos", "list", err)
	}
	return list, nil
}

// Create inserta un turno y lo devuelve con cancha y tipo embebidos.
func (r *TurnoRepo) Create(ctx context.Context, t *entity.Turno) (*entity.Turno, error) {
	query := `
		WITH t AS (
			INSERT INTO turnos (` + turnoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)` + strings.Replace(turnoSelect, "FROM turnos t", "FROM t", 1)
	var out entity.Turno
	if err := scanTurno(r.q.QueryRow(ctx, query, turnoValues(t)...), &out); err != nil {
		return nil, mapErr("turnos", "insert", err)
	}
	return &out, nil
}

// CreateMany inserta todos los turnos en un único INSERT multi-fila. No valida solapamientos.
func (r *TurnoRepo) CreateMany(ctx context.Context, turnos []*entity.Turno) ([]entity.TurnoSeriesRow, error) {
	if len(turnos) == 0 {
		return []entity.TurnoSeriesRow{}, nil
	}
	const width = 8
	values := make([]string, len(turnos))
	args := make([]any, 0, len(turnos)*width)
	for i, t := range turnos {
		values[i] = "(" + placeholders(i*width+1, width) + ")"
		args = append(args, turnoValues(t)...)
	}
	query := "INSERT INTO turnos (" + turnoColumns + ") VALUES " + strings.Join(values, ", ") +
		" RETURNING id, series_id, start_at, end_at"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("turnos", "insert series", err)
	}
	defer rows.Close()
	out := make([]entity.TurnoSeriesRow, 0, len(turnos))
	for rows.Next() {
		var row entity.TurnoSeriesRow
		if err := rows.Scan(&row.ID, &row.SeriesID, &row.StartAt, &row.EndAt); err != nil {
			return nil, mapErr("turnos", "scan", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("turnos", "insert series", err)
	}
	return out, nil
}

// Remove borra un turno y devuelve su ID; NOT_FOUND si no existía.
func (r *TurnoRepo) Remove(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := r.q.QueryRow(ctx, `DELETE FROM turnos WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("turnos")
		}
		return 0, mapErr("turnos", "delete", err)
	}
	return deleted, nil
}
