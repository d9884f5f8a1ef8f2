package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// table describe cómo leer y escribir una entidad de consulta.
// columns[0] es siempre "id"; writable son las columnas de INSERT/UPDATE en el orden de values.
type table[T any] struct {
	name     string
	columns  []string
	writable []string
	orderBy  string
	search   []string
	scan     func(row pgx.Row, item *T) error
	values   func(item *T) []any
	id       func(item *T) int64
}

// CatalogRepo implementación genérica de repository.CatalogRepository (usable con pool o tx).
type CatalogRepo[T any] struct {
	q Querier
	t table[T]
}

func newCatalogRepo[T any](q Querier, t table[T]) *CatalogRepo[T] {
	return &CatalogRepo[T]{q: q, t: t}
}

func (r *CatalogRepo[T]) selectList() string {
	return strings.Join(r.t.columns, ", ")
}

// where arma el filtro de búsqueda (ILIKE sobre las columnas de búsqueda) y sus argumentos.
func (r *CatalogRepo[T]) where(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" || len(r.t.search) == 0 {
		return "", nil
	}
	conds := make([]string, len(r.t.search))
	for i, col := range r.t.search {
		conds[i] = col + " ILIKE $1"
	}
	return " WHERE (" + strings.Join(conds, " OR ") + ")", []any{"%" + search + "%"}
}

// List lista con ventana y búsqueda opcionales. El total solo se cuenta con ventana completa.
func (r *CatalogRepo[T]) List(ctx context.Context, filter repository.ListFilter) (repository.Page[T], error) {
	where, args := r.where(filter.Search)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", r.selectList(), r.t.name, where, r.t.orderBy)
	query, args = appendWindow(query, args, filter.From, filter.To)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return repository.Page[T]{}, mapErr(r.t.name, "list", err)
	}
	defer rows.Close()
	list := make([]*T, 0)
	for rows.Next() {
		var item T
		if err := r.t.scan(rows, &item); err != nil {
			return repository.Page[T]{}, mapErr(r.t.name, "scan", err)
		}
		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return repository.Page[T]{}, mapErr(r.t.name, "list", err)
	}

	page := repository.Page[T]{Data: list}
	if filter.Windowed() {
		where, countArgs := r.where(filter.Search)
		var total int
		if err := r.q.QueryRow(ctx, "SELECT count(*) FROM "+r.t.name+where, countArgs...).Scan(&total); err != nil {
			return repository.Page[T]{}, mapErr(r.t.name, "count", err)
		}
		page.Total = &total
	}
	return page, nil
}

// GetByID obtiene una fila por ID; nil, nil si no existe.
func (r *CatalogRepo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectList(), r.t.name)
	var item T
	if err := r.t.scan(r.q.QueryRow(ctx, query, id), &item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr(r.t.name, "get", err)
	}
	return &item, nil
}

// Create inserta y devuelve la fila resultante.
func (r *CatalogRepo[T]) Create(ctx context.Context, item *T) (*T, error) {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.t.name, strings.Join(r.t.writable, ", "), placeholders(1, len(r.t.writable)), r.selectList())
	var out T
	if err := r.t.scan(r.q.QueryRow(ctx, query, r.t.values(item)...), &out); err != nil {
		return nil, mapErr(r.t.name, "insert", err)
	}
	return &out, nil
}

// Update actualiza las columnas escribibles; NOT_FOUND si el ID no existe.
func (r *CatalogRepo[T]) Update(ctx context.Context, item *T) (*T, error) {
	sets := make([]string, len(r.t.writable))
	for i, col := range r.t.writable {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		r.t.name, strings.Join(sets, ", "), r.selectList())
	args := append([]any{r.t.id(item)}, r.t.values(item)...)
	var out T
	if err := r.t.scan(r.q.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(r.t.name)
		}
		return nil, mapErr(r.t.name, "update", err)
	}
	return &out, nil
}

// Delete borra y devuelve la fila borrada; NOT_FOUND si el ID no existe.
func (r *CatalogRepo[T]) Delete(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING %s", r.t.name, r.selectList())
	var out T
	if err := r.t.scan(r.q.QueryRow(ctx, query, id), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(r.t.name)
		}
		return nil, mapErr(r.t.name, "delete", err)
	}
	return &out, nil
}

// placeholders devuelve "$start, ..., $start+n-1".
func placeholders(start, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(ps, ", ")
}

// appendWindow traduce la ventana inclusiva [from, to] a OFFSET/LIMIT.
func appendWindow(query string, args []any, from, to *int) (string, []any) {
	offset := 0
	if from != nil && *from > 0 {
		offset = *from
	}
	if to != nil {
		limit := *to - offset + 1
		if limit < 0 {
			limit = 0
		}
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
