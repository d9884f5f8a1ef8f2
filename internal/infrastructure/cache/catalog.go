package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*Catalog[entity.Client])(nil)

// Catalog decora un CatalogRepository: las lecturas pasan por Redis y toda escritura
// invalida las claves del catálogo. Si Redis falla se lee directo del repositorio.
type Catalog[T any] struct {
	inner  repository.CatalogRepository[T]
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCatalog envuelve inner. name identifica el catálogo en las claves ("clients", "articulos").
func NewCatalog[T any](inner repository.CatalogRepository[T], rdb *redis.Client, name string, ttl time.Duration, log zerolog.Logger) *Catalog[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog[T]{
		inner:  inner,
		rdb:    rdb,
		prefix: "turnos:catalog:" + name + ":",
		ttl:    ttl,
		log:    log.With().Str("component", "cache").Str("catalog", name).Logger(),
	}
}

func (c *Catalog[T]) List(ctx context.Context, filter repository.ListFilter) (repository.Page[T], error) {
	key := c.listKey(filter)
	var page repository.Page[T]
	if c.get(ctx, key, &page) {
		return page, nil
	}
	page, err := c.inner.List(ctx, filter)
	if err != nil {
		return page, err
	}
	c.set(ctx, key, page)
	return page, nil
}

func (c *Catalog[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	key := c.prefix + "id:" + strconv.FormatInt(id, 10)
	var row T
	if c.get(ctx, key, &row) {
		return &row, nil
	}
	found, err := c.inner.GetByID(ctx, id)
	if err != nil || found == nil {
		return found, err
	}
	c.set(ctx, key, found)
	return found, nil
}

func (c *Catalog[T]) Create(ctx context.Context, row *T) (*T, error) {
	created, err := c.inner.Create(ctx, row)
	if err == nil {
		c.Invalidate(ctx)
	}
	return created, err
}

func (c *Catalog[T]) Update(ctx context.Context, row *T) (*T, error) {
	updated, err := c.inner.Update(ctx, row)
	if err == nil {
		c.Invalidate(ctx)
	}
	return updated, err
}

func (c *Catalog[T]) Delete(ctx context.Context, id int64) (*T, error) {
	deleted, err := c.inner.Delete(ctx, id)
	if err == nil {
		c.Invalidate(ctx)
	}
	return deleted, err
}

// Invalidate borra todas las claves del catálogo (SCAN + DEL, sin KEYS).
func (c *Catalog[T]) Invalidate(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo recorrer la caché")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Int("keys", len(keys)).Msg("no se pudo invalidar la caché")
	}
}

func (c *Catalog[T]) listKey(f repository.ListFilter) string {
	key := c.prefix + "list:"
	if f.From != nil {
		key += strconv.Itoa(*f.From)
	}
	key += ":"
	if f.To != nil {
		key += strconv.Itoa(*f.To)
	}
	return key + ":" + f.Search
}

func (c *Catalog[T]) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de caché ilegible")
		return false
	}
	return true
}

func (c *Catalog[T]) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}
