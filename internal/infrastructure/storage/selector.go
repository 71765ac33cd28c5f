// Package storage decide, por petición, si la captura pública opera contra la
// base primaria (PostgreSQL) o contra la réplica local SQLite. Es el único
// punto del sistema donde se toma esa decisión; el resto del código recibe un
// CountingRepository y no sabe contra qué almacén habla.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
	"github.com/cloudbpo/conteo-api/internal/infrastructure/localcache"
	"github.com/cloudbpo/conteo-api/pkg/logger"
)

var _ counting.StoreSelector = (*Selector)(nil)

const (
	pingTimeout     = 2 * time.Second
	recheckCooldown = 10 * time.Second
)

// Selector implementa StoreSelector con verificación de salud del pool y un
// periodo de enfriamiento: tras detectar la primaria caída, las peticiones van
// directo al caché durante el cooldown sin volver a pagar el timeout del ping.
type Selector struct {
	pool    *pgxpool.Pool
	primary repository.CountingRepository
	cache   *localcache.Store
	log     *logger.Logger

	mu        sync.Mutex
	downUntil time.Time
}

// NewSelector construye el selector. cache puede ser nil si el respaldo local
// está deshabilitado por configuración; en ese caso siempre se usa la primaria.
func NewSelector(pool *pgxpool.Pool, primary repository.CountingRepository, cache *localcache.Store, log *logger.Logger) *Selector {
	return &Selector{pool: pool, primary: primary, cache: cache, log: log}
}

// Counting devuelve el repositorio de conteos a usar para esta petición.
func (s *Selector) Counting(ctx context.Context) repository.CountingRepository {
	if s.cache == nil {
		return s.primary
	}
	if s.primaryHealthy(ctx) {
		// Las lecturas exitosas contra la primaria refrescan el caché para que
		// el respaldo tenga los conteos activos cuando haga falta.
		return &refreshingRepo{primary: s.primary, cache: s.cache, log: s.log}
	}
	s.log.Warn().Msg("base primaria no disponible: captura pública sobre caché local")
	return s.cache
}

func (s *Selector) primaryHealthy(ctx context.Context) bool {
	s.mu.Lock()
	if time.Now().Before(s.downUntil) {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.pool.Ping(pingCtx); err != nil {
		s.log.Error().Err(err).Msg("ping a la base primaria falló")
		s.mu.Lock()
		s.downUntil = time.Now().Add(recheckCooldown)
		s.mu.Unlock()
		return false
	}
	return true
}

// refreshingRepo delega en la primaria y, en cada lectura de conteo exitosa,
// replica el resultado al caché local (mejor esfuerzo).
type refreshingRepo struct {
	primary repository.CountingRepository
	cache   *localcache.Store
	log     *logger.Logger
}

var _ repository.CountingRepository = (*refreshingRepo)(nil)

func (r *refreshingRepo) refresh(c *entity.Counting) {
	if c == nil {
		return
	}
	if err := r.cache.Put(c); err != nil {
		r.log.Warn().Err(err).Str("counting_id", c.ID).Msg("no se pudo refrescar el caché local")
	}
}

func (r *refreshingRepo) Create(c *entity.Counting) error {
	if err := r.primary.Create(c); err != nil {
		return err
	}
	r.refresh(c)
	return nil
}

func (r *refreshingRepo) GetByID(id string) (*entity.Counting, error) {
	c, err := r.primary.GetByID(id)
	if err == nil {
		r.refresh(c)
	}
	return c, err
}

func (r *refreshingRepo) GetByShareToken(ref string) (*entity.Counting, error) {
	c, err := r.primary.GetByShareToken(ref)
	if err == nil {
		r.refresh(c)
	}
	return c, err
}

func (r *refreshingRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Counting, error) {
	return r.primary.ListByCompany(companyID, limit, offset)
}

func (r *refreshingRepo) UpdateItem(it *entity.CountingItem) error {
	if err := r.primary.UpdateItem(it); err != nil {
		return err
	}
	// Replicar la escritura al caché para que un corte posterior no pierda
	// lo ya capturado en la vista local.
	if err := r.cache.UpdateItem(it); err != nil {
		r.log.Warn().Err(err).Str("item_id", it.ID).Msg("no se pudo replicar el ítem al caché local")
	}
	return nil
}

func (r *refreshingRepo) MarkInProgress(id string, at time.Time) error {
	if err := r.primary.MarkInProgress(id, at); err != nil {
		return err
	}
	if err := r.cache.MarkInProgress(id, at); err != nil {
		r.log.Warn().Err(err).Str("counting_id", id).Msg("no se pudo replicar el estado al caché local")
	}
	return nil
}

func (r *refreshingRepo) Complete(id string, at time.Time) (bool, error) {
	ok, err := r.primary.Complete(id, at)
	if err == nil && ok {
		if _, cerr := r.cache.Complete(id, at); cerr != nil {
			r.log.Warn().Err(cerr).Str("counting_id", id).Msg("no se pudo replicar el cierre al caché local")
		}
	}
	return ok, err
}

func (r *refreshingRepo) Approve(id, approvedBy string, at time.Time) (bool, error) {
	return r.primary.Approve(id, approvedBy, at)
}
