package counting_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// Fakes en memoria para los casos de uso de conteo. Replican la semántica
// condicional de Complete/Approve del almacén real: devuelven false si el
// estado vigente ya no permite la transición.

// ── CountingRepository ────────────────────────────────────────────────────────

type memCountingRepo struct {
	countings map[string]*entity.Counting
}

var _ repository.CountingRepository = (*memCountingRepo)(nil)

func newMemCountingRepo() *memCountingRepo {
	return &memCountingRepo{countings: map[string]*entity.Counting{}}
}

func (r *memCountingRepo) Create(c *entity.Counting) error {
	r.countings[c.ID] = c
	return nil
}

func (r *memCountingRepo) GetByID(id string) (*entity.Counting, error) {
	return r.countings[id], nil
}

func (r *memCountingRepo) GetByShareToken(ref string) (*entity.Counting, error) {
	for _, c := range r.countings {
		if c.ShareToken == ref || c.ID == ref {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCountingRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Counting, error) {
	var list []*entity.Counting
	for _, c := range r.countings {
		if c.CompanyID == companyID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *memCountingRepo) UpdateItem(item *entity.CountingItem) error {
	c := r.countings[item.CountingID]
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i] = *item
			return nil
		}
	}
	return nil
}

func (r *memCountingRepo) MarkInProgress(id string, at time.Time) error {
	c := r.countings[id]
	if c == nil {
		return nil
	}
	if c.Status == entity.CountingStatusDraft || c.Status == entity.CountingStatusPending {
		c.Status = entity.CountingStatusInProgress
		c.UpdatedAt = at
	}
	return nil
}

func (r *memCountingRepo) Complete(id string, at time.Time) (bool, error) {
	c := r.countings[id]
	if c == nil {
		return false, nil
	}
	if c.Status == entity.CountingStatusCompleted || c.Status == entity.CountingStatusApproved {
		return false, nil
	}
	// Misma re-verificación de completitud que hace el UPDATE condicional real.
	for _, it := range c.Items {
		if it.CountedQty == nil {
			return false, nil
		}
	}
	c.Status = entity.CountingStatusCompleted
	c.CompletedAt = &at
	c.UpdatedAt = at
	return true, nil
}

func (r *memCountingRepo) Approve(id, approvedBy string, at time.Time) (bool, error) {
	c := r.countings[id]
	if c == nil || c.Status != entity.CountingStatusCompleted {
		return false, nil
	}
	c.Status = entity.CountingStatusApproved
	c.ApprovedAt = &at
	c.ApprovedBy = approvedBy
	c.UpdatedAt = at
	return true, nil
}

// ── SectorRepository ──────────────────────────────────────────────────────────

type memSectorRepo struct {
	sectors  map[string]*entity.Sector
	products map[string][]*entity.Product // sectorID -> productos asignados
}

var _ repository.SectorRepository = (*memSectorRepo)(nil)

func newMemSectorRepo() *memSectorRepo {
	return &memSectorRepo{
		sectors:  map[string]*entity.Sector{},
		products: map[string][]*entity.Product{},
	}
}

func (r *memSectorRepo) Create(s *entity.Sector) error { r.sectors[s.ID] = s; return nil }
func (r *memSectorRepo) GetByID(id string) (*entity.Sector, error) {
	return r.sectors[id], nil
}
func (r *memSectorRepo) Update(s *entity.Sector) error { r.sectors[s.ID] = s; return nil }
func (r *memSectorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sector, error) {
	var list []*entity.Sector
	for _, s := range r.sectors {
		if s.CompanyID == companyID {
			list = append(list, s)
		}
	}
	return list, nil
}
func (r *memSectorRepo) Delete(id string) error { delete(r.sectors, id); return nil }

func (r *memSectorRepo) AssignProduct(sectorID, productID string) error { return nil }
func (r *memSectorRepo) UnassignProduct(sectorID, productID string) error {
	return nil
}
func (r *memSectorRepo) ListProducts(sectorID string) ([]*entity.Product, error) {
	return r.products[sectorID], nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	if p := r.products[productID]; p != nil {
		p.CurrentStock = stock
	}
	return nil
}
func (r *memProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			list = append(list, p)
		}
	}
	return list, nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.products, id); return nil }

// ── MovementRepository ────────────────────────────────────────────────────────

type memMovementRepo struct {
	movements []*entity.ProductMovement
}

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func newMemMovementRepo() *memMovementRepo { return &memMovementRepo{} }

func (r *memMovementRepo) Create(m *entity.ProductMovement) error {
	r.movements = append(r.movements, m)
	return nil
}
func (r *memMovementRepo) ListByReference(referenceID string) ([]*entity.ProductMovement, error) {
	var list []*entity.ProductMovement
	for _, m := range r.movements {
		if m.ReferenceID == referenceID {
			list = append(list, m)
		}
	}
	return list, nil
}
func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.ProductMovement, error) {
	var list []*entity.ProductMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			list = append(list, m)
		}
	}
	return list, nil
}
func (r *memMovementRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductMovement, error) {
	var list []*entity.ProductMovement
	for _, m := range r.movements {
		if m.CompanyID == companyID {
			list = append(list, m)
		}
	}
	return list, nil
}

// ── NotificationRepository ────────────────────────────────────────────────────

type memNotificationRepo struct {
	notifications []*entity.Notification
}

var _ repository.NotificationRepository = (*memNotificationRepo)(nil)

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (r *memNotificationRepo) Create(n *entity.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}
func (r *memNotificationRepo) ListByUser(userID string, limit, offset int) ([]*entity.Notification, error) {
	var list []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	return list, nil
}
func (r *memNotificationRepo) MarkRead(id string, at time.Time) error { return nil }

// ── StoreSelector y TxRunner ──────────────────────────────────────────────────

// staticSelector siempre devuelve el mismo repositorio, como el selector real
// cuando la primaria está sana.
type staticSelector struct {
	repo repository.CountingRepository
}

func (s staticSelector) Counting(context.Context) repository.CountingRepository { return s.repo }

// memTxRunner ejecuta la función directamente contra los fakes; la atomicidad
// no se simula, solo el contrato.
type memTxRunner struct {
	countingRepo     repository.CountingRepository
	productRepo      repository.ProductRepository
	movementRepo     repository.MovementRepository
	notificationRepo repository.NotificationRepository
}

var _ appcounting.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(_ context.Context, fn func(
	repository.CountingRepository,
	repository.ProductRepository,
	repository.MovementRepository,
	repository.NotificationRepository,
) error) error {
	return fn(r.countingRepo, r.productRepo, r.movementRepo, r.notificationRepo)
}
