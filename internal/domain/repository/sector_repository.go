package repository

import "github.com/cloudbpo/conteo-api/internal/domain/entity"

// SectorRepository define el puerto de persistencia para sectores y su
// asignación de productos (DIP).
type SectorRepository interface {
	Create(sector *entity.Sector) error
	GetByID(id string) (*entity.Sector, error)
	Update(sector *entity.Sector) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sector, error)
	Delete(id string) error

	AssignProduct(sectorID, productID string) error
	UnassignProduct(sectorID, productID string) error
	// ListProducts devuelve los productos activos asignados al sector.
	ListProducts(sectorID string) ([]*entity.Product, error)
}
