package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// SectorUseCase casos de uso CRUD para sectores y su asignación de productos.
type SectorUseCase struct {
	repo        repository.SectorRepository
	productRepo repository.ProductRepository
}

// NewSectorUseCase construye el caso de uso.
func NewSectorUseCase(repo repository.SectorRepository, productRepo repository.ProductRepository) *SectorUseCase {
	return &SectorUseCase{repo: repo, productRepo: productRepo}
}

// Create crea un sector.
func (uc *SectorUseCase) Create(companyID string, in dto.CreateSectorRequest) (*dto.SectorResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	sector := &entity.Sector{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(sector); err != nil {
		return nil, err
	}
	return toSectorResponse(sector), nil
}

// GetByID obtiene un sector de la empresa.
func (uc *SectorUseCase) GetByID(companyID, id string) (*dto.SectorResponse, error) {
	sector, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sector == nil || sector.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toSectorResponse(sector), nil
}

// Update actualiza un sector.
func (uc *SectorUseCase) Update(companyID, id string, in dto.UpdateSectorRequest) (*dto.SectorResponse, error) {
	sector, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sector == nil || sector.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		sector.Name = *in.Name
	}
	if in.Description != nil {
		sector.Description = *in.Description
	}
	sector.UpdatedAt = time.Now()
	if err := uc.repo.Update(sector); err != nil {
		return nil, err
	}
	return toSectorResponse(sector), nil
}

// List lista sectores por empresa con paginación.
func (uc *SectorUseCase) List(companyID string, limit, offset int) (*dto.SectorListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SectorResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSectorResponse(s))
	}
	return &dto.SectorListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un sector de la empresa.
func (uc *SectorUseCase) Delete(companyID, id string) error {
	sector, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if sector == nil || sector.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// AssignProduct vincula un producto de la misma empresa al sector.
func (uc *SectorUseCase) AssignProduct(companyID, sectorID string, in dto.AssignProductRequest) error {
	sector, err := uc.repo.GetByID(sectorID)
	if err != nil {
		return err
	}
	if sector == nil || sector.CompanyID != companyID {
		return domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.AssignProduct(sectorID, in.ProductID)
}

// UnassignProduct desvincula un producto del sector.
func (uc *SectorUseCase) UnassignProduct(companyID, sectorID, productID string) error {
	sector, err := uc.repo.GetByID(sectorID)
	if err != nil {
		return err
	}
	if sector == nil || sector.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.UnassignProduct(sectorID, productID)
}

// ListProducts devuelve los productos activos asignados al sector.
func (uc *SectorUseCase) ListProducts(companyID, sectorID string) ([]dto.ProductResponse, error) {
	sector, err := uc.repo.GetByID(sectorID)
	if err != nil {
		return nil, err
	}
	if sector == nil || sector.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListProducts(sectorID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

func toSectorResponse(s *entity.Sector) *dto.SectorResponse {
	if s == nil {
		return nil
	}
	return &dto.SectorResponse{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
