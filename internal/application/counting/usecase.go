package counting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// CountingUseCase crea y consulta conteos. La creación congela el stock
// esperado de cada producto-en-sector como foto del momento; a partir de ahí
// el avance se mide contra esa foto, no contra el stock vivo.
type CountingUseCase struct {
	countingRepo repository.CountingRepository
	sectorRepo   repository.SectorRepository
	movementRepo repository.MovementRepository
}

// NewCountingUseCase construye el caso de uso.
func NewCountingUseCase(
	countingRepo repository.CountingRepository,
	sectorRepo repository.SectorRepository,
	movementRepo repository.MovementRepository,
) *CountingUseCase {
	return &CountingUseCase{
		countingRepo: countingRepo,
		sectorRepo:   sectorRepo,
		movementRepo: movementRepo,
	}
}

// Create crea un conteo en estado pending con un ítem por producto activo de
// cada sector seleccionado. El token de compartir se genera aquí y es único
// por conteo.
func (uc *CountingUseCase) Create(_ context.Context, companyID, userID string, in dto.CreateCountingRequest) (*dto.CountingResponse, error) {
	if in.Name == "" || len(in.SectorIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	c := &entity.Counting{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Description: in.Description,
		Status:      entity.CountingStatusPending,
		CreatedBy:   userID,
		AssignedTo:  in.AssignedTo,
		SectorIDs:   in.SectorIDs,
		ShareToken:  uuid.New().String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	seen := map[string]bool{}
	for _, sectorID := range in.SectorIDs {
		sector, err := uc.sectorRepo.GetByID(sectorID)
		if err != nil {
			return nil, err
		}
		if sector == nil || sector.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		products, err := uc.sectorRepo.ListProducts(sectorID)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			// Un producto puede estar en varios sectores; cada par producto-sector
			// genera su propio ítem, pero el mismo par no se duplica.
			key := sectorID + "/" + p.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			c.Items = append(c.Items, entity.CountingItem{
				ID:          uuid.New().String(),
				CountingID:  c.ID,
				ProductID:   p.ID,
				SectorID:    sectorID,
				ExpectedQty: p.CurrentStock,
			})
		}
	}
	if len(c.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.countingRepo.Create(c); err != nil {
		return nil, err
	}
	return toCountingResponse(c, true), nil
}

// GetByID obtiene un conteo de la empresa con sus ítems.
func (uc *CountingUseCase) GetByID(_ context.Context, companyID, id string) (*dto.CountingResponse, error) {
	c, err := uc.countingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toCountingResponse(c, true), nil
}

// List lista conteos por empresa con paginación (sin ítems).
func (uc *CountingUseCase) List(_ context.Context, companyID string, limit, offset int) (*dto.CountingListResponse, error) {
	list, err := uc.countingRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CountingResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCountingResponse(c, false))
	}
	return &dto.CountingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Movements devuelve los movimientos publicados por la aprobación del conteo.
func (uc *CountingUseCase) Movements(_ context.Context, companyID, countingID string) ([]dto.MovementResponse, error) {
	c, err := uc.countingRepo.GetByID(countingID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movementRepo.ListByReference(countingID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}
