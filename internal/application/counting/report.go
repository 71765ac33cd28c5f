package counting

import (
	"context"

	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// ReportUseCase genera el acta de conteo en PDF: productos, cantidades
// esperadas y contadas y la diferencia por línea. Disponible desde completed.
type ReportUseCase struct {
	countingRepo repository.CountingRepository
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	sectorRepo   repository.SectorRepository
	generator    ReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	countingRepo repository.CountingRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	sectorRepo repository.SectorRepository,
	generator ReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		countingRepo: countingRepo,
		companyRepo:  companyRepo,
		productRepo:  productRepo,
		sectorRepo:   sectorRepo,
		generator:    generator,
	}
}

// Generate produce el PDF del acta. Un conteo sin finalizar no tiene acta.
func (uc *ReportUseCase) Generate(ctx context.Context, companyID, countingID string) ([]byte, error) {
	c, err := uc.countingRepo.GetByID(countingID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if c.Status != entity.CountingStatusCompleted && c.Status != entity.CountingStatusApproved {
		return nil, domain.ErrCountingNotReady
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	products := make(map[string]*entity.Product)
	sectors := make(map[string]*entity.Sector)
	for _, item := range c.Items {
		if _, ok := products[item.ProductID]; !ok {
			p, err := uc.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			products[item.ProductID] = p
		}
		if _, ok := sectors[item.SectorID]; !ok {
			s, err := uc.sectorRepo.GetByID(item.SectorID)
			if err != nil {
				return nil, err
			}
			sectors[item.SectorID] = s
		}
	}

	return uc.generator.GenerateCountingReport(ctx, c, company, products, sectors)
}
