package counting

import (
	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

// toCountingResponse mapea la entidad al DTO. withItems controla si se
// serializa el detalle; el listado va sin ítems.
func toCountingResponse(c *entity.Counting, withItems bool) *dto.CountingResponse {
	if c == nil {
		return nil
	}
	resp := &dto.CountingResponse{
		ID:                c.ID,
		CompanyID:         c.CompanyID,
		Name:              c.Name,
		Description:       c.Description,
		Status:            c.Status,
		CreatedBy:         c.CreatedBy,
		AssignedTo:        c.AssignedTo,
		SectorIDs:         c.SectorIDs,
		ShareToken:        c.ShareToken,
		CompletionPercent: c.CompletionPercent(),
		ReadOnly:          c.IsApproved(),
		CreatedAt:         c.CreatedAt,
		CompletedAt:       c.CompletedAt,
		ApprovedAt:        c.ApprovedAt,
		ApprovedBy:        c.ApprovedBy,
	}
	if withItems {
		resp.Items = make([]dto.CountingItemResponse, 0, len(c.Items))
		for _, it := range c.Items {
			resp.Items = append(resp.Items, toItemResponse(it))
		}
	}
	return resp
}

func toItemResponse(it entity.CountingItem) dto.CountingItemResponse {
	resp := dto.CountingItemResponse{
		ID:          it.ID,
		CountingID:  it.CountingID,
		ProductID:   it.ProductID,
		SectorID:    it.SectorID,
		ExpectedQty: it.ExpectedQty,
		CountedQty:  it.CountedQty,
		Notes:       it.Notes,
		CountedBy:   it.CountedBy,
		CountedAt:   it.CountedAt,
	}
	if diff, ok := it.Difference(); ok {
		resp.Difference = &diff
	}
	return resp
}

func toMovementResponse(m *entity.ProductMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		ProductID:      m.ProductID,
		Type:           m.Type,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
