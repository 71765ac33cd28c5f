package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCountingRequest crea un conteo sobre los sectores indicados.
type CreateCountingRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	SectorIDs   []string `json:"sector_ids" validate:"required,min=1"`
	AssignedTo  string   `json:"assigned_to"`
}

// CountItemRequest captura pública de un ítem: cantidad contada y notas.
// Reemplaza el ítem completo; no hay parcheo por campo.
type CountItemRequest struct {
	CountedQty *decimal.Decimal `json:"counted_qty"`
	Notes      string           `json:"notes"`
	CountedBy  string           `json:"counted_by"` // nombre libre: el enlace público no tiene sesión
}

// CountingItemResponse línea de conteo con la diferencia derivada.
type CountingItemResponse struct {
	ID          string           `json:"id"`
	CountingID  string           `json:"counting_id"`
	ProductID   string           `json:"product_id"`
	SectorID    string           `json:"sector_id"`
	ExpectedQty decimal.Decimal  `json:"expected_qty"`
	CountedQty  *decimal.Decimal `json:"counted_qty,omitempty"`
	Difference  *decimal.Decimal `json:"difference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CountedBy   string           `json:"counted_by,omitempty"`
	CountedAt   *time.Time       `json:"counted_at,omitempty"`
}

// CountingResponse conteo con avance y, opcionalmente, sus ítems.
type CountingResponse struct {
	ID                string                 `json:"id"`
	CompanyID         string                 `json:"company_id"`
	Name              string                 `json:"name"`
	Description       string                 `json:"description,omitempty"`
	Status            string                 `json:"status"`
	CreatedBy         string                 `json:"created_by"`
	AssignedTo        string                 `json:"assigned_to,omitempty"`
	SectorIDs         []string               `json:"sector_ids"`
	ShareToken        string                 `json:"share_token,omitempty"`
	CompletionPercent float64                `json:"completion_percent"`
	ReadOnly          bool                   `json:"read_only"`
	Items             []CountingItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	ApprovedAt        *time.Time             `json:"approved_at,omitempty"`
	ApprovedBy        string                 `json:"approved_by,omitempty"`
}

// CountingListResponse listado paginado de conteos.
type CountingListResponse struct {
	Items []CountingResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementResponse movimiento de ajuste derivado de un conteo aprobado.
type MovementResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	ReferenceID    string          `json:"reference_id"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
