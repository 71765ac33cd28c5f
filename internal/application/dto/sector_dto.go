package dto

import "time"

// CreateSectorRequest alta de un sector de conteo.
type CreateSectorRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateSectorRequest edición parcial de un sector.
type UpdateSectorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AssignProductRequest vincula un producto al sector.
type AssignProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// SectorResponse representación de salida de un sector.
type SectorResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SectorListResponse listado paginado de sectores.
type SectorListResponse struct {
	Items []SectorResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
