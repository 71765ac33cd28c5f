package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	UnitMeasure  string          `json:"unit_measure"`
}

// UpdateProductRequest edición parcial; el stock no se toca por aquí.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	UnitMeasure *string `json:"unit_measure"`
	Active      *bool   `json:"active"`
}

// ProductResponse representación de salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	UnitMeasure  string          `json:"unit_measure,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
