package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la empresa.
// CurrentStock solo se modifica vía aprobación de conteos (movimientos de ajuste)
// o cargas administrativas; nunca por edición directa del formulario de producto.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	CurrentStock decimal.Decimal
	UnitMeasure  string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
