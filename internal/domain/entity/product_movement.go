package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeAdjustment = "adjustment" // ajuste por conteo aprobado
	MovementTypeInitial    = "initial"    // carga inicial de stock
)

// ProductMovement registra un ajuste de inventario derivado de un conteo
// aprobado. ReferenceID es el ID del conteo que lo produjo; la aprobación crea
// exactamente un juego de movimientos por conteo (idempotencia por referencia).
type ProductMovement struct {
	ID             string
	CompanyID      string
	ProductID      string
	Type           string
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReferenceID    string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// Delta devuelve quantity_after − quantity_before.
func (m ProductMovement) Delta() decimal.Decimal {
	return m.QuantityAfter.Sub(m.QuantityBefore)
}
