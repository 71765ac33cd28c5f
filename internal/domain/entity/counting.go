package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un conteo. El orden es estrictamente hacia
// adelante: draft/pending → in_progress → completed → approved. Ninguna
// operación del flujo retrocede un estado; eso queda para intervención
// administrativa fuera de la API.
const (
	CountingStatusDraft      = "draft"
	CountingStatusPending    = "pending"
	CountingStatusInProgress = "in_progress"
	CountingStatusCompleted  = "completed"
	CountingStatusApproved   = "approved"
)

// Counting representa un ejercicio de conteo de inventario sobre un conjunto
// de sectores/productos de una empresa. ShareToken es una credencial opaca que
// permite capturar cantidades sin sesión.
type Counting struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Status      string
	CreatedBy   string
	AssignedTo  string
	SectorIDs   []string
	ShareToken  string
	Items       []CountingItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	ApprovedAt  *time.Time
	ApprovedBy  string
}

// CountingItem es una línea del conteo: un producto en un sector con la
// cantidad esperada congelada al crear el conteo. CountedQty es nil hasta que
// alguien la captura; la diferencia siempre se deriva, nunca se almacena.
type CountingItem struct {
	ID          string
	CountingID  string
	ProductID   string
	SectorID    string
	ExpectedQty decimal.Decimal
	CountedQty  *decimal.Decimal
	Notes       string
	CountedBy   string
	CountedAt   *time.Time
}

// Difference devuelve counted − expected y un bool indicando si la cantidad fue
// capturada. Sin captura no hay diferencia que reportar.
func (i CountingItem) Difference() (decimal.Decimal, bool) {
	if i.CountedQty == nil {
		return decimal.Zero, false
	}
	return i.CountedQty.Sub(i.ExpectedQty), true
}

// Counted indica si el ítem ya tiene cantidad registrada.
func (i CountingItem) Counted() bool {
	return i.CountedQty != nil
}

// CountedItems devuelve cuántos ítems ya tienen cantidad registrada.
func (c Counting) CountedItems() int {
	n := 0
	for _, it := range c.Items {
		if it.Counted() {
			n++
		}
	}
	return n
}

// CompletionPercent devuelve el porcentaje de avance redondeado a un decimal
// (ej. 2 de 3 ítems → 66.7). Un conteo sin ítems se considera 0%.
func (c Counting) CompletionPercent() float64 {
	if len(c.Items) == 0 {
		return 0
	}
	pct := float64(c.CountedItems()) / float64(len(c.Items)) * 100
	return float64(int(pct*10+0.5)) / 10
}

// AllCounted indica si todos los ítems tienen cantidad registrada.
func (c Counting) AllCounted() bool {
	return len(c.Items) > 0 && c.CountedItems() == len(c.Items)
}

// IsApproved indica estado terminal: solo lectura para el enlace público.
func (c Counting) IsApproved() bool {
	return c.Status == CountingStatusApproved
}

// AcceptsEntry indica si el enlace público admite escrituras de ítems.
func (c Counting) AcceptsEntry() bool {
	return !c.IsApproved()
}

// statusRank ordena los estados para validar transiciones hacia adelante.
// draft y pending comparten rango: ambos son "sin iniciar".
func statusRank(status string) int {
	switch status {
	case CountingStatusDraft, CountingStatusPending:
		return 0
	case CountingStatusInProgress:
		return 1
	case CountingStatusCompleted:
		return 2
	case CountingStatusApproved:
		return 3
	default:
		return -1
	}
}

// CanTransition valida que el cambio de estado avance en el ciclo de vida.
func CanTransition(from, to string) bool {
	fr, tr := statusRank(from), statusRank(to)
	if fr < 0 || tr < 0 {
		return false
	}
	return tr > fr
}
