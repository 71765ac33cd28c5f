package entity

import "time"

// Company representa una organización/tenant del sistema. Todo conteo, ítem y
// movimiento pertenece exactamente a una Company.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT/RUT según el país del tenant
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
