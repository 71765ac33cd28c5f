package entity

import "time"

// Sector representa una zona física de conteo (bodega, pasillo, nevera, etc.).
// Los productos se asignan a sectores y el conteo genera un ítem por producto
// en cada sector seleccionado.
type Sector struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SectorProduct vincula un producto a un sector de la misma empresa.
type SectorProduct struct {
	ID        string
	SectorID  string
	ProductID string
	CreatedAt time.Time
}
