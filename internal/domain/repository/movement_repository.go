package repository

import "github.com/cloudbpo/conteo-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para movimientos de
// inventario derivados de conteos (DIP).
type MovementRepository interface {
	Create(movement *entity.ProductMovement) error
	// ListByReference devuelve los movimientos generados por un conteo;
	// lista vacía significa que la aprobación aún no publicó ajustes.
	ListByReference(referenceID string) ([]*entity.ProductMovement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.ProductMovement, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ProductMovement, error)
}
