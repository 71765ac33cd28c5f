package counting

import (
	"context"

	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la aprobación publique todos los
// movimientos del conteo o ninguno: si algo falla, el conteo queda en
// "completed" y la operación es reintentable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		countingRepo repository.CountingRepository,
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		notificationRepo repository.NotificationRepository,
	) error) error
}

// StoreSelector es el único punto de decisión remoto/local (ver nota de diseño
// del respaldo). La captura pública pide aquí su repositorio de conteos; en
// operación normal devuelve el de PostgreSQL, y si el remoto no responde, el
// de la caché SQLite.
type StoreSelector interface {
	Counting(ctx context.Context) repository.CountingRepository
}

// ReportGenerator genera el acta de conteo en PDF (implementada con Maroto).
type ReportGenerator interface {
	GenerateCountingReport(
		ctx context.Context,
		counting *entity.Counting,
		company *entity.Company,
		products map[string]*entity.Product,
		sectors map[string]*entity.Sector,
	) ([]byte, error)
}
