package repository

import (
	"time"

	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

// CountingRepository define el puerto de persistencia para conteos y sus ítems (DIP).
//
// Las transiciones Complete y Approve son actualizaciones condicionadas por el
// estado vigente en la base: devuelven false si ninguna fila cambió, lo que
// significa que otro actor movió el conteo primero. Esa verificación en el
// punto de commit es la que cierra la carrera de doble aprobación desde dos
// pestañas (ver usecase de conteo).
type CountingRepository interface {
	Create(counting *entity.Counting) error
	GetByID(id string) (*entity.Counting, error)
	// GetByShareToken resuelve por token de compartir o por ID del conteo;
	// ambas formas de URL pasan por este único camino de búsqueda.
	GetByShareToken(ref string) (*entity.Counting, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Counting, error)

	// UpdateItem reemplaza el ítem completo (keyed por su ID); nunca parchea
	// campos sueltos para no entrelazar escrituras concurrentes.
	UpdateItem(item *entity.CountingItem) error

	// MarkInProgress mueve draft/pending a in_progress; no-op en cualquier otro estado.
	MarkInProgress(id string, at time.Time) error
	// Complete marca el conteo como completado solo si aún no lo está.
	Complete(id string, at time.Time) (bool, error)
	// Approve marca el conteo como aprobado solo si está completado.
	Approve(id, approvedBy string, at time.Time) (bool, error)
}
