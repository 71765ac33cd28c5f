package counting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
	"github.com/cloudbpo/conteo-api/pkg/logger"
)

// EntryUseCase atiende el enlace público de captura: resolver el token de
// compartir, registrar cantidades por ítem y finalizar el conteo. No requiere
// sesión; el token opaco es la credencial.
//
// Todo acceso a datos pasa por el StoreSelector: si el remoto no responde, la
// captura sigue contra la caché SQLite local y se re-sincroniza después (los
// escritos son upserts por ID, reintentar es seguro).
type EntryUseCase struct {
	stores           StoreSelector
	notificationRepo repository.NotificationRepository
	log              *logger.Logger
}

// NewEntryUseCase construye el caso de uso público.
func NewEntryUseCase(stores StoreSelector, notificationRepo repository.NotificationRepository, log *logger.Logger) *EntryUseCase {
	return &EntryUseCase{stores: stores, notificationRepo: notificationRepo, log: log}
}

// Resolve busca el conteo por token de compartir o por ID (misma ruta de
// búsqueda para ambas formas de URL). Un conteo aprobado se devuelve en solo
// lectura; uno inexistente es ErrNotFound sin distinguir causa.
func (uc *EntryUseCase) Resolve(ctx context.Context, ref string) (*dto.CountingResponse, error) {
	if ref == "" {
		return nil, domain.ErrNotFound
	}
	c, err := uc.stores.Counting(ctx).GetByShareToken(ref)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCountingResponse(c, true)
	// El enlace público no re-expone el token que ya conoce el visitante.
	resp.ShareToken = ""
	return resp, nil
}

// CountItem registra la captura de un ítem: reemplazo del ítem completo keyed
// por su ID (last-write-wins entre dispositivos concurrentes, sin parcheo de
// campos sueltos). Si CountedQty viene nil solo se actualizan las notas.
func (uc *EntryUseCase) CountItem(ctx context.Context, ref, itemID string, in dto.CountItemRequest) (*dto.CountingItemResponse, error) {
	repo := uc.stores.Counting(ctx)
	c, err := repo.GetByShareToken(ref)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !c.AcceptsEntry() {
		return nil, domain.ErrCountingApproved
	}

	var item *entity.CountingItem
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			item = &c.Items[i]
			break
		}
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	if in.CountedQty != nil {
		if in.CountedQty.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.CountedQty = in.CountedQty
		item.CountedBy = in.CountedBy
		item.CountedAt = &now
	}
	item.Notes = in.Notes

	if err := repo.UpdateItem(item); err != nil {
		return nil, err
	}

	// Primera captura: el conteo pasa de pending/draft a in_progress. El estado
	// es derivado de la completitud; la escritura es no-op en otros estados.
	if c.Status == entity.CountingStatusDraft || c.Status == entity.CountingStatusPending {
		if err := repo.MarkInProgress(c.ID, now); err != nil {
			return nil, err
		}
	}

	resp := toItemResponse(*item)
	return &resp, nil
}

// Finalize cierra el conteo una vez capturados todos los ítems. La completitud
// se revalida contra el almacén, no contra lo que diga el cliente, y el cambio
// de estado es condicional: si otro actor lo completó o aprobó primero, se
// reporta ErrConflict en lugar de pisar el estado.
func (uc *EntryUseCase) Finalize(ctx context.Context, ref string) (*dto.CountingResponse, error) {
	repo := uc.stores.Counting(ctx)
	c, err := repo.GetByShareToken(ref)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.IsApproved() {
		return nil, domain.ErrCountingApproved
	}
	if !c.AllCounted() {
		return nil, domain.ErrCountingIncomplete
	}

	now := time.Now()
	ok, err := repo.Complete(c.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrConflict
	}

	c.Status = entity.CountingStatusCompleted
	c.CompletedAt = &now

	// Aviso al creador; mejor esfuerzo, no condiciona la transición.
	if uc.notificationRepo != nil && c.CreatedBy != "" {
		notif := &entity.Notification{
			ID:        uuid.New().String(),
			CompanyID: c.CompanyID,
			UserID:    c.CreatedBy,
			Kind:      entity.NotificationCountingCompleted,
			Title:     "Conteo completado",
			Body:      c.Name,
			CreatedAt: now,
		}
		if err := uc.notificationRepo.Create(notif); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).Str("counting_id", c.ID).Msg("no se pudo crear la notificación de conteo completado")
		}
	}

	resp := toCountingResponse(c, true)
	resp.ShareToken = ""
	return resp, nil
}
