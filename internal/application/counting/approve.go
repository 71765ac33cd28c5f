package counting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// ApproveUseCase ejecuta la transición completed → approved y publica los
// movimientos de ajuste en una sola transacción: o se publican todos los
// movimientos del conteo, o el conteo queda en completed y la aprobación se
// puede reintentar.
//
// quantity_before del movimiento es el ExpectedQty congelado al crear el
// conteo y quantity_after el CountedQty capturado; el stock del producto se
// fija al valor contado. El conteo reconcilia contra su propia foto, no contra
// el stock vivo (decisión documentada en DESIGN.md).
type ApproveUseCase struct {
	txRunner     TxRunner
	countingRepo repository.CountingRepository
}

// NewApproveUseCase construye el caso de uso.
func NewApproveUseCase(txRunner TxRunner, countingRepo repository.CountingRepository) *ApproveUseCase {
	return &ApproveUseCase{txRunner: txRunner, countingRepo: countingRepo}
}

// Approve aprueba el conteo. Idempotencia con doble guarda: la transición es
// un UPDATE condicionado a status = completed (re-verificado en el punto de
// commit, no en estado del cliente) y la publicación consulta primero si ya
// existen movimientos con esta referencia. Un doble submit desde dos pestañas
// produce exactamente un juego de movimientos.
func (uc *ApproveUseCase) Approve(ctx context.Context, companyID, userID, countingID string) (*dto.CountingResponse, error) {
	c, err := uc.countingRepo.GetByID(countingID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if c.IsApproved() {
		return nil, domain.ErrCountingApproved
	}
	if c.Status != entity.CountingStatusCompleted {
		return nil, domain.ErrCountingNotReady
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		countingRepo repository.CountingRepository,
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		notificationRepo repository.NotificationRepository,
	) error {
		// Transición condicional: si otro actor aprobó entre la lectura y este
		// commit, ninguna fila cambia y la operación se rechaza.
		ok, err := countingRepo.Approve(countingID, userID, now)
		if err != nil {
			return err
		}
		if !ok {
			current, err := countingRepo.GetByID(countingID)
			if err != nil {
				return err
			}
			if current != nil && current.IsApproved() {
				return domain.ErrCountingApproved
			}
			return domain.ErrCountingNotReady
		}

		existing, err := movementRepo.ListByReference(countingID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			// Ya hay movimientos con esta referencia: publicar de nuevo sería
			// duplicar el ajuste. La re-invocación es no-op.
			return nil
		}

		for _, item := range c.Items {
			diff, counted := item.Difference()
			if !counted || diff.IsZero() {
				continue
			}
			mov := &entity.ProductMovement{
				ID:             uuid.New().String(),
				CompanyID:      c.CompanyID,
				ProductID:      item.ProductID,
				Type:           entity.MovementTypeAdjustment,
				QuantityBefore: item.ExpectedQty,
				QuantityAfter:  *item.CountedQty,
				ReferenceID:    c.ID,
				Notes:          item.Notes,
				CreatedBy:      userID,
				CreatedAt:      now,
			}
			if err := movementRepo.Create(mov); err != nil {
				return err
			}
			if err := productRepo.UpdateStock(item.ProductID, *item.CountedQty); err != nil {
				return err
			}
		}

		for _, target := range notifyTargets(c, userID) {
			notif := &entity.Notification{
				ID:        uuid.New().String(),
				CompanyID: c.CompanyID,
				UserID:    target,
				Kind:      entity.NotificationCountingApproved,
				Title:     "Conteo aprobado",
				Body:      c.Name,
				CreatedAt: now,
			}
			if err := notificationRepo.Create(notif); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.Status = entity.CountingStatusApproved
	c.ApprovedAt = &now
	c.ApprovedBy = userID
	return toCountingResponse(c, true), nil
}

// notifyTargets devuelve creador y asignado del conteo, sin duplicar y sin
// avisarle a quien aprueba.
func notifyTargets(c *entity.Counting, approver string) []string {
	var targets []string
	for _, id := range []string{c.CreatedBy, c.AssignedTo} {
		if id == "" || id == approver {
			continue
		}
		dup := false
		for _, t := range targets {
			if t == id {
				dup = true
				break
			}
		}
		if !dup {
			targets = append(targets, id)
		}
	}
	return targets
}
