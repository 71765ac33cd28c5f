package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/cloudbpo/conteo-api/internal/application/dto"
	"github.com/cloudbpo/conteo-api/internal/domain"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
	"github.com/cloudbpo/conteo-api/internal/domain/repository"
)

// MessageUseCase mensajería interna entre usuarios de la misma empresa.
// Enviar un mensaje genera además una notificación para el destinatario.
type MessageUseCase struct {
	repo             repository.MessageRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewMessageUseCase construye el caso de uso.
func NewMessageUseCase(
	repo repository.MessageRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *MessageUseCase {
	return &MessageUseCase{repo: repo, userRepo: userRepo, notificationRepo: notificationRepo}
}

// Send envía un mensaje a un usuario de la misma empresa.
func (uc *MessageUseCase) Send(companyID, senderID string, in dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if in.RecipientID == "" || in.Body == "" {
		return nil, domain.ErrInvalidInput
	}
	recipient, err := uc.userRepo.GetByID(in.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || recipient.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	msg := &entity.Message{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SenderID:    senderID,
		RecipientID: in.RecipientID,
		Subject:     in.Subject,
		Body:        in.Body,
		CreatedAt:   now,
	}
	if err := uc.repo.Create(msg); err != nil {
		return nil, err
	}
	notif := &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    in.RecipientID,
		Kind:      entity.NotificationMessageReceived,
		Title:     "Nuevo mensaje",
		Body:      in.Subject,
		CreatedAt: now,
	}
	// Mejor esfuerzo: un fallo en la notificación no invalida el mensaje ya guardado.
	_ = uc.notificationRepo.Create(notif)

	resp := toMessageResponse(msg)
	return &resp, nil
}

// Inbox lista los mensajes recibidos por el usuario.
func (uc *MessageUseCase) Inbox(userID string, limit, offset int) (*dto.MessageListResponse, error) {
	list, err := uc.repo.ListByRecipient(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MessageResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMessageResponse(m))
	}
	return &dto.MessageListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// MarkRead marca un mensaje del usuario como leído.
func (uc *MessageUseCase) MarkRead(userID, messageID string) error {
	msg, err := uc.repo.GetByID(messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.RecipientID != userID {
		return domain.ErrNotFound
	}
	return uc.repo.MarkRead(messageID, time.Now())
}

func toMessageResponse(m *entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Subject:     m.Subject,
		Body:        m.Body,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}
