package repository

import (
	"time"

	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

// MessageRepository define el puerto de persistencia para mensajería interna (DIP).
type MessageRepository interface {
	Create(message *entity.Message) error
	GetByID(id string) (*entity.Message, error)
	ListByRecipient(userID string, limit, offset int) ([]*entity.Message, error)
	MarkRead(id string, at time.Time) error
}

// NotificationRepository define el puerto de persistencia para notificaciones (DIP).
type NotificationRepository interface {
	Create(notification *entity.Notification) error
	ListByUser(userID string, limit, offset int) ([]*entity.Notification, error)
	MarkRead(id string, at time.Time) error
}
