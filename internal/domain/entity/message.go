package entity

import "time"

// Message es un mensaje interno entre usuarios de la misma empresa.
type Message struct {
	ID          string
	CompanyID   string
	SenderID    string
	RecipientID string
	Subject     string
	Body        string
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// Tipos de notificación emitidos por el flujo de conteo.
const (
	NotificationCountingCompleted = "counting_completed"
	NotificationCountingApproved  = "counting_approved"
	NotificationMessageReceived   = "message_received"
)

// Notification es un aviso dirigido a un usuario (campana de la UI).
type Notification struct {
	ID        string
	CompanyID string
	UserID    string
	Kind      string
	Title     string
	Body      string
	ReadAt    *time.Time
	CreatedAt time.Time
}
