package dto

import "time"

// SendMessageRequest mensaje interno entre usuarios de la misma empresa.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject"`
	Body        string `json:"body" validate:"required"`
}

// MessageResponse representación de salida de un mensaje.
type MessageResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Subject     string     `json:"subject,omitempty"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MessageListResponse listado paginado de mensajes.
type MessageListResponse struct {
	Items []MessageResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NotificationResponse aviso dirigido a un usuario.
type NotificationResponse struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"company_id"`
	UserID    string     `json:"user_id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationListResponse listado paginado de notificaciones.
type NotificationListResponse struct {
	Items []NotificationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
