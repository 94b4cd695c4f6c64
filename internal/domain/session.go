package domain

import "time"

// Roles validos para un turno de conversacion.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session representa una conversacion acotada de un usuario.
// Invariante: a lo sumo una sesion activa por owner.
type Session struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title,omitempty"`
	Language      string    `json:"language"`
	IsActive      bool      `json:"is_active"`
	IsArchived    bool      `json:"is_archived"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// SessionPreview anota una sesion con datos de listado sin cargar
// la transcripcion completa.
type SessionPreview struct {
	Session
	MessageCount int             `json:"message_count"`
	LastMessage  *MessagePreview `json:"last_message,omitempty"`
}

// MessagePreview es el ultimo mensaje resumido para listados.
type MessagePreview struct {
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
