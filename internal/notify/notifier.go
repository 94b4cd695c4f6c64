package notify

import (
	"context"
	"errors"
	"time"

	"mindcare/internal/domain"
)

// EscalationEvent es el payload enviado al colaborador de notificaciones
// cuando un mensaje se clasifica HIGH.
type EscalationEvent struct {
	OwnerID    string           `json:"owner_id"`
	SessionID  string           `json:"session_id"`
	MessageID  string           `json:"message_id"`
	RiskLevel  domain.RiskLevel `json:"risk_level"`
	Excerpt    string           `json:"excerpt"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Notifier define la interfaz de escalamiento. Fire-and-forget desde el
// punto de vista del motor: un fallo aqui jamas bloquea el guardado del
// mensaje.
type Notifier interface {
	Notify(ctx context.Context, event EscalationEvent) error
}

type disabledNotifier struct {
	reason string
}

func NewDisabledNotifier(reason string) Notifier {
	return &disabledNotifier{reason: reason}
}

func (n *disabledNotifier) Notify(_ context.Context, _ EscalationEvent) error {
	if n.reason == "" {
		return errors.New("notifier disabled")
	}
	return errors.New(n.reason)
}
