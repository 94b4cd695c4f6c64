package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"mindcare/internal/domain"
	"mindcare/internal/notify"
	"mindcare/internal/repository"
	"mindcare/internal/risk"
)

// MessageService encapsula la logica para agregar y leer mensajes.
type MessageService struct {
	logger     *zap.Logger
	sessions   repository.SessionRepository
	messages   repository.MessageRepository
	classifier risk.Classifier
	notifier   notify.Notifier
	limiter    AppendRateLimiter
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrAppendRateLimited           = errors.New("append rate limited")
)

// classifyTimeout acota la llamada al clasificador externo; si vence,
// el mensaje se guarda igual con riesgo NONE.
const classifyTimeout = 3 * time.Second

const escalationExcerptLimit = 280

func NewMessageService(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	classifier risk.Classifier,
	notifier notify.Notifier,
	limiter AppendRateLimiter,
) *MessageService {
	return &MessageService{
		logger:     logger,
		sessions:   sessions,
		messages:   messages,
		classifier: classifier,
		notifier:   notifier,
		limiter:    limiter,
	}
}

// AppendInput agrupa los campos de un turno entrante.
type AppendInput struct {
	Role     string
	Content  string
	Language string
	AudioURL string
	Context  map[string]string
}

// Append clasifica el contenido, persiste el mensaje junto con el touch de
// last_message_at y, si el riesgo es HIGH, dispara el escalamiento sin
// bloquear ni fallar el guardado.
func (s *MessageService) Append(ctx context.Context, ownerID, sessionID string, input AppendInput) (domain.Message, error) {
	if s == nil || s.sessions == nil || s.messages == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	sessionID = strings.TrimSpace(sessionID)
	role := strings.TrimSpace(input.Role)
	content := strings.TrimSpace(input.Content)

	if ownerID == "" || sessionID == "" {
		return domain.Message{}, fmt.Errorf("%w: session and owner ids are required", domain.ErrInvalidArgument)
	}
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return domain.Message{}, fmt.Errorf("%w: role must be user or assistant", domain.ErrInvalidArgument)
	}
	if content == "" {
		return domain.Message{}, fmt.Errorf("%w: content is required", domain.ErrInvalidArgument)
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
		}
		return domain.Message{}, fmt.Errorf("%w: lookup session: %v", domain.ErrStoreFailure, err)
	}
	if session.OwnerID != ownerID {
		return domain.Message{}, fmt.Errorf("%w: session %s", domain.ErrForbidden, sessionID)
	}

	if s.limiter != nil && !s.limiter.Allow(ownerID) {
		return domain.Message{}, ErrAppendRateLimited
	}

	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = session.Language
	}

	level := s.classify(ctx, content, language)

	msg := domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Language:  language,
		RiskLevel: level,
		Context:   input.Context,
		AudioURL:  strings.TrimSpace(input.AudioURL),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.messages.CreateWithTouch(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("%w: create message: %v", domain.ErrStoreFailure, err)
	}

	if level == domain.RiskHigh {
		s.escalate(session, msg)
	}

	return msg, nil
}

// ListBySession devuelve la transcripcion ordenada de una sesion del owner.
func (s *MessageService) ListBySession(ctx context.Context, ownerID, sessionID string) ([]domain.Message, error) {
	if s == nil || s.sessions == nil || s.messages == nil {
		return nil, ErrMessageServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	sessionID = strings.TrimSpace(sessionID)
	if ownerID == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: session and owner ids are required", domain.ErrInvalidArgument)
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: lookup session: %v", domain.ErrStoreFailure, err)
	}
	if session.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: session %s", domain.ErrForbidden, sessionID)
	}

	messages, err := s.messages.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", domain.ErrStoreFailure, err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// classify degrada a NONE ante cualquier fallo del colaborador externo:
// el guardado del mensaje nunca se pierde por un scoring fallido.
func (s *MessageService) classify(ctx context.Context, content, language string) domain.RiskLevel {
	if s.classifier == nil {
		return domain.RiskNone
	}

	classifyCtx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	level, err := s.classifier.Classify(classifyCtx, content, language)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("risk classification failed, defaulting to NONE", zap.Error(err))
		}
		return domain.RiskNone
	}
	return level
}

// escalate notifica al colaborador externo de forma asincrona; los
// fallos se loguean y se descartan.
func (s *MessageService) escalate(session domain.Session, msg domain.Message) {
	if s.notifier == nil {
		return
	}

	excerpt := msg.Content
	if len(excerpt) > escalationExcerptLimit {
		excerpt = excerpt[:escalationExcerptLimit]
	}

	event := notify.EscalationEvent{
		OwnerID:    session.OwnerID,
		SessionID:  session.ID,
		MessageID:  msg.ID,
		RiskLevel:  msg.RiskLevel,
		Excerpt:    excerpt,
		OccurredAt: msg.CreatedAt,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, event); err != nil && s.logger != nil {
			s.logger.Warn("escalation notify failed",
				zap.Error(err),
				zap.String("session_id", event.SessionID),
				zap.String("message_id", event.MessageID),
			)
		}
	}()
}
