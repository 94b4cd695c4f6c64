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
	"mindcare/internal/repository"
)

// SessionService maneja el ciclo de vida de sesiones de conversacion.
type SessionService struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	users    repository.UserRepository
}

var ErrSessionServiceNotConfigured = errors.New("session service not configured")

const defaultLanguage = "en"

func NewSessionService(logger *zap.Logger, sessions repository.SessionRepository, users repository.UserRepository) *SessionService {
	return &SessionService{
		logger:   logger,
		sessions: sessions,
		users:    users,
	}
}

// Create desactiva la sesion activa previa del owner y crea una nueva
// activa. El swap completo es una transaccion del repositorio.
func (s *SessionService) Create(ctx context.Context, ownerID, title, language string) (domain.Session, error) {
	if s == nil || s.sessions == nil || s.users == nil {
		return domain.Session{}, ErrSessionServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return domain.Session{}, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("%w: owner %s", domain.ErrNotFound, ownerID)
		}
		return domain.Session{}, fmt.Errorf("%w: lookup owner: %v", domain.ErrStoreFailure, err)
	}

	language = strings.TrimSpace(language)
	if language == "" {
		language = defaultLanguage
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(title),
		Language:      language,
		IsActive:      true,
		CreatedAt:     now,
		LastMessageAt: now,
	}

	if err := s.sessions.CreateActive(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("%w: create session: %v", domain.ErrStoreFailure, err)
	}

	return session, nil
}

// List devuelve las sesiones no archivadas del owner, mas recientes
// primero, con conteo y ultimo mensaje para previews.
func (s *SessionService) List(ctx context.Context, ownerID string) ([]domain.SessionPreview, error) {
	if s == nil || s.sessions == nil {
		return nil, ErrSessionServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}

	previews, err := s.sessions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrStoreFailure, err)
	}
	if previews == nil {
		previews = []domain.SessionPreview{}
	}
	return previews, nil
}

// Archive marca una sesion del owner como archivada.
func (s *SessionService) Archive(ctx context.Context, sessionID, ownerID string) error {
	if s == nil || s.sessions == nil {
		return ErrSessionServiceNotConfigured
	}

	sessionID = strings.TrimSpace(sessionID)
	ownerID = strings.TrimSpace(ownerID)
	if sessionID == "" || ownerID == "" {
		return fmt.Errorf("%w: session and owner ids are required", domain.ErrInvalidArgument)
	}

	if err := s.sessions.Archive(ctx, sessionID, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
		}
		return fmt.Errorf("%w: archive session: %v", domain.ErrStoreFailure, err)
	}
	return nil
}
