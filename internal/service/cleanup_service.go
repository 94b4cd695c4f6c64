package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindcare/internal/domain"
	"mindcare/internal/repository"
)

// CleanupService implementa la politica de retencion: borra sesiones cuyo
// ultimo mensaje es mas viejo que el umbral pedido por el caller.
type CleanupService struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	now      func() time.Time
}

var ErrCleanupServiceNotConfigured = errors.New("cleanup service not configured")

func NewCleanupService(logger *zap.Logger, sessions repository.SessionRepository) *CleanupService {
	return &CleanupService{
		logger:   logger,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CleanupOldSessions borra en cascada las sesiones del owner con
// last_message_at anterior a now - daysToKeep dias. Idempotente: una
// segunda corrida con el mismo umbral borra cero. Ante error reporta
// cero borradas y el error.
func (s *CleanupService) CleanupOldSessions(ctx context.Context, ownerID string, daysToKeep int) (int, error) {
	if s == nil || s.sessions == nil {
		return 0, ErrCleanupServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return 0, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}
	if daysToKeep <= 0 {
		return 0, fmt.Errorf("%w: days to keep must be positive, got %d", domain.ErrInvalidArgument, daysToKeep)
	}

	cutoff := s.now().AddDate(0, 0, -daysToKeep)

	deleted, err := s.sessions.DeleteOlderThan(ctx, ownerID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete old sessions: %v", domain.ErrStoreFailure, err)
	}

	if deleted > 0 && s.logger != nil {
		s.logger.Info("retention cleanup",
			zap.String("owner_id", ownerID),
			zap.Int("days_to_keep", daysToKeep),
			zap.Int("deleted", deleted),
		)
	}

	return deleted, nil
}
