package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mindcare/internal/domain"
	"mindcare/internal/repository"
)

// StatsService calcula metricas de uso por owner. El snapshot es derivado:
// se recalcula desde el store en cada lectura, sin cache.
type StatsService struct {
	logger *zap.Logger
	stats  repository.StatsRepository
}

var ErrStatsServiceNotConfigured = errors.New("stats service not configured")

func NewStatsService(logger *zap.Logger, stats repository.StatsRepository) *StatsService {
	return &StatsService{
		logger: logger,
		stats:  stats,
	}
}

// GetStatistics agrega conteos de sesiones, mensajes por riesgo, actividad
// por dia y promedio de mensajes por sesion. Un owner sin sesiones recibe
// un snapshot en cero, no un error.
func (s *StatsService) GetStatistics(ctx context.Context, ownerID string) (domain.Statistics, error) {
	if s == nil || s.stats == nil {
		return domain.Statistics{}, ErrStatsServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return domain.Statistics{}, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}

	stats := domain.EmptyStatistics()

	sessionCount, err := s.stats.SessionCount(ctx, ownerID)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: session count: %v", domain.ErrStoreFailure, err)
	}
	stats.TotalSessions = sessionCount

	if sessionCount == 0 {
		return stats, nil
	}

	byRisk, err := s.stats.MessageCountsByRisk(ctx, ownerID)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: risk counts: %v", domain.ErrStoreFailure, err)
	}
	total := 0
	for level, count := range byRisk {
		stats.MessagesByRisk[level] = count
		total += count
	}
	stats.TotalMessages = total

	activity, err := s.stats.ActivityByDay(ctx, ownerID)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: activity by day: %v", domain.ErrStoreFailure, err)
	}
	if activity != nil {
		stats.ActivityByDay = activity
	}

	stats.AvgMessagesPerSession = float64(total) / float64(sessionCount)

	return stats, nil
}
