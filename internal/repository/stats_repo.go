package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare/internal/domain"
)

// StatsRepository expone los agregados agrupados para estadisticas.
// Cada metodo es una sola pasada SQL; nunca un query por sesion.
type StatsRepository interface {
	SessionCount(ctx context.Context, ownerID string) (int, error)
	MessageCountsByRisk(ctx context.Context, ownerID string) (map[domain.RiskLevel]int, error)
	ActivityByDay(ctx context.Context, ownerID string) ([]domain.DayActivity, error)
}

// PgStatsRepository implementa StatsRepository usando pgxpool.
type PgStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgStatsRepository(pool *pgxpool.Pool) *PgStatsRepository {
	return &PgStatsRepository{pool: pool}
}

func (r *PgStatsRepository) SessionCount(ctx context.Context, ownerID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM sessions WHERE owner_id = $1
	`
	var count int
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count)
	return count, err
}

func (r *PgStatsRepository) MessageCountsByRisk(ctx context.Context, ownerID string) (map[domain.RiskLevel]int, error) {
	const query = `
		SELECT m.risk_level, COUNT(*)
		FROM messages m
		JOIN sessions s ON s.id = m.session_id
		WHERE s.owner_id = $1
		GROUP BY m.risk_level
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RiskLevel]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		counts[domain.RiskLevel(level)] = count
	}
	return counts, rows.Err()
}

func (r *PgStatsRepository) ActivityByDay(ctx context.Context, ownerID string) ([]domain.DayActivity, error) {
	const query = `
		SELECT date_trunc('day', m.created_at) AS day, COUNT(*)
		FROM messages m
		JOIN sessions s ON s.id = m.session_id
		WHERE s.owner_id = $1
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []domain.DayActivity
	for rows.Next() {
		var a domain.DayActivity
		if err := rows.Scan(&a.Day, &a.Messages); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
