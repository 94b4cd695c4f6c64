package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare/internal/domain"
)

// SessionRepository define el contrato de persistencia para sesiones.
type SessionRepository interface {
	CreateActive(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SessionPreview, error)
	Archive(ctx context.Context, id, ownerID string) error
	DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int, error)
	ListOwnerIDs(ctx context.Context) ([]string, error)
}

// PgSessionRepository implementa SessionRepository usando pgxpool.
type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

// CreateActive desactiva la sesion activa previa del owner e inserta la
// nueva como activa en una sola transaccion. Un lector concurrente nunca
// observa dos sesiones activas ni cero durante el swap.
func (r *PgSessionRepository) CreateActive(ctx context.Context, session domain.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const deactivate = `
		UPDATE sessions
		SET is_active = false
		WHERE owner_id = $1 AND is_active = true
	`
	if _, err := tx.Exec(ctx, deactivate, session.OwnerID); err != nil {
		return err
	}

	const insert = `
		INSERT INTO sessions (id, owner_id, title, language, is_active, is_archived, created_at, last_message_at)
		VALUES ($1, $2, $3, $4, true, false, $5, $6)
	`
	if _, err := tx.Exec(ctx, insert,
		session.ID,
		session.OwnerID,
		session.Title,
		session.Language,
		session.CreatedAt,
		session.LastMessageAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	const query = `
		SELECT id, owner_id, title, language, is_active, is_archived, created_at, last_message_at
		FROM sessions
		WHERE id = $1
	`
	var s domain.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.OwnerID,
		&s.Title,
		&s.Language,
		&s.IsActive,
		&s.IsArchived,
		&s.CreatedAt,
		&s.LastMessageAt,
	)
	return s, err
}

// ListByOwner devuelve las sesiones no archivadas con conteo de mensajes y
// el ultimo mensaje, sin cargar transcripciones completas.
func (r *PgSessionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.SessionPreview, error) {
	const query = `
		SELECT s.id, s.owner_id, s.title, s.language, s.is_active, s.is_archived,
		       s.created_at, s.last_message_at,
		       COALESCE(mc.total, 0),
		       lm.content, lm.role, lm.created_at
		FROM sessions s
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS total
			FROM messages m
			WHERE m.session_id = s.id
		) mc ON true
		LEFT JOIN LATERAL (
			SELECT m.content, m.role, m.created_at
			FROM messages m
			WHERE m.session_id = s.id
			ORDER BY m.created_at DESC
			LIMIT 1
		) lm ON true
		WHERE s.owner_id = $1 AND s.is_archived = false
		ORDER BY s.last_message_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	previews := []domain.SessionPreview{}
	for rows.Next() {
		var p domain.SessionPreview
		var lastContent, lastRole *string
		var lastAt *time.Time

		err = rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Title,
			&p.Language,
			&p.IsActive,
			&p.IsArchived,
			&p.CreatedAt,
			&p.LastMessageAt,
			&p.MessageCount,
			&lastContent,
			&lastRole,
			&lastAt,
		)
		if err != nil {
			return nil, err
		}
		if lastContent != nil && lastRole != nil && lastAt != nil {
			p.LastMessage = &domain.MessagePreview{
				Content:   *lastContent,
				Role:      *lastRole,
				CreatedAt: *lastAt,
			}
		}
		previews = append(previews, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return previews, nil
}

// Archive marca una sesion como archivada (soft delete) y la desactiva.
func (r *PgSessionRepository) Archive(ctx context.Context, id, ownerID string) error {
	const query = `
		UPDATE sessions
		SET is_archived = true, is_active = false
		WHERE id = $1 AND owner_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteOlderThan borra en cascada (mensajes + sesion) toda sesion del owner
// con last_message_at anterior al corte. Una sola transaccion: nunca queda
// una sesion a medio borrar.
func (r *PgSessionRepository) DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const deleteMessages = `
		DELETE FROM messages m
		USING sessions s
		WHERE m.session_id = s.id AND s.owner_id = $1 AND s.last_message_at < $2
	`
	if _, err := tx.Exec(ctx, deleteMessages, ownerID, cutoff); err != nil {
		return 0, err
	}

	const deleteSessions = `
		DELETE FROM sessions
		WHERE owner_id = $1 AND last_message_at < $2
	`
	tag, err := tx.Exec(ctx, deleteSessions, ownerID, cutoff)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

// ListOwnerIDs devuelve los owners con al menos una sesion, para la corrida
// administrativa de retencion.
func (r *PgSessionRepository) ListOwnerIDs(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT owner_id FROM sessions ORDER BY owner_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}
