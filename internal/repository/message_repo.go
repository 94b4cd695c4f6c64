package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindcare/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	CreateWithTouch(ctx context.Context, message domain.Message) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// CreateWithTouch inserta el mensaje y actualiza last_message_at de la
// sesion padre en una misma transaccion.
func (r *PgMessageRepository) CreateWithTouch(ctx context.Context, message domain.Message) error {
	var contextJSON []byte
	if len(message.Context) > 0 {
		b, err := json.Marshal(message.Context)
		if err != nil {
			return err
		}
		contextJSON = b
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO messages (id, session_id, role, content, language, risk_level, context, audio_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.Exec(ctx, insert,
		message.ID,
		message.SessionID,
		message.Role,
		message.Content,
		message.Language,
		string(message.RiskLevel),
		contextJSON,
		message.AudioURL,
		message.CreatedAt,
	); err != nil {
		return err
	}

	const touch = `
		UPDATE sessions SET last_message_at = $2 WHERE id = $1
	`
	if _, err := tx.Exec(ctx, touch, message.SessionID, message.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error) {
	const query = `
		SELECT id, session_id, role, content, language, risk_level, context, audio_url, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var risk string
		var contextJSON []byte

		err = rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Role,
			&msg.Content,
			&msg.Language,
			&risk,
			&contextJSON,
			&msg.AudioURL,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		msg.RiskLevel = domain.RiskLevel(risk)
		if len(contextJSON) > 0 {
			if err := json.Unmarshal(contextJSON, &msg.Context); err != nil {
				return nil, err
			}
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
