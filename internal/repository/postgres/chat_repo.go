package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"skillmates-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type chatRepo struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) domain.ChatRepository {
	return &chatRepo{db: db}
}

const chatColumns = `id, participants, participant_names::text, COALESCE(connection_id::text, ''),
	COALESCE(last_message, ''), last_message_at, created_at`

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var (
		c     domain.Chat
		names string
	)
	err := row.Scan(&c.ID, pq.Array(&c.Participants), &names, &c.ConnectionID, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal([]byte(names), &c.ParticipantNames); err != nil {
		return nil, fmt.Errorf("decode participant names: %w", err)
	}
	return &c, nil
}

func (r *chatRepo) Upsert(ctx context.Context, c *domain.Chat) error {
	names, err := json.Marshal(c.ParticipantNames)
	if err != nil {
		return err
	}

	var connID interface{}
	if c.ConnectionID != "" {
		connID = c.ConnectionID
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO chats (id, participants, participant_names, connection_id, created_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		c.ID, pq.Array(c.Participants), string(names), connID, c.CreatedAt,
	)
	return err
}

func (r *chatRepo) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	return scanChat(r.db.QueryRow(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id))
}

func (r *chatRepo) ListByParticipant(ctx context.Context, userID string) ([]domain.Chat, error) {
	rows, err := r.db.Query(ctx, `SELECT `+chatColumns+` FROM chats
		WHERE participants @> ARRAY[$1]::text[]
		ORDER BY COALESCE(last_message_at, created_at) DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []domain.Chat{}
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}
	return chats, rows.Err()
}

func (r *chatRepo) CountByParticipant(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chats WHERE participants @> ARRAY[$1]::text[]`, userID).Scan(&n)
	return n, err
}

func (r *chatRepo) AddMessage(ctx context.Context, m *domain.Message) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO messages (id, chat_id, sender_id, sender_name, text, sent_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, m.ChatID, m.SenderID, m.SenderName, m.Text, m.SentAt,
		)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE chats SET last_message = $2, last_message_at = $3 WHERE id = $1`,
			m.ChatID, m.Text, m.SentAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *chatRepo) ListMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, chat_id, sender_id, sender_name, text, sent_at
		FROM messages WHERE chat_id = $1
		ORDER BY sent_at ASC, id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.SenderName, &m.Text, &m.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *chatRepo) Delete(ctx context.Context, chatID string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE chat_id = $1`, chatID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM chats WHERE id = $1`, chatID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
