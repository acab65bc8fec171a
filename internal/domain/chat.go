package domain

import (
	"context"
	"time"
)

// MaxMessageLength bounds a single chat message, in characters.
const MaxMessageLength = 2000

// PairKey is the chat id for two users. It does not depend on argument order,
// so a pair can only ever own one chat.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

type Chat struct {
	ID               string            `json:"id"`
	Participants     []string          `json:"participants"`
	ParticipantNames map[string]string `json:"participant_names"`
	ConnectionID     string            `json:"connection_id,omitempty"`
	LastMessage      string            `json:"last_message"`
	LastMessageAt    *time.Time        `json:"last_message_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the first participant that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// LastActivity is the last message time, or creation time for empty chats.
func (c *Chat) LastActivity() time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// ChatSummary is a chat with the other participant's details.
type ChatSummary struct {
	Chat
	Other MemberSummary `json:"other"`
}

type ChatRepository interface {
	// Upsert creates the chat if its pair key is new and leaves an existing chat untouched.
	Upsert(ctx context.Context, chat *Chat) error
	GetByID(ctx context.Context, id string) (*Chat, error)
	ListByParticipant(ctx context.Context, userID string) ([]Chat, error)
	CountByParticipant(ctx context.Context, userID string) (int, error)
	// AddMessage stores the message and updates the chat's last message.
	AddMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, chatID string) ([]Message, error)
	// Delete removes the chat and all of its messages.
	Delete(ctx context.Context, chatID string) error
}

type ChatUsecase interface {
	ListChats(ctx context.Context) ([]ChatSummary, error)
	GetMessages(ctx context.Context, chatID string) ([]Message, error)
	SendMessage(ctx context.Context, chatID, text string) (*Message, error)
	DeleteChat(ctx context.Context, chatID string) error
}
